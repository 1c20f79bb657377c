package penpot

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func testFile() *File {
	return &File{
		Id: "file-1",
		Data: map[string]any{
			"data": map[string]any{
				"pagesIndex": map[string]any{
					"page-1": map[string]any{
						"name": "Landing",
						"objects": map[string]any{
							"frame-1": map[string]any{
								"name":   "Hero Frame",
								"type":   "frame",
								"x":      0.0,
								"width":  1200.0,
								"shapes": []any{"rect-1", "text-1"},
							},
							"rect-1": map[string]any{
								"name": "Download Button",
								"type": "rect",
								"x":    40.0,
							},
							"text-1": map[string]any{
								"name": "Headline",
								"type": "text",
							},
						},
					},
				},
			},
		},
	}
}

func TestSearchObjects(t *testing.T) {
	matches, err := SearchObjects(testFile(), "download")
	assert.Equal(t, err, nil)
	assert.Equal(t, len(matches), 1)
	assert.Equal(t, matches[0].Id, "rect-1")
	assert.Equal(t, matches[0].PageId, "page-1")
	assert.Equal(t, matches[0].PageName, "Landing")
	assert.Equal(t, matches[0].Type, "rect")

	matches, err = SearchObjects(testFile(), "^he")
	assert.Equal(t, err, nil)
	assert.Equal(t, len(matches), 2)

	_, err = SearchObjects(testFile(), "[")
	assert.NotEqual(t, err, nil)
}

func TestObjectSubtree(t *testing.T) {
	tree, pageId, err := ObjectSubtree(testFile(), "frame-1", []string{"name", "type"}, -1)
	assert.Equal(t, err, nil)
	assert.Equal(t, pageId, "page-1")
	assert.Equal(t, tree["id"], "frame-1")
	assert.Equal(t, tree["name"], "Hero Frame")
	// unselected fields are projected away
	_, hasX := tree["x"]
	assert.Equal(t, hasX, false)

	children := tree["children"].([]map[string]any)
	assert.Equal(t, len(children), 2)
	assert.Equal(t, children[0]["id"], "rect-1")

	// depth 0 cuts the recursion
	tree, _, err = ObjectSubtree(testFile(), "frame-1", []string{"name"}, 0)
	assert.Equal(t, err, nil)
	_, hasChildren := tree["children"]
	assert.Equal(t, hasChildren, false)

	_, _, err = ObjectSubtree(testFile(), "missing", nil, -1)
	assert.NotEqual(t, err, nil)
}
