package penpot

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestNewRectangleGeometry(t *testing.T) {
	rect := NewRectangle(&RectangleArgs{
		X:         100,
		Y:         200,
		Width:     300,
		Height:    150,
		FillColor: "#ff0000",
	})

	assert.Equal(t, rect["type"], "rect")
	assert.Equal(t, rect["name"], "Rectangle")

	selrect := rect["selrect"].(map[string]any)
	assert.Equal(t, selrect["x2"], 400.0)
	assert.Equal(t, selrect["y2"], 350.0)

	points := rect["points"].([]map[string]any)
	assert.Equal(t, len(points), 4)

	transform := rect["transform"].(map[string]any)
	assert.Equal(t, transform["a"], 1.0)
	assert.Equal(t, transform["e"], 0.0)

	fills := rect["fills"].([]map[string]any)
	assert.Equal(t, fills[0]["fill-color"], "#ff0000")
}

func TestNewCirclePositionedByCorner(t *testing.T) {
	circle := NewCircle(&CircleArgs{
		Cx:     150,
		Cy:     150,
		Radius: 50,
	})
	assert.Equal(t, circle["x"], 100.0)
	assert.Equal(t, circle["y"], 100.0)
	assert.Equal(t, circle["width"], 100.0)
	assert.Equal(t, circle["height"], 100.0)
}

func TestNewTextContentTree(t *testing.T) {
	text := NewText(&TextArgs{
		X:         10,
		Y:         20,
		Content:   "Hello",
		FillColor: "#ffee00",
	})

	content := text["content"].(map[string]any)
	assert.Equal(t, content["type"], "root")

	paragraphSet := content["children"].([]map[string]any)[0]
	assert.Equal(t, paragraphSet["type"], "paragraph-set")

	paragraph := paragraphSet["children"].([]map[string]any)[0]
	assert.Equal(t, paragraph["type"], "paragraph")

	// the color rides inside the content tree, not just on the object
	paragraphFills := paragraph["fills"].([]map[string]any)
	assert.Equal(t, paragraphFills[0]["fill-color"], "#ffee00")

	textNode := paragraph["children"].([]map[string]any)[0]
	assert.Equal(t, textNode["text"], "Hello")
	assert.Equal(t, textNode["font-size"], "16")

	// structural type names stay plain strings on the wire
	encoded := EncodeChanges([]Change{NewAddObjChange("t1", "p1", text, "")})
	obj := encoded[0]["~:obj"].(map[string]any)
	wireContent := obj["~:content"].(map[string]any)
	assert.Equal(t, wireContent["~:type"], "root")
}

func TestNewPath(t *testing.T) {
	path, err := NewPath(&PathArgs{
		Points: []PathPoint{
			{X: 50, Y: 0},
			{X: 100, Y: 100},
			{X: 0, Y: 100},
		},
		Closed:    true,
		FillColor: "#00ff00",
	})
	assert.Equal(t, err, nil)

	commands := path["content"].([]map[string]any)
	assert.Equal(t, len(commands), 4)
	assert.Equal(t, commands[0]["command"], "M")
	assert.Equal(t, commands[1]["command"], "L")
	assert.Equal(t, commands[3]["command"], "Z")

	assert.Equal(t, path["x"], 0.0)
	assert.Equal(t, path["width"], 100.0)

	_, err = NewPath(&PathArgs{Points: []PathPoint{{X: 0, Y: 0}}})
	assert.NotEqual(t, err, nil)
}

func TestNewBooleanShapeValidation(t *testing.T) {
	shape, err := NewBooleanShape("union", []string{"a", "b"}, "")
	assert.Equal(t, err, nil)
	assert.Equal(t, shape["bool-type"], "union")

	_, err = NewBooleanShape("smash", []string{"a", "b"}, "")
	assert.NotEqual(t, err, nil)

	_, err = NewBooleanShape("union", []string{"a"}, "")
	assert.NotEqual(t, err, nil)
}

func TestNewGradientAndEffects(t *testing.T) {
	gradient, err := NewGradientFill(&GradientArgs{
		Type:       "linear",
		StartColor: "#ff0000",
		EndColor:   "#0000ff",
		EndX:       1,
	})
	assert.Equal(t, err, nil)
	assert.Equal(t, gradient["type"], "linear-gradient")

	_, err = NewGradientFill(&GradientArgs{Type: "conic"})
	assert.NotEqual(t, err, nil)

	stroke := NewStroke(&StrokeArgs{Color: "#000000"})
	assert.Equal(t, stroke["stroke-width"], 1.0)
	assert.Equal(t, stroke["stroke-style"], "solid")

	_, err = NewBlur("motion-blur", 10, false)
	assert.NotEqual(t, err, nil)
	blur, err := NewBlur("layer-blur", 10, false)
	assert.Equal(t, err, nil)
	assert.Equal(t, blur["value"], 10.0)
}
