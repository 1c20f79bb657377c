package penpot

import (
	"fmt"
	"regexp"

	"golang.org/x/exp/slices"
)

// Field-projected views over a fetched document, for shrinking a large
// design file down to what a caller actually needs. Plain filtered
// tree walks, no protocol involvement.

// pagesIndex returns data.pagesIndex from a document snapshot.
func pagesIndex(file *File) map[string]any {
	data, ok := file.Data["data"].(map[string]any)
	if !ok {
		return nil
	}
	index, _ := data["pagesIndex"].(map[string]any)
	return index
}

type ObjectMatch struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	PageId   string `json:"page_id"`
	PageName string `json:"page_name"`
	Type     string `json:"object_type"`
}

// SearchObjects finds objects by name across all pages. The query is a
// case-insensitive regular expression.
func SearchObjects(file *File, query string) ([]*ObjectMatch, error) {
	pattern, err := regexp.Compile("(?i)" + query)
	if err != nil {
		return nil, err
	}

	matches := []*ObjectMatch{}
	for pageId, pageData := range pagesIndex(file) {
		page, ok := pageData.(map[string]any)
		if !ok {
			continue
		}
		pageName, _ := page["name"].(string)
		objects, _ := page["objects"].(map[string]any)
		for objId, objData := range objects {
			obj, ok := objData.(map[string]any)
			if !ok {
				continue
			}
			objName, _ := obj["name"].(string)
			if pattern.MatchString(objName) {
				objType, _ := obj["type"].(string)
				matches = append(matches, &ObjectMatch{
					Id:       objId,
					Name:     objName,
					PageId:   pageId,
					PageName: pageName,
					Type:     objType,
				})
			}
		}
	}
	return matches, nil
}

// ObjectSubtree projects the subtree rooted at objectId down to the
// requested fields, recursing into child shapes up to depth levels
// (-1 for unbounded). Returns the projected tree and the id of the
// page that holds the object.
func ObjectSubtree(file *File, objectId string, fields []string, depth int) (map[string]any, string, error) {
	for pageId, pageData := range pagesIndex(file) {
		page, ok := pageData.(map[string]any)
		if !ok {
			continue
		}
		objects, _ := page["objects"].(map[string]any)
		if _, ok := objects[objectId]; ok {
			tree := projectObject(objects, objectId, fields, depth)
			return tree, pageId, nil
		}
	}
	return nil, "", fmt.Errorf("object %s not found in file %s", objectId, file.Id)
}

func projectObject(objects map[string]any, objectId string, fields []string, depth int) map[string]any {
	obj, ok := objects[objectId].(map[string]any)
	if !ok {
		return nil
	}

	node := map[string]any{
		"id": objectId,
	}
	for key, value := range obj {
		if slices.Contains(fields, key) {
			node[key] = value
		}
	}

	if depth == 0 {
		return node
	}

	childIds, _ := obj["shapes"].([]any)
	if len(childIds) == 0 {
		return node
	}
	children := []map[string]any{}
	for _, childId := range childIds {
		id, ok := childId.(string)
		if !ok {
			continue
		}
		if child := projectObject(objects, id, fields, depth-1); child != nil {
			children = append(children, child)
		}
	}
	if 0 < len(children) {
		node["children"] = children
	}
	return node
}
