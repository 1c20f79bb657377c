package penpot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang/glog"
)

// Change is one tagged change operation (add-obj, mod-obj, del-obj,
// ...). Changes are immutable once constructed and a batch is applied
// atomically against a single revision check.
type Change map[string]any

type UpdateFileResult struct {
	// the revision after the accepted batch
	Revn int
	// the backend's raw change list, markers and all
	Changes []any
}

// UpdateFile submits a change batch. If vern is nil the version
// counter is fetched lazily, since only some deployments enforce it.
// A 409 surfaces as RevisionConflictError and is never retried here:
// the caller must re-read the revision and recompute the batch, since
// replaying the same batch against a newer revision could silently
// apply a stale edit.
func (self *PenpotApi) UpdateFile(
	ctx context.Context,
	fileId string,
	sessionId string,
	revn int,
	changes []Change,
	vern *int,
) (*UpdateFileResult, error) {
	if vern == nil {
		_, v, err := self.GetFileVersion(ctx, fileId)
		if err != nil {
			return nil, err
		}
		vern = &v
		glog.V(2).Infof("[update]%s fetched vern=%d\n", fileId, v)
	}

	payload := map[string]any{
		"id":         fileId,
		"session-id": sessionId,
		"revn":       revn,
		"vern":       *vern,
		"changes":    EncodeChanges(changes),
	}

	glog.V(2).Infof("[update]%s session=%s revn=%d changes=%d\n", fileId, sessionId, revn, len(changes))

	data, err := self.command(ctx, "update-file", payload, true)
	if err != nil {
		var apiErr *ApiError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			return nil, &RevisionConflictError{
				FileId: fileId,
				Revn:   revn,
			}
		}
		return nil, err
	}

	// the batch response is either an object carrying the new revision
	// or a bare list of applied changes. Normalize both here so nothing
	// downstream has to shape-sniff. Batches are atomic and strictly
	// sequential, so revn+1 is safe when the backend omits the counter.
	switch v := data.(type) {
	case map[string]any:
		result := &UpdateFileResult{
			Revn: revn + 1,
		}
		if newRevn, ok := v["revn"].(float64); ok {
			result.Revn = int(newRevn)
		}
		if changesList, ok := v["changes"].([]any); ok {
			result.Changes = changesList
		}
		return result, nil
	case []any:
		return &UpdateFileResult{
			Revn:    revn + 1,
			Changes: v,
		}, nil
	case nil:
		return &UpdateFileResult{
			Revn: revn + 1,
		}, nil
	default:
		return nil, fmt.Errorf("unexpected update-file response shape %T", data)
	}
}

// NewAddObjChange adds a new object to a page. With no frame id the
// object is parented to the page itself.
func NewAddObjChange(objId string, pageId string, obj map[string]any, frameId string) Change {
	objWithRequired := map[string]any{}
	for key, value := range obj {
		objWithRequired[key] = value
	}
	objWithRequired["id"] = objId
	if frameId == "" {
		objWithRequired["parent-id"] = pageId
		objWithRequired["frame-id"] = pageId
	} else {
		objWithRequired["parent-id"] = frameId
		objWithRequired["frame-id"] = frameId
	}

	changeFrameId := frameId
	if changeFrameId == "" {
		changeFrameId = pageId
	}
	return Change{
		"type":     "add-obj",
		"id":       objId,
		"page-id":  pageId,
		"frame-id": changeFrameId,
		"obj":      objWithRequired,
	}
}

// NewModObjChange applies an ordered list of attribute operations to
// an object.
func NewModObjChange(objId string, operations []map[string]any) Change {
	return Change{
		"type":       "mod-obj",
		"id":         objId,
		"operations": operations,
	}
}

func NewDelObjChange(objId string, pageId string) Change {
	return Change{
		"type":    "del-obj",
		"id":      objId,
		"page-id": pageId,
	}
}

func NewSetOperation(attr string, val any) map[string]any {
	return map[string]any{
		"type": "set",
		"attr": attr,
		"val":  val,
	}
}

// NewParentOperation reparents an object into a frame or group.
func NewParentOperation(parentId string) map[string]any {
	return NewSetOperation("parentId", parentId)
}

func NewFillsOperation(fills []map[string]any) map[string]any {
	return NewSetOperation("fills", fills)
}

func NewStrokesOperation(strokes []map[string]any) map[string]any {
	return NewSetOperation("strokes", strokes)
}

func NewShadowOperation(shadows []map[string]any) map[string]any {
	return NewSetOperation("shadow", shadows)
}

func NewBlurOperation(blur map[string]any) map[string]any {
	return NewSetOperation("blur", blur)
}
