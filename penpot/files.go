package penpot

import (
	"context"
	"fmt"

	"github.com/golang/glog"
)

// File is one full document snapshot as the backend returned it. The
// revision and version counters are backend-owned; the client never
// advances them locally.
type File struct {
	Id   string
	Name string
	Revn int
	Vern int
	Data map[string]any
}

func parseFile(data any) (*File, error) {
	fileData, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected file response shape %T", data)
	}
	file := &File{
		Data: fileData,
	}
	if id, ok := fileData["id"].(string); ok {
		file.Id = id
	}
	if name, ok := fileData["name"].(string); ok {
		file.Name = name
	}
	if revn, ok := fileData["revn"].(float64); ok {
		file.Revn = int(revn)
	}
	if vern, ok := fileData["vern"].(float64); ok {
		file.Vern = int(vern)
	}
	return file, nil
}

// GetFile fetches a full document, always hitting the backend.
func (self *PenpotApi) GetFile(ctx context.Context, fileId string) (*File, error) {
	data, err := self.command(ctx, "get-file", map[string]any{
		"id": fileId,
	}, false)
	if err != nil {
		return nil, err
	}
	return parseFile(data)
}

// GetFileRevision returns the document's current revision counter.
func (self *PenpotApi) GetFileRevision(ctx context.Context, fileId string) (int, error) {
	file, err := self.GetFile(ctx, fileId)
	if err != nil {
		return 0, err
	}
	glog.V(2).Infof("[file]%s revn=%d\n", fileId, file.Revn)
	return file.Revn, nil
}

// GetFileVersion returns the revision and version counters. Some
// deployments require both on every mutation.
func (self *PenpotApi) GetFileVersion(ctx context.Context, fileId string) (int, int, error) {
	file, err := self.GetFile(ctx, fileId)
	if err != nil {
		return 0, 0, err
	}
	glog.V(2).Infof("[file]%s revn=%d vern=%d\n", fileId, file.Revn, file.Vern)
	return file.Revn, file.Vern, nil
}

func (self *PenpotApi) CreateFile(ctx context.Context, name string, projectId string) (map[string]any, error) {
	data, err := self.command(ctx, "create-file", map[string]any{
		"name":       name,
		"project-id": projectId,
	}, false)
	if err != nil {
		return nil, err
	}
	created, _ := NormalizeResponse(data).(map[string]any)
	return created, nil
}

func (self *PenpotApi) RenameFile(ctx context.Context, fileId string, name string) (map[string]any, error) {
	data, err := self.command(ctx, "rename-file", map[string]any{
		"id":   fileId,
		"name": name,
	}, false)
	if err != nil {
		return nil, err
	}
	renamed, _ := NormalizeResponse(data).(map[string]any)
	return renamed, nil
}

func (self *PenpotApi) DeleteFile(ctx context.Context, fileId string) error {
	_, err := self.command(ctx, "delete-file", map[string]any{
		"id": fileId,
	}, false)
	return err
}
