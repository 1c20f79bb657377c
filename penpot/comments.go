package penpot

import (
	"context"
)

// Comment threads anchor design discussion to a position on a page.

func (self *PenpotApi) CreateCommentThread(
	ctx context.Context,
	fileId string,
	pageId string,
	x float64,
	y float64,
	content string,
	frameId string,
) (map[string]any, error) {
	payload := map[string]any{
		"file-id": fileId,
		"page-id": pageId,
		"position": map[string]any{
			"x": x,
			"y": y,
		},
		"content": content,
	}
	if frameId != "" {
		payload["frame-id"] = frameId
	}
	data, err := self.command(ctx, "create-comment-thread", payload, false)
	if err != nil {
		return nil, err
	}
	thread, _ := NormalizeResponse(data).(map[string]any)
	return thread, nil
}

func (self *PenpotApi) AddComment(ctx context.Context, threadId string, content string) (map[string]any, error) {
	data, err := self.command(ctx, "add-comment", map[string]any{
		"thread-id": threadId,
		"content":   content,
	}, false)
	if err != nil {
		return nil, err
	}
	comment, _ := NormalizeResponse(data).(map[string]any)
	return comment, nil
}

func (self *PenpotApi) GetCommentThreads(ctx context.Context, fileId string) ([]any, error) {
	data, err := self.command(ctx, "get-comment-threads", map[string]any{
		"file-id": fileId,
	}, false)
	if err != nil {
		return nil, err
	}
	threads, _ := NormalizeResponse(data).([]any)
	return threads, nil
}

// ResolveCommentThread marks a whole thread resolved.
func (self *PenpotApi) ResolveCommentThread(ctx context.Context, threadId string, isResolved bool) error {
	_, err := self.command(ctx, "update-comment-thread-status", map[string]any{
		"id":          threadId,
		"is-resolved": isResolved,
	}, false)
	return err
}
