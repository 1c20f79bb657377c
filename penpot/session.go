package penpot

import (
	"context"

	"github.com/golang/glog"
)

// EditingSession is one-shot: a fresh random session id plus the
// revision observed at session start, created immediately before a
// mutation and discarded after. It is not a lock; two sessions may
// race and the backend's revision check is the only conflict arbiter.
type EditingSession struct {
	api *PenpotApi

	FileId    string
	SessionId string
	Revn      int
}

// BeginEdit generates a session id and observes the document's current
// revision via a fresh read, so the caller always mutates against a
// revision it just saw.
func (self *PenpotApi) BeginEdit(ctx context.Context, fileId string) (*EditingSession, error) {
	sessionId := NewSessionId()
	revn, err := self.GetFileRevision(ctx, fileId)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("[session]%s begin for file %s at revn %d\n", sessionId, fileId, revn)
	return &EditingSession{
		api:       self,
		FileId:    fileId,
		SessionId: sessionId,
		Revn:      revn,
	}, nil
}

// BeginEditCached observes the revision through the cache. Only safe
// when the caller accepts that a stale cached revision will surface as
// a conflict at submit time.
func (self *PenpotApi) BeginEditCached(ctx context.Context, cache *FileCache, fileId string) (*EditingSession, error) {
	sessionId := NewSessionId()
	file, err := self.GetFileCached(ctx, cache, fileId)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("[session]%s begin for file %s at revn %d (cached)\n", sessionId, fileId, file.Revn)
	return &EditingSession{
		api:       self,
		FileId:    fileId,
		SessionId: sessionId,
		Revn:      file.Revn,
	}, nil
}

// End only logs; the session holds no external resource.
func (self *EditingSession) End() {
	glog.V(2).Infof("[session]%s end\n", self.SessionId)
}

// Submit sends a change batch against the revision observed at session
// start.
func (self *EditingSession) Submit(ctx context.Context, changes []Change) (*UpdateFileResult, error) {
	return self.api.UpdateFile(ctx, self.FileId, self.SessionId, self.Revn, changes, nil)
}

// WithEditingSession scopes an edit: the session is begun, handed to
// fn, and ended on every exit path including an error or panic in fn.
func (self *PenpotApi) WithEditingSession(ctx context.Context, fileId string, fn func(sess *EditingSession) error) error {
	sess, err := self.BeginEdit(ctx, fileId)
	if err != nil {
		return err
	}
	defer sess.End()
	return fn(sess)
}
