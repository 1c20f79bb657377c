package penpot

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestSessionIdFormatAndUniqueness(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		sessionId := NewSessionId()
		assert.Equal(t, len(sessionId), 36)
		assert.Equal(t, seen[sessionId], false)
		seen[sessionId] = true
	}
}

func TestWithEditingSession(t *testing.T) {
	backend := &fileBackend{revn: 5}
	api, close_ := newTestApi(t, backend)
	defer close_()

	var observedRevn int
	err := api.WithEditingSession(context.Background(), "file-1", func(sess *EditingSession) error {
		observedRevn = sess.Revn
		return nil
	})
	assert.Equal(t, err, nil)
	assert.Equal(t, observedRevn, 5)
}

func TestWithEditingSessionPropagatesError(t *testing.T) {
	backend := &fileBackend{revn: 5}
	api, close_ := newTestApi(t, backend)
	defer close_()

	boom := errors.New("boom")
	err := api.WithEditingSession(context.Background(), "file-1", func(sess *EditingSession) error {
		return boom
	})
	assert.Equal(t, errors.Is(err, boom), true)
}

func TestBeginEditCached(t *testing.T) {
	backend := &fileBackend{revn: 5}
	api, close_ := newTestApi(t, backend)
	defer close_()

	cache := NewFileCache(DefaultFileCacheTtl)

	sessA, err := api.BeginEditCached(context.Background(), cache, "file-1")
	assert.Equal(t, err, nil)
	assert.Equal(t, sessA.Revn, 5)
	assert.Equal(t, backend.getFiles, 1)

	// second session reads the cached snapshot, no fresh fetch
	sessB, err := api.BeginEditCached(context.Background(), cache, "file-1")
	assert.Equal(t, err, nil)
	assert.Equal(t, sessB.Revn, 5)
	assert.Equal(t, backend.getFiles, 1)

	// a cache-bypassing session always fetches
	sessC, err := api.BeginEdit(context.Background(), "file-1")
	assert.Equal(t, err, nil)
	assert.Equal(t, sessC.Revn, 5)
	assert.Equal(t, backend.getFiles, 2)
}
