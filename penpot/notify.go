package penpot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/golang/glog"
	"github.com/gorilla/websocket"
)

const watchHandshakeTimeout = 10 * time.Second

// FileEvent is one notification from the platform about a watched
// document. Advisory only: mutation correctness never depends on the
// watcher, events exist so a caller can know its cached reads went
// stale.
type FileEvent struct {
	Type   string
	FileId string
	Revn   int
	Raw    map[string]any
}

func websocketUrl(apiUrl string, fileId string, sessionId string) (string, error) {
	base := strings.TrimSuffix(apiUrl, "/api")
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/notifications"
	query := url.Values{}
	query.Set("file-id", fileId)
	query.Set("session-id", sessionId)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// WatchFile subscribes to change notifications for one document and
// invokes fn for each event. Reconnects with exponential backoff until
// the context is canceled; the backoff resets after any session that
// managed to connect.
func (self *PenpotApi) WatchFile(ctx context.Context, fileId string, fn func(event *FileEvent)) error {
	wsUrl, err := websocketUrl(self.apiUrl, fileId, NewSessionId())
	if err != nil {
		return err
	}

	b := backoff.NewExponentialBackOff()
	// keep reconnecting until canceled
	b.MaxElapsedTime = 0

	for {
		connected, err := self.watchFileOnce(ctx, wsUrl, fn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			b.Reset()
		}
		wait := b.NextBackOff()
		glog.Infof("[notify]%s reconnect in %s after: %v\n", fileId, wait, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (self *PenpotApi) watchFileOnce(ctx context.Context, wsUrl string, fn func(event *FileEvent)) (bool, error) {
	dialer := &websocket.Dialer{
		HandshakeTimeout: watchHandshakeTimeout,
	}
	header := http.Header{}
	header.Set("User-Agent", defaultUserAgent)
	if token := self.AccessToken(); token != "" {
		header.Set("Cookie", fmt.Sprintf("auth-token=%s", token))
	}

	conn, _, err := dialer.DialContext(ctx, wsUrl, header)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	// unblock the read loop on cancel
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	glog.V(2).Infof("[notify]connected to %s\n", wsUrl)

	for {
		var raw map[string]any
		if err := conn.ReadJSON(&raw); err != nil {
			return true, err
		}
		message, _ := NormalizeResponse(raw).(map[string]any)
		if message == nil {
			continue
		}
		event := &FileEvent{
			Raw: message,
		}
		if eventType, ok := message["type"].(string); ok {
			event.Type = eventType
		}
		if eventFileId, ok := message["file-id"].(string); ok {
			event.FileId = eventFileId
		}
		if revn, ok := message["revn"].(float64); ok {
			event.Revn = int(revn)
		}
		fn(event)
	}
}
