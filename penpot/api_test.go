package penpot

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func init() {
	initGlog()
}

func initGlog() {
	flag.Set("logtostderr", "true")
	flag.Set("stderrthreshold", "INFO")
	flag.Set("v", "0")
}

// fake backend for auth behavior
type authBackend struct {
	validToken string
	logins     int
	attempts   int
}

func (self *authBackend) handler() http.Handler {
	m := http.NewServeMux()
	m.HandleFunc("/rpc/command/login-with-password", func(w http.ResponseWriter, r *http.Request) {
		self.logins += 1
		http.SetCookie(w, &http.Cookie{
			Name:  "auth-token",
			Value: self.validToken,
		})
		http.SetCookie(w, &http.Cookie{
			Name:  "auth-data",
			Value: "profile-id=7ae66c33-6ede-81e2-8006-6a1b4dce3d2b",
		})
		w.Header().Set("Content-Type", "application/transit+json")
		json.NewEncoder(w).Encode([]any{"^ ", "~:id", "~u7ae66c33-6ede-81e2-8006-6a1b4dce3d2b"})
	})
	m.HandleFunc("/rpc/command/get-teams", func(w http.ResponseWriter, r *http.Request) {
		self.attempts += 1
		if r.Header.Get("Authorization") != "Token "+self.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]any{
			map[string]any{"id": "team-1", "name": "Default"},
		})
	})
	m.HandleFunc("/rpc/command/get-profile", func(w http.ResponseWriter, r *http.Request) {
		self.attempts += 1
		w.WriteHeader(http.StatusUnauthorized)
	})
	return m
}

func TestAuthReplayOnce(t *testing.T) {
	backend := &authBackend{validToken: "fresh"}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	api := NewPenpotApiWithContext(context.Background(), server.URL)
	defer api.Close()
	api.SetCredentials("a@b.c", "secret")
	api.SetAccessToken("stale")

	teams, err := api.GetTeams(context.Background())
	assert.Equal(t, err, nil)
	assert.Equal(t, len(teams), 1)

	// one failed attempt, one re-login, one replay
	assert.Equal(t, backend.attempts, 2)
	assert.Equal(t, backend.logins, 1)
	assert.Equal(t, api.AccessToken(), "fresh")
	assert.Equal(t, api.ProfileId(), "7ae66c33-6ede-81e2-8006-6a1b4dce3d2b")
}

func TestAuthSecondFailurePropagates(t *testing.T) {
	// the backend never accepts the replayed token
	logins := 0
	attempts := 0
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rpc/command/login-with-password":
			logins += 1
			http.SetCookie(w, &http.Cookie{Name: "auth-token", Value: "fresh"})
			w.Write([]byte("[]"))
		default:
			attempts += 1
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer failing.Close()

	api := NewPenpotApiWithContext(context.Background(), failing.URL)
	defer api.Close()
	api.SetCredentials("a@b.c", "secret")
	api.SetAccessToken("stale")

	_, err := api.GetTeams(context.Background())

	var authErr *AuthError
	assert.Equal(t, errors.As(err, &authErr), true)
	assert.Equal(t, authErr.StatusCode, http.StatusUnauthorized)
	// no third attempt
	assert.Equal(t, attempts, 2)
	assert.Equal(t, logins, 1)
}

func TestGetProfileNeverRetriesAuth(t *testing.T) {
	backend := &authBackend{validToken: "fresh"}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	api := NewPenpotApiWithContext(context.Background(), server.URL)
	defer api.Close()
	api.SetCredentials("a@b.c", "secret")
	api.SetAccessToken("whatever")

	_, err := api.GetProfile(context.Background())

	var authErr *AuthError
	assert.Equal(t, errors.As(err, &authErr), true)
	assert.Equal(t, backend.attempts, 1)
	assert.Equal(t, backend.logins, 0)
}

func TestLazyLogin(t *testing.T) {
	backend := &authBackend{validToken: "fresh"}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	api := NewPenpotApiWithContext(context.Background(), server.URL)
	defer api.Close()
	api.SetCredentials("a@b.c", "secret")

	teams, err := api.GetTeams(context.Background())
	assert.Equal(t, err, nil)
	assert.Equal(t, len(teams), 1)
	assert.Equal(t, backend.logins, 1)
	assert.Equal(t, backend.attempts, 1)
}

func TestEdgeBlockDetected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("<html>cloudflare: checking your browser</html>"))
	}))
	defer server.Close()

	api := NewPenpotApiWithContext(context.Background(), server.URL)
	defer api.Close()
	api.SetAccessToken("token")

	_, err := api.GetTeams(context.Background())

	var edgeErr *EdgeBlockError
	assert.Equal(t, errors.As(err, &edgeErr), true)
	assert.Equal(t, edgeErr.StatusCode, http.StatusServiceUnavailable)
	assert.Equal(t, edgeErr.Remediation != "", true)
}

func TestEdgeBlockHeaderSignature(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cf-Ray", "8z9x-SJC")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("blocked"))
	}))
	defer server.Close()

	api := NewPenpotApiWithContext(context.Background(), server.URL)
	defer api.Close()
	api.SetAccessToken("token")

	_, err := api.GetTeams(context.Background())

	var edgeErr *EdgeBlockError
	assert.Equal(t, errors.As(err, &edgeErr), true)
}

func TestPlainHttpErrorStaysApiError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("params validation failed"))
	}))
	defer server.Close()

	api := NewPenpotApiWithContext(context.Background(), server.URL)
	defer api.Close()
	api.SetAccessToken("token")

	_, err := api.GetTeams(context.Background())

	var apiErr *ApiError
	assert.Equal(t, errors.As(err, &apiErr), true)
	assert.Equal(t, apiErr.StatusCode, http.StatusBadRequest)
	assert.Equal(t, apiErr.Body, "params validation failed")
}

func TestTransitCommandPayload(t *testing.T) {
	payload := transitCommandPayload("update-file", map[string]any{
		"id":   "7ae66c33-6ede-81e2-8006-6a1b4dce3d2b",
		"revn": 5,
	})
	assert.Equal(t, payload["~:cmd"], "~:update-file")
	assert.Equal(t, payload["~:id"], "~u7ae66c33-6ede-81e2-8006-6a1b4dce3d2b")
	assert.Equal(t, payload["~:revn"], 5)

	// already tagged payloads pass through untouched
	tagged := map[string]any{"~:email": "a@b.c"}
	assert.Equal(t, transitCommandPayload("login-with-password", tagged), tagged)
}
