package penpot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/golang/glog"
)

const contentTypeJson = "application/json"
const contentTypeTransitJson = "application/transit+json"

// rpc command that must never trigger a re-login, to avoid an
// infinite re-auth loop when the profile lookup itself is rejected
const cmdGetProfile = "get-profile"

type PenpotApi struct {
	ctx    context.Context
	cancel context.CancelFunc

	apiUrl string

	httpClient *http.Client

	email    string
	password string

	// auth state is written only by login and read by every request.
	// the lock keeps concurrent re-logins from interleaving partial
	// token/profile writes when the client is shared across goroutines.
	stateLock   sync.Mutex
	accessToken string
	profileId   string
}

func NewPenpotApi(apiUrl string) *PenpotApi {
	return NewPenpotApiWithContext(context.Background(), apiUrl)
}

func NewPenpotApiWithContext(ctx context.Context, apiUrl string) *PenpotApi {
	if apiUrl == "" {
		apiUrl = os.Getenv("PENPOT_API_URL")
	}
	if apiUrl == "" {
		apiUrl = DefaultApiUrl
	}
	apiUrl = strings.TrimSuffix(apiUrl, "/")

	cancelCtx, cancel := context.WithCancel(ctx)

	return &PenpotApi{
		ctx:        cancelCtx,
		cancel:     cancel,
		apiUrl:     apiUrl,
		httpClient: defaultClient(),
		email:      os.Getenv("PENPOT_USERNAME"),
		password:   os.Getenv("PENPOT_PASSWORD"),
	}
}

func (self *PenpotApi) Close() {
	self.cancel()
}

func (self *PenpotApi) ApiUrl() string {
	return self.apiUrl
}

func (self *PenpotApi) SetCredentials(email string, password string) {
	self.email = email
	self.password = password
}

// SetAccessToken installs a token obtained out of band. The token is
// attached both as a bearer header and as the auth-token cookie, since
// the export endpoints only honor the cookie.
func (self *PenpotApi) SetAccessToken(token string) {
	self.setAuthState(token, self.ProfileId())
}

func (self *PenpotApi) AccessToken() string {
	self.stateLock.Lock()
	defer self.stateLock.Unlock()
	return self.accessToken
}

func (self *PenpotApi) ProfileId() string {
	self.stateLock.Lock()
	defer self.stateLock.Unlock()
	return self.profileId
}

func (self *PenpotApi) setAuthState(token string, profileId string) {
	self.stateLock.Lock()
	defer self.stateLock.Unlock()
	self.accessToken = token
	self.profileId = profileId

	if u, err := url.Parse(self.apiUrl); err == nil {
		self.httpClient.Jar.SetCookies(u, []*http.Cookie{
			{
				Name:  "auth-token",
				Value: token,
				Path:  "/",
			},
		})
	}
}

// Login performs the password exchange and stores the resulting token
// and profile id on the client.
func (self *PenpotApi) Login(ctx context.Context) error {
	token, profileId, err := self.loginWithPassword(ctx, self.email, self.password)
	if err != nil {
		return err
	}
	self.setAuthState(token, profileId)
	glog.Infof("[api]logged in, profile id %s\n", profileId)
	return nil
}

// The password exchange runs on a throwaway client so its cookies can
// be read directly off the response, matching the platform's
// cookie-based session issue.
func (self *PenpotApi) loginWithPassword(ctx context.Context, email string, password string) (string, string, error) {
	if email == "" || password == "" {
		return "", "", &AuthError{
			Message: "email and password are required. Set them on the client or via PENPOT_USERNAME and PENPOT_PASSWORD.",
		}
	}

	loginUrl := fmt.Sprintf("%s/rpc/command/login-with-password", self.apiUrl)
	payload := map[string]any{
		"~:email":    email,
		"~:password": password,
	}
	requestBodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", loginUrl, bytes.NewReader(requestBodyBytes))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", contentTypeTransitJson)
	req.Header.Set("Accept", contentTypeTransitJson)
	req.Header.Set("User-Agent", defaultUserAgent)

	loginClient := defaultClient()
	r, err := loginClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer r.Body.Close()

	responseBodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return "", "", err
	}

	if http.StatusOK != r.StatusCode {
		if isEdgeBlock(r.StatusCode, r.Header, responseBodyBytes) {
			return "", "", newEdgeBlockError(r.StatusCode, responseBodyBytes)
		}
		return "", "", &AuthError{
			StatusCode: r.StatusCode,
			Message:    strings.TrimSpace(string(responseBodyBytes)),
		}
	}

	// the profile id rides in the response body (array map encoding)
	// and in the auth-data cookie. Either source is fine.
	profileId := ""
	var data any
	if err := json.Unmarshal(responseBodyBytes, &data); err == nil {
		switch v := data.(type) {
		case []any:
			dict := transitDictFromArray(v)
			if id, ok := dict["~:id"].(string); ok {
				profileId = strings.TrimPrefix(id, uuidMarker)
			}
		case map[string]any:
			if id, ok := v["~:id"].(string); ok {
				profileId = strings.TrimPrefix(id, uuidMarker)
			} else if id, ok := v["id"].(string); ok {
				profileId = id
			}
		}
	}

	token := ""
	for _, cookie := range r.Cookies() {
		switch cookie.Name {
		case "auth-token":
			token = cookie.Value
		case "auth-data":
			if profileId == "" {
				if _, value, ok := strings.Cut(cookie.Value, "profile-id="); ok {
					profileId = strings.Trim(strings.SplitN(value, ";", 2)[0], "\"")
				}
			}
		}
	}

	if token == "" {
		return "", "", &AuthError{
			Message: "auth token not found in login response cookies",
		}
	}

	return token, profileId, nil
}

// command posts an rpc command, logging in lazily and replaying the
// request at most once after a re-login on 401/403. Edge-protection
// blocks are classified before any http error surfaces.
func (self *PenpotApi) command(ctx context.Context, cmd string, payload map[string]any, transit bool) (any, error) {
	if self.AccessToken() == "" && self.email != "" && self.password != "" {
		glog.V(2).Infof("[api]%s: no access token, logging in first\n", cmd)
		if err := self.Login(ctx); err != nil {
			return nil, err
		}
	}

	responseBodyBytes, err := self.commandAttempt(ctx, cmd, payload, transit)
	if err != nil {
		var apiErr *ApiError
		if !errors.As(err, &apiErr) {
			return nil, err
		}
		if apiErr.StatusCode != http.StatusUnauthorized && apiErr.StatusCode != http.StatusForbidden {
			return nil, err
		}
		if cmd == cmdGetProfile || self.email == "" || self.password == "" {
			return nil, &AuthError{
				StatusCode: apiErr.StatusCode,
				Message:    apiErr.Body,
			}
		}

		glog.Infof("[api]%s: auth expired, logging in again\n", cmd)
		if err := self.Login(ctx); err != nil {
			return nil, err
		}
		responseBodyBytes, err = self.commandAttempt(ctx, cmd, payload, transit)
		if err != nil {
			if errors.As(err, &apiErr) &&
				(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
				// one replay only
				return nil, &AuthError{
					StatusCode: apiErr.StatusCode,
					Message:    apiErr.Body,
				}
			}
			return nil, err
		}
	}

	if len(responseBodyBytes) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(responseBodyBytes, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (self *PenpotApi) commandAttempt(ctx context.Context, cmd string, payload map[string]any, transit bool) ([]byte, error) {
	commandUrl := fmt.Sprintf("%s/rpc/command/%s", self.apiUrl, cmd)

	var requestPayload any = payload
	contentType := contentTypeJson
	if transit {
		requestPayload = transitCommandPayload(cmd, payload)
		contentType = contentTypeTransitJson
	}

	requestBodyBytes, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", commandUrl, bytes.NewReader(requestBodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
	req.Header.Set("User-Agent", defaultUserAgent)
	if token := self.AccessToken(); token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Token %s", token))
	}

	r, err := self.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer r.Body.Close()

	responseBodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	glog.V(2).Infof("[api]post %s status=%d len=%d\n", cmd, r.StatusCode, len(responseBodyBytes))

	if http.StatusOK != r.StatusCode {
		if isEdgeBlock(r.StatusCode, r.Header, responseBodyBytes) {
			return nil, newEdgeBlockError(r.StatusCode, responseBodyBytes)
		}
		return nil, newApiError(r.StatusCode, strings.TrimSpace(string(responseBodyBytes)))
	}

	return responseBodyBytes, nil
}

// transitCommandPayload tags the top level of a command payload: keys
// become keywords, a ~:cmd entry is added, and uuid-shaped string
// values get the uuid marker. Payloads already carrying tagged keys
// pass through untouched.
func transitCommandPayload(cmd string, payload map[string]any) map[string]any {
	for key := range payload {
		if strings.HasPrefix(key, keywordMarker) {
			return payload
		}
	}

	transitPayload := map[string]any{}
	if _, ok := payload["cmd"]; !ok {
		transitPayload[keywordMarker+"cmd"] = keywordMarker + cmd
	}
	for key, value := range payload {
		if key == "cmd" {
			continue
		}
		transitKey := keywordMarker + key
		if s, ok := value.(string); ok && strings.Contains(s, "-") && 30 < len(s) {
			transitPayload[transitKey] = uuidMarker + s
		} else {
			transitPayload[transitKey] = value
		}
	}
	return transitPayload
}

// GetProfile returns the authenticated user's profile and remembers
// the profile id. This endpoint never triggers a re-login.
func (self *PenpotApi) GetProfile(ctx context.Context) (map[string]any, error) {
	data, err := self.command(ctx, cmdGetProfile, map[string]any{}, false)
	if err != nil {
		return nil, err
	}
	profile, ok := NormalizeResponse(data).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected profile response shape %T", data)
	}
	if id, ok := profile["id"].(string); ok {
		self.stateLock.Lock()
		self.profileId = id
		self.stateLock.Unlock()
	}
	return profile, nil
}
