package penpot

import (
	"fmt"
)

const maxErrorBodyLen = 2000

// credentials missing or rejected. Surfaces only after the single
// transparent re-login attempt has been spent.
type AuthError struct {
	StatusCode int
	Message    string
}

func (self *AuthError) Error() string {
	if self.StatusCode != 0 {
		return fmt.Sprintf("auth failed (%d): %s", self.StatusCode, self.Message)
	}
	return fmt.Sprintf("auth failed: %s", self.Message)
}

// the network edge (cloudflare) intercepted the request before it
// reached the platform. Retrying immediately will not help.
type EdgeBlockError struct {
	StatusCode   int
	ResponseBody string
	Remediation  string
}

func (self *EdgeBlockError) Error() string {
	return fmt.Sprintf("edge protection blocked the request (%d): %s", self.StatusCode, self.Remediation)
}

// optimistic concurrency violated. The caller must re-read the current
// revision and recompute its change batch before trying again.
type RevisionConflictError struct {
	FileId string
	Revn   int
}

func (self *RevisionConflictError) Error() string {
	return fmt.Sprintf("revision conflict for file %s: submitted revn %d is stale", self.FileId, self.Revn)
}

// any other non-2xx response
type ApiError struct {
	StatusCode int
	Body       string
}

func newApiError(statusCode int, body string) *ApiError {
	if maxErrorBodyLen < len(body) {
		body = body[0:maxErrorBodyLen]
	}
	return &ApiError{
		StatusCode: statusCode,
		Body:       body,
	}
}

func (self *ApiError) Error() string {
	return fmt.Sprintf("api error (%d): %s", self.StatusCode, self.Body)
}
