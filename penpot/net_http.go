package penpot

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

const defaultHttpTimeout = 60 * time.Second
const defaultHttpConnectTimeout = 5 * time.Second
const defaultHttpTlsTimeout = 5 * time.Second

// the platform edge challenges non-browser agents more aggressively
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// see https://medium.com/@nate510/don-t-use-go-s-default-http-client-4804cb19f779
func defaultClient() *http.Client {
	dialer := &net.Dialer{
		Timeout: defaultHttpConnectTimeout,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: defaultHttpTlsTimeout,
	}
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Transport: transport,
		Timeout:   defaultHttpTimeout,
		Jar:       jar,
	}
}

// block-page markers the edge is known to emit
var edgeBlockMarkers = []string{
	"cloudflare",
	"cf-ray",
	"attention required",
	"checking your browser",
	"challenge",
	"ddos protection",
	"security check",
	"cf-browser-verification",
	"cf-challenge-running",
	"please wait while we are checking your browser",
	"enable cookies and reload the page",
	"this process is automatic",
}

// isEdgeBlock reports whether a response came from the network edge
// protection rather than the platform itself.
func isEdgeBlock(statusCode int, header http.Header, body []byte) bool {
	serverHeader := strings.ToLower(header.Get("Server"))
	if strings.Contains(serverHeader, "cloudflare") {
		return true
	}
	if header.Get("Cf-Ray") != "" {
		return true
	}

	bodyText := strings.ToLower(string(body))
	for _, marker := range edgeBlockMarkers {
		if strings.Contains(bodyText, marker) {
			return true
		}
	}

	// 403/429/503 without a marker is an ordinary http error
	_ = statusCode
	return false
}

func newEdgeBlockError(statusCode int, body []byte) *EdgeBlockError {
	remediation := "The edge protection has blocked this request. " +
		"Open the platform in a web browser, log in, complete any human " +
		"verification challenge, then try again. The verification lasts " +
		"for a period of time, after which it may need to be repeated."
	return &EdgeBlockError{
		StatusCode:   statusCode,
		ResponseBody: string(body),
		Remediation:  remediation,
	}
}
