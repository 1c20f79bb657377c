package penpot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/golang/glog"
)

// Export runs against the exporter endpoint, which only honors the
// cookie session, not the bearer header. The login path installs the
// auth-token cookie on the shared client jar.

type ExportArgs struct {
	FileId   string
	PageId   string
	ObjectId string
	// png, svg, pdf
	Type  string
	Scale float64
}

// ExportObject renders one object and returns the binary result.
// The exporter first answers with a resource id, then serves the
// rendered bytes from that resource.
func (self *PenpotApi) ExportObject(ctx context.Context, args *ExportArgs) ([]byte, error) {
	if self.AccessToken() == "" {
		if self.email == "" || self.password == "" {
			return nil, &AuthError{
				Message: "export requires an authenticated session",
			}
		}
		if err := self.Login(ctx); err != nil {
			return nil, err
		}
	}

	exportType := args.Type
	if exportType == "" {
		exportType = "png"
	}
	scale := args.Scale
	if scale == 0 {
		scale = 1.0
	}

	payload := map[string]any{
		"~:wait": true,
		"~:exports": []map[string]any{
			{
				"~:file-id":   uuidMarker + args.FileId,
				"~:page-id":   uuidMarker + args.PageId,
				"~:object-id": uuidMarker + args.ObjectId,
				"~:type":      keywordMarker + exportType,
				"~:suffix":    "",
				"~:scale":     scale,
			},
		},
	}
	if profileId := self.ProfileId(); profileId != "" {
		payload["~:profile-id"] = uuidMarker + profileId
	}

	requestBodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	exportUrl := fmt.Sprintf("%s/export", self.apiUrl)
	req, err := http.NewRequestWithContext(ctx, "POST", exportUrl, bytes.NewReader(requestBodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentTypeTransitJson)
	req.Header.Set("Accept", contentTypeTransitJson)
	req.Header.Set("User-Agent", defaultUserAgent)

	r, err := self.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer r.Body.Close()

	responseBodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if http.StatusOK != r.StatusCode {
		if isEdgeBlock(r.StatusCode, r.Header, responseBodyBytes) {
			return nil, newEdgeBlockError(r.StatusCode, responseBodyBytes)
		}
		return nil, newApiError(r.StatusCode, strings.TrimSpace(string(responseBodyBytes)))
	}

	resourceId, err := exportResourceId(responseBodyBytes)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("[export]%s object %s resource %s\n", args.FileId, args.ObjectId, resourceId)

	return self.downloadExport(ctx, resourceId)
}

func exportResourceId(responseBodyBytes []byte) (string, error) {
	var data any
	if err := json.Unmarshal(responseBodyBytes, &data); err != nil {
		return "", err
	}

	var dict map[string]any
	switch v := data.(type) {
	case map[string]any:
		dict = v
	case []any:
		dict = transitDictFromArray(v)
	default:
		return "", fmt.Errorf("unexpected export response shape %T", data)
	}

	for _, key := range []string{"~:id", "id"} {
		if id, ok := dict[key].(string); ok {
			return strings.TrimPrefix(id, uuidMarker), nil
		}
	}
	return "", fmt.Errorf("export resource id not found in response")
}

func (self *PenpotApi) downloadExport(ctx context.Context, resourceId string) ([]byte, error) {
	resourceUrl := fmt.Sprintf("%s/export/%s", self.apiUrl, resourceId)
	req, err := http.NewRequestWithContext(ctx, "GET", resourceUrl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	r, err := self.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer r.Body.Close()

	responseBodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if http.StatusOK != r.StatusCode {
		if isEdgeBlock(r.StatusCode, r.Header, responseBodyBytes) {
			return nil, newEdgeBlockError(r.StatusCode, responseBodyBytes)
		}
		return nil, newApiError(r.StatusCode, strings.TrimSpace(string(responseBodyBytes)))
	}
	return responseBodyBytes, nil
}
