package azure

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Emmastro/mail-dispatch/internal/core"
)

const apiVersion = "2023-03-31"

// client is a minimal ACS email REST client. Requests are signed with the
// HMAC-SHA256 scheme Communication Services uses for access-key
// authentication.
type client struct {
	endpoint   *url.URL
	accessKey  []byte
	httpClient *http.Client
}

// newClient parses an ACS connection string of the form
// "endpoint=https://<resource>.communication.azure.com/;accesskey=<base64>".
func newClient(connectionString string) (*client, error) {
	var endpoint, accessKey string
	for _, part := range strings.Split(connectionString, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "endpoint":
			endpoint = strings.TrimSpace(v)
		case "accesskey":
			accessKey = strings.TrimSpace(v)
		}
	}

	if endpoint == "" || accessKey == "" {
		return nil, fmt.Errorf("connection string must contain endpoint and accesskey")
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("invalid endpoint scheme %q", u.Scheme)
	}

	key, err := base64.StdEncoding.DecodeString(accessKey)
	if err != nil {
		return nil, fmt.Errorf("invalid access key: %w", err)
	}

	return &client{
		endpoint:   u,
		accessKey:  key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// send posts the payload to the emails:send operation and returns the
// operation id from the acknowledgment body.
func (c *client) send(ctx context.Context, body []byte) (string, error) {
	u := *c.endpoint
	u.Path = strings.TrimSuffix(u.Path, "/") + "/emails:send"
	u.RawQuery = "api-version=" + apiVersion

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", &core.TransportError{
			Provider: Name,
			Code:     "request_error",
			Message:  err.Error(),
			Cause:    err,
		}
	}
	req.Header.Set("Content-Type", "application/json")
	c.sign(req, body)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &core.TransportError{
			Provider: Name,
			Code:     "send_error",
			Message:  "failed to send email: " + err.Error(),
			Cause:    err,
		}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &core.TransportError{
			Provider:   Name,
			Code:       "api_error",
			Message:    strings.TrimSpace(string(respBody)),
			StatusCode: resp.StatusCode,
		}
	}

	var ack struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &ack); err != nil || ack.ID == "" {
		// The operation id header is the documented fallback.
		if id := resp.Header.Get("Operation-Id"); id != "" {
			return id, nil
		}
		return "unknown", nil
	}

	return ack.ID, nil
}

// sign applies the ACS HMAC-SHA256 authentication headers to the request.
func (c *client) sign(req *http.Request, body []byte) {
	date := time.Now().UTC().Format(http.TimeFormat)
	contentHash := sha256.Sum256(body)
	contentHashB64 := base64.StdEncoding.EncodeToString(contentHash[:])

	pathAndQuery := req.URL.Path
	if req.URL.RawQuery != "" {
		pathAndQuery += "?" + req.URL.RawQuery
	}

	stringToSign := strings.Join([]string{
		req.Method,
		pathAndQuery,
		date + ";" + req.URL.Host + ";" + contentHashB64,
	}, "\n")

	mac := hmac.New(sha256.New, c.accessKey)
	mac.Write([]byte(stringToSign))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req.Header.Set("x-ms-date", date)
	req.Header.Set("x-ms-content-sha256", contentHashB64)
	req.Header.Set("Authorization",
		"HMAC-SHA256 SignedHeaders=x-ms-date;host;x-ms-content-sha256&Signature="+signature)
}

// encodeContent base64-encodes attachment content for the JSON payload.
func encodeContent(content []byte) string {
	return base64.StdEncoding.EncodeToString(content)
}
