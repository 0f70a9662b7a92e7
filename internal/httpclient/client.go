package httpclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/plumehq/plume/internal/common"
	"github.com/ternarybob/arbor"
)

// Client is a thin wrapper over net/http shared by publish adapters and
// media generators: JSON round-trips, header injection and bounded bodies.
type Client struct {
	http   *http.Client
	logger arbor.ILogger
}

const maxResponseBytes = 25 << 20

// BasicAuth builds an Authorization header value from a username/password
// pair.
func BasicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func New(timeout time.Duration) *Client {
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: common.GetLogger(),
	}
}

// DoJSON sends an optional JSON body and decodes a JSON response into out.
// Non-2xx responses return an error carrying the status and response text.
func (c *Client) DoJSON(ctx context.Context, method, url string, headers map[string]string, body, out interface{}) error {
	data, err := c.do(ctx, method, url, headers, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

// DoRaw sends an optional JSON body and returns the raw response bytes,
// for endpoints that stream binary assets.
func (c *Client) DoRaw(ctx context.Context, method, url string, headers map[string]string, body interface{}) ([]byte, error) {
	return c.do(ctx, method, url, headers, body)
}

func (c *Client) do(ctx context.Context, method, url string, headers map[string]string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Str("duration", time.Since(started).String()).
		Msg("Upstream request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := string(data)
		if len(detail) > 512 {
			detail = detail[:512]
		}
		return nil, fmt.Errorf("%s %s returned %d: %s", method, url, resp.StatusCode, detail)
	}
	return data, nil
}
