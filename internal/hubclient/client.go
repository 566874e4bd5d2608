// Package hubclient is a minimal HTTP client for the Hub's registration API.
package hubclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cozy-creator/hubuser/internal/common"
	"github.com/cozy-creator/hubuser/internal/logging"
)

// RegisterPath is the Hub endpoint that creates a user.
const RegisterPath = "/api/v1/auth/register"

// DefaultTimeout bounds one registration round trip.
const DefaultTimeout = 30 * time.Second

// RegisterRequest is the JSON body sent to RegisterPath.
type RegisterRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

// RegisterResponse is a successful Hub reply. Body holds the decoded JSON
// object, or {"raw_response": text} when the reply was not JSON.
type RegisterResponse struct {
	StatusCode int
	Body       map[string]any
	Message    string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logging.Logger
}

// NewClient returns a Client for baseURL. A non-positive timeout falls back
// to DefaultTimeout. log may be nil.
func NewClient(baseURL string, timeout time.Duration, log logging.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// BaseURL returns the normalized Hub URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Register sends exactly one registration request. It never retries.
//
// Failures are *common.ProvisionError values: ErrDuplicate for 409,
// ErrValidation for 400 and 422, ErrTransport for anything else including
// network errors and timeouts.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, common.NewTransportError("failed to marshal request", 0, "", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+RegisterPath, bytes.NewReader(payload))
	if err != nil {
		return nil, common.NewTransportError("failed to create request", 0, "", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.log.Debug(ctx, "sending registration", "url", httpReq.URL.String(), "username", req.Username)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, requestError(err, c.httpClient.Timeout)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.NewTransportError("failed to read response", resp.StatusCode, "", err)
	}

	c.log.Debug(ctx, "hub response", "status", resp.StatusCode, "bytes", len(raw))

	if !isSuccess(resp.StatusCode) {
		c.log.Debug(ctx, "registration rejected", "status", resp.StatusCode, "body", string(raw))
		return nil, statusError(resp.StatusCode, raw)
	}

	body := decodeBody(raw)
	return &RegisterResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
		Message:    stringField(body, "message"),
	}, nil
}

func isSuccess(status int) bool {
	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return true
	}
	return false
}

func requestError(err error, timeout time.Duration) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return common.NewTransportError(fmt.Sprintf("request timed out after %s", timeout), 0, "", err)
	}
	return common.NewTransportError("request failed", 0, "", err)
}

// decodeBody returns the JSON object in raw, or wraps the text under
// "raw_response" when raw is not a JSON object.
func decodeBody(raw []byte) map[string]any {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]any{"raw_response": string(raw)}
	}
	return body
}

func stringField(body map[string]any, key string) string {
	v, ok := body[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
