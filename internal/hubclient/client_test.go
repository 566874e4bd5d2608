package hubclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozy-creator/hubuser/internal/common"
)

var validRequest = RegisterRequest{
	Identifier: "new@example.com",
	Username:   "validuser",
	Password:   "password123",
}

// recorder keeps what a fake Hub received.
type recorder struct {
	mu     sync.Mutex
	reqs   []*http.Request
	bodies []RegisterRequest
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reqs)
}

func (r *recorder) first() (*http.Request, RegisterRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reqs[0], r.bodies[0]
}

// fakeHub answers every request with status and body.
func fakeHub(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rr RegisterRequest
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &rr)

		rec.mu.Lock()
		rec.reqs = append(rec.reqs, r)
		rec.bodies = append(rec.bodies, rr)
		rec.mu.Unlock()

		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestRegister_Success(t *testing.T) {
	srv, rec := fakeHub(t, http.StatusCreated, `{"id":"abc","message":"verify your email"}`)

	c := NewClient(srv.URL+"/", time.Second, nil)
	resp, err := c.Register(context.Background(), validRequest)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "abc", resp.Body["id"])
	assert.Equal(t, "verify your email", resp.Message)

	require.Equal(t, 1, rec.count(), "exactly one request")
	r, got := rec.first()
	assert.Equal(t, http.MethodPost, r.Method)
	assert.Equal(t, RegisterPath, r.URL.Path, "trailing slash trimmed")
	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	assert.Equal(t, validRequest, got)
}

func TestRegister_SuccessStatuses(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusAccepted} {
		srv, _ := fakeHub(t, status, `{"id":"abc"}`)
		resp, err := NewClient(srv.URL, time.Second, nil).Register(context.Background(), validRequest)
		require.NoError(t, err, "status %d", status)
		assert.Equal(t, status, resp.StatusCode)
	}
}

func TestRegister_SuccessWithNonJSONBody(t *testing.T) {
	srv, _ := fakeHub(t, http.StatusAccepted, "queued")

	resp, err := NewClient(srv.URL, time.Second, nil).Register(context.Background(), validRequest)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"raw_response": "queued"}, resp.Body)
	assert.Empty(t, resp.Message)
}

func TestRegister_Conflict(t *testing.T) {
	srv, rec := fakeHub(t, http.StatusConflict, `{"error":"username taken"}`)

	_, err := NewClient(srv.URL, time.Second, nil).Register(context.Background(), validRequest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDuplicate))

	pe, ok := common.AsProvisionError(err)
	require.True(t, ok)
	assert.Equal(t, "username taken", pe.Message)
	assert.Equal(t, common.FieldUsername, pe.Field)
	assert.Equal(t, http.StatusConflict, pe.StatusCode)
	assert.Equal(t, 1, rec.count(), "no retry")
}

func TestRegister_ServerErrorWithRawBody(t *testing.T) {
	srv, rec := fakeHub(t, http.StatusInternalServerError, "upstream exploded")

	_, err := NewClient(srv.URL, time.Second, nil).Register(context.Background(), validRequest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrTransport))
	assert.Contains(t, err.Error(), "upstream exploded")

	pe, _ := common.AsProvisionError(err)
	assert.Equal(t, http.StatusInternalServerError, pe.StatusCode)
	assert.Equal(t, "upstream exploded", pe.Body)
	assert.Equal(t, 1, rec.count(), "no retry")
}

func TestRegister_MultiLineErrorPage(t *testing.T) {
	page := "<html>\n<body>\n<h1>502 Bad Gateway</h1>\n</body>\n</html>\n"
	srv, _ := fakeHub(t, http.StatusBadGateway, page)

	_, err := NewClient(srv.URL, time.Second, nil).Register(context.Background(), validRequest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrTransport))

	pe, _ := common.AsProvisionError(err)
	assert.Equal(t, "<html> <body> <h1>502 Bad Gateway</h1> </body> </html>", pe.Message)
	assert.Equal(t, page, pe.Body, "raw body kept for debugging")
}

func TestRegister_ErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantKind  error
		wantMsg   string
		wantField string
	}{
		{"bad request message field", http.StatusBadRequest, `{"message":"invalid email format"}`, common.ErrValidation, "invalid email format", ""},
		{"unprocessable", http.StatusUnprocessableEntity, `{"error":"password too weak"}`, common.ErrValidation, "password too weak", ""},
		{"error wins over message", http.StatusConflict, `{"error":"email already registered","message":"ignored"}`, common.ErrDuplicate, "email already registered", common.FieldIdentifier},
		{"conflict unknown field", http.StatusConflict, `{}`, common.ErrDuplicate, "HTTP 409", ""},
		{"empty body", http.StatusBadGateway, ``, common.ErrTransport, "HTTP 502", ""},
		{"unauthorized", http.StatusUnauthorized, `{"error":"registration disabled"}`, common.ErrTransport, "registration disabled", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := fakeHub(t, tt.status, tt.body)

			_, err := NewClient(srv.URL, time.Second, nil).Register(context.Background(), validRequest)
			require.ErrorIs(t, err, tt.wantKind)
			pe, ok := common.AsProvisionError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, pe.Message)
			assert.Equal(t, tt.wantField, pe.Field)
		})
	}
}

func TestRegister_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	_, err := NewClient(srv.URL, 50*time.Millisecond, nil).Register(context.Background(), validRequest)
	require.ErrorIs(t, err, common.ErrTransport)
	assert.Contains(t, err.Error(), "timed out")
}

func TestRegister_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second, nil).Register(context.Background(), validRequest)
	require.ErrorIs(t, err, common.ErrTransport)
	assert.NotContains(t, err.Error(), validRequest.Password)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("http://hub.local///", 0, nil)
	assert.Equal(t, "http://hub.local", c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", errorMessage(500, []byte(`{"error":"boom"}`)))
	assert.Equal(t, "HTTP 500", errorMessage(500, []byte(`{"error":""}`)))
	assert.Equal(t, "Service Unavailable", errorMessage(503, []byte("  Service Unavailable\n")))
	assert.Equal(t, "bad gateway try later", errorMessage(502, []byte("bad\r\n\tgateway\n\ntry later\n")))
	assert.Equal(t, "HTTP 502", errorMessage(502, []byte(" \n\t\n")))
	assert.True(t, strings.HasPrefix(errorMessage(500, []byte(`{"error":42}`)), "42"))
}
