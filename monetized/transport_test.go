package monetized

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_Post_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/process", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err, "X-Request-ID should be a UUID")

		var req ProcessRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "bsc_0123456789abcdef", req.License)
		assert.Equal(t, "basic", req.Tier)
		assert.Equal(t, map[string]any{"n": float64(7)}, req.Data)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"processed":true,"n":7}`))
	}))
	defer server.Close()

	tr := NewHTTPTransport()
	resp, err := tr.Post(context.Background(), server.URL+"/process", ProcessRequest{
		Data:    map[string]any{"n": 7},
		License: "bsc_0123456789abcdef",
		Tier:    "basic",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"processed":true,"n":7}`, string(resp))
}

func TestHTTPTransport_Post_ErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"code":    "FORBIDDEN",
				"message": "license revoked",
			},
		})
	}))
	defer server.Close()

	_, err := NewHTTPTransport().Post(context.Background(), server.URL, ProcessRequest{Tier: "free"})
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.StatusCode)
	assert.Equal(t, "FORBIDDEN", he.Code)
	assert.Equal(t, "license revoked", he.Message)
}

func TestHTTPTransport_Post_PlainErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream gone"))
	}))
	defer server.Close()

	_, err := NewHTTPTransport().Post(context.Background(), server.URL, ProcessRequest{Tier: "free"})
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadGateway, he.StatusCode)
	assert.Equal(t, "UNKNOWN", he.Code)
	assert.Equal(t, "upstream gone", he.Message)
}

func TestHTTPTransport_Post_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	_, err := NewHTTPTransport().Post(context.Background(), server.URL, ProcessRequest{Tier: "free"})
	require.Error(t, err)
	var he *HTTPError
	assert.False(t, errors.As(err, &he))
}

func TestHTTPTransport_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tr := NewHTTPTransport(WithTimeout(50 * time.Millisecond))
	_, err := tr.Post(context.Background(), server.URL, ProcessRequest{Tier: "free"})
	require.Error(t, err)
}

func TestHTTPTransport_CustomUserAgentAndClient(t *testing.T) {
	var receivedUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	hc := &http.Client{Timeout: time.Hour}
	tr := NewHTTPTransport(WithTimeout(5*time.Second), WithHTTPClient(hc), WithUserAgent("my-app/2.0"))
	_, err := tr.Post(context.Background(), server.URL, ProcessRequest{Tier: "free"})
	require.NoError(t, err)

	assert.Equal(t, "my-app/2.0", receivedUA)
	assert.Equal(t, 5*time.Second, hc.Timeout)
}

func TestHTTPTransport_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTPTransport().Post(ctx, server.URL, ProcessRequest{Tier: "free"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Call_OverHTTP(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"boom"}}`))
	}))
	defer server.Close()

	c, err := New(Config{Tier: "pro", LicenseKey: "pro_0123456789abcdef", Endpoint: server.URL})
	require.NoError(t, err)

	_, err = c.Call(context.Background(), "x")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "INTERNAL_ERROR", he.Code)
	assert.Equal(t, 1, hits)
}
