package collectors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSLLabsClient_Collect(t *testing.T) {
	notAfter := time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC).UnixMilli()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "example.com", r.URL.Query().Get("host"))
		fmt.Fprintf(w, `{"status": "READY", "endpoints": [{"grade": "A+"}], "certs": [{"notAfter": %d}]}`, notAfter)
	}))
	t.Cleanup(server.Close)

	client := NewSSLLabsClient(server.URL, 5*time.Second)
	info, err := client.Collect(context.Background(), "https://example.com/pricing")
	require.NoError(t, err)

	assert.True(t, info.HasSSL)
	assert.Equal(t, "A+", info.Grade)
	assert.Equal(t, "2027-01-15T00:00:00Z", info.ValidUntil)
	assert.Empty(t, info.Error)
}

func TestSSLLabsClient_AssessmentNotReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "IN_PROGRESS", "endpoints": []}`)
	}))
	t.Cleanup(server.Close)

	client := NewSSLLabsClient(server.URL, 5*time.Second)
	_, err := client.Collect(context.Background(), "https://example.com")
	assert.ErrorContains(t, err, "not ready")
}

func TestSSLLabsClient_NoGradedEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "READY", "endpoints": []}`)
	}))
	t.Cleanup(server.Close)

	client := NewSSLLabsClient(server.URL, 5*time.Second)
	_, err := client.Collect(context.Background(), "https://example.com")
	assert.Error(t, err)
}

func TestSSLLabsClient_BadTargetURL(t *testing.T) {
	client := NewSSLLabsClient("http://unused", 5*time.Second)
	_, err := client.Collect(context.Background(), "://nonsense")
	assert.Error(t, err)
}
