package portalapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signbay/provision/internal/core/ports"
)

func testConfig(serverURL string) *ports.Configuration {
	return &ports.Configuration{
		Portal: ports.PortalConfig{
			URL:            serverURL,
			TeamID:         "TEAMID1",
			SessionToken:   "session-secret",
			RequestTimeout: 5 * time.Second,
			MaxRetries:     3,
		},
	}
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := New(testConfig(serverURL))
	require.NoError(t, err)
	return client
}

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&ports.Configuration{})
	assert.Error(t, err)

	_, err = New(&ports.Configuration{
		Portal: ports.PortalConfig{URL: "ftp://portal.example.com", TeamID: "TEAMID1"},
	})
	assert.Error(t, err)
}

func TestRequestCarriesAuthAndTeam(t *testing.T) {
	var gotAuth, gotTeam string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTeam = r.URL.Query().Get("teamId")
		_, _ = w.Write([]byte(`{"provisioningProfiles":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ListProvisioningProfiles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer session-secret", gotAuth)
	assert.Equal(t, "TEAMID1", gotTeam)
}

func TestWithRetryRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"provisioningProfiles":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.WithRetry(context.Background(), func(ctx context.Context) error {
		_, err := client.ListProvisioningProfiles(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestWithRetryReportsAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"provisioningProfiles":[]}`))
	}))
	defer server.Close()

	var attempts []int
	client, err := New(testConfig(server.URL), WithRetryNotify(func(attempt int) {
		attempts = append(attempts, attempt)
	}))
	require.NoError(t, err)

	err = client.WithRetry(context.Background(), func(ctx context.Context) error {
		_, err := client.ListProvisioningProfiles(ctx)
		return err
	})
	require.NoError(t, err)

	// One transient failure, so exactly one retry was reported.
	assert.Equal(t, []int{1}, attempts)
}

func TestWithRetryStopsOnPermanentFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"malformed request"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.WithRetry(context.Background(), func(ctx context.Context) error {
		_, err := client.ListProvisioningProfiles(ctx)
		return err
	})
	require.Error(t, err)
	// A definitive portal answer is never replayed.
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, err.Error(), "400")
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := client.WithRetry(ctx, func(ctx context.Context) error {
		_, err := client.ListProvisioningProfiles(ctx)
		return err
	})
	assert.Error(t, err)
}

func TestRetryableClassification(t *testing.T) {
	assert.True(t, retryable(&statusError{status: http.StatusTooManyRequests}))
	assert.True(t, retryable(&statusError{status: http.StatusInternalServerError}))
	assert.True(t, retryable(&statusError{status: http.StatusBadGateway}))
	assert.False(t, retryable(&statusError{status: http.StatusBadRequest}))
	assert.False(t, retryable(&statusError{status: http.StatusNotFound}))
	assert.False(t, retryable(&statusError{status: http.StatusUnauthorized}))
	// Transport errors have no status and are treated as transient.
	assert.True(t, retryable(context.DeadlineExceeded))
}

func TestStatusErrorIncludesBodySnippet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"name already taken"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ListProvisioningProfiles(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name already taken")
}
