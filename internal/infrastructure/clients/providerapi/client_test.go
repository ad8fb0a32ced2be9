package providerapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/zatekoja/doctorfinder/pkg/errors"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchProviders_Array(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `[{"id":"1","name":"Alice Rao","fees":700},null,"x"]`)
	client := NewClient(server.URL, time.Second)

	raw, err := client.FetchProviders(context.Background())

	require.NoError(t, err)
	require.Len(t, raw, 3)
	first, ok := raw[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Alice Rao", first["name"])
	assert.Equal(t, 700.0, first["fees"])
	assert.Nil(t, raw[1])
}

func TestFetchProviders_DataEnvelope(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"data":[{"name":"Bob Shah"}]}`)
	client := NewClient(server.URL, time.Second)

	raw, err := client.FetchProviders(context.Background())

	require.NoError(t, err)
	assert.Len(t, raw, 1)
}

func TestFetchProviders_NonSuccessStatus(t *testing.T) {
	server := newTestServer(t, http.StatusServiceUnavailable, `oops`)
	client := NewClient(server.URL, time.Second)

	_, err := client.FetchProviders(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.True(t, Retryable(err))
}

func TestFetchProviders_MalformedBody(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{not json`)
	client := NewClient(server.URL, time.Second)

	_, err := client.FetchProviders(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
	assert.False(t, Retryable(err))
}

func TestFetchProviders_NotAnArray(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"name":"single"}`)
	client := NewClient(server.URL, time.Second)

	_, err := client.FetchProviders(context.Background())

	require.Error(t, err)
	assert.False(t, Retryable(err))
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(&StatusError{StatusCode: http.StatusNotFound}))
	assert.True(t, Retryable(&StatusError{StatusCode: http.StatusTooManyRequests}))
	assert.True(t, Retryable(errors.New("connection reset")))
	assert.False(t, Retryable(context.Canceled))
}
