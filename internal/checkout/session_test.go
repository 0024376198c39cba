package checkout

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greencart/checkout-client/pkg/logger"
)

func sessionLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestReadyProbesOnce(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	loader, err := NewSessionLoader(server.URL, sessionLogger())
	require.NoError(t, err)

	assert.True(t, loader.Ready(context.Background()))
	assert.True(t, loader.Ready(context.Background()))
	assert.Equal(t, int32(1), hits.Load(), "probe must run once per process")
}

func TestReadyFalseOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	loader, err := NewSessionLoader(server.URL, sessionLogger())
	require.NoError(t, err)
	assert.False(t, loader.Ready(context.Background()))
}

func TestReadyFalseWhenUnreachable(t *testing.T) {
	loader, err := NewSessionLoader("http://127.0.0.1:1/checkout.js", sessionLogger())
	require.NoError(t, err)
	assert.False(t, loader.Ready(context.Background()))
}

func TestNewSessionLoaderGuards(t *testing.T) {
	_, err := NewSessionLoader("", sessionLogger())
	assert.Error(t, err)

	_, err = NewSessionLoader("http://example.test/checkout.js", nil)
	assert.Error(t, err)
}
