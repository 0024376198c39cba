package checkout

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/greencart/checkout-client/pkg/logger"
)

// SessionLoader probes the hosted checkout script before the first attempt.
// The probe runs at most once per process; its outcome is cached for the
// lifetime of the loader.
type SessionLoader struct {
	scriptURL  string
	httpClient *http.Client
	logg       *logger.Logger

	once  sync.Once
	ready bool
}

// SessionOption adjusts the loader.
type SessionOption func(*SessionLoader)

// WithSessionHTTPClient overrides the probe's HTTP client.
func WithSessionHTTPClient(client *http.Client) SessionOption {
	return func(s *SessionLoader) {
		s.httpClient = client
	}
}

// NewSessionLoader builds a loader for the given checkout script URL.
func NewSessionLoader(scriptURL string, logg *logger.Logger, opts ...SessionOption) (*SessionLoader, error) {
	if scriptURL == "" {
		return nil, fmt.Errorf("checkout script url required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	loader := &SessionLoader{
		scriptURL:  scriptURL,
		httpClient: http.DefaultClient,
		logg:       logg,
	}
	for _, opt := range opts {
		opt(loader)
	}
	return loader, nil
}

// Ready reports whether the hosted checkout script is reachable. It never
// returns an error; any probe failure reads as not ready.
func (s *SessionLoader) Ready(ctx context.Context) bool {
	s.once.Do(func() {
		s.ready = s.probe(ctx)
	})
	return s.ready
}

func (s *SessionLoader) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.scriptURL, nil)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "checkout script probe failed")
		return false
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "checkout script unreachable")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		s.logg.Warn(s.logg.WithField(ctx, "status", resp.StatusCode), "checkout script probe rejected")
		return false
	}

	s.logg.Debug(ctx, "checkout script reachable")
	return true
}
