package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/samvad-hq/resty-auth-driver/internal/logger"
	"github.com/samvad-hq/resty-auth-driver/internal/storage"
	"github.com/samvad-hq/resty-auth-driver/pkg/driver"
)

// Session keeps the auth token flowing through a driver: it attaches the
// stored token to outgoing requests, captures refreshed tokens from
// responses and drops the token once the server reports it expired.
type Session struct {
	driver    *driver.Driver
	store     storage.Store
	header    string
	log       logger.Logger
	onExpired func()
}

// Option customizes a Session.
type Option func(*Session)

// WithExpiredHandler registers fn to run whenever the token is rejected.
func WithExpiredHandler(fn func()) Option {
	return func(s *Session) { s.onExpired = fn }
}

// New builds a session over d using store for the token named by header.
func New(d *driver.Driver, store storage.Store, header string, log logger.Logger, opts ...Option) *Session {
	if log == nil {
		log = &logger.NopLogger{}
	}
	header = http.CanonicalHeaderKey(strings.TrimSpace(header))
	if header == "" {
		header = "Authorization"
	}
	s := &Session{driver: d, store: store, header: header, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach validates the driver and registers the session interceptors.
// Call it once per client.
func (s *Session) Attach() error {
	if s == nil || s.store == nil {
		return fmt.Errorf("session is not initialized")
	}
	if err := s.driver.Init(); err != nil {
		return fmt.Errorf("init driver: %w", err)
	}
	if err := s.driver.RegisterInterceptors(s.beforeRequest, s.afterResponse); err != nil {
		return fmt.Errorf("register interceptors: %w", err)
	}
	s.log.DebugObj("session attached", "session", map[string]any{"token_header": s.header})
	return nil
}

// Do sends req and returns the response payload. Transport failures are
// returned unchanged from the driver.
func (s *Session) Do(ctx context.Context, req *driver.Request) (*driver.Response, any, error) {
	res, err := s.driver.Send(ctx, req)
	if err != nil {
		return res, nil, err
	}
	return res, s.driver.ExtractBody(res), nil
}

func (s *Session) beforeRequest(req *driver.Request) {
	token, err := s.store.Token()
	if err != nil {
		s.log.WarnObj("token lookup failed", "session_error", map[string]any{
			"url":   req.URL,
			"error": err.Error(),
		})
		return
	}
	if token == "" {
		return
	}
	s.driver.WriteHeaders(req, map[string]string{s.header: token})
}

func (s *Session) afterResponse(res *driver.Response) {
	if s.driver.IsAuthenticationExpired(res) {
		if err := s.store.ClearToken(); err != nil {
			s.log.ErrorObj("token clear failed", "session_error", map[string]any{"error": err.Error()})
		}
		s.log.WarnObj("authentication expired", "session", map[string]any{"status": res.Status})
		if s.onExpired != nil {
			s.onExpired()
		}
		return
	}
	if res == nil || res.Err != nil {
		return
	}

	token := strings.TrimSpace(s.driver.ReadHeaders(res)[s.header])
	if token == "" {
		return
	}
	if err := s.store.SaveToken(token); err != nil {
		s.log.ErrorObj("token save failed", "session_error", map[string]any{"error": err.Error()})
		return
	}
	s.log.DebugObj("token refreshed", "session", map[string]any{"status": res.Status})
}
