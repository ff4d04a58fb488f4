package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/samvad-hq/resty-auth-driver/internal/config"
	"github.com/samvad-hq/resty-auth-driver/internal/logger"
	"github.com/samvad-hq/resty-auth-driver/internal/session"
	"github.com/samvad-hq/resty-auth-driver/internal/storage"
	"github.com/samvad-hq/resty-auth-driver/pkg/driver"
	"github.com/samvad-hq/resty-auth-driver/pkg/httpclient"
)

// Client wires the resty client, the auth driver, the token store and the
// session that ties them together.
type Client struct {
	cfg     *config.Config
	driver  *driver.Driver
	session *session.Session
	store   storage.Store
	log     logger.Logger
}

// NewClient builds a client runtime from config.
func NewClient(cfg *config.Config, log logger.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	headers, err := httpclient.LoadHeaders(cfg.HeadersFile)
	if err != nil {
		return nil, fmt.Errorf("load default headers: %w", err)
	}

	rc := httpclient.NewRestyHTTPClient(httpclient.Options{
		Timeout: cfg.HTTPTimeout,
		BaseURL: cfg.BaseURL,
		Headers: headers,
	})
	log.InfoObj("http client configured", "http_config", map[string]any{
		"base_url":        cfg.BaseURL,
		"timeout_seconds": int(cfg.HTTPTimeout.Seconds()),
		"default_headers": len(headers),
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{TokenTTL: cfg.TokenTTL})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":              cfg.StorageType,
		"path":              cfg.BBoltPath,
		"token_ttl_seconds": int(cfg.TokenTTL.Seconds()),
	})

	d := driver.New(rc, log)
	sess := session.New(d, store, cfg.TokenHeader, log, session.WithExpiredHandler(func() {
		log.WarnObj("stored token rejected; login required", "token_header", cfg.TokenHeader)
	}))
	if err := sess.Attach(); err != nil {
		store.Close()
		return nil, fmt.Errorf("attach session: %w", err)
	}

	return &Client{
		cfg:     cfg,
		driver:  d,
		session: sess,
		store:   store,
		log:     log,
	}, nil
}

// Do performs one request and returns the status and decoded payload.
func (c *Client) Do(ctx context.Context, method, path string, body any) (int, any, error) {
	if c == nil || c.session == nil {
		return 0, nil, fmt.Errorf("client is not initialized")
	}

	req := &driver.Request{
		Method: strings.ToUpper(strings.TrimSpace(method)),
		URL:    path,
		Body:   body,
	}
	if body != nil {
		c.driver.WriteHeaders(req, map[string]string{"Content-Type": "application/json"})
	}

	res, payload, err := c.session.Do(ctx, req)
	if err != nil {
		c.log.ErrorObj("request failed", "error", err)
		return 0, nil, fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	c.log.InfoObj("request completed", "request_result", map[string]any{
		"method": req.Method,
		"path":   path,
		"status": res.Status,
	})
	return res.Status, payload, nil
}

// Close releases the token store.
func (c *Client) Close() {
	if c == nil || c.store == nil {
		return
	}
	if err := c.store.Close(); err != nil {
		c.log.ErrorObj("storage close failed", "error", err)
	}
}
