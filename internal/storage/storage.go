package storage

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Package storage persists the session token between driver calls.

// Store keeps the current auth token. An expired or missing token reads as "".
type Store interface {
	Close() error
	Token() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	TokenTTL time.Duration
}

const defaultTokenTTL = 24 * time.Hour

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "memory":
		return newMemoryStore(opts), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error           { return nil }
func (noopStore) Token() (string, error) { return "", nil }
func (noopStore) SaveToken(string) error { return nil }
func (noopStore) ClearToken() error      { return nil }

// memoryStore keeps the token in process memory.
type memoryStore struct {
	mu      sync.RWMutex
	token   string
	expires time.Time
	ttl     time.Duration
	now     func() time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{ttl: opts.TokenTTL, now: time.Now}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) Token() (string, error) {
	m.mu.RLock()
	token, expires := m.token, m.expires
	m.mu.RUnlock()

	if token == "" {
		return "", nil
	}
	if expires.After(m.now()) {
		return token, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// a SaveToken may have landed since the read lock was released
	if m.token != "" && !m.expires.After(m.now()) {
		m.token = ""
		m.expires = time.Time{}
	}
	return "", nil
}

func (m *memoryStore) SaveToken(token string) error {
	m.mu.Lock()
	m.token = token
	m.expires = m.now().Add(m.ttl)
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) ClearToken() error {
	m.mu.Lock()
	m.token = ""
	m.expires = time.Time{}
	m.mu.Unlock()
	return nil
}
