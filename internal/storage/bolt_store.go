package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	sessionBucket    = "session"
	tokenKey         = "token"
	expiryValueBytes = 8
)

// boltStore implements a Store backed by BoltDB. The token value is stored
// as an 8-byte big-endian expiry followed by the token bytes.
type boltStore struct {
	db       *bolt.DB
	tokenTTL time.Duration
	now      func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{
		db:       db,
		tokenTTL: opts.TokenTTL,
		now:      time.Now,
	}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Token returns the stored token, deleting it when expired.
func (b *boltStore) Token() (string, error) {
	if b == nil || b.db == nil {
		return "", nil
	}

	var token string
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket missing")
		}

		value := bucket.Get([]byte(tokenKey))
		if value == nil {
			return nil
		}

		expiry, ok := decodeExpiry(value)
		if !ok || !expiry.After(b.now()) {
			return bucket.Delete([]byte(tokenKey))
		}

		token = string(value[expiryValueBytes:])
		return nil
	})
	return token, err
}

// SaveToken stores token with a fresh expiry.
func (b *boltStore) SaveToken(token string) error {
	if b == nil || b.db == nil {
		return nil
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket missing")
		}
		buf := make([]byte, expiryValueBytes+len(token))
		binary.BigEndian.PutUint64(buf, uint64(b.now().Add(b.tokenTTL).Unix()))
		copy(buf[expiryValueBytes:], token)
		return bucket.Put([]byte(tokenKey), buf)
	})
}

// ClearToken removes any stored token.
func (b *boltStore) ClearToken() error {
	if b == nil || b.db == nil {
		return nil
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket missing")
		}
		return bucket.Delete([]byte(tokenKey))
	})
}

// decodeExpiry decodes the expiry prefix from the stored byte slice.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
