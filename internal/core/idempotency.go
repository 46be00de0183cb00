package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type IdempotencyConflictError struct {
	Detail string
}

func (e *IdempotencyConflictError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "idempotency key reused with different request payload"
}

func (e *IdempotencyConflictError) ErrorCode() string {
	return "idempotency_key_conflict"
}

// IdempotencyStore remembers tool results by caller-supplied key so a
// retried request replays the first outcome instead of calling the remote
// again. Entries expire after the store's TTL; replays do not extend it.
type IdempotencyStore struct {
	cache *ttlcache.Cache[string, idempotencyEntry]
}

type idempotencyEntry struct {
	fingerprint string
	result      *ToolResult
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{cache: ttlcache.New[string, idempotencyEntry](
		ttlcache.WithTTL[string, idempotencyEntry](ttl),
		ttlcache.WithDisableTouchOnHit[string, idempotencyEntry](),
	)}
}

// RequestFingerprint identifies a tool call by name and canonical arguments.
func RequestFingerprint(toolName string, arguments json.RawMessage) (string, error) {
	canonical, err := canonicalJSON(arguments)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte(toolName+"\n"), canonical...))
	return hex.EncodeToString(sum[:]), nil
}

// Lookup returns the stored result for key, or nil when the key is unknown
// or expired. A live key stored with a different fingerprint is an
// IdempotencyConflictError.
func (s *IdempotencyStore) Lookup(key, fingerprint string) (*ToolResult, error) {
	item := s.cache.Get(key)
	if item == nil {
		return nil, nil
	}
	e := item.Value()
	if e.fingerprint != fingerprint {
		return nil, &IdempotencyConflictError{Detail: fmt.Sprintf("idempotency key %q reused with different request payload", key)}
	}
	return e.result, nil
}

// Store records result under key unless a live entry already exists.
func (s *IdempotencyStore) Store(key, fingerprint string, result *ToolResult) {
	s.cache.DeleteExpired()
	s.cache.GetOrSet(key, idempotencyEntry{fingerprint: fingerprint, result: result})
}

// Len reports the number of live entries.
func (s *IdempotencyStore) Len() int {
	s.cache.DeleteExpired()
	return s.cache.Len()
}
