package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestRequestFingerprintIgnoresKeyOrder(t *testing.T) {
	a, err := RequestFingerprint("helius_send_transaction", json.RawMessage(`{"transaction":"AQ==","options":{"maxRetries":2}}`))
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	b, err := RequestFingerprint("helius_send_transaction", json.RawMessage(`{ "options":{"maxRetries":2}, "transaction":"AQ==" }`))
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if a != b {
		t.Fatalf("fingerprints differ: %s vs %s", a, b)
	}
	c, _ := RequestFingerprint("helius_simulate_transaction", json.RawMessage(`{"transaction":"AQ==","options":{"maxRetries":2}}`))
	if a == c {
		t.Fatal("fingerprint must include the tool name")
	}
	empty, _ := RequestFingerprint("helius_get_slot", nil)
	braces, _ := RequestFingerprint("helius_get_slot", json.RawMessage(`{}`))
	if empty != braces {
		t.Fatal("missing arguments must fingerprint like {}")
	}
	if _, err := RequestFingerprint("helius_get_slot", json.RawMessage(`{`)); err == nil {
		t.Fatal("expected error for malformed arguments")
	}
}

func TestIdempotencyStoreReplaysAndConflicts(t *testing.T) {
	store := NewIdempotencyStore(time.Minute)

	if got, err := store.Lookup("k1", "fp-a"); got != nil || err != nil {
		t.Fatalf("unknown key = %v, %v", got, err)
	}

	first := NewSuccess("Transaction sent: sig-1")
	store.Store("k1", "fp-a", first)
	store.Store("k1", "fp-a", NewSuccess("Transaction sent: sig-2"))

	got, err := store.Lookup("k1", "fp-a")
	if err != nil || got != first {
		t.Fatalf("replay = %v, %v", got, err)
	}

	_, err = store.Lookup("k1", "fp-b")
	var conflict *IdempotencyConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want IdempotencyConflictError", err)
	}
	if info := MapError(err, 500); info.HTTPStatus != 409 || info.Code != "idempotency_key_conflict" {
		t.Fatalf("mapped = %+v", info)
	}
}

func TestIdempotencyStoreExpiry(t *testing.T) {
	const ttl = 80 * time.Millisecond
	tests := []struct {
		name string
		// hits are Lookups made before the TTL elapses; they must not extend it.
		hits        int
		fingerprint string
	}{
		{name: "same payload", fingerprint: "fp-a"},
		{name: "replayed before expiry", hits: 3, fingerprint: "fp-a"},
		{name: "different payload after expiry", fingerprint: "fp-b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewIdempotencyStore(ttl)
			stored := time.Now()
			store.Store("k1", "fp-a", NewSuccess("Transaction sent: sig-1"))
			for i := 0; i < tt.hits; i++ {
				if got, err := store.Lookup("k1", "fp-a"); got == nil || err != nil {
					t.Fatalf("live lookup %d = %v, %v", i, got, err)
				}
				time.Sleep(ttl / 4)
			}
			time.Sleep(time.Until(stored.Add(ttl + 20*time.Millisecond)))

			if got, err := store.Lookup("k1", tt.fingerprint); got != nil || err != nil {
				t.Fatalf("expired key = %v, %v", got, err)
			}
			if n := store.Len(); n != 0 {
				t.Fatalf("live entries = %d, want 0", n)
			}

			fresh := NewSuccess("Transaction sent: sig-2")
			store.Store("k1", tt.fingerprint, fresh)
			if got, err := store.Lookup("k1", tt.fingerprint); got != fresh || err != nil {
				t.Fatalf("restored key = %v, %v", got, err)
			}
		})
	}
}
