package core

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dcSpark/mcp-server-helius/internal/db"
)

type fakeToolCallStore struct {
	inserted []*db.ToolCall
	err      error
}

func (f *fakeToolCallStore) InsertToolCall(_ context.Context, tc *db.ToolCall) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, tc)
	return nil
}

func TestRecord_PersistsStatusAndKind(t *testing.T) {
	store := &fakeToolCallStore{}
	audit := NewAuditService(store)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	audit.now = func() time.Time { return fixed }

	tc, err := audit.Record(context.Background(), RecordInput{
		TraceID:   "trace-1",
		Transport: "tcp",
		ToolName:  "helius_get_balance",
		Arguments: json.RawMessage(`{"publicKey":"bad"}`),
		Result:    NewKindFailure(ErrorKindValidation, "Invalid public key: bad"),
		Duration:  1500 * time.Microsecond,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(store.inserted))
	}
	if tc.Status != "fail" || tc.ErrorKind != "validation" {
		t.Fatalf("unexpected status/kind %q/%q", tc.Status, tc.ErrorKind)
	}
	if tc.DurationMS != 1 {
		t.Fatalf("duration_ms = %d, want 1", tc.DurationMS)
	}
	if !tc.CreatedAt.Equal(fixed) {
		t.Fatalf("created_at = %v, want %v", tc.CreatedAt, fixed)
	}
	if len(tc.EvidenceHash) != 64 {
		t.Fatalf("expected hex sha256, got %q", tc.EvidenceHash)
	}
	if tc.ToolCallID == "" || tc.TraceID != "trace-1" || tc.Transport != "tcp" {
		t.Fatalf("unexpected identifiers: %+v", tc)
	}
}

func TestRecord_StoreFailureIsReturned(t *testing.T) {
	audit := NewAuditService(&fakeToolCallStore{err: errors.New("disk full")})

	_, err := audit.Record(context.Background(), RecordInput{
		ToolName: "helius_get_slot",
		Result:   NewSuccess("Current slot: 1"),
	})
	if err == nil {
		t.Fatal("expected error from Record when the store fails")
	}
	if !strings.Contains(err.Error(), "insert tool_call") {
		t.Fatalf("expected insert error, got: %v", err)
	}
}

func TestRecord_RequiresStoreAndResult(t *testing.T) {
	var nilAudit *AuditService
	if _, err := nilAudit.Record(context.Background(), RecordInput{Result: NewSuccess("x")}); err == nil {
		t.Fatal("expected error for nil audit service")
	}
	if _, err := NewAuditService(&fakeToolCallStore{}).Record(context.Background(), RecordInput{ToolName: "t"}); err == nil {
		t.Fatal("expected error for nil result")
	}
}

func TestEvidenceHash_CanonicalizesArguments(t *testing.T) {
	result := NewSuccess("Balance: 1")

	a, err := EvidenceHash(json.RawMessage(`{"publicKey":"k","commitment":"finalized"}`), result)
	if err != nil {
		t.Fatalf("EvidenceHash: %v", err)
	}
	b, err := EvidenceHash(json.RawMessage("{ \"commitment\": \"finalized\",\n \"publicKey\": \"k\" }"), result)
	if err != nil {
		t.Fatalf("EvidenceHash: %v", err)
	}
	if a != b {
		t.Fatal("equivalent arguments must hash equally")
	}

	c, err := EvidenceHash(json.RawMessage(`{"publicKey":"k","commitment":"finalized"}`), NewSuccess("Balance: 2"))
	if err != nil {
		t.Fatalf("EvidenceHash: %v", err)
	}
	if a == c {
		t.Fatal("different responses must hash differently")
	}

	empty, err := EvidenceHash(nil, result)
	if err != nil {
		t.Fatalf("EvidenceHash(nil): %v", err)
	}
	braces, err := EvidenceHash(json.RawMessage(`{}`), result)
	if err != nil {
		t.Fatalf("EvidenceHash({}): %v", err)
	}
	if empty != braces {
		t.Fatal("missing arguments must hash like an empty object")
	}

	if _, err := EvidenceHash(json.RawMessage(`{`), result); err == nil {
		t.Fatal("expected error for malformed arguments")
	}
}
