package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dcSpark/mcp-server-helius/internal/db"
	"github.com/google/uuid"
)

// ToolCallStore is the persistence the audit layer needs.
type ToolCallStore interface {
	InsertToolCall(ctx context.Context, tc *db.ToolCall) error
}

// AuditService records every tool invocation with a SHA-256 evidence hash
// over the request arguments and the returned envelope.
type AuditService struct {
	store ToolCallStore
	now   func() time.Time
}

// NewAuditService wires the audit layer to its store.
func NewAuditService(store ToolCallStore) *AuditService {
	return &AuditService{store: store, now: time.Now}
}

// RecordInput captures what is needed to log a tool call.
type RecordInput struct {
	TraceID   string
	Transport string
	ToolName  string
	Arguments json.RawMessage
	Result    *ToolResult
	Duration  time.Duration
}

// Record persists a tool call.
func (a *AuditService) Record(ctx context.Context, in RecordInput) (*db.ToolCall, error) {
	if a == nil || a.store == nil {
		return nil, fmt.Errorf("audit store not configured")
	}
	if in.Result == nil {
		return nil, fmt.Errorf("audit record for %s: result is nil", in.ToolName)
	}

	hash, err := EvidenceHash(in.Arguments, in.Result)
	if err != nil {
		return nil, err
	}

	tc := &db.ToolCall{
		ToolCallID:   uuid.New().String(),
		TraceID:      in.TraceID,
		Transport:    in.Transport,
		ToolName:     in.ToolName,
		Status:       in.Result.Status(),
		ErrorKind:    string(in.Result.Kind),
		DurationMS:   in.Duration.Milliseconds(),
		EvidenceHash: hash,
		CreatedAt:    a.now().UTC(),
	}
	if err := a.store.InsertToolCall(ctx, tc); err != nil {
		return nil, fmt.Errorf("insert tool_call: %w", err)
	}
	return tc, nil
}

// EvidenceHash hashes the canonical request JSON followed by the envelope
// JSON. Canonical means re-encoded through a generic value so key order and
// whitespace in the caller's payload do not matter.
func EvidenceHash(arguments json.RawMessage, result *ToolResult) (string, error) {
	reqJSON, err := canonicalJSON(arguments)
	if err != nil {
		return "", err
	}
	respJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal response: %w", err)
	}
	evidence := sha256.Sum256(append(reqJSON, respJSON...))
	return hex.EncodeToString(evidence[:]), nil
}

func canonicalJSON(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return []byte("{}"), nil
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("canonicalize request: %w", err)
	}
	b, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return b, nil
}
