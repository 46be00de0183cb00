// Package db provides persistence for the tool-call audit trail on
// PostgreSQL or SQLite.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DB wraps the underlying *sql.DB and provides typed query methods.
type DB struct {
	conn   *sql.DB
	driver string
}

// New opens the database named by databaseURL, verifies connectivity and
// applies pending migrations. postgres:// and postgresql:// URLs use
// PostgreSQL; sqlite://<path>, file: URIs and :memory: use SQLite.
func New(databaseURL string) (*DB, error) {
	driver, dsn, err := parseURL(databaseURL)
	if err != nil {
		return nil, err
	}
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if err := ApplyMigrations(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return &DB{conn: conn, driver: driver}, nil
}

func parseURL(databaseURL string) (driver, dsn string, err error) {
	raw := strings.TrimSpace(databaseURL)
	switch {
	case raw == "":
		return "", "", fmt.Errorf("database url is empty")
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return "postgres", raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite url %q has no path", raw)
		}
		return "sqlite", path, nil
	case strings.HasPrefix(raw, "file:"), raw == ":memory:":
		return "sqlite", raw, nil
	default:
		return "", "", fmt.Errorf("unsupported database url %q (want postgres://, sqlite://, file: or :memory:)", raw)
	}
}

// Close closes the database connection pool.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Driver reports the database/sql driver name in use.
func (d *DB) Driver() string {
	return d.driver
}

// ToolCall is one audited tool invocation.
type ToolCall struct {
	ToolCallID   string    `json:"tool_call_id"`
	TraceID      string    `json:"trace_id"`
	Transport    string    `json:"transport"`
	ToolName     string    `json:"tool_name"`
	Status       string    `json:"status"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	DurationMS   int64     `json:"duration_ms"`
	EvidenceHash string    `json:"evidence_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// InsertToolCall creates a new tool call record.
func (d *DB) InsertToolCall(ctx context.Context, tc *ToolCall) error {
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO tool_calls (tool_call_id, trace_id, transport, tool_name, status, error_kind, duration_ms, evidence_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tc.ToolCallID, tc.TraceID, tc.Transport, tc.ToolName, tc.Status, tc.ErrorKind, tc.DurationMS, tc.EvidenceHash, tc.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert tool_call: %w", err)
	}
	return nil
}

// GetToolCall retrieves a tool call by ID.
func (d *DB) GetToolCall(ctx context.Context, toolCallID string) (*ToolCall, error) {
	tc := &ToolCall{}
	err := d.conn.QueryRowContext(ctx,
		`SELECT tool_call_id, trace_id, transport, tool_name, status, error_kind, duration_ms, evidence_hash, created_at
		 FROM tool_calls WHERE tool_call_id = $1`, toolCallID,
	).Scan(&tc.ToolCallID, &tc.TraceID, &tc.Transport, &tc.ToolName, &tc.Status, &tc.ErrorKind, &tc.DurationMS, &tc.EvidenceHash, &tc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tool_call: %w", err)
	}
	return tc, nil
}

// ToolCallFilter narrows ListToolCalls. Zero values do not filter.
type ToolCallFilter struct {
	Status        string
	ToolName      string
	ErrorKind     string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         int
}

// ListToolCalls returns tool calls matching filter, most recent first.
func (d *DB) ListToolCalls(ctx context.Context, filter ToolCallFilter) ([]*ToolCall, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	where := make([]string, 0, 5)
	args := make([]any, 0, 6)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.ToolName != "" {
		add("tool_name = $%d", filter.ToolName)
	}
	if filter.ErrorKind != "" {
		add("error_kind = $%d", filter.ErrorKind)
	}
	if filter.CreatedAfter != nil {
		add("created_at >= $%d", filter.CreatedAfter.UTC())
	}
	if filter.CreatedBefore != nil {
		add("created_at <= $%d", filter.CreatedBefore.UTC())
	}

	query := `SELECT tool_call_id, trace_id, transport, tool_name, status, error_kind, duration_ms, evidence_hash, created_at FROM tool_calls`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tool_calls: %w", err)
	}
	defer rows.Close()

	out := make([]*ToolCall, 0)
	for rows.Next() {
		tc := &ToolCall{}
		if err := rows.Scan(&tc.ToolCallID, &tc.TraceID, &tc.Transport, &tc.ToolName, &tc.Status, &tc.ErrorKind, &tc.DurationMS, &tc.EvidenceHash, &tc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tool_call: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
