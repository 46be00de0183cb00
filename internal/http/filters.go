package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dcSpark/mcp-server-helius/internal/core"
	"github.com/dcSpark/mcp-server-helius/internal/db"
)

const maxToolCallListLimit = 500

func parseToolCallListFilters(r *http.Request) (db.ToolCallFilter, error) {
	q := r.URL.Query()
	var f db.ToolCallFilter

	switch status := q.Get("status"); status {
	case "", "ok", "fail":
		f.Status = status
	default:
		return f, fmt.Errorf("invalid status %q (valid: ok, fail)", status)
	}

	f.ToolName = q.Get("tool_name")

	if raw := q.Get("error_kind"); raw != "" {
		kind, err := core.ParseErrorKind(raw)
		if err != nil {
			return f, err
		}
		f.ErrorKind = string(kind)
	}

	var err error
	if f.CreatedAfter, err = parseTimeParam(q.Get("created_after"), "created_after"); err != nil {
		return f, err
	}
	if f.CreatedBefore, err = parseTimeParam(q.Get("created_before"), "created_before"); err != nil {
		return f, err
	}
	if f.CreatedAfter != nil && f.CreatedBefore != nil && f.CreatedAfter.After(*f.CreatedBefore) {
		return f, fmt.Errorf("created_after must not be later than created_before")
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxToolCallListLimit {
			return f, fmt.Errorf("invalid limit %q (1-%d)", raw, maxToolCallListLimit)
		}
		f.Limit = limit
	}
	return f, nil
}

func parseTimeParam(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: want RFC3339", name, raw)
	}
	return &t, nil
}
