// Package http is the REST transport: tool listing and invocation, the
// audit trail, health, version and Prometheus metrics.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dcSpark/mcp-server-helius/internal/core"
	"github.com/dcSpark/mcp-server-helius/internal/db"
	"github.com/dcSpark/mcp-server-helius/internal/telemetry"
	"github.com/dcSpark/mcp-server-helius/internal/tools"
)

const maxRequestBodyBytes = 1 << 20

const (
	// HeaderErrorKind is set on tool responses whose envelope is a failure.
	HeaderErrorKind = "X-Error-Kind"
	// HeaderIdempotencyKey makes a tool call replay its first result when
	// retried with the same key and arguments.
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
)

// BuildInfo is reported by GET /version.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
}

// ToolCallLister reads the audit trail. A nil lister means auditing is off.
type ToolCallLister interface {
	ListToolCalls(ctx context.Context, filter db.ToolCallFilter) ([]*db.ToolCall, error)
}

type Options struct {
	Registry  *tools.Registry
	ToolCalls ToolCallLister
	// JWTSecret enables HS256 bearer auth on /api/v1/ when set.
	JWTSecret string
	// RateLimitRPS and RateLimitBurst enable per client IP limiting on
	// /api/v1/ when both are positive.
	RateLimitRPS   float64
	RateLimitBurst int
	// IdempotencyTTL bounds how long Idempotency-Key results are replayed.
	IdempotencyTTL time.Duration
	Build          BuildInfo
	Logger         *slog.Logger
}

type Server struct {
	registry    *tools.Registry
	toolCalls   ToolCallLister
	idempotency *core.IdempotencyStore
	build       BuildInfo
	srv         *http.Server
	logger      *slog.Logger
}

func NewServer(addr string, opts Options) *Server {
	s := &Server{
		registry:    opts.Registry,
		toolCalls:   opts.ToolCalls,
		idempotency: core.NewIdempotencyStore(opts.IdempotencyTTL),
		build:       opts.Build,
		logger:      opts.Logger,
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /api/v1/tools", s.handleListTools)
	api.HandleFunc("POST /api/v1/tools/{name}", s.handleCallTool)
	api.HandleFunc("GET /api/v1/tool-calls", s.handleListToolCalls)

	var guarded http.Handler = api
	guarded = withAuth(opts.JWTSecret, guarded)
	guarded = withRateLimit(newIPLimiter(opts.RateLimitRPS, opts.RateLimitBurst, 0), guarded)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /version", s.handleVersion)
	mux.Handle("GET /metrics", telemetry.Handler())
	mux.Handle("/api/v1/", guarded)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      withLogging(opts.Logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("http server starting", "addr", s.srv.Addr)
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.srv.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler exposes the routed handler for in-process use.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.build)
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.registry.List()})
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	args, err := readArguments(w, r)
	if err != nil {
		writeMappedErr(w, err, http.StatusBadRequest)
		return
	}

	traceID := r.Header.Get("X-Request-Id")
	if traceID == "" {
		traceID = uuid.New().String()
	}
	w.Header().Set("X-Request-Id", traceID)

	key := r.Header.Get(HeaderIdempotencyKey)
	var fingerprint string
	if key != "" {
		if _, ok := s.registry.Lookup(name); !ok {
			writeMappedErr(w, fmt.Errorf("%w: %s", tools.ErrToolNotFound, name), http.StatusNotFound)
			return
		}
		if fingerprint, err = core.RequestFingerprint(name, args); err != nil {
			writeMappedErr(w, fmt.Errorf("invalid json: %w", err), http.StatusBadRequest)
			return
		}
		replay, err := s.idempotency.Lookup(key, fingerprint)
		if err != nil {
			writeMappedErr(w, err, http.StatusConflict)
			return
		}
		if replay != nil {
			w.Header().Set(HeaderReplayed, "true")
			writeToolResult(w, replay)
			return
		}
	}

	ctx := r.Context()
	if key != "" {
		// The outcome of a keyed call is replayed, so a client that hangs up
		// must not turn it into a cancellation.
		ctx = context.WithoutCancel(ctx)
	}
	ctx = tools.WithCallMeta(ctx, tools.CallMeta{TraceID: traceID, Transport: "http"})
	result, err := s.registry.Call(ctx, name, args)
	if err != nil {
		writeMappedErr(w, err, http.StatusInternalServerError)
		return
	}
	if key != "" && replayable(result) {
		s.idempotency.Store(key, fingerprint, result)
	}
	writeToolResult(w, result)
}

// replayable reports whether result may be replayed for a retried key.
// Remote failures are transient and a retry should reach the remote again.
func replayable(result *core.ToolResult) bool {
	return !result.IsError || result.Kind != core.ErrorKindRemote
}

func writeToolResult(w http.ResponseWriter, result *core.ToolResult) {
	if result.IsError {
		w.Header().Set(HeaderErrorKind, string(result.Kind))
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListToolCalls(w http.ResponseWriter, r *http.Request) {
	if s.toolCalls == nil {
		writeMappedErr(w, errors.New("audit trail disabled: set AUDIT_DATABASE_URL"), http.StatusServiceUnavailable)
		return
	}
	filter, err := parseToolCallListFilters(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}
	calls, err := s.toolCalls.ListToolCalls(r.Context(), filter)
	if err != nil {
		writeMappedErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tool_calls": calls})
}

// readArguments returns the request body as tool arguments. An empty body
// means no arguments.
func readArguments(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	var probe json.RawMessage
	if err := dec.Decode(&probe); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("request body must contain a single JSON object")
	}
	return probe, nil
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeMappedErr(w http.ResponseWriter, err error, fallback int) {
	info := core.MapError(err, fallback)
	writeErr(w, info.HTTPStatus, info.Code, info.Message)
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(sw, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
