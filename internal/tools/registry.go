package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dcSpark/mcp-server-helius/internal/core"
	"github.com/dcSpark/mcp-server-helius/internal/helius"
	"github.com/dcSpark/mcp-server-helius/internal/telemetry"
)

// ErrToolNotFound is returned by Call for names the registry does not
// expose, including tools removed by policy.
var ErrToolNotFound = errors.New("method not found")

// Descriptor is the public shape of a tool for listing.
type Descriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// All returns every tool definition in catalogue order, unfiltered.
func All() []*Tool {
	var out []*Tool
	out = append(out, coreRPCTools()...)
	out = append(out, additionalRPCTools()...)
	out = append(out, dasTools()...)
	out = append(out, transactionTools()...)
	return out
}

// Registry pairs tool names with handlers bound to one client.
type Registry struct {
	client helius.Client
	policy *core.Policy
	audit  *core.AuditService
	logger *slog.Logger

	ordered []*Tool
	byName  map[string]*Tool
}

type Option func(*Registry)

// WithPolicy hides tools the policy does not allow.
func WithPolicy(p *core.Policy) Option {
	return func(r *Registry) { r.policy = p }
}

// WithAudit records every call.
func WithAudit(a *core.AuditService) Option {
	return func(r *Registry) { r.audit = a }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

func NewRegistry(client helius.Client, opts ...Option) *Registry {
	r := &Registry{
		client: client,
		logger: slog.Default(),
		byName: map[string]*Tool{},
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, t := range All() {
		if !r.policy.Allows(t.Name) {
			continue
		}
		r.ordered = append(r.ordered, t)
		r.byName[t.Name] = t
	}
	return r
}

// List returns the exposed tools in catalogue order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.ordered))
	for _, t := range r.ordered {
		out = append(out, Descriptor{Name: t.Name, Description: t.Description, InputSchema: t.Schema})
	}
	return out
}

// Tools returns the exposed tool definitions in catalogue order.
func (r *Registry) Tools() []*Tool {
	return append([]*Tool(nil), r.ordered...)
}

func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

type callMetaKey struct{}

// CallMeta identifies where a call came from for logs and audit.
type CallMeta struct {
	TraceID   string
	Transport string
}

func WithCallMeta(ctx context.Context, meta CallMeta) context.Context {
	return context.WithValue(ctx, callMetaKey{}, meta)
}

func CallMetaFrom(ctx context.Context) CallMeta {
	meta, _ := ctx.Value(callMetaKey{}).(CallMeta)
	return meta
}

// Call runs the named tool. The only error it returns is ErrToolNotFound;
// every other outcome is carried by the result envelope.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (*core.ToolResult, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	start := time.Now()
	result := r.invoke(ctx, t, args)
	elapsed := time.Since(start)

	status := result.Status()
	telemetry.IncToolCall(name, status)
	telemetry.ObserveToolDuration(name, elapsed)
	if result.IsError {
		telemetry.IncToolError(name, string(result.Kind))
	}

	meta := CallMetaFrom(ctx)
	r.logger.Info("tool call completed",
		"trace_id", meta.TraceID,
		"transport", meta.Transport,
		"tool_name", name,
		"status", status,
		"error_kind", string(result.Kind),
		"duration_ms", elapsed.Milliseconds(),
	)

	if r.audit != nil {
		if _, err := r.audit.Record(ctx, core.RecordInput{
			TraceID:   meta.TraceID,
			Transport: meta.Transport,
			ToolName:  name,
			Arguments: normalizeArgs(args),
			Result:    result,
			Duration:  elapsed,
		}); err != nil {
			telemetry.IncAuditWriteFailure()
			r.logger.Error("audit write failed", "trace_id", meta.TraceID, "tool_name", name, "err", err)
		}
	}
	return result, nil
}

// invoke turns a handler panic into a remote failure of the tool's action.
func (r *Registry) invoke(ctx context.Context, t *Tool, args json.RawMessage) (result *core.ToolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool handler panicked", "tool_name", t.Name, "panic", rec)
			result = core.FailureFromError(t.Action, fmt.Errorf("internal error: %v", rec))
		}
	}()
	return t.handle(ctx, r.client, args)
}
