package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dcSpark/mcp-server-helius/internal/core"
	"github.com/dcSpark/mcp-server-helius/internal/tools"
)

// errMethodNotFound is the JSON-RPC -32601 error, decoded from the wire so
// the SDK encodes it with its code intact.
var errMethodNotFound = mustWireError(codeMethodNotFound, "Method not found")

func mustWireError(code int, message string) error {
	raw := fmt.Sprintf(`{"jsonrpc":"2.0","id":0,"error":{"code":%d,"message":%q}}`, code, message)
	msg, err := jsonrpc.DecodeMessage([]byte(raw))
	if err != nil {
		panic(err)
	}
	resp, ok := msg.(*jsonrpc.Response)
	if !ok || resp.Error == nil {
		panic("decoded JSON-RPC message is not an error response")
	}
	return resp.Error
}

// rejectUnknownTools answers tools/call for a name the registry does not
// serve with -32601, matching the TCP transport.
func rejectUnknownTools(registry *tools.Registry) sdk.Middleware {
	return func(next sdk.MethodHandler) sdk.MethodHandler {
		return func(ctx context.Context, method string, req sdk.Request) (sdk.Result, error) {
			if call, ok := req.(*sdk.CallToolRequest); ok && call.Params != nil {
				if _, found := registry.Lookup(call.Params.Name); !found {
					return nil, errMethodNotFound
				}
			}
			return next(ctx, method, req)
		}
	}
}

// NewSDKServer registers every registry tool on a go-sdk server. Argument
// validation stays with the registry, so the raw handler API is used.
func NewSDKServer(registry *tools.Registry, version string) *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{Name: ServerName, Version: version}, &sdk.ServerOptions{HasTools: true})
	server.AddReceivingMiddleware(rejectUnknownTools(registry))
	for _, d := range registry.List() {
		name := d.Name
		server.AddTool(&sdk.Tool{
			Name:        name,
			Description: d.Description,
			InputSchema: d.InputSchema,
		}, func(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
			ctx = tools.WithCallMeta(ctx, tools.CallMeta{TraceID: uuid.New().String(), Transport: "stdio"})
			result, err := registry.Call(ctx, name, req.Params.Arguments)
			if err != nil {
				return nil, err
			}
			return toSDKResult(result), nil
		})
	}
	return server
}

func toSDKResult(r *core.ToolResult) *sdk.CallToolResult {
	out := &sdk.CallToolResult{IsError: r.IsError}
	for _, c := range r.Content {
		out.Content = append(out.Content, &sdk.TextContent{Text: c.Text})
	}
	return out
}

// ServeStdio runs the go-sdk server on stdin/stdout until ctx is done or
// the client disconnects.
func ServeStdio(ctx context.Context, registry *tools.Registry, version string, logger *slog.Logger) error {
	logger.Info("mcp stdio server starting", "tools", len(registry.List()))
	return NewSDKServer(registry, version).Run(ctx, &sdk.StdioTransport{})
}
