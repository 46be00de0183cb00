// Package mcp exposes the tool registry over MCP: the go-sdk stdio server
// and a line-delimited JSON-RPC 2.0 server on TCP.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/dcSpark/mcp-server-helius/internal/tools"
)

const (
	ServerName      = "helius-mcp"
	ProtocolVersion = "2024-11-05"

	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602

	maxLineBytes = 1024 * 1024
)

// Server is the TCP transport.
type Server struct {
	registry *tools.Registry
	addr     string
	version  string
	logger   *slog.Logger

	ln     net.Listener
	mu     sync.Mutex
	closed bool
	// active maps each open connection to whether it is mid-request.
	active map[net.Conn]bool
	conns  sync.WaitGroup
}

func NewServer(addr string, registry *tools.Registry, version string, logger *slog.Logger) *Server {
	return &Server{
		registry: registry,
		addr:     addr,
		version:  version,
		logger:   logger,
	}
}

type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ListenAndServe blocks until Shutdown is called or the listener fails.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info("mcp tcp server starting", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.logger.Error("mcp accept error", "err", err)
			continue
		}
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return nil
		}
		s.conns.Add(1)
		s.mu.Unlock()
		go func() {
			defer s.conns.Done()
			s.handleConn(conn)
		}()
	}
}

// Shutdown stops accepting connections and closes idle ones. Connections
// mid-request are closed once their response is written. It waits for all
// of them or for ctx to expire, after which the stragglers are closed too.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	var err error
	if s.ln != nil {
		err = s.ln.Close()
	}
	for conn, busy := range s.active {
		if !busy {
			conn.Close()
		}
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
		return err
	case <-ctx.Done():
		s.mu.Lock()
		for conn := range s.active {
			conn.Close()
		}
		s.mu.Unlock()
		return ctx.Err()
	}
}

// setState records whether conn is mid-request. It reports false once the
// server is shutting down, in which case the connection must be dropped.
func (s *Server) setState(conn net.Conn, busy bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if s.active == nil {
		s.active = make(map[net.Conn]bool)
	}
	s.active[conn] = busy
	return true
}

func (s *Server) forget(conn net.Conn) {
	s.mu.Lock()
	delete(s.active, conn)
	s.mu.Unlock()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	if !s.setState(conn, false) {
		return
	}
	defer s.forget(conn)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, maxLineBytes), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !s.setState(conn, true) {
			return
		}

		var req jsonRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(conn, jsonRPCResponse{
				JSONRPC: "2.0",
				ID:      nil,
				Error:   &rpcError{Code: codeParseError, Message: "Parse error"},
			})
		} else {
			traceID := uuid.New().String()
			ctx := tools.WithCallMeta(context.Background(), tools.CallMeta{TraceID: traceID, Transport: "tcp"})
			if resp, ok := s.dispatch(ctx, req); ok {
				s.writeResponse(conn, resp)
			}
		}
		if !s.setState(conn, false) {
			return
		}
	}
	if err := scanner.Err(); err != nil && !s.shuttingDown() {
		s.logger.Warn("mcp connection closed", "remote", conn.RemoteAddr().String(), "err", err)
	}
}

func (s *Server) shuttingDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) writeResponse(w io.Writer, resp jsonRPCResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("encode response", "err", err)
		return
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

// dispatch handles one request. Notifications (no id) get no response.
func (s *Server) dispatch(ctx context.Context, req jsonRPCRequest) (jsonRPCResponse, bool) {
	base := jsonRPCResponse{JSONRPC: "2.0", ID: req.ID}
	notification := req.ID == nil

	if req.JSONRPC != "2.0" {
		base.Error = &rpcError{Code: codeInvalidRequest, Message: "Invalid Request"}
		return base, !notification
	}

	switch req.Method {
	case "initialize":
		base.Result = map[string]any{
			"protocolVersion": ProtocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{"listChanged": false}},
			"serverInfo":      map[string]any{"name": ServerName, "version": s.version},
		}

	case "notifications/initialized":
		return base, false

	case "ping":
		base.Result = map[string]any{}

	case "tools/list":
		base.Result = map[string]any{"tools": s.registry.List()}

	case "tools/call":
		return s.handleToolCall(ctx, req, base), !notification

	default:
		base.Error = &rpcError{Code: codeMethodNotFound, Message: "Method not found"}
	}
	return base, !notification
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (s *Server) handleToolCall(ctx context.Context, req jsonRPCRequest, base jsonRPCResponse) jsonRPCResponse {
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		base.Error = &rpcError{Code: codeInvalidParams, Message: "Invalid params: " + err.Error()}
		return base
	}
	if params.Name == "" {
		base.Error = &rpcError{Code: codeInvalidParams, Message: "Invalid params: name is required"}
		return base
	}

	result, err := s.registry.Call(ctx, params.Name, params.Arguments)
	if errors.Is(err, tools.ErrToolNotFound) {
		base.Error = &rpcError{Code: codeMethodNotFound, Message: "Method not found"}
		return base
	}
	if err != nil {
		base.Error = &rpcError{Code: codeInvalidParams, Message: err.Error()}
		return base
	}
	base.Result = result
	return base
}
