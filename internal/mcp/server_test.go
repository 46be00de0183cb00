package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/dcSpark/mcp-server-helius/internal/helius"
	"github.com/dcSpark/mcp-server-helius/internal/tools"
)

const testKey = "GsbwXfJraMomNxBcjK7xK2xQx5MQgQx8Kb71Wkgwq1Bi"

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testRegistry() *tools.Registry {
	return tools.NewRegistry(helius.NewMock(), tools.WithLogger(testLogger()))
}

type pipeClient struct {
	conn   net.Conn
	reader *bufio.Reader
}

func newPipeClient(t *testing.T) *pipeClient {
	t.Helper()
	s := NewServer("", testRegistry(), "test", testLogger())
	client, server := net.Pipe()
	go s.handleConn(server)
	t.Cleanup(func() { client.Close() })
	return &pipeClient{conn: client, reader: bufio.NewReader(client)}
}

func (c *pipeClient) roundTrip(t *testing.T, line string) map[string]any {
	t.Helper()
	_ = c.conn.SetDeadline(time.Now().Add(5 * time.Second))
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	resp, err := c.reader.ReadBytes('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(resp, &out); err != nil {
		t.Fatalf("decode %s: %v", resp, err)
	}
	return out
}

func errorCode(t *testing.T, resp map[string]any) (float64, string) {
	t.Helper()
	e, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatalf("response has no error: %v", resp)
	}
	return e["code"].(float64), e["message"].(string)
}

func TestInitializeAndPing(t *testing.T) {
	c := newPipeClient(t)

	resp := c.roundTrip(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	result := resp["result"].(map[string]any)
	info := result["serverInfo"].(map[string]any)
	if info["name"] != ServerName || info["version"] != "test" {
		t.Fatalf("serverInfo = %v", info)
	}
	if result["protocolVersion"] != ProtocolVersion {
		t.Fatalf("protocolVersion = %v", result["protocolVersion"])
	}

	resp = c.roundTrip(t, `{"jsonrpc":"2.0","id":"p","method":"ping"}`)
	if resp["id"] != "p" || resp["error"] != nil {
		t.Fatalf("ping = %v", resp)
	}
}

func TestToolsList(t *testing.T) {
	c := newPipeClient(t)
	resp := c.roundTrip(t, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	list := resp["result"].(map[string]any)["tools"].([]any)
	if len(list) != len(tools.All()) {
		t.Fatalf("listed %d tools, want %d", len(list), len(tools.All()))
	}
	first := list[0].(map[string]any)
	if first["name"] != "helius_get_balance" {
		t.Fatalf("first tool = %v", first["name"])
	}
	schema := first["inputSchema"].(map[string]any)
	if schema["type"] != "object" {
		t.Fatalf("schema = %v", schema)
	}
}

func TestToolsCallReturnsEnvelope(t *testing.T) {
	c := newPipeClient(t)

	resp := c.roundTrip(t, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"helius_get_balance","arguments":{"publicKey":"`+testKey+`"}}}`)
	got, _ := json.Marshal(resp["result"])
	want := `{"content":[{"text":"Balance: 1000000000","type":"text"}],"isError":false}`
	if string(got) != want {
		t.Fatalf("result = %s, want %s", got, want)
	}

	resp = c.roundTrip(t, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"helius_get_balance","arguments":{"publicKey":"invalid-public-key"}}}`)
	result := resp["result"].(map[string]any)
	if result["isError"] != true {
		t.Fatalf("result = %v", result)
	}
	text := result["content"].([]any)[0].(map[string]any)["text"].(string)
	if !strings.Contains(text, "Invalid public key") {
		t.Fatalf("text = %q", text)
	}
}

func TestProtocolErrors(t *testing.T) {
	c := newPipeClient(t)
	tests := []struct {
		name string
		line string
		code float64
		msg  string
	}{
		{"unknown method", `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`, -32601, "Method not found"},
		{"unknown tool", `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"helius_nope","arguments":{}}}`, -32601, "Method not found"},
		{"parse error", `{"jsonrpc":`, -32700, "Parse error"},
		{"bad params", `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":[1]}`, -32602, "Invalid params"},
		{"missing name", `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{}}`, -32602, "Invalid params"},
		{"wrong version", `{"jsonrpc":"1.0","id":5,"method":"ping"}`, -32600, "Invalid Request"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := errorCode(t, c.roundTrip(t, tc.line))
			if code != tc.code || !strings.HasPrefix(msg, tc.msg) {
				t.Fatalf("error = %v %q, want %v %q", code, msg, tc.code, tc.msg)
			}
		})
	}
}

func TestNotificationsGetNoResponse(t *testing.T) {
	c := newPipeClient(t)
	_ = c.conn.SetDeadline(time.Now().Add(5 * time.Second))
	if _, err := io.WriteString(c.conn, `{"jsonrpc":"2.0","method":"notifications/initialized"}`+"\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	resp := c.roundTrip(t, `{"jsonrpc":"2.0","id":9,"method":"ping"}`)
	if resp["id"] != float64(9) {
		t.Fatalf("response = %v, want the ping reply", resp)
	}
}

func TestServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := NewServer(ln.Addr().String(), testRegistry(), "test", testLogger())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	c := &pipeClient{conn: conn, reader: bufio.NewReader(conn)}
	resp := c.roundTrip(t, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"helius_get_slot"}}`)
	if resp["error"] != nil {
		t.Fatalf("response = %v", resp)
	}
	conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Serve: %v", err)
	}
}

func TestShutdownClosesIdleConnections(t *testing.T) {
	tests := []struct {
		name string
		// pending is written after the handshake and left without a newline.
		pending string
	}{
		{name: "idle after a call"},
		{name: "partial line buffered", pending: `{"jsonrpc":"2.0","id":2,"met`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				t.Fatalf("listen: %v", err)
			}
			s := NewServer(ln.Addr().String(), testRegistry(), "test", testLogger())
			errCh := make(chan error, 1)
			go func() { errCh <- s.Serve(ln) }()

			conn, err := net.Dial("tcp", ln.Addr().String())
			if err != nil {
				t.Fatalf("dial: %v", err)
			}
			defer conn.Close()
			c := &pipeClient{conn: conn, reader: bufio.NewReader(conn)}
			if resp := c.roundTrip(t, `{"jsonrpc":"2.0","id":1,"method":"ping"}`); resp["error"] != nil {
				t.Fatalf("ping = %v", resp)
			}
			if tt.pending != "" {
				if _, err := io.WriteString(conn, tt.pending); err != nil {
					t.Fatalf("write: %v", err)
				}
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			start := time.Now()
			if err := s.Shutdown(ctx); err != nil {
				t.Fatalf("Shutdown with an idle client = %v after %s", err, time.Since(start))
			}
			if err := <-errCh; err != nil {
				t.Fatalf("Serve: %v", err)
			}

			_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			if _, err := c.reader.ReadByte(); err == nil {
				t.Fatal("connection still open after Shutdown")
			} else if ne, ok := err.(net.Error); ok && ne.Timeout() {
				t.Fatalf("read = %v, want the server to have closed the connection", err)
			}
		})
	}
}
