// Package tools adapts every Helius client operation to a named tool with a
// JSON Schema input and a text envelope result.
package tools

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dcSpark/mcp-server-helius/internal/core"
	"github.com/dcSpark/mcp-server-helius/internal/helius"
)

// NamePrefix is prepended to every operation name.
const NamePrefix = "helius_"

// Tool is one registry entry. Handle never returns nil.
type Tool struct {
	Name        string
	Description string
	// Action is the phrase used in remote failures: "Error <Action>: ...".
	Action string
	Schema json.RawMessage

	compiled *jsonschema.Schema
	handle   func(ctx context.Context, client helius.Client, args json.RawMessage) *core.ToolResult
}

// define builds a Tool from a typed remote call and a formatter. Address
// checks happen inside call through addrs so the first invalid field wins.
func define[In, Out any](
	name, description, action string,
	call func(ctx context.Context, c helius.Client, in In) (Out, error),
	format func(in In, out Out) (string, error),
) *Tool {
	var zero In
	schema, err := GenerateSchema(&zero)
	if err != nil {
		panic(fmt.Sprintf("tool %s: %v", name, err))
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		panic(fmt.Sprintf("tool %s: %v", name, err))
	}

	t := &Tool{
		Name:        NamePrefix + name,
		Description: description,
		Action:      action,
		Schema:      schema,
		compiled:    compiled,
	}
	t.handle = func(ctx context.Context, client helius.Client, args json.RawMessage) *core.ToolResult {
		args = normalizeArgs(args)
		if err := validateArguments(t.compiled, args); err != nil {
			return core.NewKindFailure(core.ErrorKindValidation, "Invalid arguments: "+err.Error())
		}
		var in In
		if err := json.Unmarshal(args, &in); err != nil {
			return core.NewKindFailure(core.ErrorKindValidation, "Invalid arguments: "+err.Error())
		}
		out, err := call(ctx, client, in)
		if err != nil {
			return core.FailureFromError(action, err)
		}
		text, err := format(in, out)
		if err != nil {
			return core.FailureFromError(action, err)
		}
		return core.NewSuccess(text)
	}
	return t
}

func normalizeArgs(args json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}")
	}
	return trimmed
}

// addrs validates address fields in the order they are read. After the
// first failure every further lookup is skipped.
type addrs struct {
	err *core.ToolError
}

func (a *addrs) fail(format string, args ...any) {
	if a.err == nil {
		a.err = core.ValidationError(format, args...)
	}
}

func (a *addrs) key(raw string) solana.PublicKey {
	if a.err != nil {
		return solana.PublicKey{}
	}
	key, err := core.ParsePublicKey(raw)
	if err != nil {
		a.fail("%s", core.InvalidPublicKeyMessage(raw))
	}
	return key
}

func (a *addrs) optional(raw string) *solana.PublicKey {
	if raw == "" {
		return nil
	}
	key := a.key(raw)
	return &key
}

func (a *addrs) keys(raws []string) []solana.PublicKey {
	out := make([]solana.PublicKey, 0, len(raws))
	for _, raw := range raws {
		out = append(out, a.key(raw))
	}
	return out
}

type accountMetaInput struct {
	Pubkey     string `json:"pubkey" jsonschema:"description=Account address"`
	IsSigner   bool   `json:"isSigner,omitempty"`
	IsWritable bool   `json:"isWritable,omitempty"`
}

type instructionInput struct {
	ProgramID string             `json:"programId" jsonschema:"description=Program address"`
	Accounts  []accountMetaInput `json:"accounts"`
	Data      string             `json:"data,omitempty" jsonschema:"description=Base64 encoded instruction data"`
}

func (a *addrs) instructions(in []instructionInput) []helius.Instruction {
	out := make([]helius.Instruction, 0, len(in))
	for i, ix := range in {
		programID := a.key(ix.ProgramID)
		metas := make([]helius.AccountMeta, 0, len(ix.Accounts))
		for _, acc := range ix.Accounts {
			metas = append(metas, helius.AccountMeta{
				Pubkey:     a.key(acc.Pubkey),
				IsSigner:   acc.IsSigner,
				IsWritable: acc.IsWritable,
			})
		}
		data, err := base64.StdEncoding.DecodeString(ix.Data)
		if err != nil {
			a.fail("Invalid instruction data at index %d: %v", i, err)
		}
		out = append(out, helius.Instruction{ProgramID: programID, Accounts: metas, Data: data})
	}
	return out
}

// check returns the first validation failure, if any.
func (a *addrs) check() error {
	if a.err == nil {
		return nil
	}
	return a.err
}

// pretty renders composite results as two-space indented JSON.
func pretty(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render result: %w", err)
	}
	return string(b), nil
}

// labelled renders "<label>: <indented JSON>".
func labelled[In, Out any](label string) func(In, Out) (string, error) {
	return func(_ In, out Out) (string, error) {
		text, err := pretty(out)
		if err != nil {
			return "", err
		}
		return label + ": " + text, nil
	}
}

// compact renders "<label>: <JSON>" on one line.
func compact(label string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("render result: %w", err)
	}
	return label + ": " + string(b), nil
}

// scalar renders "<label>: <value>".
func scalar[In, Out any](label string) func(In, Out) (string, error) {
	return func(_ In, out Out) (string, error) {
		return fmt.Sprintf("%s: %v", label, out), nil
	}
}
