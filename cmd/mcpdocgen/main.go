package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dcSpark/mcp-server-helius/internal/tools"
)

func main() {
	if err := render(os.Stdout, tools.All()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type inputSchema struct {
	Properties map[string]struct {
		Type        any    `json:"type"`
		Description string `json:"description"`
	} `json:"properties"`
	Required []string `json:"required"`
}

func render(w io.Writer, defs []*tools.Tool) error {
	fmt.Fprintln(w, "# MCP Tools (Generated)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This file is generated from `internal/tools` by `cmd/mcpdocgen`.")
	fmt.Fprintln(w)

	for _, d := range defs {
		fmt.Fprintf(w, "- `%s`\n", d.Name)
		if d.Description != "" {
			fmt.Fprintf(w, "  - Description: %s\n", d.Description)
		}

		var schema inputSchema
		if err := json.Unmarshal(d.Schema, &schema); err != nil {
			return fmt.Errorf("%s: decode schema: %w", d.Name, err)
		}
		requiredSet := make(map[string]bool, len(schema.Required))
		for _, r := range schema.Required {
			requiredSet[r] = true
		}

		keys := make([]string, 0, len(schema.Properties))
		for k := range schema.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		if len(keys) > 0 {
			fmt.Fprintln(w, "  - Input:")
			for _, k := range keys {
				req := "optional"
				if requiredSet[k] {
					req = "required"
				}
				line := fmt.Sprintf("    - `%s` (%s)", k, req)
				if desc := schema.Properties[k].Description; desc != "" {
					line += ": " + desc
				}
				fmt.Fprintln(w, line)
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}
