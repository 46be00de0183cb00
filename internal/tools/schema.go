package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// GenerateSchema reflects the JSON Schema of an input struct. Fields without
// omitempty are required and unknown properties are rejected.
func GenerateSchema(input any) (json.RawMessage, error) {
	reflector := invopop.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	schema := reflector.Reflect(input)
	// MCP clients only need the object shape.
	schema.Version = ""
	return json.Marshal(schema)
}

func compileSchema(schema json.RawMessage) (*jsonschema.Schema, error) {
	compiled, err := jsonschema.CompileString("", string(schema))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return compiled, nil
}

// validateArguments checks raw arguments against a compiled schema and
// returns a one-line description of the first violations.
func validateArguments(schema *jsonschema.Schema, args json.RawMessage) error {
	var value any
	if err := json.Unmarshal(args, &value); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return errors.New(describeViolation(ve))
		}
		return err
	}
	return nil
}

func describeViolation(ve *jsonschema.ValidationError) string {
	var leaves []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			at := e.InstanceLocation
			if at == "" {
				at = "/"
			}
			leaves = append(leaves, fmt.Sprintf("at '%s': %s", at, e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return strings.Join(leaves, "; ")
}
