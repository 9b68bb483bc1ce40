package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func toolSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(ToolSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// ValidateArguments checks raw tool-call arguments against ToolSchema.
func ValidateArguments(args []byte) error {
	schema, err := toolSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(args, &v); err != nil {
		return fmt.Errorf("unmarshal arguments: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("arguments do not match schema: %w", err)
	}
	return nil
}

// decodeArguments turns tool-call arguments into a Result and applies the
// schema check. Only a non-object payload, or a schema mismatch in strict
// mode, is an error.
func decodeArguments(provider string, args []byte, strict bool) (Result, error) {
	if len(bytes.TrimSpace(args)) == 0 {
		return Result{}, ErrNoToolCall
	}
	var candidate map[string]any
	if err := json.Unmarshal(args, &candidate); err != nil {
		return Result{}, &ParseError{Provider: provider, Err: err}
	}
	if candidate == nil {
		return Result{}, &ParseError{Provider: provider, Err: errors.New("arguments are null")}
	}
	res := Result{Candidate: candidate, Arguments: json.RawMessage(args), Provider: provider}
	if err := ValidateArguments(args); err != nil {
		if strict {
			return Result{}, &ParseError{Provider: provider, Err: err}
		}
		res.SchemaErr = err
	}
	return res, nil
}
