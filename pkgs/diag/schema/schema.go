// Package schema validates the CLI's --json diagnostic output against
// an embedded JSON Schema, so a malformed diagnostic never reaches a
// consumer silently.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed diagnostic.schema.json
var schemaFS embed.FS

var compiled *jsonschema.Schema

func init() {
	raw, err := schemaFS.ReadFile("diagnostic.schema.json")
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("diagnostic.schema.json", bytes.NewReader(raw)); err != nil {
		panic(err)
	}
	compiled, err = compiler.Compile("diagnostic.schema.json")
	if err != nil {
		panic(err)
	}
}

// Validate checks that data (JSON-encoded bytes) conforms to the
// diagnostic schema.
func Validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("schema: invalid JSON: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
