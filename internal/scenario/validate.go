// CUE schema validation for scenario files
package scenario

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaSource []byte

// ValidateFile checks a YAML or JSON scenario file against the embedded CUE schema.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read scenario: %w", err)
	}
	return ValidateBytes(path, data)
}

// ValidateBytes checks raw scenario YAML against the embedded CUE schema.
func ValidateBytes(filename string, data []byte) error {
	ctx := cuecontext.New()

	f, err := yaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("cannot parse scenario: %w", err)
	}
	doc := ctx.BuildFile(f)
	if doc.Err() != nil {
		return fmt.Errorf("cannot build scenario: %w", doc.Err())
	}

	schema := ctx.CompileBytes(schemaSource).LookupPath(cue.ParsePath("#Scenario"))
	if schema.Err() != nil {
		return fmt.Errorf("schema compile failed: %w", schema.Err())
	}

	final := schema.Unify(doc)
	if err := final.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: schema validation failed: %v", ErrInvalid, err)
	}
	return nil
}
