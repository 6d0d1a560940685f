package evaluation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaDocument string

// ErrEmpty is returned by Parse when the payload holds nothing but whitespace.
var ErrEmpty = errors.New("evaluation payload is empty")

// ContractError lists every place where a payload breaks the response schema.
type ContractError struct {
	Problems []string
}

func (e *ContractError) Error() string {
	return "response violates evaluation schema: " + strings.Join(e.Problems, "; ")
}

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaDocument))
})

// Schema returns the JSON Schema document every payload is checked against.
func Schema() string {
	return schemaDocument
}

// Parse turns a raw model payload into a validated Result. The payload must
// satisfy the JSON Schema, decode into the typed model and pass Validate;
// nothing is coerced or partially accepted.
func Parse(raw []byte) (*Result, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrEmpty
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("load evaluation schema: %w", err)
	}

	report, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("read evaluation payload: %w", err)
	}

	if !report.Valid() {
		problems := make([]string, 0, len(report.Errors()))
		for _, desc := range report.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			problems = append(problems, fmt.Sprintf("%s: %s", field, desc.Description()))
		}
		return nil, &ContractError{Problems: problems}
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("unmarshal evaluation payload: %w", err)
	}

	result, err := decode(generic)
	if err != nil {
		return nil, err
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}

	return result, nil
}

func decode(generic map[string]any) (*Result, error) {
	var result Result

	cfg := &mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &result,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(generic); err != nil {
		return nil, fmt.Errorf("decode evaluation payload: %w", err)
	}

	return &result, nil
}
