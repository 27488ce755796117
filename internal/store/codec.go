package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/tada/internal/model"
)

// ErrMalformed wraps every Decode failure.
var ErrMalformed = errors.New("malformed todos payload")

//go:embed schema.json
var schemaSource string

var slotSchema = jsonschema.MustCompileString("tada://todos.schema.json", schemaSource)

// Encode serializes the list into the slot format: a compact JSON array.
// An empty list encodes as [] rather than null.
func Encode(todos []model.Todo) ([]byte, error) {
	if todos == nil {
		todos = []model.Todo{}
	}
	b, err := json.Marshal(todos)
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Decode parses a slot value. The payload is checked against the slot
// schema before it is unmarshalled, so wrong shapes (an object instead of
// an array, a string id) are reported rather than half-decoded.
func Decode(b []byte) ([]model.Todo, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := slotSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var todos []model.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}
