// Package schema validates raw fact records against declared JSON Schema
// shapes. Validation never fails loudly: a record either satisfies the shape
// (and is returned) or it does not (and is dropped). Fields a schema does not
// mention are always tolerated.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const baseURL = "https://account-discovery.schemas.local/"

// Schema is a compiled record shape.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Name returns the schema's short name (e.g. "trail_ideal").
func (s *Schema) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Built-in shapes used by the selectors and the classifier.
var (
	TrailIdeal    *Schema
	TrailMinimum  *Schema
	ReportIdeal   *Schema
	ReportMinimum *Schema
	Organization  *Schema
	Bucket        *Schema
)

func init() {
	compiled, err := compileEmbedded()
	if err != nil {
		panic(err)
	}
	TrailIdeal = compiled["trail_ideal"]
	TrailMinimum = compiled["trail_minimum"]
	ReportIdeal = compiled["report_ideal"]
	ReportMinimum = compiled["report_minimum"]
	Organization = compiled["organization"]
	Bucket = compiled["bucket"]
}

// compileEmbedded loads every embedded schema into one compiler so that
// relative $ref between them resolve, then compiles each one.
func compileEmbedded() (map[string]*Schema, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read embedded schemas: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	var names []string
	for _, e := range entries {
		data, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		if err := c.AddResource(baseURL+e.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("schema %s load failed: %w", e.Name(), err)
		}
		names = append(names, e.Name())
	}

	out := make(map[string]*Schema, len(names))
	for _, file := range names {
		compiled, err := c.Compile(baseURL + file)
		if err != nil {
			return nil, fmt.Errorf("schema %s compile failed: %w", file, err)
		}
		name := strings.TrimSuffix(file, ".json")
		out[name] = &Schema{name: name, compiled: compiled}
	}
	return out, nil
}

// Validate returns the JSON-normalized copy of record and true when record
// satisfies s. It returns nil and false when it does not, when record is nil,
// or when record cannot be represented as JSON. It never panics.
func Validate(s *Schema, record models.Record) (models.Record, bool) {
	if s == nil || s.compiled == nil || record == nil {
		return nil, false
	}
	normalized, ok := normalize(record)
	if !ok {
		return nil, false
	}
	if err := s.compiled.Validate(map[string]any(normalized)); err != nil {
		return nil, false
	}
	return normalized, true
}

// FilterValid applies Validate to every record and keeps the ones that pass,
// preserving input order. The result is never nil.
func FilterValid(s *Schema, records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if v, ok := Validate(s, r); ok {
			out = append(out, v)
		}
	}
	return out
}

// normalize round-trips record through JSON so every value has one of the
// types the validator understands (string, bool, json.Number, []any,
// map[string]any, nil).
func normalize(record models.Record) (models.Record, bool) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, false
	}
	return models.Record(out), true
}
