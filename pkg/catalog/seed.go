package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// seedSchema describes the seed document: an array of record objects. It
// checks shape only; records stay free-form beyond the typed fields.
const seedSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "id": {"type": ["integer", "null"]},
      "name": {"type": ["string", "null"]},
      "type": {"type": ["array", "null"], "items": {"type": "string"}},
      "weaknesses": {"type": ["array", "null"], "items": {"type": "string"}}
    }
  }
}`

var (
	seedSchemaOnce     sync.Once
	seedSchemaCompiled *jsonschema.Schema
	seedSchemaErr      error
)

func compiledSeedSchema() (*jsonschema.Schema, error) {
	seedSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("seed.json", strings.NewReader(seedSchema)); err != nil {
			seedSchemaErr = fmt.Errorf("add seed schema: %w", err)
			return
		}
		seedSchemaCompiled, seedSchemaErr = compiler.Compile("seed.json")
	})
	return seedSchemaCompiled, seedSchemaErr
}

// LoadSeed reads and parses the seed document at path.
func LoadSeed(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SeedError{Path: path, Err: err}
	}
	records, err := ParseSeed(data)
	if err != nil {
		if seedErr, ok := err.(*SeedError); ok {
			seedErr.Path = path
		}
		return nil, err
	}
	return records, nil
}

// ParseSeed validates data against the seed schema and decodes it.
func ParseSeed(data []byte) ([]Record, error) {
	schema, err := compiledSeedSchema()
	if err != nil {
		return nil, &SeedError{Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &SeedError{Err: fmt.Errorf("parse: %w", err)}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &SeedError{Err: fmt.Errorf("invalid document: %w", err)}
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &SeedError{Err: fmt.Errorf("decode records: %w", err)}
	}
	return records, nil
}
