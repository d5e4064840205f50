package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/aicred/aicred/internal/errors"
)

// instancesSchema guards the shape of the instances document before
// it is unmarshalled. Field-level semantics are checked later by
// registry validation.
const instancesSchema = `{
	"type": "object",
	"required": ["version", "instances"],
	"properties": {
		"version": {"type": "integer", "minimum": 1},
		"instances": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"required": ["id", "display_name", "provider_type", "base_url"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"display_name": {"type": "string"},
					"provider_type": {"type": "string"},
					"base_url": {"type": "string"},
					"keys": {"type": "array"},
					"models": {"type": "array"},
					"active": {"type": "boolean"}
				}
			}
		}
	}
}`

// labelsSchema guards the labels document shape.
const labelsSchema = `{
	"type": "object",
	"required": ["version", "labels", "assignments"],
	"properties": {
		"version": {"type": "integer", "minimum": 1},
		"labels": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string", "minLength": 1}
				}
			}
		},
		"assignments": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["label_name", "instance_id"]
			}
		},
		"tags": {"type": "object"},
		"tag_assignments": {"type": ["array", "null"]}
	}
}`

// validateDocument checks a YAML document against a JSON schema by
// converting it to JSON first.
func validateDocument(path string, data []byte, schema string) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.SerializationError{
			Format:     "yaml",
			Path:       path,
			Suggestion: "Check for indentation errors and missing quotes",
			Err:        err,
		}
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return errors.SerializationError{Format: "json", Path: path, Err: err}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return errors.SerializationError{Format: "json-schema", Path: path, Err: err}
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return errors.SerializationError{
			Format:     "yaml",
			Path:       path,
			Suggestion: "The document does not match the expected schema; restore it from backup or remove it",
			Err:        fmt.Errorf("schema violations: %s", strings.Join(problems, "; ")),
		}
	}
	return nil
}
