package config

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// JSON Schemas applied to each configuration document before
// unmarshalling. Schema failures are configuration errors and abort
// startup; semantic checks (one state, one category) run afterwards in
// the registries.

const workflowSchemaJSON = `{
  "type": "object",
  "required": ["categories"],
  "properties": {
    "categories": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "states"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "states": {"type": "array", "minItems": 1, "items": {"type": "string"}},
          "is_active": {"type": "boolean"},
          "is_completed": {"type": "boolean"},
          "is_blocked": {"type": "boolean"},
          "is_final": {"type": "boolean"},
          "flow_position": {"type": "integer"},
          "weight": {"type": "number"},
          "color": {"type": "string"}
        }
      }
    }
  }
}`

const typesSchemaJSON = `{
  "type": "object",
  "required": ["profiles"],
  "properties": {
    "fibonacci_points": {"type": "array", "items": {"type": "number"}},
    "profiles": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "effort_validation"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "category": {"type": "string"},
          "uses_story_points": {"type": "boolean"},
          "effort_validation": {"type": "string", "enum": ["fibonacci", "positive_number"]},
          "complexity_multiplier": {"type": "number"},
          "planning_weight": {"type": "number"},
          "include_in": {
            "type": "object",
            "properties": {
              "velocity": {"type": "boolean"},
              "throughput": {"type": "boolean"},
              "cycle_time": {"type": "boolean"},
              "lead_time": {"type": "boolean"}
            }
          }
        }
      }
    }
  }
}`

const calculationSchemaJSON = `{
  "type": "object",
  "properties": {
    "percentiles": {"type": "array", "items": {"type": "number", "minimum": 0, "maximum": 1}},
    "throughput_period_days": {"type": "integer", "minimum": 1},
    "thresholds": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "lead_time_days": {"type": "number"},
          "cycle_time_days": {"type": "number"}
        }
      }
    }
  }
}`

var (
	workflowSchemaLoader    = gojsonschema.NewStringLoader(workflowSchemaJSON)
	typesSchemaLoader       = gojsonschema.NewStringLoader(typesSchemaJSON)
	calculationSchemaLoader = gojsonschema.NewStringLoader(calculationSchemaJSON)
)

// validateDocument checks a decoded YAML document against its schema.
func validateDocument(schema gojsonschema.JSONLoader, doc interface{}, name string) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	if !result.Valid() {
		msg := ""
		for _, desc := range result.Errors() {
			if msg != "" {
				msg += "; "
			}
			msg += desc.String()
		}
		return fmt.Errorf("invalid %s: %s", name, msg)
	}
	return nil
}
