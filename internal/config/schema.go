package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// levels are the spellings parseLevel accepts.
var levels = []any{"off", "on", "hint", "info", "information", "warn", "warning", "error", "fatal"}

// JSONSchema describes both spellings of a rule entry accepted by UnmarshalTOML.
func (RuleConfig) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("level", &jsonschema.Schema{Type: "string", Enum: levels})
	props.Set("options", &jsonschema.Schema{Type: "object", Description: "Rule specific options"})
	return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
		{Type: "string", Enum: levels},
		{Type: "object", Properties: props, AdditionalProperties: jsonschema.FalseSchema},
	}}
}

// Schema returns the JSON Schema of verdant.toml for TOML-aware editors.
// Every key is optional and unknown keys are rejected, as in Load.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag:               "toml",
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
		Anonymous:                  true,
	}
	s := r.Reflect(&Config{})
	s.Title = FileName
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}
	return out, nil
}
