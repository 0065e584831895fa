package canvas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// WidgetValidator checks serialized widget payloads before they enter the
// canvas, so malformed documents from imports or older saves are rejected at
// the boundary instead of corrupting page state.
type WidgetValidator interface {
	Validate(typ WidgetType, payload map[string]any) error
}

// widgetSchemas holds the JSON Schema for each widget type's wire payload.
var widgetSchemas = map[WidgetType]map[string]any{
	WidgetChart: {
		"type":     "object",
		"required": []any{"i", "chartType"},
		"properties": map[string]any{
			"i":             map[string]any{"type": "integer"},
			"chartType":     map[string]any{"type": "string", "minLength": 1},
			"columnMapping": map[string]any{"type": "object"},
			"tuningParams":  map[string]any{"type": "object"},
		},
	},
	WidgetSlicer: {
		"type":     "object",
		"required": []any{"i", "slicerType"},
		"properties": map[string]any{
			"i":          map[string]any{"type": "integer"},
			"slicerType": map[string]any{"enum": []any{string(SlicerList), string(SlicerRange)}},
			"columnName": map[string]any{"type": "string"},
			"dataType":   map[string]any{"enum": []any{string(DataCategorical), string(DataNumerical), ""}},
		},
	},
	WidgetColumnSelector: {
		"type":     "object",
		"required": []any{"i"},
		"properties": map[string]any{
			"i": map[string]any{"type": "integer"},
			"config": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"availableColumns": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"linkedCharts": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "integer"},
					},
				},
			},
		},
	},
	WidgetText: {
		"type":     "object",
		"required": []any{"i"},
		"properties": map[string]any{
			"i":    map[string]any{"type": "integer"},
			"text": map[string]any{"type": "string"},
		},
	},
}

// JSONSchemaValidator compiles widget payload schemas once and caches them.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[WidgetType]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[WidgetType]*jsonschema.Schema),
	}
}

// Validate ensures the payload satisfies the widget type's schema.
func (v *JSONSchemaValidator) Validate(typ WidgetType, payload map[string]any) error {
	if _, ok := widgetSchemas[typ]; !ok {
		return fmt.Errorf("canvas: unknown widget type %q", typ)
	}
	schema, err := v.schemaFor(typ)
	if err != nil {
		return err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("canvas: %s payload failed validation: %w", typ, err)
	}
	return nil
}

// ValidateWidget round-trips a widget through its wire form and validates it.
func (v *JSONSchemaValidator) ValidateWidget(w Widget) error {
	data, err := MarshalWidget(w)
	if err != nil {
		return err
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("canvas: normalize %s payload: %w", w.Type(), err)
	}
	return v.Validate(w.Type(), payload)
}

func (v *JSONSchemaValidator) schemaFor(typ WidgetType) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[typ]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(widgetSchemas[typ])
	if err != nil {
		return nil, fmt.Errorf("canvas: marshal schema %s: %w", typ, err)
	}
	compiler := jsonschema.NewCompiler()
	name := string(typ) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("canvas: load schema %s: %w", typ, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("canvas: compile schema %s: %w", typ, err)
	}
	v.mu.Lock()
	v.compiled[typ] = compiled
	v.mu.Unlock()
	return compiled, nil
}

type noopWidgetValidator struct{}

func (noopWidgetValidator) Validate(WidgetType, map[string]any) error { return nil }
