package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SkillKind discriminates the metadata shape of a remediation skill.
type SkillKind string

const (
	SkillLexical     SkillKind = "lexical"
	SkillGrammatical SkillKind = "grammatical"
)

// LexicalMeta is vocabulary remediation content.
type LexicalMeta struct {
	Word       string   `json:"word"`
	Definition string   `json:"definition"`
	Examples   []string `json:"examples,omitempty"`
}

// GrammaticalMeta is grammar remediation content.
type GrammaticalMeta struct {
	Rule     string   `json:"rule"`
	Pattern  string   `json:"pattern,omitempty"`
	Examples []string `json:"examples,omitempty"`
}

// SkillInfo is one remediation entry attached to answer feedback. Exactly one
// of Lexical and Grammatical is set, matching Kind.
type SkillInfo struct {
	SkillID     string           `json:"skill_id"`
	Name        string           `json:"name"`
	Kind        SkillKind        `json:"kind"`
	Lexical     *LexicalMeta     `json:"-"`
	Grammatical *GrammaticalMeta `json:"-"`
}

// skillEnvelope is the wire shape: a tagged envelope with untyped metadata.
type skillEnvelope struct {
	SkillID  string          `json:"skill_id"`
	Name     string          `json:"name"`
	Kind     SkillKind       `json:"kind"`
	Metadata json.RawMessage `json:"metadata"`
}

// UnmarshalJSON decodes and validates a skill entry at the API boundary, so
// malformed remediation payloads fail loudly instead of rendering blank.
func (s *SkillInfo) UnmarshalJSON(data []byte) error {
	var env skillEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	s.SkillID = env.SkillID
	s.Name = env.Name
	s.Kind = env.Kind
	s.Lexical = nil
	s.Grammatical = nil

	// Kinds this client does not know yet pass through with their metadata
	// dropped. A newer backend must not be able to break feedback delivery
	// by adding a skill variant.
	schema, ok := skillSchemas[env.Kind]
	if !ok {
		return nil
	}
	if err := validatePayload(schema, env.Metadata); err != nil {
		return err
	}

	switch env.Kind {
	case SkillLexical:
		var m LexicalMeta
		if err := json.Unmarshal(env.Metadata, &m); err != nil {
			return &ErrInvalidPayload{Content: env.Metadata, Err: err}
		}
		s.Lexical = &m
	case SkillGrammatical:
		var m GrammaticalMeta
		if err := json.Unmarshal(env.Metadata, &m); err != nil {
			return &ErrInvalidPayload{Content: env.Metadata, Err: err}
		}
		s.Grammatical = &m
	}
	return nil
}

// MarshalJSON restores the tagged-envelope wire shape.
func (s SkillInfo) MarshalJSON() ([]byte, error) {
	var meta any
	switch s.Kind {
	case SkillLexical:
		meta = s.Lexical
	case SkillGrammatical:
		meta = s.Grammatical
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return json.Marshal(skillEnvelope{
		SkillID:  s.SkillID,
		Name:     s.Name,
		Kind:     s.Kind,
		Metadata: raw,
	})
}

// payloadSchema pairs a schema name with its definition for compile caching.
type payloadSchema struct {
	Name       string
	Definition map[string]any
}

var skillSchemas = map[SkillKind]*payloadSchema{
	SkillLexical: {
		Name: "skill-lexical",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"word":       map[string]any{"type": "string", "minLength": 1},
				"definition": map[string]any{"type": "string"},
				"examples": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required":             []any{"word", "definition"},
			"additionalProperties": false,
		},
	},
	SkillGrammatical: {
		Name: "skill-grammatical",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"rule":    map[string]any{"type": "string", "minLength": 1},
				"pattern": map[string]any{"type": "string"},
				"examples": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required":             []any{"rule"},
			"additionalProperties": false,
		},
	},
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validatePayload validates raw JSON against the given schema and wraps any
// failure in *ErrInvalidPayload.
func validatePayload(schema *payloadSchema, raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidPayload{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := getCompiledSchema(schema)
	if err != nil {
		return &ErrInvalidPayload{Content: raw, Err: fmt.Errorf("compile schema %q: %w", schema.Name, err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidPayload{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(schema *payloadSchema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value (any), not raw bytes.
	// Marshal then unmarshal to get a clean any representation.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
