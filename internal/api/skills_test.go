package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillInfo_UnmarshalLexical(t *testing.T) {
	data := []byte(`{
		"skill_id": "lex-001",
		"name": "Motion verbs",
		"kind": "lexical",
		"metadata": {"word": "stride", "definition": "to walk with long steps", "examples": ["he strode away"]}
	}`)

	var s SkillInfo
	require.NoError(t, json.Unmarshal(data, &s))

	assert.Equal(t, "lex-001", s.SkillID)
	assert.Equal(t, SkillLexical, s.Kind)
	require.NotNil(t, s.Lexical)
	assert.Nil(t, s.Grammatical)
	assert.Equal(t, "stride", s.Lexical.Word)
	assert.Equal(t, []string{"he strode away"}, s.Lexical.Examples)
}

func TestSkillInfo_UnmarshalGrammatical(t *testing.T) {
	data := []byte(`{
		"skill_id": "gram-014",
		"name": "Past perfect",
		"kind": "grammatical",
		"metadata": {"rule": "had + past participle", "pattern": "S + had + V3", "examples": ["She had left."]}
	}`)

	var s SkillInfo
	require.NoError(t, json.Unmarshal(data, &s))

	assert.Equal(t, SkillGrammatical, s.Kind)
	require.NotNil(t, s.Grammatical)
	assert.Nil(t, s.Lexical)
	assert.Equal(t, "had + past participle", s.Grammatical.Rule)
}

func TestSkillInfo_UnknownKindPassesThrough(t *testing.T) {
	data := []byte(`{"skill_id": "phon-002", "name": "Vowel length", "kind": "phonetic", "metadata": {"ipa": "iː"}}`)

	var s SkillInfo
	require.NoError(t, json.Unmarshal(data, &s))

	assert.Equal(t, "phon-002", s.SkillID)
	assert.Equal(t, "Vowel length", s.Name)
	assert.Equal(t, SkillKind("phonetic"), s.Kind)
	assert.Nil(t, s.Lexical)
	assert.Nil(t, s.Grammatical)
}

func TestSkillInfo_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "lexical missing word",
			data: `{"skill_id": "x", "name": "x", "kind": "lexical", "metadata": {"definition": "d"}}`,
		},
		{
			name: "lexical empty word",
			data: `{"skill_id": "x", "name": "x", "kind": "lexical", "metadata": {"word": "", "definition": "d"}}`,
		},
		{
			name: "grammatical missing rule",
			data: `{"skill_id": "x", "name": "x", "kind": "grammatical", "metadata": {"pattern": "p"}}`,
		},
		{
			name: "unexpected extra field",
			data: `{"skill_id": "x", "name": "x", "kind": "lexical", "metadata": {"word": "w", "definition": "d", "level": 3}}`,
		},
		{
			name: "metadata not an object",
			data: `{"skill_id": "x", "name": "x", "kind": "lexical", "metadata": "oops"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s SkillInfo
			err := json.Unmarshal([]byte(tt.data), &s)
			var payloadErr *ErrInvalidPayload
			require.ErrorAs(t, err, &payloadErr)
		})
	}
}

func TestSkillInfo_MarshalRoundTrip(t *testing.T) {
	original := SkillInfo{
		SkillID: "gram-014",
		Name:    "Past perfect",
		Kind:    SkillGrammatical,
		Grammatical: &GrammaticalMeta{
			Rule:     "had + past participle",
			Examples: []string{"She had left."},
		},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded SkillInfo
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original.SkillID, decoded.SkillID)
	require.NotNil(t, decoded.Grammatical)
	assert.Equal(t, original.Grammatical.Rule, decoded.Grammatical.Rule)
}
