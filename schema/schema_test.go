package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentharness/internal/testutil"
)

const summarySchema = `{
  "type": "object",
  "required": ["summary", "items", "sources"],
  "properties": {
    "summary": {"type": "string"},
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "text"],
        "properties": {"id": {"type": "string"}, "text": {"type": "string"}}
      }
    },
    "sources": {"type": "array"}
  }
}`

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	b := testutil.NewDirBuilder(t)

	doc, err := Load(b.Path("absent.json"))
	require.NoError(t, err)
	assert.Empty(t, doc)
	assert.True(t, IsValid(map[string]any{"anything": 1}, doc))
}

func TestLoad_Malformed(t *testing.T) {
	b := testutil.NewDirBuilder(t).File("bad.json", "{not json")

	_, err := Load(b.Path("bad.json"))
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestValidate_SummarySchema(t *testing.T) {
	b := testutil.NewDirBuilder(t).File("summary.schema.json", summarySchema)
	doc, err := Load(b.Path("summary.schema.json"))
	require.NoError(t, err)

	valid := map[string]any{
		"summary": "ok",
		"items":   []map[string]string{{"id": "1", "text": "x"}},
		"sources": []any{},
	}
	assert.NoError(t, Validate(valid, doc))

	missing := map[string]any{"summary": "ok", "items": []any{}}
	assert.Error(t, Validate(missing, doc))

	wrongType := map[string]any{"summary": 3, "items": []any{}, "sources": []any{}}
	assert.False(t, IsValid(wrongType, doc))
}

func TestValidate_NilDocumentAcceptsAll(t *testing.T) {
	assert.NoError(t, Validate("anything", nil))
	assert.NoError(t, Validate(nil, Document{}))
}

func TestValidate_UnusableSchema(t *testing.T) {
	doc := Document{"type": 42}
	err := Validate(map[string]any{}, doc)
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestValidateValue_BooleanSchemas(t *testing.T) {
	assert.NoError(t, ValidateValue(map[string]any{"a": 1}, true))
	assert.Error(t, ValidateValue(map[string]any{"a": 1}, false))
	assert.NoError(t, ValidateValue("x", nil))

	err := ValidateValue("x", "not a schema")
	assert.ErrorIs(t, err, ErrInvalidSchema)
}
