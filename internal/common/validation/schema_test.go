package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"title": map[string]interface{}{"type": "string", "minLength": 1},
		"count": map[string]interface{}{"type": "integer", "minimum": 1},
	},
	"required": []interface{}{"title"},
}

func TestValidateDocumentPasses(t *testing.T) {
	result := ValidateDocument(map[string]interface{}{
		"title": "weekend",
		"count": 2,
	}, testSchema)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Nil(t, result.FieldErrors())
}

func TestValidateDocumentCollectsFieldErrors(t *testing.T) {
	result := ValidateDocument(map[string]interface{}{
		"count": 0,
	}, testSchema)

	require.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)

	fields := result.FieldErrors()
	assert.Contains(t, fields, "count")
	// the missing required property is reported against its own name
	assert.Contains(t, fields, "title")
}

func TestValidateDocumentWrongType(t *testing.T) {
	result := ValidateDocument(map[string]interface{}{
		"title": 42,
	}, testSchema)

	require.False(t, result.Valid)
	fields := result.FieldErrors()
	assert.Contains(t, fields, "title")
}
