package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["name", "rooms"],
  "properties": {
    "name":  {"type": "string", "minLength": 1},
    "rooms": {"type": "integer", "minimum": 0},
    "links": {"type": "array", "items": {"type": "string"}}
  }
}`

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	require.Error(t, err)
	assert.Panics(t, func() { MustCompile(`{"type": 12}`) })
}

func TestValidateValue(t *testing.T) {
	s := MustCompile(testSchema)

	tests := []struct {
		name      string
		doc       map[string]interface{}
		valid     bool
		badFields []string
	}{
		{
			name:  "valid",
			doc:   map[string]interface{}{"name": "Salmiya flat", "rooms": 2},
			valid: true,
		},
		{
			name:      "missing required is reported on the property",
			doc:       map[string]interface{}{"name": "x"},
			badFields: []string{"rooms"},
		},
		{
			name:      "wrong types",
			doc:       map[string]interface{}{"name": "", "rooms": 1.5},
			badFields: []string{"name", "rooms"},
		},
		{
			name:      "nested field",
			doc:       map[string]interface{}{"name": "x", "rooms": 1, "links": []interface{}{"ok", 3}},
			badFields: []string{"links"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.ValidateValue(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			for _, f := range tt.badFields {
				assert.True(t, result.HasErrors(f), "expected error on %s, got %v", f, result.GetErrorMessages())
			}
			assert.Len(t, result.GetErrorMessages(), len(result.Errors))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("owner@example.com.kw"))
	assert.False(t, ValidateEmail("owner at example"))
	assert.False(t, ValidateEmail(""))
}
