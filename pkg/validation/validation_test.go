package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name      string `validate:"required,valid_name,no_emoji"`
	Phone     string `validate:"valid_phone"`
	Rating    int    `validate:"rating"`
	ProjectID string `validate:"safe_key"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name    string
		input   sample
		wantErr bool
	}{
		{"valid", sample{Name: "Jane O'Neil", Phone: "+62 812-3456-7890", Rating: 5, ProjectID: "1712345678901"}, false},
		{"empty optionals", sample{Name: "Jane"}, false},
		{"rating too high", sample{Name: "Jane", Rating: 6}, true},
		{"negative rating", sample{Name: "Jane", Rating: -1}, true},
		{"short phone", sample{Name: "Jane", Phone: "12345"}, true},
		{"letters in phone", sample{Name: "Jane", Phone: "+62abc45678"}, true},
		{"path traversal", sample{Name: "Jane", ProjectID: "../etc"}, true},
		{"slash in key", sample{Name: "Jane", ProjectID: "a/b"}, true},
		{"emoji in name", sample{Name: "Jane 😀"}, true},
		{"markup in name", sample{Name: "Jane <script>"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	v := newValidator()

	err := v.Struct(sample{Rating: 9, ProjectID: "x/y"})
	require.Error(t, err)

	msgs := FormatValidationErrors(err)
	assert.Contains(t, msgs, "Name: is required")
	assert.Contains(t, msgs, "Rating: must be between 1 and 5")
	assert.Contains(t, msgs, "Project ID: may only contain letters, digits, '-' and '_'")
}

func TestFormatValidationErrors_PlainError(t *testing.T) {
	msgs := FormatValidationErrors(assert.AnError)
	assert.Equal(t, []string{assert.AnError.Error()}, msgs)
}
