package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		max  int
		want []string
	}{
		{"trims and drops empties", []string{" React ", "", "  ", "Go"}, 0, []string{"React", "Go"}},
		{"case-insensitive dedupe keeps first", []string{"Python", "python", "PYTHON"}, 0, []string{"Python"}},
		{"caps length", []string{"a", "b", "c", "d"}, 2, []string{"a", "b"}},
		{"nil input", nil, 5, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.in, tt.max))
		})
	}
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"ai", "ml", "Data"}, SplitTags("ai, ml,,Data ,AI", 10))
	assert.Equal(t, []string{}, SplitTags("   ", 10))
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("abcdefg1"))
	assert.False(t, IsStrongPassword("abcdefgh"))
	assert.False(t, IsStrongPassword("12345678"))
	assert.False(t, IsStrongPassword("ab1"))
}

func TestRequireText(t *testing.T) {
	assert.NoError(t, RequireText("title", "Notes"))
	err := RequireText("title", " \t ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type req struct {
		Password string `validate:"password"`
		Title    string `validate:"notblank"`
	}
	assert.NoError(t, v.Struct(req{Password: "passw0rd", Title: "x"}))
	assert.Error(t, v.Struct(req{Password: "password", Title: "x"}))
	assert.Error(t, v.Struct(req{Password: "passw0rd", Title: "  "}))
}
