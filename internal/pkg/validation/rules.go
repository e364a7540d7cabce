package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	PasswordMinLength = 8

	letterPattern = regexp.MustCompile(`\pL`)
	digitPattern  = regexp.MustCompile(`\d`)
)

// RegisterCustomValidators adds the project's tags to gin's validator engine.
// It is safe to call more than once.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

// Register adds the custom tags to v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// IsStrongPassword requires the minimum length plus at least one letter and one digit.
func IsStrongPassword(p string) bool {
	return len(p) >= PasswordMinLength && letterPattern.MatchString(p) && digitPattern.MatchString(p)
}

// RequireText returns a validation error when value is empty after trimming.
func RequireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidationError(field, field+" is required")
	}
	return nil
}

// NormalizeTags trims each tag, drops empties and removes case-insensitive
// duplicates while keeping first-seen order. At most max tags are kept when max > 0.
func NormalizeTags(tags []string, max int) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimFunc(t, unicode.IsSpace)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// SplitTags parses a comma separated list into normalized tags.
func SplitTags(csv string, max int) []string {
	if strings.TrimSpace(csv) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(csv, ","), max)
}
