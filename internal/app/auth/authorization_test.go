package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

func TestRequireOwner(t *testing.T) {
	assert.NoError(t, RequireOwner(3, 3, "nope"))

	err := RequireOwner(3, 4, "you can only edit your own notes")
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	assert.Equal(t, "you can only edit your own notes", apperrors.UserMessage(err, ""))

	assert.Error(t, RequireOwner(0, 0, "nope"), "unset owner never matches")
}

func TestRequireCreator(t *testing.T) {
	creator := int64(8)
	tests := []struct {
		name      string
		createdBy *int64
		userID    int64
		wantMsg   string
	}{
		{"seeded", nil, 8, "built-in"},
		{"someone else", &creator, 9, "not yours"},
		{"creator", &creator, 8, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireCreator(tt.createdBy, tt.userID, "built-in", "not yours")
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
			assert.Equal(t, tt.wantMsg, apperrors.UserMessage(err, ""))
		})
	}
}
