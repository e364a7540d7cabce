// Package auth holds the ownership rules for user-created resources
package auth

import (
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

// RequireOwner rejects a caller that does not own the resource
func RequireOwner(ownerID, userID int64, message string) error {
	if ownerID == 0 || ownerID != userID {
		return apperrors.NewForbiddenError(message)
	}
	return nil
}

// RequireCreator is RequireOwner for rows whose creator may be unset.
// Rows without a creator were seeded and nobody may modify them.
func RequireCreator(createdBy *int64, userID int64, seededMessage, message string) error {
	if createdBy == nil {
		return apperrors.NewForbiddenError(seededMessage)
	}
	return RequireOwner(*createdBy, userID, message)
}
