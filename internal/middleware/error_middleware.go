package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

type errorMapping struct {
	targets  []error
	status   int
	code     dto.ErrorCode
	fallback string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{[]error{apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound}, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{[]error{apperrors.ErrNotRegistered, apperrors.ErrNotMember}, http.StatusNotFound, dto.ErrorCodeResourceNotFound, ""},
	{[]error{apperrors.ErrEmailAlreadyExists, apperrors.ErrResourceAlreadyExists}, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{[]error{apperrors.ErrAlreadyRegistered, apperrors.ErrEventFull, apperrors.ErrAlreadyMember, apperrors.ErrConflict}, http.StatusConflict, dto.ErrorCodeConflict, ""},
	{[]error{apperrors.ErrPermissionDenied}, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{[]error{apperrors.ErrAccountDisabled}, http.StatusForbidden, dto.ErrorCodeForbidden, ""},
	{[]error{apperrors.ErrInvalidCredentials}, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{[]error{apperrors.ErrTokenExpired}, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{[]error{apperrors.ErrTokenNotFound}, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{[]error{apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked, apperrors.ErrInvalidFormat}, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, ""},
	{[]error{apperrors.ErrValidationFailed}, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{[]error{
		apperrors.ErrBadRequest, apperrors.ErrSelfMessage, apperrors.ErrOwnerCannotLeave,
		apperrors.ErrFileRequired, apperrors.ErrFileTooLarge, apperrors.ErrUnsupportedFileType,
	}, http.StatusBadRequest, dto.ErrorCodeBadRequest, ""},
	{[]error{apperrors.ErrRateLimited}, http.StatusTooManyRequests, dto.ErrorCodeRateLimited, "Too many requests"},
}

// HandleAPIError writes the error response for err. Unmapped errors become 500s and are
// attached to the gin context so ErrorReporting can forward them.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		for _, target := range m.targets {
			if !errors.Is(err, target) {
				continue
			}
			fallback := m.fallback
			if fallback == "" {
				fallback = target.Error()
			}
			detail := dto.NewErrorDetail(m.code, apperrors.UserMessage(err, fallback))
			if field := errorField(err); field != "" {
				detail = detail.WithField(field)
			}
			c.JSON(m.status, dto.NewErrorResponse(detail))
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
	))
}

func errorField(err error) string {
	var ce *apperrors.CustomError
	if !errors.As(err, &ce) || ce.Details == nil {
		return ""
	}
	field, _ := ce.Details["field"].(string)
	return field
}

// BindError writes a 400 for a request that failed to bind
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
