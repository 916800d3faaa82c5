package tokenerrors

import (
	"net/http"

	"hrflow/internal/shared/apperror"
)

var (
	ErrMalformedToken = apperror.New(
		apperror.CodeUnauthorized,
		"token is malformed or its signature cannot be verified",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"token has expired",
		http.StatusUnauthorized,
	)
	ErrClaimNotFound = apperror.New(
		apperror.CodeUnauthorized,
		"required claim not present in token",
		http.StatusUnauthorized,
	)
	ErrSigningFailed = apperror.New(
		apperror.CodeInternalError,
		"failed to sign token",
		http.StatusInternalServerError,
	)
)
