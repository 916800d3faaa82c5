package leaverequesterrors

import (
	"net/http"

	"hrflow/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"leave dates must be valid, not in the past, and start must not be after end",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be APPROVED or REJECTED",
		http.StatusBadRequest,
	)
	ErrDuplicateRequest = apperror.New(
		apperror.CodeConflict,
		"an overlapping leave request already exists for this employee",
		http.StatusConflict,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"leave balance is insufficient for the requested days",
		http.StatusUnprocessableEntity,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyResolved = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been resolved",
		http.StatusConflict,
	)
)
