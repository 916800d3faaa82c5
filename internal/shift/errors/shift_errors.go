package shifterrors

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
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"shift times must be in HH:MM format",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"dates must be YYYY-MM-DD and start must not be after end",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be APPROVED or REJECTED",
		http.StatusBadRequest,
	)
	ErrNotYourReport = apperror.New(
		apperror.CodeForbidden,
		"employee does not report to this manager",
		http.StatusForbidden,
	)
	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"no shift assignment exists for this employee",
		http.StatusNotFound,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"no shift change request exists for this employee",
		http.StatusNotFound,
	)
	ErrDuplicateShiftName = apperror.New(
		apperror.CodeConflict,
		"requested shift name matches the currently assigned shift",
		http.StatusConflict,
	)
	ErrCannotUpdateStatus = apperror.New(
		apperror.CodeInvalidState,
		"shift change request is not pending",
		http.StatusConflict,
	)
)
