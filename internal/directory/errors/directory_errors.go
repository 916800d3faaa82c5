package directoryerrors

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
	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid manager id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrNoManagerAssigned = apperror.New(
		apperror.CodeNotFound,
		"employee has no manager assigned",
		http.StatusNotFound,
	)
	ErrManagerNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"manager does not exist",
		http.StatusBadRequest,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"email is already registered to another employee",
		http.StatusConflict,
	)
	ErrDirectoryUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"employee directory is unreachable",
		http.StatusServiceUnavailable,
	)
)
