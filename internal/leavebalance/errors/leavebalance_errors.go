package leavebalanceerrors

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
	ErrUnknownLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave type, expected SICK, CASUAL or PAID",
		http.StatusBadRequest,
	)
)
