package adjustmenterrors

import (
	"net/http"

	"leavehub/internal/shared/apperror"
)

var (
	ErrInvalidAdjustmentType = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "invalid adjustment type",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrZeroAmount = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "adjustment amount must not be zero",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrNegativeCarryover = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "carryover amount must be positive",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrCarryoverExceedsCap = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "carryover exceeds the configured cap",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrEmployeeNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "employee not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrInvalidEmployeeID = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "invalid employee id",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrRolloverYearInFuture = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "cannot roll over a year that has not started",
		HTTPStatus: http.StatusBadRequest,
	}
)
