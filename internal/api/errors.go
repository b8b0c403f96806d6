package api

import (
	"errors"
	"net/http"

	"moleculehub/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var accessDenied *domain.AccessDeniedError
	var validation *domain.ValidationError
	var conflict *domain.ConflictError
	var unknownColumn *domain.UnknownColumnError
	var unknownProperty *domain.UnknownPropertyError
	var mappingInvalid *domain.MappingInvalidError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &accessDenied):
		return http.StatusForbidden
	case errors.As(err, &validation),
		errors.As(err, &unknownColumn),
		errors.As(err, &unknownProperty):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &mappingInvalid):
		return http.StatusUnprocessableEntity
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the response body for err. Internal errors are not
// echoed to the caller. A refused commit carries every validation message.
func errorBody(status int, err error) Error {
	body := Error{Code: status, Message: err.Error()}
	if status == http.StatusInternalServerError {
		body.Message = "internal error"
	}
	var mappingInvalid *domain.MappingInvalidError
	if errors.As(err, &mappingInvalid) {
		body.Message = "column mapping is invalid"
		body.Errors = mappingInvalid.Result.Errors
	}
	return body
}
