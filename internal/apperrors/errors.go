package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUpstreamUnavailable indicates that one of the record-keeping services
// could not be reached. Handlers map it to a distinct "retry later" response.
var ErrUpstreamUnavailable = errors.New("upstream service unavailable")
