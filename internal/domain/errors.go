package domain

import "errors"

var (
	ErrTrackingAPIUnauthorized = errors.New("tracking api: not authorized")
	ErrTrackingAPIUnavailable  = errors.New("tracking api: unavailable")
	ErrMalformedResponse       = errors.New("tracking api: malformed response")
	ErrDuplicateAssignment     = errors.New("ftd assignment already recorded")
	ErrAssignmentNotFound      = errors.New("ftd assignment not found")
	ErrRunInProgress           = errors.New("attribution run already in progress")
	ErrAttributionFailed       = errors.New("attribution failed for every owner")
	ErrShaveNotFound           = errors.New("shave not found")
	ErrInvalidShave            = errors.New("invalid shave")
	ErrTrackingCodeNotFound    = errors.New("tracking code not found")
	ErrTrackingCodeExists      = errors.New("tracking code already exists")
	ErrInvalidInput            = errors.New("invalid input")
)
