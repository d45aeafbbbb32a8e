package service

import "errors"

// Errors returned for malformed analytics input. The handler maps them to 400.
var (
	ErrInvalidQueryType  = errors.New("invalid analytics type")
	ErrInvalidTimeRange  = errors.New("invalid time range")
	ErrTimeRangeTooLarge = errors.New("time range too large")
	ErrInvalidLimit      = errors.New("invalid limit")
)

// errInvalidEvent marks an ingestion descriptor that failed validation
var errInvalidEvent = errors.New("invalid event")
