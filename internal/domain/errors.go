package domain

import "errors"

// Domain errors.
var (
	ErrMissingElement          = errors.New("required element missing")
	ErrInvalidValue            = errors.New("invalid value")
	ErrInvalidDayType          = errors.New("invalid day type")
	ErrInvalidLinkType         = errors.New("invalid predecessor link type")
	ErrUnresolvedPredecessor   = errors.New("predecessor task not found")
	ErrNotEmitted              = errors.New("object not emitted")
	ErrEmptyDocument           = errors.New("document is empty")
	ErrConfigExists            = errors.New("config file already exists")
	ErrInvalidConfig           = errors.New("invalid configuration")
	ErrInputRequired           = errors.New("input file is required")
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")
)
