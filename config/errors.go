package config

import "errors"

// Validation errors returned by File.Validate, checkable with errors.Is
var (
	// ErrConfigNotFound is returned when the configuration file does not exist
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidTolerance is returned when the ruling split tolerance is not positive
	ErrInvalidTolerance = errors.New("invalid split tolerance: must be positive")

	// ErrInvalidRatio is returned when a share or ratio lies outside (0, 1]
	ErrInvalidRatio = errors.New("invalid ratio: must be in (0, 1]")

	// ErrInvalidDepth is returned when the column split depth is negative
	ErrInvalidDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidDrops is returned when the shrink abort threshold is not positive
	ErrInvalidDrops = errors.New("invalid max drops: must be positive")

	// ErrInvalidRulingRange is returned when the lone ruling range is empty
	ErrInvalidRulingRange = errors.New("invalid ruling range: min must be below max")

	// ErrInvalidWorkers is returned when the worker count is negative
	ErrInvalidWorkers = errors.New("invalid workers: must be non-negative")

	// ErrInvalidLogLevel is returned for an unknown log level name
	ErrInvalidLogLevel = errors.New("invalid log level: use debug, info, warn or error")
)
