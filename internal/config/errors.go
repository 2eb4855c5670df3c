package config

import "errors"

// Configuration errors. Any of these aborts the run before a single worker
// is started; callers match them with errors.Is.
var (
	// ErrNoTargetList is returned when no target list file was given.
	ErrNoTargetList = errors.New("target list required: use -l/--list")

	// ErrTargetListMissing is returned when the target list file does not exist.
	ErrTargetListMissing = errors.New("target list file not found")

	// ErrInvalidThreads is returned when the worker count is not positive.
	ErrInvalidThreads = errors.New("invalid thread count: must be positive")

	// ErrInvalidTimeout is returned when the per-fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidFormat is returned for an unknown report format.
	ErrInvalidFormat = errors.New("invalid report format")

	// ErrInvalidSort is returned for an unknown --sort key.
	ErrInvalidSort = errors.New("invalid sort key")

	// ErrInvalidColor is returned for an unknown --color name.
	ErrInvalidColor = errors.New("invalid dashboard color")

	// ErrConflictingFlagFilters is returned when both include and exclude
	// flag filters are set.
	ErrConflictingFlagFilters = errors.New("--include-flag and --exclude-flag are mutually exclusive")
)
