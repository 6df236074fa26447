package apperrors

import "errors"

var (
	// ErrSourceLoadFailure means one of the required tables could not be
	// loaded. Nothing downstream of the load gate may be constructed.
	ErrSourceLoadFailure = errors.New("source load failure")

	ErrInvalidMonth   = errors.New("invalid month")
	ErrUnparsableDate = errors.New("unparsable date")

	// ErrMissingJoinKey marks a row whose AppID has no counterpart in a
	// joined table. Joined fields are treated as zero.
	ErrMissingJoinKey = errors.New("missing join key")

	ErrDegenerateDomain = errors.New("degenerate domain")
	ErrUnknownChart     = errors.New("unknown chart")
	ErrInvalidConfig    = errors.New("invalid config")
)
