package workflow

import "errors"

var (
	// ErrMalformedCommand: the submit command text does not have the four
	// expected /-separated fields.
	ErrMalformedCommand = errors.New("malformed leave command")

	// ErrInvalidDayCount: the day-count field is not a positive number.
	ErrInvalidDayCount = errors.New("invalid day count")

	// ErrNotificationFailure: posting the approval message failed; nothing
	// was registered.
	ErrNotificationFailure = errors.New("notification failed")

	// ErrLookupFailure: the requester's nickname is not present in the
	// ledger; the resolution aborted without mutating anything.
	ErrLookupFailure = errors.New("requester not found in ledger")
)
