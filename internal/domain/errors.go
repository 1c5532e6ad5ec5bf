package domain

import "errors"

// Sentinel errors for the invite domain. Services and repositories wrap these
// with fmt.Errorf("%w: ...") so callers can branch with errors.Is.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller is not allowed to act on the entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates a request field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidWindow indicates a time window with a non-positive span or a
	// start that violates the operation's constraints.
	ErrInvalidWindow = errors.New("invalid time window")

	// ErrAmbiguousWindow indicates a window spec that supplies both or neither
	// of duration and end time.
	ErrAmbiguousWindow = errors.New("exactly one of duration or end time must be given")

	// ErrWindowOutOfRange indicates an RSVP window that does not lie within
	// the event window.
	ErrWindowOutOfRange = errors.New("window out of event range")

	// ErrInvalidExpiry indicates a ticket link expiry outside (now, event start).
	ErrInvalidExpiry = errors.New("invalid ticket link expiry")

	// ErrDeliveryFailed indicates an invite could not be delivered over the
	// requested channel. Stored state is unaffected.
	ErrDeliveryFailed = errors.New("delivery failed")
)
