package common

import "errors"

var (
	// ErrNotFound means a callback's transaction id did not resolve to an
	// existing booking/payment pair. Handlers treat it as a no-op failure.
	ErrNotFound = errors.New("transaction not found")

	// ErrIdempotencyConflict means a callback arrived for a booking that
	// already reached a terminal paid state. The delivery is acknowledged
	// and side effects are skipped; gateway delivery is at-least-once.
	ErrIdempotencyConflict = errors.New("booking already settled")

	// ErrInvalidTransaction means the gateway answered the validation call
	// but did not vouch for the transaction. No state is mutated.
	ErrInvalidTransaction = errors.New("gateway reported transaction invalid")
)
