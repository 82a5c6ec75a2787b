package zpl

import (
	"errors"
	"fmt"
)

var (
	// ErrConnect indicates that the TCP connect phase failed or timed out.
	// No read is attempted after a connect failure.
	ErrConnect = errors.New("zpl: connect failed")

	// ErrIdleTimeout indicates that the idle budget of consecutive silence
	// elapsed after connecting without the reply reaching an end condition.
	ErrIdleTimeout = errors.New("zpl: response timeout")

	// ErrDeadlineExceeded indicates that the optional total deadline set via
	// WithTotalDeadline elapsed before the reply completed.
	ErrDeadlineExceeded = errors.New("zpl: total deadline exceeded")

	// ErrFieldMissing indicates that the settings document parsed but an
	// expected field is absent. Callers must treat this as a possible outcome
	// per device, independent of the fetch having succeeded.
	ErrFieldMissing = errors.New("zpl: settings field missing")
)

// ParseError is returned when a device reply is not well-formed per the
// expected document grammar. Some devices are known to emit malformed dumps;
// the raw text is carried for diagnostics.
type ParseError struct {
	// Addr is the host:port of the device that produced the reply.
	Addr string
	// Raw is the full decoded reply text as accumulated off the wire.
	Raw string
	// Err is the underlying parse failure.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("zpl: malformed settings reply from %s: %v", e.Addr, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
