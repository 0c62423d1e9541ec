package codec

import "errors"

var (
	// ErrShortBuffer indicates a buffer whose length exceeds its data.
	ErrShortBuffer = errors.New("buffer length exceeds data")

	// ErrCapacityExceeded indicates more rows than a batch can hold.
	ErrCapacityExceeded = errors.New("batch capacity exceeded")

	// ErrInvalidGroupMemberBuffer indicates a member buffer whose length is
	// not a multiple of the record size, or a member with wrong field sizes.
	ErrInvalidGroupMemberBuffer = errors.New("invalid group member buffer")

	// ErrMalformedHeaders indicates a truncated packed header sequence.
	ErrMalformedHeaders = errors.New("malformed packed headers")

	// ErrMalformedBody indicates a truncated packed body.
	ErrMalformedBody = errors.New("malformed packed body")
)
