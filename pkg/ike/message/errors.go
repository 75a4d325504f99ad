package message

import "github.com/pkg/errors"

// Failure kinds reported by message operations. Call sites wrap these with
// additional context, so callers should match them with errors.Is.
var (
	// ErrInvalidState reports an operation invoked before its
	// preconditions were established.
	ErrInvalidState = errors.New("invalid state")
	// ErrNoResource reports an exhausted resource, such as an id space
	// or the random source.
	ErrNoResource = errors.New("resource exhausted")
	// ErrNotFound reports a lookup that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrNotSupported reports content understood but outside what the
	// message rules admit.
	ErrNotSupported = errors.New("not supported")
	// ErrVerify reports content that decoded but failed semantic checks.
	ErrVerify = errors.New("verification failed")
	// ErrDecode reports bytes that could not be decoded at all.
	ErrDecode = errors.New("decode failed")
)
