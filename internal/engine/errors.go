package engine

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The numeric value doubles as the ABI error code.
type Kind int32

const (
	KindInvalidArgument Kind = 1
	KindOutOfMemory     Kind = 2
	KindBufferTooSmall  Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindOutOfMemory:
		return "out_of_memory"
	case KindBufferTooSmall:
		return "buffer_too_small"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

// Error is the concrete error returned by engine operations.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

func invalidArgument(op, msg string) error {
	return &Error{Kind: KindInvalidArgument, Op: op, Msg: msg}
}

func outOfMemory(op string) error {
	return &Error{Kind: KindOutOfMemory, Op: op, Msg: "out of memory"}
}

// outOfMemoryCause keeps the OutOfMemory kind but carries cause in the message.
func outOfMemoryCause(op string, cause error) error {
	return &Error{Kind: KindOutOfMemory, Op: op, Msg: "out of memory: " + cause.Error(), Err: cause}
}

func bufferTooSmall(op, msg string) error {
	return &Error{Kind: KindBufferTooSmall, Op: op, Msg: msg}
}

// KindOf extracts the error kind from err, if it carries one.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// CodeOf maps err to its ABI code: 0 for nil, the kind for engine errors and
// KindInvalidArgument for anything else.
func CodeOf(err error) int32 {
	if err == nil {
		return 0
	}
	if k, ok := KindOf(err); ok {
		return int32(k)
	}
	return int32(KindInvalidArgument)
}

// IsInvalidArgument reports whether err is a null/absent argument or bad capacity.
func IsInvalidArgument(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindInvalidArgument
}

// IsOutOfMemory reports whether err is an allocation failure.
func IsOutOfMemory(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindOutOfMemory
}

// IsBufferTooSmall reports whether err means a bounded destination would truncate.
func IsBufferTooSmall(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindBufferTooSmall
}
