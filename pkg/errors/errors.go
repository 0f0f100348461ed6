// Package errors provides structured error reporting for the list adapter.
//
// List operations never fail loudly: removing an absent item, updating an
// out-of-range position or adding a header twice are silent no-ops. Each of
// those no-ops is still described by an [*Error] and sent to the global
// [ErrorHandler], so hosts can surface misuse during development without
// changing the adapter's contract.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindNotFound indicates an item lookup that matched nothing.
	KindNotFound
	// KindOutOfRange indicates a position outside the list bounds.
	KindOutOfRange
	// KindDuplicate indicates a decorator that was already present or absent.
	KindDuplicate
	// KindReserved indicates a user item carrying a reserved view type.
	KindReserved
	// KindCallback indicates a failure inside an observer or listener.
	KindCallback
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindOutOfRange:
		return "out_of_range"
	case KindDuplicate:
		return "duplicate"
	case KindReserved:
		return "reserved"
	case KindCallback:
		return "callback"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Misuse reports whether errors of this kind describe an ignored call
// rather than a fault.
func (k ErrorKind) Misuse() bool {
	switch k {
	case KindNotFound, KindOutOfRange, KindDuplicate, KindReserved:
		return true
	default:
		return false
	}
}

var (
	// ErrNotFound is wrapped by errors for item lookups that matched nothing.
	ErrNotFound = stderrors.New("item not found")
	// ErrOutOfRange is wrapped by errors for positions outside the list.
	ErrOutOfRange = stderrors.New("position out of range")
	// ErrDuplicate is wrapped by errors for idempotent decorator toggles.
	ErrDuplicate = stderrors.New("decorator already in requested state")
	// ErrReservedViewType is wrapped by errors for user items using a
	// decorator view type.
	ErrReservedViewType = stderrors.New("view type is reserved for decorators")
	// ErrNilItem is wrapped by errors for nil items passed to a list.
	ErrNilItem = stderrors.New("nil item")
	// ErrCallback is wrapped by errors for observers and listeners that
	// panicked.
	ErrCallback = stderrors.New("callback panicked")
)

// Error represents a structured error raised by a list operation.
type Error struct {
	// Op is the operation that was ignored or failed (e.g., "adapter.RemoveAt").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Position is the position involved, for KindOutOfRange errors.
	Position int
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Kind == KindOutOfRange {
		return fmt.Sprintf("%s [%s] position=%d: %v", e.Op, e.Kind, e.Position, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "adapter.notify").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// NotFound builds a KindNotFound error for op.
func NotFound(op string) *Error {
	return &Error{Op: op, Kind: KindNotFound, Err: ErrNotFound}
}

// NilItem builds a KindNotFound error for a nil item passed to op.
func NilItem(op string) *Error {
	return &Error{Op: op, Kind: KindNotFound, Err: ErrNilItem}
}

// OutOfRange builds a KindOutOfRange error for op at position.
func OutOfRange(op string, position int) *Error {
	return &Error{Op: op, Kind: KindOutOfRange, Position: position, Err: ErrOutOfRange}
}

// Duplicate builds a KindDuplicate error for op.
func Duplicate(op string) *Error {
	return &Error{Op: op, Kind: KindDuplicate, Err: ErrDuplicate}
}

// Reserved builds a KindReserved error for op. tag is the offending view type.
func Reserved(op string, tag int) *Error {
	return &Error{Op: op, Kind: KindReserved, Err: fmt.Errorf("%w: %d", ErrReservedViewType, tag)}
}

// Callback builds a KindCallback error for a listener of op that panicked
// with value.
func Callback(op string, value any) *Error {
	return &Error{Op: op, Kind: KindCallback, Err: fmt.Errorf("%w: %v", ErrCallback, value)}
}

// ErrorHandler receives errors reported by the list adapter.
type ErrorHandler interface {
	// HandleError is called when an operation is ignored or fails.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

// StackTracer is implemented by handlers that want [Report] to attach the
// caller's stack to errors.
type StackTracer interface {
	WantsStackTrace() bool
}
