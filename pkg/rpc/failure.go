package rpc

import (
	"fmt"

	"github.com/sumup/rack-rpc/pkg/jsonrpc"
)

// FailureKind identifies the category of a failure raised during request
// processing. Override handlers are keyed by it.
type FailureKind int

const (
	// FailureParse is a JSON decode failure at the outer layer.
	FailureParse FailureKind = iota
	// FailureInvalidRequest is a request that fails shape validation.
	FailureInvalidRequest
	// FailureNoMethod is a method absent from the registry.
	FailureNoMethod
	// FailureBadArguments is a wrong argument shape or count raised by the
	// resolved operation.
	FailureBadArguments
	// FailureProtocol is a typed *jsonrpc.Error raised by the operation,
	// carrying its own code, message and data.
	FailureProtocol
	// FailureUnhandled is any other failure, including recovered panics.
	FailureUnhandled
)

func (k FailureKind) String() string {
	switch k {
	case FailureParse:
		return "parse"
	case FailureInvalidRequest:
		return "invalid_request"
	case FailureNoMethod:
		return "no_method"
	case FailureBadArguments:
		return "bad_arguments"
	case FailureProtocol:
		return "protocol"
	case FailureUnhandled:
		return "unhandled"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// OverrideFunc replaces the default error construction for one failure
// category. It receives the raised condition and returns the wire error.
type OverrideFunc func(err error) *jsonrpc.Error

// BadArgumentsError signals that an operation received arguments it cannot
// accept. It maps to the reserved invalid-arguments code.
type BadArgumentsError struct {
	Reason string
}

func (e *BadArgumentsError) Error() string {
	return e.Reason
}

// BadArguments raises a bad-arguments condition from inside an operation.
func BadArguments(format string, args ...interface{}) error {
	return &BadArgumentsError{Reason: fmt.Sprintf(format, args...)}
}

// failure pairs the raised condition with its category. trace, when set,
// holds the goroutine stack captured at a recovered panic; it is logged and
// never serialized.
type failure struct {
	kind  FailureKind
	err   error
	trace string
}
