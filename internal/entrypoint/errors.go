package entrypoint

import (
	"fmt"

	"github.com/pkg/errors"
)

const packageName string = "entrypoint"

// Kind classifies failures of the entrypoint itself. Scanner findings are
// never an Error; they surface only as the scanner's exit code.
type Kind int

const (
	// KindArgument is a missing target or malformed flags.
	KindArgument Kind = iota + 1
	// KindConfigResolution is a rules file that could not be prepared.
	KindConfigResolution
	// KindProcessInvocation is a scanner that could not be started.
	KindProcessInvocation
)

// Exit codes of the entrypoint's own failures, chosen from sysexits.h and
// the shell's "command not found" so they stand apart from scanner codes.
const (
	ExitArgument          = 64
	ExitConfigResolution  = 78
	ExitProcessInvocation = 127
)

func (k Kind) String() string {
	switch k {
	case KindArgument:
		return "argument error"
	case KindConfigResolution:
		return "config resolution error"
	case KindProcessInvocation:
		return "process invocation error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ExitCode is the process exit code for failures of kind k.
func (k Kind) ExitCode() int {
	switch k {
	case KindArgument:
		return ExitArgument
	case KindConfigResolution:
		return ExitConfigResolution
	case KindProcessInvocation:
		return ExitProcessInvocation
	}
	return 1
}

// Error is returned when the entrypoint fails before or while starting the
// scanner.
type Error struct {
	Kind Kind
	// msg is the error message explaining what operation failed.
	msg string
	// w is the underlying error.
	w error
}

func (e *Error) Error() string {
	if e.w == nil {
		return fmt.Sprintf("%s: %s: %s", packageName, e.Kind, e.msg)
	}
	return fmt.Sprintf("%s: %s: %s: %s", packageName, e.Kind, e.msg, e.w.Error())
}

func (e *Error) Unwrap() error {
	return e.w
}

// ArgumentError wraps a parse failure of the command line.
func ArgumentError(err error) error {
	return &Error{Kind: KindArgument, msg: "invalid arguments", w: err}
}

// ExitCode returns the exit code for err: 0 for nil, the kind's code for an
// *Error anywhere in the chain and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.ExitCode()
	}
	return 1
}
