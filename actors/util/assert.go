package util

import (
	"fmt"

	"github.com/filecoin-project/go-state-types/exitcode"
)

// Abort is the panic value raised by a failed assertion.
// Arithmetic over malformed inputs (e.g. a sector with no space-time) halts with an abort
// rather than produce a value that would be indistinguishable from a valid result.
type Abort struct {
	Code exitcode.ExitCode
	Msg  string
}

func (a Abort) Error() string {
	return fmt.Sprintf("%s (%d)", a.Msg, a.Code)
}

// Indicates a condition that should never happen for well-formed inputs.
// If encountered, execution halts.
func AssertMsg(b bool, format string, a ...interface{}) {
	if !b {
		panic(Abort{exitcode.ErrIllegalArgument, fmt.Sprintf(format, a...)})
	}
}

// Converts a value recovered from a panic into an exit-coded error, if it is an Abort.
// Any other value is re-raised.
func RecoverAbort(r interface{}) error {
	if r == nil {
		return nil
	}
	a, ok := r.(Abort)
	if !ok {
		panic(r)
	}
	return a.Code.Wrapf("%s", a.Msg)
}
