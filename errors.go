package optbind

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrHelp is returned by Parse when -h or --help is seen on the command line.
// It signals that usage text was already written; it is not a parse failure.
var ErrHelp = errors.New("optbind: help requested")

// Registration errors.
var (
	// ErrUnsupportedType is returned by Var for a destination outside the
	// supported scalar set.
	ErrUnsupportedType = errors.New("unsupported destination type")
	// ErrMissingName is returned when an option is registered with neither a
	// short nor a long name.
	ErrMissingName = errors.New("option needs a short or long name")
	// ErrReservedName is returned when registering -h or --help, which are
	// intercepted globally and cannot be redefined.
	ErrReservedName = errors.New("name is reserved")
	// ErrDuplicateName is returned when a name is already registered for the
	// same kind.
	ErrDuplicateName = errors.New("name already registered")
)

// Parse errors. Each surfaces wrapped in a *ParseError carrying the flag name
// and the offending raw value, so both errors.Is and errors.As work.
var (
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfRange      = errors.New("value out of range")
)

// ParseError describes a failure while scanning arguments.
type ParseError struct {
	Flag  string // flag token as it appeared, e.g. "--num"
	Value string // raw value text; empty when the argument was missing
	Err   error  // one of ErrMissingArgument, ErrInvalidArgument, ErrOutOfRange
}

func (e *ParseError) Error() string {
	if errors.Is(e.Err, ErrMissingArgument) {
		return fmt.Sprintf("flag needs an argument: %s", e.Flag)
	}
	return fmt.Sprintf("invalid value %q for flag %s: %v", e.Value, e.Flag, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// convErr classifies a strconv failure: range errors become ErrOutOfRange,
// everything else is malformed input.
func convErr(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
		return ErrOutOfRange
	}
	return ErrInvalidArgument
}
