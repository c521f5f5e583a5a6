package optbind

import "strconv"

// Value is the conversion capability bound to an option. Set parses one raw
// value token into the caller-owned destination; String renders the current
// destination value for diagnostics.
//
// Integer kinds parse base-10 with width checking: overflow is ErrOutOfRange,
// malformed text is ErrInvalidArgument. Floats accept standard decimal
// notation. Bool accepts exactly "true"/"1" and "false"/"0".
type Value interface {
	String() string
	Set(string) error
}

// -- int8 Value
type int8Value int8

func (v *int8Value) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 8)
	if err != nil {
		return convErr(err)
	}
	*v = int8Value(n)
	return nil
}

func (v *int8Value) String() string { return strconv.FormatInt(int64(*v), 10) }

// -- int16 Value
type int16Value int16

func (v *int16Value) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 16)
	if err != nil {
		return convErr(err)
	}
	*v = int16Value(n)
	return nil
}

func (v *int16Value) String() string { return strconv.FormatInt(int64(*v), 10) }

// -- int32 Value
type int32Value int32

func (v *int32Value) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return convErr(err)
	}
	*v = int32Value(n)
	return nil
}

func (v *int32Value) String() string { return strconv.FormatInt(int64(*v), 10) }

// -- int64 Value
type int64Value int64

func (v *int64Value) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return convErr(err)
	}
	*v = int64Value(n)
	return nil
}

func (v *int64Value) String() string { return strconv.FormatInt(int64(*v), 10) }

// -- uint8 Value
type uint8Value uint8

func (v *uint8Value) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return convErr(err)
	}
	*v = uint8Value(n)
	return nil
}

func (v *uint8Value) String() string { return strconv.FormatUint(uint64(*v), 10) }

// -- uint16 Value
type uint16Value uint16

func (v *uint16Value) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return convErr(err)
	}
	*v = uint16Value(n)
	return nil
}

func (v *uint16Value) String() string { return strconv.FormatUint(uint64(*v), 10) }

// -- uint32 Value
type uint32Value uint32

func (v *uint32Value) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return convErr(err)
	}
	*v = uint32Value(n)
	return nil
}

func (v *uint32Value) String() string { return strconv.FormatUint(uint64(*v), 10) }

// -- uint64 Value
type uint64Value uint64

func (v *uint64Value) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return convErr(err)
	}
	*v = uint64Value(n)
	return nil
}

func (v *uint64Value) String() string { return strconv.FormatUint(uint64(*v), 10) }

// -- float32 Value
type float32Value float32

func (v *float32Value) Set(s string) error {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return convErr(err)
	}
	*v = float32Value(f)
	return nil
}

func (v *float32Value) String() string { return strconv.FormatFloat(float64(*v), 'g', -1, 32) }

// -- float64 Value
type float64Value float64

func (v *float64Value) Set(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return convErr(err)
	}
	*v = float64Value(f)
	return nil
}

func (v *float64Value) String() string { return strconv.FormatFloat(float64(*v), 'g', -1, 64) }

// -- bool Value
type boolValue bool

// Set accepts exactly true/1/false/0. Unlike most flag parsers there is no
// bare-flag shorthand on the command line; booleans consume one value token
// like every other kind.
func (v *boolValue) Set(s string) error {
	switch s {
	case "true", "1":
		*v = true
	case "false", "0":
		*v = false
	default:
		return ErrInvalidArgument
	}
	return nil
}

func (v *boolValue) String() string { return strconv.FormatBool(bool(*v)) }
