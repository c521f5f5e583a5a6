package optbind

import (
	"time"

	"github.com/google/uuid"
	decimal "github.com/shopspring/decimal"
)

// Extended kinds live outside the closed scalar set: they are registered only
// through the dedicated helpers below, never through Var, so the generic path
// keeps rejecting unknown destination types. Once registered they match,
// parse, and render help exactly like scalar options.

// -- time.Duration Value
type durationValue time.Duration

func (d *durationValue) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return ErrInvalidArgument
	}
	*d = durationValue(v)
	return nil
}

func (d *durationValue) String() string { return (*time.Duration)(d).String() }

// -- uuid.UUID Value
type uuidValue struct{ p *uuid.UUID }

func (v *uuidValue) Set(s string) error {
	id, err := uuid.Parse(s)
	if err != nil {
		return ErrInvalidArgument
	}
	*v.p = id
	return nil
}

func (v *uuidValue) String() string {
	if v.p == nil {
		return ""
	}
	return v.p.String()
}

// -- decimal.Decimal Value
type decimalValue struct{ p *decimal.Decimal }

func (v *decimalValue) Set(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ErrInvalidArgument
	}
	*v.p = d
	return nil
}

func (v *decimalValue) String() string {
	if v.p == nil {
		return "0"
	}
	return v.p.String()
}

// DurationVar binds a time.Duration flag. Values accept anything valid for
// time.ParseDuration.
func (p *Parser) DurationVar(dst *time.Duration, short, long, usage string) error {
	return p.add(KindDuration, (*durationValue)(dst), short, long, usage)
}

// DurationVar binds a time.Duration flag on the default parser.
func DurationVar(dst *time.Duration, short, long, usage string) error {
	return CommandLine.DurationVar(dst, short, long, usage)
}

// UUIDVar binds a uuid.UUID flag.
func (p *Parser) UUIDVar(dst *uuid.UUID, short, long, usage string) error {
	return p.add(KindUUID, &uuidValue{p: dst}, short, long, usage)
}

// UUIDVar binds a uuid.UUID flag on the default parser.
func UUIDVar(dst *uuid.UUID, short, long, usage string) error {
	return CommandLine.UUIDVar(dst, short, long, usage)
}

// DecimalVar binds a decimal.Decimal flag.
func (p *Parser) DecimalVar(dst *decimal.Decimal, short, long, usage string) error {
	return p.add(KindDecimal, &decimalValue{p: dst}, short, long, usage)
}

// DecimalVar binds a decimal.Decimal flag on the default parser.
func DecimalVar(dst *decimal.Decimal, short, long, usage string) error {
	return CommandLine.DecimalVar(dst, short, long, usage)
}
