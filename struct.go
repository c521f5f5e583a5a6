package optbind

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	decimal "github.com/shopspring/decimal"
)

/*
Struct binding registers one flag per tagged struct field:

	type config struct {
		Workers int32         `flag:"workers" short:"n" default:"4" help:"worker count"`
		Timeout time.Duration `flag:"timeout" default:"30s" help:"request timeout"`
		Debug   bool          `flag:"debug" help:"enable debug output"`
		Token   uuid.UUID     `flag:"token" required:"true" help:"API token"`
	}

Tags: `flag` is the long name (dashes added here), `short` the optional short
letter, `help` the usage text, `default` a value parsed with the field kind's
rules and written into the field before parsing, `required:"true"` makes a
missing flag a Parse error. Field types funnel into the same closed per-kind
registration as direct Var calls; reflection stops at the struct surface.
*/

// FieldHandler registers a flag for one struct field. It reports whether it
// handled the field's type; built-in handling runs only when it did not.
type FieldHandler func(ctx *StructFieldContext) (handled bool, err error)

// StructFieldContext carries the field and its parsed tags to a FieldHandler.
type StructFieldContext struct {
	P     *Parser
	Field reflect.StructField
	Value reflect.Value

	Short    string // "-x" form, empty if no short tag
	Long     string // "--name" form
	Help     string
	Required bool
	Default  string
}

var structHandlers = make(map[reflect.Type]FieldHandler)

// RegisterStructHandler plugs in custom handling for a concrete field type,
// consulted before built-in logic. Registering the same type twice keeps the
// last handler.
func RegisterStructHandler(t reflect.Type, h FieldHandler) { structHandlers[t] = h }

// BindStruct registers a flag for every exported field of *s carrying a
// `flag` tag. Defaults are applied immediately; required fields are checked
// at the end of Parse.
func (p *Parser) BindStruct(s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("BindStruct expects a non-nil pointer to a struct, got %T", s)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("BindStruct expects a pointer to a struct, got %T", s)
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}
		name := field.Tag.Get("flag")
		if name == "" {
			continue
		}
		short := field.Tag.Get("short")
		if short != "" {
			short = "-" + short
		}
		ctx := &StructFieldContext{
			P:        p,
			Field:    field,
			Value:    v.Field(i),
			Short:    short,
			Long:     "--" + name,
			Help:     field.Tag.Get("help"),
			Required: strings.EqualFold(field.Tag.Get("required"), "true"),
			Default:  field.Tag.Get("default"),
		}
		handled := false
		if h, ok := structHandlers[field.Type]; ok {
			var err error
			handled, err = h(ctx)
			if err != nil {
				return fmt.Errorf("field %s: %w", field.Name, err)
			}
		}
		if !handled {
			if err := p.bindField(ctx); err != nil {
				return fmt.Errorf("field %s: %w", field.Name, err)
			}
		}
		if ctx.Required {
			p.required = append(p.required, name)
		}
	}
	return nil
}

// BindStruct registers tagged fields on the default parser.
func BindStruct(s any) error { return CommandLine.BindStruct(s) }

// bindField is the built-in registration path: extended kinds by concrete
// pointer type, then the generic scalar switch, which also supplies the
// ErrUnsupportedType failure for anything else.
func (p *Parser) bindField(ctx *StructFieldContext) error {
	var err error
	switch ptr := ctx.Value.Addr().Interface().(type) {
	case *time.Duration:
		err = p.DurationVar(ptr, ctx.Short, ctx.Long, ctx.Help)
	case *uuid.UUID:
		err = p.UUIDVar(ptr, ctx.Short, ctx.Long, ctx.Help)
	case *decimal.Decimal:
		err = p.DecimalVar(ptr, ctx.Short, ctx.Long, ctx.Help)
	default:
		err = p.Var(ptr, ctx.Short, ctx.Long, ctx.Help)
	}
	if err != nil {
		return err
	}
	if ctx.Default != "" && !ctx.Required {
		o := p.opts.lookup(ctx.Long)
		if err := o.value.Set(ctx.Default); err != nil {
			return fmt.Errorf("invalid default %q: %w", ctx.Default, err)
		}
	}
	return nil
}
