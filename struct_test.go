package optbind

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	decimal "github.com/shopspring/decimal"
)

func TestBindStruct(t *testing.T) {
	type config struct {
		Workers  int32           `flag:"workers" short:"n" default:"4" help:"worker count"`
		Timeout  time.Duration   `flag:"timeout" default:"30s" help:"request timeout"`
		Debug    bool            `flag:"debug" help:"debug output"`
		Rate     decimal.Decimal `flag:"rate" default:"0.25"`
		Token    uuid.UUID       `flag:"token"`
		Ignored  int32
		internal int32 `flag:"internal"`
	}
	_ = config{}.internal

	p, _ := newTestParser("app")
	var cfg config
	if err := p.BindStruct(&cfg); err != nil {
		t.Fatalf("bind: %v", err)
	}
	// defaults applied before parsing
	if cfg.Workers != 4 || cfg.Timeout != 30*time.Second || !cfg.Rate.Equal(decimal.RequireFromString("0.25")) {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	argv := []string{"prog", "-n", "8", "--timeout", "1m30s", "--debug", "true", "--token", id.String()}
	if err := p.Parse(argv); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Workers != 8 || cfg.Timeout != 90*time.Second || !cfg.Debug || cfg.Token != id {
		t.Fatalf("parsed: %+v", cfg)
	}
}

func TestBindStructRequired(t *testing.T) {
	type config struct {
		Port int32 `flag:"port" required:"true"`
	}
	p, buf := newTestParser("app")
	var cfg config
	if err := p.BindStruct(&cfg); err != nil {
		t.Fatalf("bind: %v", err)
	}
	err := p.Parse([]string{"prog"})
	if err == nil || !strings.Contains(err.Error(), "--port") {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(buf.String(), "missing required flags") {
		t.Fatalf("output: %q", buf.String())
	}

	// satisfied via the environment counts as set
	t.Setenv("OPTBIND_TEST_PORT", "8080")
	p2, _ := newTestParser("app")
	var cfg2 config
	p2.BindStruct(&cfg2)
	if err := p2.Parse([]string{"prog"}); err != nil {
		t.Fatalf("env-satisfied required: %v", err)
	}
	if cfg2.Port != 8080 {
		t.Fatalf("port=%d", cfg2.Port)
	}
}

func TestBindStructErrors(t *testing.T) {
	p, _ := newTestParser("app")
	if err := p.BindStruct(nil); err == nil {
		t.Fatal("nil should fail")
	}
	var notStruct int
	if err := p.BindStruct(&notStruct); err == nil {
		t.Fatal("non-struct should fail")
	}
	type bad struct {
		S string `flag:"s"`
	}
	var b bad
	if err := p.BindStruct(&b); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("string field: %v", err)
	}
	type badDefault struct {
		N int8 `flag:"n" default:"999"`
	}
	var bd badDefault
	if err := p.BindStruct(&bd); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("overflowing default: %v", err)
	}
}

type celsius int16

func TestRegisterStructHandler(t *testing.T) {
	RegisterStructHandler(reflect.TypeOf(celsius(0)), func(ctx *StructFieldContext) (bool, error) {
		return true, ctx.P.Int16Var((*int16)(ctx.Value.Addr().Interface().(*celsius)), ctx.Short, ctx.Long, ctx.Help)
	})
	type config struct {
		Temp celsius `flag:"temp"`
	}
	p, _ := newTestParser("app")
	var cfg config
	if err := p.BindStruct(&cfg); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := p.Parse([]string{"prog", "--temp", "-40"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Temp != -40 {
		t.Fatalf("temp=%d", cfg.Temp)
	}
}
