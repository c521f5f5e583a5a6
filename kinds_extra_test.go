package optbind

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	decimal "github.com/shopspring/decimal"
)

func writeSecret(t *testing.T, dir, name, val string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(val), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestExtendedKinds(t *testing.T) {
	p, _ := newTestParser("app")
	var d time.Duration
	var id uuid.UUID
	var dec decimal.Decimal
	if err := p.DurationVar(&d, "-t", "--timeout", "timeout"); err != nil {
		t.Fatal(err)
	}
	if err := p.UUIDVar(&id, "", "--id", "instance id"); err != nil {
		t.Fatal(err)
	}
	if err := p.DecimalVar(&dec, "", "--price", "unit price"); err != nil {
		t.Fatal(err)
	}
	want := uuid.MustParse("f47ac10b-58cc-0372-8567-0e02b2c3d479")
	argv := []string{"prog", "--timeout", "1h30m", "--id", want.String(), "--price=19.99"}
	if err := p.Parse(argv); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d != 90*time.Minute {
		t.Fatalf("timeout=%v", d)
	}
	if id != want {
		t.Fatalf("id=%v", id)
	}
	if !dec.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("price=%v", dec)
	}
}

func TestExtendedKindInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		long string
		val  string
	}{
		{"duration", "--timeout", "fast"},
		{"uuid", "--id", "not-a-uuid"},
		{"decimal", "--price", "1.2.3"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, _ := newTestParser("app")
			var d time.Duration
			var id uuid.UUID
			var dec decimal.Decimal
			p.DurationVar(&d, "", "--timeout", "")
			p.UUIDVar(&id, "", "--id", "")
			p.DecimalVar(&dec, "", "--price", "")
			err := p.Parse([]string{"prog", c.long, c.val})
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestExtendedKindsNotInGenericPath(t *testing.T) {
	p, _ := newTestParser("app")
	var d time.Duration
	if err := p.Var(&d, "", "--timeout", ""); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("generic Var accepted *time.Duration: %v", err)
	}
	var id uuid.UUID
	if err := p.Var(&id, "", "--id", ""); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("generic Var accepted *uuid.UUID: %v", err)
	}
}

func TestExtendedKindFromSecret(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "timeout", "45s")
	p, _ := newTestParser("app")
	var d time.Duration
	p.DurationVar(&d, "", "--timeout", "")
	p.SetSecretDir(dir)
	if err := p.Parse([]string{"prog"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d != 45*time.Second {
		t.Fatalf("timeout=%v", d)
	}
}
