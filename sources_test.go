package optbind

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseEnvFillsUnsetFlags(t *testing.T) {
	t.Setenv("OPTBIND_TEST_PORT", "8081")
	t.Setenv("OPTBIND_TEST_MAX_CONNS", "32")
	p, _ := newTestParser("app")
	var port int32
	var maxConns uint16
	p.Int32Var(&port, "-p", "--port", "")
	p.Uint16Var(&maxConns, "", "--max-conns", "")
	if err := p.Parse([]string{"prog"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if port != 8081 || maxConns != 32 {
		t.Fatalf("port=%d maxConns=%d", port, maxConns)
	}
}

func TestArgsBeatEnv(t *testing.T) {
	t.Setenv("OPTBIND_TEST_PORT", "8081")
	p, _ := newTestParser("app")
	var port int32
	p.Int32Var(&port, "", "--port", "")
	if err := p.Parse([]string{"prog", "--port", "9000"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if port != 9000 {
		t.Fatalf("port=%d, command line must win over env", port)
	}
}

func TestEnvEmptyBoolReadsTrue(t *testing.T) {
	t.Setenv("OPTBIND_TEST_VERBOSE", "")
	p, _ := newTestParser("app")
	var verbose bool
	p.BoolVar(&verbose, "-v", "--verbose", "")
	if err := p.Parse([]string{"prog"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !verbose {
		t.Fatal("empty env value should read a bool as true")
	}
}

func TestEnvInvalidValue(t *testing.T) {
	t.Setenv("OPTBIND_TEST_PORT", "not-a-port")
	p, _ := newTestParser("app")
	var port int32
	p.Int32Var(&port, "", "--port", "")
	if err := p.Parse([]string{"prog"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestParseFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "app.conf")
	content := "# comment line\n" +
		"\n" +
		"port 9090\n" +
		"rate=1.5\n" +
		"verbose\n"
	if err := os.WriteFile(cfg, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	p, _ := newTestParser("app")
	var port int32
	var rate float64
	var verbose bool
	p.Int32Var(&port, "", "--port", "")
	p.Float64Var(&rate, "", "--rate", "")
	p.BoolVar(&verbose, "", "--verbose", "")
	p.SetConfigFile(cfg)
	if err := p.Parse([]string{"prog"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if port != 9090 || rate != 1.5 || !verbose {
		t.Fatalf("port=%d rate=%v verbose=%v", port, rate, verbose)
	}
}

func TestArgsBeatFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "app.conf")
	os.WriteFile(cfg, []byte("port 9090\n"), 0o600)
	p, _ := newTestParser("app")
	var port int32
	p.Int32Var(&port, "", "--port", "")
	p.SetConfigFile(cfg)
	if err := p.Parse([]string{"prog", "--port", "7"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if port != 7 {
		t.Fatalf("port=%d, command line must win over file", port)
	}
}

func TestFileUnknownKey(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "app.conf")
	os.WriteFile(cfg, []byte("mystery 1\n"), 0o600)
	p, _ := newTestParser("app")
	p.SetConfigFile(cfg)
	err := p.Parse([]string{"prog"})
	if err == nil || !strings.Contains(err.Error(), "mystery") {
		t.Fatalf("err = %v", err)
	}
}

func TestFileHelpKey(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "app.conf")
	os.WriteFile(cfg, []byte("help\n"), 0o600)
	p, buf := newTestParser("app")
	p.SetConfigFile(cfg)
	if err := p.Parse([]string{"prog"}); !errors.Is(err, ErrHelp) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(buf.String(), "Options:") {
		t.Fatalf("no usage rendered: %q", buf.String())
	}
}

func TestParseSecretDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "db_port"), []byte("5432\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o700); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "unrelated"), []byte("x"), 0o600)
	p, _ := newTestParser("app")
	var dbPort uint16
	p.Uint16Var(&dbPort, "", "--db-port", "")
	p.SetSecretDir(dir)
	if err := p.Parse([]string{"prog"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if dbPort != 5432 {
		t.Fatalf("dbPort=%d", dbPort)
	}
}

func TestSecretBeatsFile(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "port"), []byte("1111"), 0o600)
	cfg := filepath.Join(t.TempDir(), "app.conf")
	os.WriteFile(cfg, []byte("port 2222\n"), 0o600)
	p, _ := newTestParser("app")
	var port int32
	p.Int32Var(&port, "", "--port", "")
	p.SetSecretDir(dir)
	p.SetConfigFile(cfg)
	if err := p.Parse([]string{"prog"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if port != 1111 {
		t.Fatalf("port=%d, secret dir must win over config file", port)
	}
}

func TestExpandAtFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "val")
	os.WriteFile(path, []byte("12345\n"), 0o600)

	got, err := expandAtFile("@" + path)
	if err != nil || got != "12345" {
		t.Fatalf("expand: %q, %v", got, err)
	}
	if got, err := expandAtFile("@@literal"); err != nil || got != "@literal" {
		t.Fatalf("escape: %q, %v", got, err)
	}
	if _, err := expandAtFile("plain"); !errors.Is(err, errNoAtExpansion) {
		t.Fatalf("plain: %v", err)
	}
	if _, err := expandAtFile("@"); err == nil || errors.Is(err, errNoAtExpansion) {
		t.Fatalf("empty path: %v", err)
	}
	if _, err := expandAtFile("@/does/not/exist"); err == nil {
		t.Fatal("missing file should error")
	}
}

func TestEnvValueAtFileIndirection(t *testing.T) {
	secret := filepath.Join(t.TempDir(), "port")
	os.WriteFile(secret, []byte("4242\n"), 0o600)
	t.Setenv("OPTBIND_TEST_PORT", "@"+secret)
	p, _ := newTestParser("app")
	var port int32
	p.Int32Var(&port, "", "--port", "")
	if err := p.Parse([]string{"prog"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if port != 4242 {
		t.Fatalf("port=%d", port)
	}
}

func FuzzExpandAtFile(f *testing.F) {
	f.Add("@does-not-exist")
	f.Add("@@literal")
	f.Add("plain")
	f.Add("@")
	f.Fuzz(func(t *testing.T, input string) {
		_, _ = expandAtFile(input) // must never panic
	})
}
