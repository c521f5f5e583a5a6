/*
Package optbind implements command-line flag parsing bound to caller-owned
scalar destinations.

Flags are registered by binding a pointer to one of the supported scalar
types, with an optional short form and an optional long form:

	var num int32
	var verbose bool
	optbind.Int32Var(&num, "-n", "--num", "number of workers")
	optbind.BoolVar(&verbose, "-v", "--verbose", "enable verbose output")
	if err := optbind.Parse(); err != nil {
		...
	}

The supported destination set is closed: signed and unsigned integers of
width 8 through 64, float32/float64, and bool. Var rejects anything else at
registration time. Dedicated helpers additionally bind time.Duration,
uuid.UUID and decimal.Decimal destinations.

Command line syntax:

	--num 5
	--num=5
	-n 5

Every flag consumes exactly one value token; booleans take an explicit
true/1/false/0. -h and --help are reserved: they print usage and make Parse
return ErrHelp. Scanning stops at the first token that matches no registered
flag, leaving it and everything after it untouched.

After the command line, values are filled in from environment variables, a
secret directory, and a config file, in that precedence order; sources never
override a value set by an earlier source. See ParseEnv, ParseSecretDir and
ParseFile. StartWatcher re-applies secret and config changes at runtime.
*/
package optbind

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ErrorHandling defines how Parser.Parse behaves when parsing fails.
type ErrorHandling int

const (
	ContinueOnError ErrorHandling = iota // Return a descriptive error.
	ExitOnError                          // Call os.Exit(2), or os.Exit(0) for ErrHelp.
	PanicOnError                         // Call panic with a descriptive error.
)

// parseState tracks the scan state machine. HelpRequested, Done and Failed
// are terminal.
type parseState int

const (
	stateStart parseState = iota
	stateProgName
	stateScanning
	stateHelpRequested
	stateDone
	stateFailed
)

// valueSource records where a flag's value came from, for precedence checks
// and reload decisions.
type valueSource int

const (
	sourceArg valueSource = iota + 1
	sourceEnv
	sourceSecret
	sourceFile
)

// A Parser owns a set of registered options and scans an argument vector
// against them. Each Parser exclusively owns its registry and reader; there
// is no shared state between instances.
type Parser struct {
	// Usage, when non-nil, replaces the default usage renderer.
	Usage func()

	name           string // declared program name; "" means discover from argv
	discoveredName string
	description    string
	errorHandling  ErrorHandling
	output         io.Writer // nil means stderr

	opts       registry
	reader     *argReader
	state      parseState
	envPrefix  string
	configFile string
	secretDir  string
	required   []string

	mu       sync.Mutex
	set      map[string]valueSource // by option key
	onChange map[string][]func(string)

	watch *watcher
}

// CommandLine is the default parser. The top-level registration and Parse
// functions are wrappers for its methods.
var CommandLine = NewParser("", ContinueOnError)

// NewParser returns an empty parser. An empty name means the program name is
// discovered from the first token of the parsed vector.
func NewParser(name string, errorHandling ErrorHandling) *Parser {
	return &Parser{name: name, errorHandling: errorHandling}
}

// NewParserWithEnvPrefix returns an empty parser whose environment lookups
// are prefixed with prefix + "_".
func NewParserWithEnvPrefix(name, prefix string, errorHandling ErrorHandling) *Parser {
	p := NewParser(name, errorHandling)
	p.envPrefix = prefix
	return p
}

// SetDescription sets the one-line program description shown in usage output.
func (p *Parser) SetDescription(s string) { p.description = s }

// SetOutput sets the destination for usage and error messages.
// If output is nil, os.Stderr is used.
func (p *Parser) SetOutput(w io.Writer) { p.output = w }

// SetConfigFile sets a config file applied after environment and secret
// sources on every Parse.
func (p *Parser) SetConfigFile(path string) { p.configFile = path }

// SetSecretDir sets a secret directory applied after environment variables
// on every Parse.
func (p *Parser) SetSecretDir(dir string) { p.secretDir = dir }

func (p *Parser) out() io.Writer {
	if p.output == nil {
		return os.Stderr
	}
	return p.output
}

// programName returns the declared name, falling back to the name discovered
// while parsing.
func (p *Parser) programName() string {
	if p.name != "" {
		return p.name
	}
	return p.discoveredName
}

// add validates names and appends the option to its kind's collection.
func (p *Parser) add(kind Kind, v Value, short, long, usage string) error {
	if short == "" && long == "" {
		return ErrMissingName
	}
	for _, n := range []string{short, long} {
		if n == "-h" || n == "--help" {
			return fmt.Errorf("%w: %s", ErrReservedName, n)
		}
	}
	// Duplicates are rejected per kind only; the same name under two kinds is
	// documented undefined behavior resolved by kind iteration order.
	for _, o := range p.opts.byKind[kind] {
		if (short != "" && o.matches(short)) || (long != "" && o.matches(long)) {
			return fmt.Errorf("%w: %s", ErrDuplicateName, kind)
		}
	}
	p.opts.add(&Option{Short: short, Long: long, Usage: usage, kind: kind, value: v})
	return nil
}

// Var binds dst, a pointer to one of the supported scalar types. Any other
// destination type fails with ErrUnsupportedType.
func (p *Parser) Var(dst any, short, long, usage string) error {
	switch d := dst.(type) {
	case *int8:
		return p.Int8Var(d, short, long, usage)
	case *int16:
		return p.Int16Var(d, short, long, usage)
	case *int32:
		return p.Int32Var(d, short, long, usage)
	case *int64:
		return p.Int64Var(d, short, long, usage)
	case *uint8:
		return p.Uint8Var(d, short, long, usage)
	case *uint16:
		return p.Uint16Var(d, short, long, usage)
	case *uint32:
		return p.Uint32Var(d, short, long, usage)
	case *uint64:
		return p.Uint64Var(d, short, long, usage)
	case *float32:
		return p.Float32Var(d, short, long, usage)
	case *float64:
		return p.Float64Var(d, short, long, usage)
	case *bool:
		return p.BoolVar(d, short, long, usage)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, dst)
	}
}

// Var binds dst on the default parser.
func Var(dst any, short, long, usage string) error {
	return CommandLine.Var(dst, short, long, usage)
}

// Int8Var binds an int8 flag with the given short and long names.
func (p *Parser) Int8Var(dst *int8, short, long, usage string) error {
	return p.add(KindInt8, (*int8Value)(dst), short, long, usage)
}

// Int16Var binds an int16 flag.
func (p *Parser) Int16Var(dst *int16, short, long, usage string) error {
	return p.add(KindInt16, (*int16Value)(dst), short, long, usage)
}

// Int32Var binds an int32 flag.
func (p *Parser) Int32Var(dst *int32, short, long, usage string) error {
	return p.add(KindInt32, (*int32Value)(dst), short, long, usage)
}

// Int64Var binds an int64 flag.
func (p *Parser) Int64Var(dst *int64, short, long, usage string) error {
	return p.add(KindInt64, (*int64Value)(dst), short, long, usage)
}

// Uint8Var binds a uint8 flag.
func (p *Parser) Uint8Var(dst *uint8, short, long, usage string) error {
	return p.add(KindUint8, (*uint8Value)(dst), short, long, usage)
}

// Uint16Var binds a uint16 flag.
func (p *Parser) Uint16Var(dst *uint16, short, long, usage string) error {
	return p.add(KindUint16, (*uint16Value)(dst), short, long, usage)
}

// Uint32Var binds a uint32 flag.
func (p *Parser) Uint32Var(dst *uint32, short, long, usage string) error {
	return p.add(KindUint32, (*uint32Value)(dst), short, long, usage)
}

// Uint64Var binds a uint64 flag.
func (p *Parser) Uint64Var(dst *uint64, short, long, usage string) error {
	return p.add(KindUint64, (*uint64Value)(dst), short, long, usage)
}

// Float32Var binds a float32 flag.
func (p *Parser) Float32Var(dst *float32, short, long, usage string) error {
	return p.add(KindFloat32, (*float32Value)(dst), short, long, usage)
}

// Float64Var binds a float64 flag.
func (p *Parser) Float64Var(dst *float64, short, long, usage string) error {
	return p.add(KindFloat64, (*float64Value)(dst), short, long, usage)
}

// BoolVar binds a bool flag. The flag takes an explicit value token:
// true, 1, false or 0.
func (p *Parser) BoolVar(dst *bool, short, long, usage string) error {
	return p.add(KindBool, (*boolValue)(dst), short, long, usage)
}

// Top-level wrappers over the default parser.

func Int8Var(dst *int8, short, long, usage string) error {
	return CommandLine.Int8Var(dst, short, long, usage)
}

func Int16Var(dst *int16, short, long, usage string) error {
	return CommandLine.Int16Var(dst, short, long, usage)
}

func Int32Var(dst *int32, short, long, usage string) error {
	return CommandLine.Int32Var(dst, short, long, usage)
}

func Int64Var(dst *int64, short, long, usage string) error {
	return CommandLine.Int64Var(dst, short, long, usage)
}

func Uint8Var(dst *uint8, short, long, usage string) error {
	return CommandLine.Uint8Var(dst, short, long, usage)
}

func Uint16Var(dst *uint16, short, long, usage string) error {
	return CommandLine.Uint16Var(dst, short, long, usage)
}

func Uint32Var(dst *uint32, short, long, usage string) error {
	return CommandLine.Uint32Var(dst, short, long, usage)
}

func Uint64Var(dst *uint64, short, long, usage string) error {
	return CommandLine.Uint64Var(dst, short, long, usage)
}

func Float32Var(dst *float32, short, long, usage string) error {
	return CommandLine.Float32Var(dst, short, long, usage)
}

func Float64Var(dst *float64, short, long, usage string) error {
	return CommandLine.Float64Var(dst, short, long, usage)
}

func BoolVar(dst *bool, short, long, usage string) error {
	return CommandLine.BoolVar(dst, short, long, usage)
}

// Parse scans argv against the registered options and then applies the
// environment, secret directory, and config file sources. The first token of
// argv is always consumed as the program name; a nil argv captures os.Args.
//
// Parse returns ErrHelp after rendering usage when -h or --help is seen.
// Under ExitOnError that exits 0; real errors exit 2.
func (p *Parser) Parse(argv []string) error {
	err := p.parse(argv)
	if err == nil {
		return nil
	}
	switch p.errorHandling {
	case ContinueOnError:
		return err
	case ExitOnError:
		if errors.Is(err, ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	case PanicOnError:
		panic(err)
	}
	return err
}

// Parse runs the default parser over os.Args.
func Parse() error { return CommandLine.Parse(os.Args) }

// Parsed reports whether Parse reached a terminal state.
func (p *Parser) Parsed() bool {
	return p.state == stateDone || p.state == stateFailed || p.state == stateHelpRequested
}

// Parsed reports whether the default parser has run.
func Parsed() bool { return CommandLine.Parsed() }

func (p *Parser) parse(argv []string) error {
	p.state = stateStart
	if p.reader == nil {
		p.reader = &argReader{}
	}
	p.reader.acquire(argv)

	p.state = stateProgName
	if prog, ok := p.reader.next(); ok && p.discoveredName == "" {
		p.discoveredName = prog
	}

	p.state = stateScanning
	for {
		tok, ok := p.reader.peek()
		if !ok {
			break
		}
		if tok == "-h" || tok == "--help" {
			p.state = stateHelpRequested
			p.usage()
			return ErrHelp
		}
		flagPart, valuePart, hasValue := strings.Cut(tok, "=")
		opt := p.opts.lookup(flagPart)
		if opt == nil {
			// First non-flag token: stop, leaving it and the rest unconsumed.
			break
		}
		p.reader.next()
		value := valuePart
		if !hasValue {
			v, ok := p.reader.next()
			if !ok {
				p.state = stateFailed
				return p.failf(&ParseError{Flag: flagPart, Err: ErrMissingArgument})
			}
			value = v
		}
		if err := opt.value.Set(value); err != nil {
			p.state = stateFailed
			return p.failf(&ParseError{Flag: flagPart, Value: value, Err: err})
		}
		p.markSet(opt, sourceArg)
	}
	p.state = stateDone

	if err := p.ParseEnv(os.Environ()); err != nil {
		p.state = stateFailed
		return err
	}
	if p.secretDir != "" {
		if err := p.ParseSecretDir(p.secretDir); err != nil {
			p.state = stateFailed
			return err
		}
	}
	if p.configFile != "" {
		if err := p.ParseFile(p.configFile); err != nil {
			p.state = stateFailed
			return err
		}
	}
	if err := p.checkRequired(); err != nil {
		p.state = stateFailed
		return p.failf(err)
	}
	return nil
}

// failf writes the error and usage to the parser output and returns it.
func (p *Parser) failf(err error) error {
	fmt.Fprintln(p.out(), err)
	p.usage()
	return err
}

func (p *Parser) markSet(o *Option, src valueSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.set == nil {
		p.set = make(map[string]valueSource)
	}
	p.set[o.key()] = src
}

// setBy returns how the option got its value, or 0 if it is still unset.
func (p *Parser) setBy(o *Option) valueSource {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.set[o.key()]
}

func (p *Parser) checkRequired() error {
	var missing []string
	for _, key := range p.required {
		if o := p.opts.lookupKey(key); o != nil && p.setBy(o) == 0 {
			missing = append(missing, o.Name())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
}

// Lookup returns the option registered under name (short or long form,
// exactly as registered), or nil.
func (p *Parser) Lookup(name string) *Option { return p.opts.lookup(name) }

// Lookup returns the named option of the default parser.
func Lookup(name string) *Option { return CommandLine.Lookup(name) }

// Set parses value into the named flag's destination, as if it had been seen
// on the command line.
func (p *Parser) Set(name, value string) error {
	o := p.opts.lookup(name)
	if o == nil {
		return fmt.Errorf("no such flag %s", name)
	}
	if err := o.value.Set(value); err != nil {
		return &ParseError{Flag: o.Name(), Value: value, Err: err}
	}
	p.markSet(o, sourceArg)
	return nil
}

// Set sets the value of the named flag on the default parser.
func Set(name, value string) error { return CommandLine.Set(name, value) }

// VisitAll visits all options in kind order then registration order, the
// same order used for matching and help output.
func (p *Parser) VisitAll(fn func(*Option)) { p.opts.visit(fn) }

// VisitAll visits the default parser's options.
func VisitAll(fn func(*Option)) { CommandLine.VisitAll(fn) }

// Visit visits only the options that have been set, in the same order as
// VisitAll.
func (p *Parser) Visit(fn func(*Option)) {
	p.opts.visit(func(o *Option) {
		if p.setBy(o) != 0 {
			fn(o)
		}
	})
}

// Visit visits the default parser's set options.
func Visit(fn func(*Option)) { CommandLine.Visit(fn) }

// NFlag returns the number of options that have been set.
func (p *Parser) NFlag() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.set)
}

// NFlag returns the number of set options on the default parser.
func NFlag() int { return CommandLine.NFlag() }
