package optbind

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Values can come from three sources besides the command line, applied in
// precedence order: environment variables, secret directory, config file. A
// flag already filled by an earlier source is never overridden by a later
// one. Source keys are the dashless long name: --db-port is DB_PORT in the
// environment, "db-port" in a config file or secret filename.

// ParseEnv fills unset flags from environment variables. Flags already set
// are ignored. A boolean flag whose variable is present but empty reads as
// true.
func (p *Parser) ParseEnv(environ []string) error {
	env := make(map[string]string)
	for _, s := range environ {
		i := strings.Index(s, "=")
		if i < 1 {
			continue
		}
		env[s[:i]] = s[i+1:]
	}

	for k := Kind(0); k < numKinds; k++ {
		for _, o := range p.opts.byKind[k] {
			if p.setBy(o) != 0 {
				continue
			}
			envKey := strings.ToUpper(o.key())
			envKey = strings.ReplaceAll(envKey, "-", "_")
			if p.envPrefix != "" {
				envKey = p.envPrefix + "_" + envKey
			}
			value, isSet := env[envKey]
			if !isSet {
				continue
			}
			if o.kind == KindBool && value == "" {
				o.value.Set("true")
				p.markSet(o, sourceEnv)
				continue
			}
			if err := p.applySourced(o, value, sourceEnv, "environment variable "+envKey); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseFile fills unset flags from the file at path. Lines have the form
// "key value" or "key=value"; blank lines and lines starting with "#" are
// ignored. Keys not matching a registered flag are errors, except "help" and
// "h", which render usage. A key with no value reads a boolean flag as true.
func (p *Parser) ParseFile(path string) error {
	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()

	scanner := bufio.NewScanner(fp)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		name := line
		value := ""
		hasValue := false
		for i, r := range line {
			if r == '=' || r == ' ' {
				name, value = line[:i], line[i+1:]
				hasValue = true
				break
			}
		}

		if name == "help" || name == "h" {
			p.usage()
			return ErrHelp
		}
		o := p.opts.lookupKey(name)
		if o == nil {
			return p.failf(fmt.Errorf("configuration variable provided but not defined: %s", name))
		}
		// Command line and environment have precedence over the file.
		if p.setBy(o) != 0 {
			continue
		}
		if o.kind == KindBool && !hasValue {
			o.value.Set("true")
			p.markSet(o, sourceFile)
			continue
		}
		if !hasValue {
			return p.failf(&ParseError{Flag: o.Name(), Err: ErrMissingArgument})
		}
		if err := p.applySourced(o, value, sourceFile, "configuration variable "+name); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// ParseSecretDir fills unset flags from a directory where each file's name
// maps to a flag key (case-insensitive; underscores also tried as dashes).
// Files with no matching flag and subdirectories are skipped.
func (p *Parser) ParseSecretDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		o := p.secretTarget(e.Name())
		if o == nil {
			continue
		}
		if p.setBy(o) != 0 {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		val := strings.TrimRight(string(data), "\r\n")
		if o.kind == KindBool && val == "" {
			o.value.Set("true")
			p.markSet(o, sourceSecret)
			continue
		}
		if err := p.applySourced(o, val, sourceSecret, "secret file "+e.Name()); err != nil {
			return err
		}
	}
	return nil
}

// secretTarget resolves a secret filename to a registered option, trying the
// lower-cased name and its underscore-to-dash variant.
func (p *Parser) secretTarget(filename string) *Option {
	lower := strings.ToLower(filename)
	for _, cand := range []string{lower, strings.ReplaceAll(lower, "_", "-")} {
		if o := p.opts.lookupKey(cand); o != nil {
			return o
		}
	}
	return nil
}

// applySourced expands @file indirection, parses the value into the option's
// destination, and records the source.
func (p *Parser) applySourced(o *Option, raw string, src valueSource, origin string) error {
	if expanded, err := expandAtFile(raw); err == nil {
		raw = expanded
	} else if !errors.Is(err, errNoAtExpansion) {
		return p.failf(fmt.Errorf("invalid value %q from %s: %w", raw, origin, err))
	}
	if err := o.value.Set(raw); err != nil {
		return p.failf(&ParseError{Flag: o.Name(), Value: raw, Err: err})
	}
	p.markSet(o, src)
	return nil
}

var errNoAtExpansion = errors.New("no @file expansion")

// expandAtFile supports indirection syntax: a value beginning with '@path'
// is replaced by the file contents, trimmed of trailing newlines. '@@'
// escapes a literal leading '@'. Returns errNoAtExpansion when the value has
// no indirection marker.
func expandAtFile(val string) (string, error) {
	if len(val) == 0 || val[0] != '@' {
		return "", errNoAtExpansion
	}
	if strings.HasPrefix(val, "@@") {
		return val[1:], nil
	}
	path := val[1:]
	if path == "" {
		return "", fmt.Errorf("invalid @file reference: empty path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
