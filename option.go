package optbind

import "strings"

// An Option is one registered flag: its names, help text, kind, and the
// conversion bound to the caller-owned destination.
type Option struct {
	Short string // short form including dash, e.g. "-n"; empty if absent
	Long  string // long form including dashes, e.g. "--num"; empty if absent
	Usage string // help text

	kind  Kind
	value Value
}

// matches reports whether tok equals the short or long name exactly.
// Matching is case-sensitive with no prefix or abbreviation support.
func (o *Option) matches(tok string) bool {
	return (o.Short != "" && tok == o.Short) || (o.Long != "" && tok == o.Long)
}

// Name returns the long name when present, otherwise the short name.
func (o *Option) Name() string {
	if o.Long != "" {
		return o.Long
	}
	return o.Short
}

// Kind returns the option's destination kind.
func (o *Option) Kind() Kind { return o.kind }

// key is the dashless identifier used for environment variables, config file
// lines, secret filenames, and change callbacks.
func (o *Option) key() string { return strings.TrimLeft(o.Name(), "-") }

// registry partitions options by kind, preserving insertion order within each
// kind. Iteration across kinds always follows Kind declaration order; that
// order must stay fixed, since a name registered under two kinds resolves to
// the kind visited last.
type registry struct {
	byKind [numKinds][]*Option
	n      int
}

func (r *registry) add(o *Option) {
	r.byKind[o.kind] = append(r.byKind[o.kind], o)
	r.n++
}

// lookup scans every kind in order and keeps the latest hit; within one kind
// the first insertion wins.
func (r *registry) lookup(tok string) *Option {
	var found *Option
	for k := Kind(0); k < numKinds; k++ {
		for _, o := range r.byKind[k] {
			if o.matches(tok) {
				found = o
				break
			}
		}
	}
	return found
}

// lookupKey finds the option whose dashless name equals key.
func (r *registry) lookupKey(key string) *Option {
	var found *Option
	for k := Kind(0); k < numKinds; k++ {
		for _, o := range r.byKind[k] {
			if o.key() == key {
				found = o
				break
			}
		}
	}
	return found
}

// visit walks all options in kind order, then insertion order. Help output
// uses the same walk, so matching and usage listing always agree.
func (r *registry) visit(fn func(*Option)) {
	for k := Kind(0); k < numKinds; k++ {
		for _, o := range r.byKind[k] {
			fn(o)
		}
	}
}
