package optbind

import "strings"

// MultiError aggregates several errors deterministically. The zero value is
// ready to use.
type MultiError struct{ errs []error }

// Append records a non-nil error.
func (m *MultiError) Append(err error) {
	if err != nil {
		m.errs = append(m.errs, err)
	}
}

// Err returns nil when no errors were recorded, otherwise m itself.
func (m *MultiError) Err() error {
	if m == nil || len(m.errs) == 0 {
		return nil
	}
	return m
}

// Error implements error.
func (m *MultiError) Error() string {
	parts := make([]string, 0, len(m.errs))
	for _, e := range m.errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the recorded errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	if m == nil {
		return nil
	}
	return m.errs
}
