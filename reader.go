package optbind

import "os"

// argReader is a cursor over a captured argument vector. The vector is
// captured exactly once; peek never consumes, next consumes one token, and
// both keep returning ("", false) forever once the cursor reaches the end.
type argReader struct {
	args     []string
	cursor   int
	captured bool
}

// acquire captures argv. A nil argv captures the process argument vector.
// Calling acquire again after capture is a no-op, so an injected vector
// survives later Parse calls.
func (r *argReader) acquire(argv []string) {
	if r.captured {
		return
	}
	if argv == nil {
		argv = os.Args
	}
	r.args = append([]string(nil), argv...)
	r.captured = true
}

func (r *argReader) peek() (string, bool) {
	if r.cursor >= len(r.args) {
		return "", false
	}
	return r.args[r.cursor], true
}

func (r *argReader) next() (string, bool) {
	if r.cursor >= len(r.args) {
		return "", false
	}
	tok := r.args[r.cursor]
	r.cursor++
	return tok, true
}

// release drops the captured vector. Guarded so a vector is released at most
// once; reading after release behaves like exhaustion.
func (r *argReader) release() {
	if !r.captured {
		return
	}
	r.args = nil
	r.cursor = 0
	r.captured = false
}
