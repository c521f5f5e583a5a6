package optbind

import "os"

// ResetForTesting discards the default parser and installs a fresh one with
// the given usage function. Tests that re-register flags or re-parse must
// call this first, since a parser's argument vector is captured only once.
func ResetForTesting(usage func()) {
	if CommandLine != nil {
		CommandLine.StopWatcher()
		if CommandLine.reader != nil {
			CommandLine.reader.release()
		}
	}
	CommandLine = NewParser("", ContinueOnError)
	CommandLine.Usage = usage
}

// WithArgs temporarily replaces os.Args with args, parses them with the
// default parser, runs fn, then restores os.Args. Flags must already be
// registered.
func WithArgs(args []string, fn func() error) error {
	orig := os.Args
	if len(args) == 0 {
		os.Args = []string{orig[0]}
	} else {
		os.Args = args
	}
	defer func() { os.Args = orig }()
	if err := CommandLine.Parse(os.Args); err != nil {
		return err
	}
	return fn()
}
