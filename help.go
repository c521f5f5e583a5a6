package optbind

import "fmt"

// usage calls the custom Usage function if one is set, otherwise renders the
// default usage text.
func (p *Parser) usage() {
	if p.Usage != nil {
		p.Usage()
		return
	}
	p.defaultUsage()
}

// defaultUsage renders the usage header, the optional description, and one
// line per option in the same kind-then-registration order used everywhere
// else. Help text is advisory: write errors are ignored so rendering can
// never fail the caller.
func (p *Parser) defaultUsage() {
	w := p.out()
	if name := p.programName(); name != "" {
		fmt.Fprintf(w, "Usage: %s\n", name)
	} else {
		fmt.Fprintln(w, "Usage:")
	}
	if p.description != "" {
		fmt.Fprintln(w, p.description)
	}
	fmt.Fprintln(w, "Options:")
	p.opts.visit(func(o *Option) {
		switch {
		case o.Long != "" && o.Short != "":
			fmt.Fprintf(w, "  %s|%s  %s\n", o.Long, o.Short, o.Usage)
		case o.Long != "":
			fmt.Fprintf(w, "  %s  %s\n", o.Long, o.Usage)
		default:
			fmt.Fprintf(w, "  %s  %s\n", o.Short, o.Usage)
		}
	})
}

// PrintUsage renders usage text to the parser's output.
func (p *Parser) PrintUsage() { p.usage() }

// PrintUsage renders the default parser's usage text.
func PrintUsage() { CommandLine.PrintUsage() }
