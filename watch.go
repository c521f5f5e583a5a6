package optbind

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// watcher holds the fsnotify state for one running watch loop.
type watcher struct {
	fsw        *fsnotify.Watcher
	done       chan struct{}
	secretDir  string
	configFile string
}

// OnChange registers fn to be called with the flag's new rendered value
// whenever the watcher re-applies it. The key is the dashless flag name,
// e.g. "db-password" for --db-password.
func (p *Parser) OnChange(key string, fn func(string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.onChange == nil {
		p.onChange = make(map[string][]func(string))
	}
	p.onChange[key] = append(p.onChange[key], fn)
}

// OnChange registers a change callback on the default parser.
func OnChange(key string, fn func(string)) { CommandLine.OnChange(key, fn) }

func (p *Parser) notifyChange(o *Option, val string) {
	p.mu.Lock()
	fns := append([](func(string))(nil), p.onChange[o.key()]...)
	p.mu.Unlock()
	for _, fn := range fns {
		fn(val)
	}
}

// StartWatcher watches the secret directory and/or the config file and
// re-applies values as they change on disk. Command-line and environment
// values are never overridden. At most one watcher runs per parser.
func (p *Parser) StartWatcher(secretDir, configFile string) error {
	if p.watch != nil {
		return errors.New("watcher already running")
	}
	if secretDir == "" && configFile == "" {
		return errors.New("nothing to watch")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if secretDir != "" {
		if err := fsw.Add(secretDir); err != nil {
			fsw.Close()
			return err
		}
	}
	if configFile != "" {
		// Watch the directory: editors and orchestrators commonly replace
		// the file, which drops a watch placed on the file itself.
		if err := fsw.Add(filepath.Dir(configFile)); err != nil {
			fsw.Close()
			return err
		}
	}
	w := &watcher{fsw: fsw, done: make(chan struct{}), secretDir: secretDir, configFile: configFile}
	p.watch = w
	go p.watchLoop(w)
	return nil
}

// StartWatcher starts the default parser's watcher.
func StartWatcher(secretDir, configFile string) error {
	return CommandLine.StartWatcher(secretDir, configFile)
}

// StopWatcher stops the watch loop and releases the underlying watcher.
// Safe to call when no watcher is running.
func (p *Parser) StopWatcher() {
	if p.watch == nil {
		return
	}
	close(p.watch.done)
	p.watch.fsw.Close()
	p.watch = nil
}

// StopWatcher stops the default parser's watcher.
func StopWatcher() { CommandLine.StopWatcher() }

func (p *Parser) watchLoop(w *watcher) {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.handleWatchEvent(w, ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			fmt.Fprintln(p.out(), "watch error:", err)
		case <-w.done:
			return
		}
	}
}

func (p *Parser) handleWatchEvent(w *watcher, path string) {
	if w.configFile != "" && filepath.Clean(path) == filepath.Clean(w.configFile) {
		if err := p.reloadConfig(w.configFile); err != nil {
			fmt.Fprintln(p.out(), "config reload:", err)
		}
		return
	}
	if w.secretDir != "" && filepath.Dir(filepath.Clean(path)) == filepath.Clean(w.secretDir) {
		p.reloadSecret(path)
	}
}

// reloadSecret re-applies one changed secret file and fires callbacks when
// the value actually changed.
func (p *Parser) reloadSecret(path string) {
	o := p.secretTarget(filepath.Base(path))
	if o == nil {
		return
	}
	if src := p.setBy(o); src == sourceArg || src == sourceEnv {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(p.out(), "secret reload:", err)
		return
	}
	val := strings.TrimRight(string(data), "\r\n")
	if expanded, err := expandAtFile(val); err == nil {
		val = expanded
	}
	old := o.value.String()
	if err := o.value.Set(val); err != nil {
		fmt.Fprintf(p.out(), "secret reload: invalid value %q for %s: %v\n", val, o.Name(), err)
		return
	}
	p.markSet(o, sourceSecret)
	if cur := o.value.String(); cur != old {
		p.notifyChange(o, cur)
	}
}

// reloadConfig re-parses the config file and applies entries to flags whose
// value did not come from a higher-precedence source. Per-entry failures are
// aggregated so one bad line does not block the rest.
func (p *Parser) reloadConfig(path string) error {
	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()

	var merr MultiError
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
		o := p.opts.lookupKey(name)
		if o == nil {
			merr.Append(fmt.Errorf("configuration variable provided but not defined: %s", name))
			continue
		}
		if src := p.setBy(o); src == sourceArg || src == sourceEnv || src == sourceSecret {
			continue
		}
		if o.kind == KindBool && !hasValue {
			value = "true"
		} else if expanded, err := expandAtFile(value); err == nil {
			value = expanded
		}
		old := o.value.String()
		if err := o.value.Set(value); err != nil {
			merr.Append(&ParseError{Flag: o.Name(), Value: value, Err: err})
			continue
		}
		p.markSet(o, sourceFile)
		if cur := o.value.String(); cur != old {
			p.notifyChange(o, cur)
		}
	}
	merr.Append(scanner.Err())
	return merr.Err()
}
