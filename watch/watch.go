// Package watch implements a filesystem watcher
package watch

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rjeczalik/notify"
)

// Settle is how long a Watch waits for changes to stop before notifying
const Settle = 50 * time.Millisecond

// A Watcher receives notifications of changes
type Watcher interface {
	Changed(evs Events)
}

// WatcherFunc adapts a func to a Watcher
type WatcherFunc func(evs Events)

// Changed implements Watcher
func (f WatcherFunc) Changed(evs Events) { f(evs) }

// Watch wraps file system watchers and batches changes that happen close
// together into a single notification
type Watch struct {
	evs      chan notify.EventInfo
	watchers chan Watcher
	done     chan struct{}
}

// New creates a new Watch that recursively monitors the given directories
func New(dirs ...string) (*Watch, error) {
	w := &Watch{
		evs:      make(chan notify.EventInfo, 16),
		watchers: make(chan Watcher, 1),
		done:     make(chan struct{}),
	}

	err := w.Watch(dirs...)
	if err != nil {
		notify.Stop(w.evs)
		return nil, err
	}

	go w.run()
	return w, nil
}

// Watch adds additional directories to the watch
func (w *Watch) Watch(dirs ...string) error {
	for _, dir := range dirs {
		err := notify.Watch(filepath.Join(dir, "..."), w.evs,
			notify.Create, notify.Write, notify.Rename)
		if err != nil {
			return errors.Wrapf(err, "failed to watch %q", dir)
		}
	}

	return nil
}

// Notify notifies the given Watcher of changes as they happen
func (w *Watch) Notify(wr Watcher) {
	if wr != nil {
		w.watchers <- wr
	}
}

// Stop terminates this instance
func (w *Watch) Stop() {
	notify.Stop(w.evs)
	close(w.done)
}

func (w *Watch) run() {
	delay := time.NewTimer(time.Hour)
	delay.Stop()
	defer delay.Stop()

	var evs Events
	var watchers []Watcher

	for {
		select {
		case <-w.done:
			return

		case wr := <-w.watchers:
			watchers = append(watchers, wr)

		case ev := <-w.evs:
			evs = append(evs, ev)
			delay.Reset(Settle)

		case <-delay.C:
			for _, wr := range watchers {
				wr.Changed(evs)
			}

			evs = nil
		}
	}
}

// Events is a collection of change events
type Events []notify.EventInfo

// HasExt checks if any event path has one of the given extensions. Extensions
// are compared case-insensitively.
func (evs Events) HasExt(exts ...string) bool {
	for _, ev := range evs {
		ext := filepath.Ext(ev.Path())
		for _, want := range exts {
			if strings.EqualFold(ext, want) {
				return true
			}
		}
	}

	return false
}
