// Package watcher reports changes to files under a set of directories. It
// reacts to fsnotify events and also polls, since some file systems never
// deliver events.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	baseInterval     = 1 * time.Second
	maxInterval      = 60 * time.Second
	debounceInterval = 50 * time.Millisecond
)

type fileSnapshot struct {
	modTime time.Time
	size    int64
}

type rootState struct {
	snapshot map[string]fileSnapshot
	interval time.Duration
	nextPoll time.Time
}

// ChangeFunc is called with the slash-separated paths, relative to root, of
// files that were added, modified or removed. Returning an error keeps the
// old snapshot so the change is reported again on the next poll.
type ChangeFunc func(ctx context.Context, root string, changed []string) error

// Watcher watches files ending in a suffix under one or more roots.
type Watcher struct {
	roots    []string
	suffix   string
	onChange ChangeFunc
	states   map[string]*rootState
	ctx      context.Context
}

// New creates a Watcher. onChange runs on the Run goroutine.
func New(roots []string, suffix string, onChange ChangeFunc) *Watcher {
	return &Watcher{
		roots:    roots,
		suffix:   suffix,
		onChange: onChange,
		states:   make(map[string]*rootState),
		ctx:      context.Background(),
	}
}

// Run blocks until ctx is cancelled. The first poll of each root records a
// baseline without reporting anything.
func (w *Watcher) Run(ctx context.Context) {
	w.ctx = ctx

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("watcher.fsnotify", "err", err)
	} else {
		defer fw.Close()
		for _, root := range w.roots {
			addTree(fw, root)
		}
		events, errs = fw.Events, fw.Errors
	}

	w.pollAll()

	ticker := time.NewTicker(baseInterval)
	defer ticker.Stop()
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					addTree(fw, ev.Name)
				}
			}
			// Editors write several times per save; wait for them to settle.
			debounce = time.After(debounceInterval)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			slog.Warn("watcher.fsnotify", "err", err)
		case <-debounce:
			debounce = nil
			w.pollNow()
		case <-ticker.C:
			w.pollAll()
		}
	}
}

func addTree(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				slog.Debug("watcher.add", "path", path, "err", err)
			}
		}
		return nil
	})
}

// pollAll polls each root whose interval has elapsed.
func (w *Watcher) pollAll() {
	now := time.Now()
	for _, root := range w.roots {
		state, exists := w.states[root]
		if !exists {
			state = &rootState{}
			w.states[root] = state
		}
		if exists && now.Before(state.nextPoll) {
			continue
		}
		w.pollRoot(root, state)
	}
}

// pollNow polls every root regardless of its interval.
func (w *Watcher) pollNow() {
	for _, state := range w.states {
		state.nextPoll = time.Time{}
	}
	w.pollAll()
}

func (w *Watcher) pollRoot(root string, state *rootState) {
	if _, err := os.Stat(root); err != nil {
		slog.Warn("watcher.root_gone", "path", root)
		state.nextPoll = time.Now().Add(maxInterval)
		return
	}

	snap, err := captureSnapshot(root, w.suffix)
	if err != nil {
		slog.Warn("watcher.snapshot", "path", root, "err", err)
		state.nextPoll = time.Now().Add(state.interval)
		return
	}

	interval := pollInterval(len(snap))

	if state.snapshot == nil {
		slog.Debug("watcher.baseline", "path", root, "files", len(snap))
		state.snapshot = snap
		state.interval = interval
		state.nextPoll = time.Now().Add(interval)
		return
	}

	changed := diffSnapshots(state.snapshot, snap)
	if len(changed) == 0 {
		state.interval = interval
		state.nextPoll = time.Now().Add(interval)
		return
	}

	slog.Info("watcher.changed", "path", root, "files", len(changed))
	if err := w.onChange(w.ctx, root, changed); err != nil {
		slog.Warn("watcher.on_change", "path", root, "err", err)
		state.nextPoll = time.Now().Add(interval)
		return
	}

	state.snapshot = snap
	state.interval = interval
	state.nextPoll = time.Now().Add(interval)
}

// captureSnapshot records mtime and size for every file under root whose
// name ends in suffix.
func captureSnapshot(root, suffix string) (map[string]fileSnapshot, error) {
	snap := make(map[string]fileSnapshot)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		snap[filepath.ToSlash(rel)] = fileSnapshot{
			modTime: info.ModTime(),
			size:    info.Size(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// diffSnapshots returns the sorted paths that differ between a and b.
func diffSnapshots(a, b map[string]fileSnapshot) []string {
	var changed []string
	for path, aSnap := range a {
		bSnap, ok := b[path]
		if !ok || !aSnap.modTime.Equal(bSnap.modTime) || aSnap.size != bSnap.size {
			changed = append(changed, path)
		}
	}
	for path := range b {
		if _, ok := a[path]; !ok {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}

// pollInterval computes the adaptive interval from file count.
// 1s base + 1s per 500 files, capped at 60s.
func pollInterval(fileCount int) time.Duration {
	ms := 1000 + (fileCount/500)*1000
	if ms > 60000 {
		ms = 60000
	}
	return time.Duration(ms) * time.Millisecond
}
