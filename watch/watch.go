// Package watch re-renders config entries when their inputs change on
// disk.
//
// A Watcher observes the config file, every entry's template tree, and the
// directories of every file the entry's last resolution pass read. Changes
// trigger a fresh, full re-render of the affected entries only. Each entry
// has one worker goroutine fed by a coalescing trigger, so overlapping
// changes for the same output directory are serialized; a change arriving
// mid-pass cancels the in-flight pass and queues a new one, so stale
// output never lands after newer output. Render errors are reported and
// watching continues.
//
// Rewriting the config file itself tears the watch session down and
// rebuilds it against the reloaded config.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/oinktools/pig/config"
	"github.com/oinktools/pig/render"
	"github.com/oinktools/pig/resolver"
)

// errConfigChanged signals the outer Watch loop to reload the config and
// rebuild the watch session.
var errConfigChanged = errors.New("config changed")

// Watcher re-renders entries of Config whenever their inputs change.
type Watcher struct {
	// Config is the loaded config to watch. Replaced on config reload.
	Config *config.Config
	// Driver runs the per-entry passes.
	Driver *render.Driver
	// Logger receives watch progress and render outcomes.
	Logger resolver.Logger
}

// New returns a Watcher for cfg using d for rendering.
func New(cfg *config.Config, d *render.Driver) *Watcher {
	return &Watcher{Config: cfg, Driver: d, Logger: resolver.NopLogger{}}
}

// Watch renders every entry once, then blocks re-rendering on changes
// until ctx is cancelled. It returns ctx's error on shutdown; a broken
// config reload keeps the previous config active so a later edit can fix
// it.
func (w *Watcher) Watch(ctx context.Context) error {
	if w.Config == nil {
		return errors.New("watch: nil config")
	}

	for {
		err := w.watchOnce(ctx)
		if !errors.Is(err, errConfigChanged) {
			return err
		}

		cfg, loadErr := config.Load(w.Config.Path)
		if loadErr != nil {
			w.logger().Error("config reload failed", "path", w.Config.Path, "error", loadErr)
			continue
		}
		w.Config = cfg
		w.logger().Info("config reloaded", "path", cfg.Path, "entries", len(cfg.Entries))
	}
}

// watchOnce runs one watch session against the current config: set up the
// fsnotify watcher and one worker per entry, trigger the initial renders,
// then dispatch events until ctx is cancelled or the config file changes.
func (w *Watcher) watchOnce(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	configDir := filepath.Dir(w.Config.Path)
	if err := fsw.Add(configDir); err != nil {
		return fmt.Errorf("watching config directory %s: %w", configDir, err)
	}

	states := make([]*entryState, len(w.Config.Entries))
	for i, e := range w.Config.Entries {
		states[i] = newEntryState(e)
		w.addWatchDirs(fsw, states[i])
	}

	wctx, cancelWorkers := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancelWorkers()
		wg.Wait()
	}()

	for _, st := range states {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.entryWorker(wctx, st, fsw)
		}()
	}

	for _, st := range states {
		st.fire()
	}
	w.logger().Info("watching for changes", "entries", len(states), "config", w.Config.Path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if w.dispatch(event, states) {
				w.logger().Info("config file changed", "path", event.Name)
				return errConfigChanged
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			w.logger().Warn("watch error", "error", err)
		}
	}
}

// dispatch routes one filesystem event to the entries it affects and
// reports whether the config file itself changed.
func (w *Watcher) dispatch(event fsnotify.Event, states []*entryState) bool {
	switch {
	case event.Has(fsnotify.Create),
		event.Has(fsnotify.Write),
		event.Has(fsnotify.Chmod),
		event.Has(fsnotify.Remove),
		event.Has(fsnotify.Rename):
	default:
		w.logger().Debug("ignoring event", "event", event.String())
		return false
	}

	if event.Name == w.Config.Path {
		return true
	}

	for _, st := range states {
		if !st.covers(event.Name) {
			continue
		}
		w.logger().Debug("change detected", "path", event.Name, "api", st.entry.API)
		st.supersede()
		st.fire()
	}
	return false
}

// entryWorker serializes render passes for one entry. Each consumed
// trigger runs a full pass; a pass cancelled by a newer trigger is
// reported at debug level and its queued trigger re-runs it.
func (w *Watcher) entryWorker(ctx context.Context, st *entryState, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-st.trigger:
		}

		passCtx, cancelPass := context.WithCancel(ctx)
		st.setCancel(cancelPass)
		res := w.driver().RunEntry(passCtx, st.entry)
		st.setCancel(nil)
		cancelPass()

		switch {
		case ctx.Err() != nil:
			return
		case errors.Is(res.Err, context.Canceled):
			w.logger().Debug("render superseded", "api", st.entry.API)
		case res.Err != nil:
			w.logger().Error("render failed", "api", st.entry.API, "error", res.Err)
		default:
			w.logger().Info("rendered", "api", st.entry.API,
				"files", len(res.Rendered), "duration", res.Duration)
		}

		if len(res.Dependencies) > 0 {
			st.refreshDirs(res.Dependencies)
			w.addWatchDirs(fsw, st)
		}
	}
}

// addWatchDirs registers the entry's current directory set with the
// watcher. Directories that cannot be watched are reported and skipped;
// they are retried after the next pass.
func (w *Watcher) addWatchDirs(fsw *fsnotify.Watcher, st *entryState) {
	for _, dir := range st.dirList() {
		if err := fsw.Add(dir); err != nil {
			w.logger().Warn("cannot watch directory", "dir", dir, "error", err)
		}
	}
}

func (w *Watcher) driver() *render.Driver {
	if w.Driver == nil {
		return render.NewDriver()
	}
	return w.Driver
}

func (w *Watcher) logger() resolver.Logger {
	if w.Logger == nil {
		return resolver.NopLogger{}
	}
	return w.Logger
}

// entryState is the watch-session state of one config entry: its
// coalescing trigger, the cancel handle of an in-flight pass, and the
// directories whose changes affect the entry.
type entryState struct {
	entry   config.Entry
	trigger chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	dirs   map[string]struct{}
}

func newEntryState(e config.Entry) *entryState {
	st := &entryState{
		entry:   e,
		trigger: make(chan struct{}, 1),
		dirs:    make(map[string]struct{}),
	}
	st.refreshDirs(nil)
	return st
}

// fire queues a render pass. A pass already queued absorbs the trigger.
func (st *entryState) fire() {
	select {
	case st.trigger <- struct{}{}:
	default:
	}
}

// supersede cancels the in-flight pass, if any.
func (st *entryState) supersede() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cancel != nil {
		st.cancel()
	}
}

func (st *entryState) setCancel(cancel context.CancelFunc) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cancel = cancel
}

// refreshDirs rebuilds the entry's directory set: the api document's
// directory, the directory of every dependency from the last pass, and
// the template tree.
func (st *entryState) refreshDirs(dependencies []string) {
	dirs := make(map[string]struct{})
	dirs[filepath.Dir(st.entry.API)] = struct{}{}
	for _, dep := range dependencies {
		dirs[filepath.Dir(dep)] = struct{}{}
	}
	for _, dir := range templateDirs(st.entry.In) {
		dirs[dir] = struct{}{}
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.dirs = dirs
}

// covers reports whether a change at path affects this entry. Paths under
// the entry's output directory never do; rendered output must not trigger
// another render.
func (st *entryState) covers(path string) bool {
	if underDir(path, st.entry.Out) {
		return false
	}
	if underDir(path, st.entry.In) {
		return true
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.dirs[filepath.Dir(path)]
	return ok
}

// dirList snapshots the entry's directory set.
func (st *entryState) dirList() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	dirs := make([]string, 0, len(st.dirs))
	for dir := range st.dirs {
		dirs = append(dirs, dir)
	}
	return dirs
}

// templateDirs returns in and every subdirectory under it.
func templateDirs(in string) []string {
	var dirs []string
	_ = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs
}

// underDir reports whether path is dir or inside it.
func underDir(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}
