package tui

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/colonyops/khatt/internal/core/analysis"
)

const watchSettle = 150 * time.Millisecond

// reloadedResult is one result file read back after a change on disk.
type reloadedResult struct {
	Path string
	Doc  analysis.Document
	Err  error
}

// resultsChangedMsg is sent when watched result files change on disk.
type resultsChangedMsg struct {
	results []reloadedResult
}

// resultWatcher watches the directories holding the open result files.
// Directories are watched instead of files so editors that save by rename
// keep being tracked.
type resultWatcher struct {
	watcher *fsnotify.Watcher
	paths   map[string]struct{}
	settle  time.Duration
	load    func(string) (analysis.Document, error)
}

func newResultWatcher(paths []string) (*resultWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &resultWatcher{
		watcher: watcher,
		paths:   make(map[string]struct{}, len(paths)),
		settle:  watchSettle,
		load:    analysis.Load,
	}

	var dirs []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		w.paths[abs] = struct{}{}
		if dir := filepath.Dir(abs); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Start returns a command that blocks until a watched file changes, waits for
// writes to settle and reloads every file touched in that window. The model
// calls Start again after handling the message.
func (w *resultWatcher) Start() tea.Cmd {
	return func() tea.Msg {
		changed := map[string]struct{}{}
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.relevant(event) {
					continue
				}
				changed[filepath.Clean(event.Name)] = struct{}{}

				w.drain(changed)
				return w.reload(changed)

			case _, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

// drain collects further events until nothing arrives for the settle period.
func (w *resultWatcher) drain(changed map[string]struct{}) {
	timer := time.NewTimer(w.settle)
	defer timer.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				changed[filepath.Clean(event.Name)] = struct{}{}
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.settle)
		case <-timer.C:
			return
		}
	}
}

func (w *resultWatcher) reload(changed map[string]struct{}) resultsChangedMsg {
	paths := make([]string, 0, len(changed))
	for p := range changed {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	msg := resultsChangedMsg{}
	for _, p := range paths {
		doc, err := w.load(p)
		msg.results = append(msg.results, reloadedResult{Path: p, Doc: doc, Err: err})
	}
	return msg
}

func (w *resultWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	_, ok := w.paths[filepath.Clean(event.Name)]
	return ok
}

// Close stops the watcher.
func (w *resultWatcher) Close() error {
	return w.watcher.Close()
}
