package engine

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

// watcher reloads file-backed documents when something else writes
// them. An external write replaces the document text wholesale, which
// discards the identity session like any other re-parse.
type watcher struct {
	fs   *fsnotify.Watcher
	e    *Engine
	done chan struct{}
}

// Watch starts watching the files behind opened file:// documents.
// Close stops it via StopWatch.
func (e *Engine) Watch() error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w := &watcher{fs: fs, e: e, done: make(chan struct{})}

	e.mu.Lock()
	if e.watcher != nil {
		e.mu.Unlock()
		fs.Close()
		return nil
	}
	e.watcher = w
	open := make([]uri.URI, 0, len(e.docs))
	for u := range e.docs {
		open = append(open, u)
	}
	e.mu.Unlock()

	for _, u := range open {
		w.add(u)
	}
	go w.run()
	return nil
}

// StopWatch stops file watching.
func (e *Engine) StopWatch() {
	e.mu.Lock()
	w := e.watcher
	e.watcher = nil
	e.mu.Unlock()
	if w == nil {
		return
	}
	close(w.done)
	w.fs.Close()
}

func (w *watcher) add(u uri.URI) {
	path, ok := filePath(u)
	if !ok {
		return
	}
	if err := w.fs.Add(path); err != nil {
		w.e.log.Warn("watch failed", zap.String("path", path), zap.Error(err))
	}
}

func (w *watcher) remove(u uri.URI) {
	if path, ok := filePath(u); ok {
		w.fs.Remove(path)
	}
}

func (w *watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.e.reloadFromDisk(uri.File(ev.Name))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.e.log.Warn("watch error", zap.Error(err))
		}
	}
}

func filePath(u uri.URI) (string, bool) {
	if !strings.HasPrefix(string(u), "file://") {
		return "", false
	}
	return u.Filename(), true
}
