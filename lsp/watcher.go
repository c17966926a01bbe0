package lsp

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Watcher polls the workspace root for source files that changed on disk
// and feeds them to the workspace. Files open in the editor are skipped.
type Watcher struct {
	ws           *Workspace
	pollInterval time.Duration
	stopCh       chan struct{}
	done         chan struct{}
	modTimes     map[string]time.Time

	// OnChange, if set, is called with the URI of every file the watcher
	// updated or removed.
	OnChange func(uri string)
}

func NewWatcher(ws *Workspace, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		ws:           ws,
		pollInterval: interval,
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
		modTimes:     make(map[string]time.Time),
	}
}

func (w *Watcher) Start() {
	go w.run()
}

// Stop ends polling and waits for the polling goroutine to exit.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.done
}

func (w *Watcher) run() {
	defer close(w.done)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Scan()
		}
	}
}

// Scan does one polling pass. It is not safe to call concurrently with a
// running watcher.
func (w *Watcher) Scan() {
	current := make(map[string]bool)

	root := w.ws.Root()
	afero.Walk(w.ws.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.ws.conf.IsSource(path) {
			return nil
		}

		current[path] = true

		lastMod, known := w.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			return nil
		}
		w.modTimes[path] = info.ModTime()
		uri := pathToURI(path)
		if w.ws.IsOpen(uri) {
			return nil
		}
		if err := w.ws.ScanFile(path); err != nil {
			log.Errorf("watch: %s", err)
			return nil
		}
		w.changed(uri)
		return nil
	})

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			uri := pathToURI(path)
			w.ws.RemoveFile(uri)
			w.changed(uri)
		}
	}
}

func (w *Watcher) changed(uri string) {
	log.Debugf("watch: %s changed", uri)
	if w.OnChange != nil {
		w.OnChange(uri)
	}
}
