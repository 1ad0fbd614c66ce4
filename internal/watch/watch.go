// Package watch reloads the dataset when files under the data directory
// change.
package watch

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last event.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls Reload once a burst of changes has settled.
type Watcher struct {
	Dirs     []string
	Debounce time.Duration
	Reload   func() error

	done chan struct{}
	mu   sync.Mutex
	last error
}

func New(reload func() error, dirs ...string) *Watcher {
	return &Watcher{Dirs: dirs, Debounce: DefaultDebounce, Reload: reload}
}

// Start registers every directory under Dirs and watches until ctx is
// cancelled. It returns once the watches are in place.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, root := range w.Dirs {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			log.Printf("Directory '%s' not found, not watching.", root)
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Printf("Error walking %s: %v", path, err)
				return nil
			}
			if d.IsDir() {
				if err := fw.Add(path); err != nil {
					log.Printf("Failed to watch %s: %v", path, err)
				}
			}
			return nil
		})
		if err != nil {
			fw.Close()
			return err
		}
	}

	w.done = make(chan struct{})
	go w.loop(ctx, fw)
	return nil
}

// Done is closed when the watch loop exits.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Err returns the result of the most recent reload.
func (w *Watcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer close(w.done)
	defer fw.Close()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			log.Printf("Change detected: %s (%s)", event.Name, event.Op.String())
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := fw.Add(event.Name); err != nil {
					log.Printf("Error adding new directory %s to watcher: %v", event.Name, err)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.Debounce, w.reload)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	log.Println("Reloading dataset...")
	err := w.Reload()
	if err != nil {
		log.Printf("Error during reload: %v", err)
	} else {
		log.Println("Dataset reloaded.")
	}
	w.mu.Lock()
	w.last = err
	w.mu.Unlock()
}

func relevant(e fsnotify.Event) bool {
	return e.Has(fsnotify.Write) || e.Has(fsnotify.Create) || e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
