package loader

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// watcher invalidates cached configs when their backing files change.
type watcher struct {
	mu      sync.Mutex
	sources map[string]string // absolute path -> cache key
	fw      *fsnotify.Watcher
	done    chan struct{}
}

func newWatcher() *watcher {
	return &watcher{
		sources: make(map[string]string),
		done:    make(chan struct{}),
	}
}

func (w *watcher) start(loader *Loader) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fw = fw

	go func() {
		for {
			select {
			case <-w.done:
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				w.mu.Lock()
				source, tracked := w.sources[event.Name]
				w.mu.Unlock()
				if !tracked {
					continue
				}
				loader.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("config file changed")
				loader.Invalidate(source)
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				loader.logger.Debug().Err(err).Msg("watch error")
			}
		}
	}()
	return nil
}

func (w *watcher) track(path, source string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mu.Lock()
	_, known := w.sources[abs]
	w.sources[abs] = source
	w.mu.Unlock()

	if !known && w.fw != nil {
		// Editors often replace files, so watch the directory; events still
		// arrive keyed by the full path.
		_ = w.fw.Add(filepath.Dir(abs))
	}
}

func (w *watcher) close() error {
	close(w.done)
	if w.fw == nil {
		return nil
	}
	return w.fw.Close()
}
