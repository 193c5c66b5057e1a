package local

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gobeaver/wpfs"
	"github.com/rs/zerolog"
)

// Watcher invalidates cache entries for paths changed on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	target  wpfs.CanInvalidate
	logger  zerolog.Logger
	wg      sync.WaitGroup
	once    sync.Once
}

// Watch starts watching root and every directory below it. fsnotify is not
// recursive, so directories created later are added as they appear.
func Watch(root string, target wpfs.CanInvalidate, logger zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{watcher: fw, target: target, logger: logger}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(p)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.ToSlash(event.Name)
			n := w.target.InvalidatePrefix(name)
			w.target.Invalidate(filepath.ToSlash(filepath.Dir(event.Name)))
			w.logger.Trace().Str("path", name).Str("op", event.Op.String()).Int("dropped", n).Msg("change detected")

			if event.Has(fsnotify.Create) {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Debug().Err(err).Str("path", name).Msg("new path not watched")
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
