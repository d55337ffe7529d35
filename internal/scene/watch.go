package scene

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/ev-configurator/internal/logger"
)

// reloadDebounce collapses the burst of events editors emit for one save.
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a scene file whenever it changes on disk. Successfully
// parsed scenes are delivered on Reloads; files that fail to parse are logged
// and skipped, so the viewer keeps its last good scene.
//
// Reloads is drained by the frame loop; only the newest pending scene is
// kept.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	log     *zap.Logger

	reloads chan *Scene
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching path. The parent directory is watched so that
// editors that replace the file atomically are still seen.
func Watch(path string, log *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watching scene %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watching scene %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching scene %s: %w", path, err)
	}

	w := &Watcher{
		path:    abs,
		watcher: fw,
		log:     logger.OrNop(log),
		reloads: make(chan *Scene, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Reloads delivers freshly loaded scenes. It is closed by Close.
func (w *Watcher) Reloads() <-chan *Scene {
	return w.reloads
}

// Poll returns the newest reloaded scene without blocking, or nil.
func (w *Watcher) Poll() *Scene {
	select {
	case sc, ok := <-w.reloads:
		if !ok {
			return nil
		}
		return sc
	default:
		return nil
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.reloads)

	// Trailing debounce: reload once the file has been quiet for a moment.
	var settle <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			settle = time.After(reloadDebounce)
		case <-settle:
			settle = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("scene watcher error", zap.Error(err))
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	sc, err := Load(w.path)
	if err != nil {
		w.log.Warn("scene reload failed, keeping previous scene", zap.Error(err))
		return
	}
	// Replace any scene the frame loop has not picked up yet.
	select {
	case <-w.reloads:
	default:
	}
	w.reloads <- sc
	w.log.Info("scene reloaded",
		zap.String("path", w.path),
		zap.Int("presets", sc.Presets.Len()),
		zap.Int("sequences", len(sc.Sequences)),
		zap.Int("groups", len(sc.Groups)),
	)
}
