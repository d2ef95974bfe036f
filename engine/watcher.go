package engine

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima-imgui/engine/core"
)

// ConfigWatcher reloads the configuration file whenever it changes on disk and
// hands the decoded result to the render loop through Changes.
type ConfigWatcher struct {
	path string

	fsnotify *fsnotify.Watcher
	changes  chan *ApplicationConfig
	done     chan struct{}
	wg       sync.WaitGroup

	mutex    sync.Mutex
	isClosed bool
}

func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors usually replace the file, so the parent directory is watched.
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		path:     abs,
		fsnotify: fsWatch,
		changes:  make(chan *ApplicationConfig, 1),
		done:     make(chan struct{}),
	}
	cw.wg.Add(1)
	go cw.start()
	return cw, nil
}

// Changes delivers the most recent valid configuration. Older pending values are dropped.
func (cw *ConfigWatcher) Changes() <-chan *ApplicationConfig {
	return cw.changes
}

func (cw *ConfigWatcher) Close() error {
	cw.mutex.Lock()
	if cw.isClosed {
		cw.mutex.Unlock()
		return errors.New("config watcher already closed")
	}
	cw.isClosed = true
	cw.mutex.Unlock()

	close(cw.done)
	cw.wg.Wait()
	return nil
}

func (cw *ConfigWatcher) start() {
	defer cw.wg.Done()
	for {
		select {

		case e, ok := <-cw.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != cw.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				cw.reload()
			}

		case err, ok := <-cw.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-cw.done:
			cw.fsnotify.Close()
			return
		}
	}
}

func (cw *ConfigWatcher) reload() {
	config, err := LoadApplicationConfig(cw.path)
	if err != nil {
		core.LogWarn("ignoring config change: %s", err.Error())
		return
	}
	select {
	case cw.changes <- config:
	default:
		// single producer: after draining the stale value the send cannot block
		select {
		case <-cw.changes:
		default:
		}
		cw.changes <- config
	}
}

// ApplyLiveSettings copies the settings that can change without recreating
// the window from src into dst and reports whether anything changed. A log
// level pinned on dst is kept.
func ApplyLiveSettings(dst, src *ApplicationConfig) bool {
	changed := false
	if dst.ClearColor != src.ClearColor {
		dst.ClearColor = src.ClearColor
		changed = true
	}
	if !dst.logLevelPinned && dst.LogLevel != src.LogLevel {
		dst.LogLevel = src.LogLevel
		changed = true
		if level, err := core.ParseLogLevel(dst.LogLevel); err == nil {
			core.SetLogLevel(level)
		}
	}
	return changed
}
