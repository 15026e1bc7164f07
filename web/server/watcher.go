package server

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// fileWatcher reports changes to a single file. Editors often replace
// files by rename, so the parent directory is watched and events are
// filtered to the target path.
type fileWatcher struct {
	Changed <-chan struct{}
	watcher *fsnotify.Watcher
}

// watchFile watches path for writes, creation and renames
func watchFile(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	changed := make(chan struct{}, 1)
	go func() {
		for event := range watcher.Events {
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case changed <- struct{}{}:
			default: // A change is already pending
			}
		}
	}()

	return &fileWatcher{Changed: changed, watcher: watcher}, nil
}

// Close stops the watcher
func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}
