package library

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch reports changes below root. Bursts of filesystem events are collapsed
// into one signal once nothing happened for debounce. The returned channel is
// closed when ctx ends.
func Watch(ctx context.Context, root string, debounce time.Duration) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	addRecursive := func(dir string) error {
		return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				// unreadable directories are simply not watched
				return nil
			}
			if d.IsDir() {
				if err := watcher.Add(p); err != nil {
					log.Debug().Err(err).Str("dir", p).Msg("cannot watch directory")
				}
			}
			return nil
		})
	}
	if err := addRecursive(root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", root, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer func() { _ = watcher.Close() }()

		timer := time.NewTimer(debounce)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = addRecursive(event.Name)
					}
				}
				if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					timer.Reset(debounce)
				}
			case <-timer.C:
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("library watch error")
			}
		}
	}()
	return changes, nil
}
