package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/nafs-dev/nafs/pkg/models"
)

// WatchRoster watches the roster file and invokes onChange with freshly
// parsed profiles whenever it is rewritten. Parse failures are reported
// through onError and do not stop the watch. Blocks until ctx is done.
func WatchRoster(ctx context.Context, path string, onChange func([]models.AgentProfile), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			profiles, err := LoadRoster(path)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			onChange(profiles)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
