package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/GajjarKashyap/Audio/logger"
)

// Watch monitors the .env file and invokes onChange with a freshly loaded
// Config whenever it is rewritten. This lets provider toggles be flipped
// without a restart. The watcher runs until ctx is cancelled; a missing
// file is not an error, the directory is watched so a later create is
// still picked up.
func Watch(ctx context.Context, envPath string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(envPath)
	if dir == "" {
		dir = "."
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	target := filepath.Clean(envPath)

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				logger.Info("config file changed, reloading",
					logger.String("path", event.Name))
				// Force a re-read: godotenv does not override vars that
				// are already set, so clear the toggles it manages.
				for _, key := range []string{"ENABLE_YOUTUBE", "ENABLE_SOUNDCLOUD", "ENABLE_JIOSAAVN"} {
					os.Unsetenv(key)
				}
				onChange(Load())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", logger.ErrorField(err))
			}
		}
	}()

	return nil
}
