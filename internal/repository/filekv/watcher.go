package filekv

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 50 * time.Millisecond

// Watch reports keys whose files were changed by another process. Saves made
// through s are recognised by content hash and not reported. Watch blocks
// until ctx is cancelled and returns once the fsnotify goroutine has exited.
func (s *Storage) Watch(ctx context.Context, logger *slog.Logger, onChange func(key string)) error {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
		wg      sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			if t.Stop() {
				wg.Done()
			}
		}
		mu.Unlock()
		wg.Wait()
	}()

	// Renames and writes arrive in bursts; report each key once per burst.
	schedule := func(key string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := pending[key]; ok && t.Stop() {
			wg.Done()
		}
		wg.Add(1)
		pending[key] = time.AfterFunc(debounceDelay, func() {
			defer wg.Done()
			mu.Lock()
			delete(pending, key)
			mu.Unlock()
			if ctx.Err() != nil {
				return
			}
			s.report(key, logger, onChange)
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			key, ok := keyFromName(filepath.Base(event.Name))
			if !ok {
				continue
			}
			schedule(key)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("storage watcher error", "error", err)
		}
	}
}

func (s *Storage) report(key string, logger *slog.Logger, onChange func(string)) {
	p, err := s.path(key)
	if err != nil {
		return
	}
	data, err := os.ReadFile(p)
	if err != nil {
		// Renamed away or removed mid-burst.
		logger.Debug("changed storage file unreadable", "key", key, "error", err)
		return
	}
	if s.ownWrite(key, data) {
		return
	}
	logger.Info("storage changed externally", "key", key)
	onChange(key)
}
