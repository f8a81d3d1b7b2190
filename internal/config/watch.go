// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the config file at path and invokes onChange with the
// freshly-loaded configuration whenever it is rewritten. Reload failures
// are ignored so a half-saved file does not tear down a running session;
// the previous configuration simply stays in effect.
//
// The watch is on the parent directory, not the file: editors and the
// atomic writer replace the file by rename, which would invalidate a
// file-level watch.
//
// The returned stop function releases the watcher.
func Watch(path string, onChange func(*Config)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Base(path)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if cfg, err := LoadFrom(path); err == nil {
					onChange(cfg)
				}
			case <-watcher.Errors:
				// Watcher errors are non-fatal; keep the session alive.
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
