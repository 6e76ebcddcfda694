// Copyright 2026 The mplsliveness Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package agent

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/tunnelwatch/mplsliveness/pkg/log"
	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
)

// WatchFile reports changes of file on the returned channel until ctx is
// done. The parent directory is watched so that files replaced by rename
// are followed. Bursts of changes are coalesced.
func WatchFile(ctx context.Context, file string) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, serrors.Wrap("creating file watcher", err)
	}
	file = filepath.Clean(file)
	if err := w.Add(filepath.Dir(file)); err != nil {
		w.Close()
		return nil, serrors.Wrap("watching directory", err, "dir", filepath.Dir(file))
	}
	_, logger := log.WithLabels(ctx, "file", file)
	changes := make(chan struct{}, 1)
	go func() {
		defer log.HandlePanic()
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != file {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("Watching tunnel config", "err", err)
			}
		}
	}()
	return changes, nil
}
