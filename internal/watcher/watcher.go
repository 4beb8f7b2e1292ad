package watcher

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/toastate/buildgen/internal/tlogger"
)

const changeOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// StartWatcher watches every directory below folders and emits the path of each
// created, written, removed or renamed entry. The channel closes with ctx.
func StartWatcher(ctx context.Context, folders ...string) (<-chan string, error) {
	wch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating watcher")
	}

	for _, folder := range folders {
		if err := addTree(wch, folder); err != nil {
			wch.Close()
			return nil, err
		}
	}

	outCh := make(chan string, 100)

	go func() {
		defer close(outCh)
		defer wch.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-wch.Events:
				if !ok {
					return
				}
				if event.Op&changeOps == 0 {
					continue
				}
				if event.Op&fsnotify.Create == fsnotify.Create {
					if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
						if err := addTree(wch, event.Name); err != nil {
							tlogger.Warn("msg", "Could not watch new folder", "path", event.Name, "err", err)
						}
					}
				}
				tlogger.Debug("msg", "Detected change", "path", event.Name, "op", event.Op.String())
				select {
				case outCh <- event.Name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-wch.Errors:
				if !ok {
					return
				}
				tlogger.Warn("msg", "Watcher error", "err", err)
			}
		}
	}()

	return outCh, nil
}

func addTree(wch *fsnotify.Watcher, folder string) error {
	return filepath.Walk(folder, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return errors.Wrapf(err, "walking %s", path)
		}
		if fi.IsDir() {
			return wch.Add(path)
		}
		return nil
	})
}
