// Package collector enumerates the files of a directory tree breadth-first,
// filtered by a filename suffix.
package collector

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/toastate/buildgen/internal/tlogger"
)

var (
	// ErrDirectoryNotFound is returned when the root, or a directory queued during
	// traversal, does not resolve to a directory.
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrPermissionDenied is returned when a directory listing is rejected.
	ErrPermissionDenied = errors.New("permission denied")
)

type options struct {
	extensionMatch bool
}

// Option tweaks a single collection call
type Option func(*options)

// WithExtensionMatch compares the suffix against the file extension (everything
// after the last dot) instead of the raw end of the name, so "h" no longer
// matches "foo.xh".
func WithExtensionMatch() Option {
	return func(o *options) {
		o.extensionMatch = true
	}
}

func (o *options) match(name, suffix string) bool {
	if suffix == "" {
		return true
	}
	if o.extensionMatch {
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			return false
		}
		return name[i:] == suffix || name[i+1:] == suffix
	}
	return strings.HasSuffix(name, suffix)
}

// Collect returns every file below root whose name ends with suffix. An empty
// suffix matches all files. Paths are root joined with the path relative to it.
func Collect(root, suffix string, opts ...Option) ([]string, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, classify(root, err)
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(ErrDirectoryNotFound, "%s is not a directory", root)
	}

	files := []string{}
	queue := []string{trimSeparator(root)}

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, classify(dir, err)
		}

		for _, e := range entries {
			p := join(dir, e.Name())

			isDir := e.IsDir()
			if e.Type()&fs.ModeSymlink != 0 {
				target, err := os.Stat(p)
				if errors.Is(err, fs.ErrNotExist) {
					tlogger.Debug("msg", "Skipping dangling link", "path", p, "err", err)
					continue
				}
				if err != nil {
					return nil, classify(p, err)
				}
				if target.IsDir() {
					tlogger.Debug("msg", "Not following directory link", "path", p)
					continue
				}
				isDir = false
			}

			if isDir {
				queue = append(queue, p)
				continue
			}
			if o.match(e.Name(), suffix) {
				files = append(files, p)
			}
		}
	}

	return files, nil
}

// CollectRelative works like Collect but strips root and the separator that
// follows it from every path.
func CollectRelative(root, suffix string, opts ...Option) ([]string, error) {
	files, err := Collect(root, suffix, opts...)
	if err != nil {
		return nil, err
	}
	return Relativize(root, files), nil
}

// Relativize strips root plus a separator from each path. Paths that do not
// start with that prefix are kept as they are.
func Relativize(root string, paths []string) []string {
	prefix := join(trimSeparator(root), "")
	out := make([]string, len(paths))
	for i, p := range paths {
		if strings.HasPrefix(p, prefix) {
			out[i] = p[len(prefix):]
		} else {
			out[i] = p
		}
	}
	return out
}

// trimSeparator drops trailing separators so joins never double them, keeping
// a bare filesystem root intact.
func trimSeparator(root string) string {
	trimmed := strings.TrimRight(root, string(filepath.Separator))
	if trimmed == "" || strings.HasSuffix(trimmed, ":") {
		return root
	}
	return trimmed
}

func join(dir, name string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return errors.Wrapf(ErrDirectoryNotFound, "%s: %v", path, err)
	case errors.Is(err, fs.ErrPermission):
		return errors.Wrapf(ErrPermissionDenied, "%s: %v", path, err)
	}
	return errors.Wrapf(err, "listing %s", path)
}
