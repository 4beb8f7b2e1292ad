// Package pathmap produces the JSON mapping the engine uses to resolve its
// virtual mount points ("/data") to directories on this machine.
package pathmap

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/json"
	"github.com/toastate/buildgen/internal/collector"
	"github.com/toastate/buildgen/internal/filelock"
	"github.com/toastate/buildgen/internal/helpers"
	"github.com/toastate/buildgen/internal/natsort"
	"github.com/toastate/buildgen/internal/tlogger"
)

const mediaType = "application/json"

var minifier = minify.New()

func init() {
	minifier.AddFunc(mediaType, json.Minify)
}

type Entry struct {
	Mount string `json:"mount"`
	Path  string `json:"path"`
}

type Mapping struct {
	Mappings []Entry `json:"mappings"`
}

// Lookup returns the directory behind a mount
func (m Mapping) Lookup(mount string) (string, bool) {
	for _, e := range m.Mappings {
		if e.Mount == mount {
			return e.Path, true
		}
	}
	return "", false
}

// Build resolves every directory to an absolute forward-slash path. Mounts are
// ordered naturally by name.
func Build(mounts map[string]string) (Mapping, error) {
	names := make([]string, 0, len(mounts))
	for k := range mounts {
		names = append(names, k)
	}

	m := Mapping{Mappings: []Entry{}}
	for _, name := range natsort.Sort(names, false) {
		abs, err := filepath.Abs(mounts[name])
		if err != nil {
			return Mapping{}, errors.Wrapf(err, "resolving mount %s", name)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return Mapping{}, errors.Wrapf(collector.ErrDirectoryNotFound, "mount %s: %s", name, abs)
		}
		m.Mappings = append(m.Mappings, Entry{Mount: name, Path: filepath.ToSlash(abs)})
	}
	return m, nil
}

func Encode(m Mapping, minified bool) ([]byte, error) {
	b, err := helpers.MarshalJsonIndent(m)
	if err != nil {
		return nil, err
	}
	if !minified {
		return b, nil
	}
	return minifier.Bytes(mediaType, b)
}

func Generate(mounts map[string]string, output string, minified bool) error {
	m, err := Build(mounts)
	if err != nil {
		tlogger.Error("msg", "Failed to build path mapping", "err", err)
		return err
	}

	b, err := Encode(m, minified)
	if err != nil {
		tlogger.Error("msg", "Failed to encode path mapping", "err", err)
		return err
	}

	if err := filelock.LockAndWrite(output, b); err != nil {
		tlogger.Error("msg", "Failed to write path mapping", "path", output, "err", err)
		return err
	}

	tlogger.Info("msg", "Path mapping written", "path", output, "mounts", len(m.Mappings))
	return nil
}
