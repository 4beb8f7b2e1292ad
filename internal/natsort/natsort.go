// Package natsort orders names the way a human expects, comparing embedded
// digit runs by numeric value: v2 < v10, 10.0.15063.0 < 10.0.16299.0.
package natsort

import (
	"os"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoVersions is returned by Newest when a directory has no subdirectories
var ErrNoVersions = errors.New("no version directories")

// Run is one segment of a Key. Numeric runs keep their digits with leading
// zeros stripped so arbitrarily long numbers compare exactly.
type Run struct {
	Numeric bool
	Value   string
}

// Key alternates text and numeric runs, always starting with a (possibly
// empty) text run.
type Key []Run

// NewKey splits name into its natural sort key
func NewKey(name string) Key {
	key := Key{}
	start := 0
	numeric := false
	for i := 0; i <= len(name); i++ {
		if i < len(name) && isDigit(name[i]) == numeric {
			continue
		}
		key = append(key, newRun(name[start:i], numeric))
		start = i
		numeric = !numeric
	}
	return key
}

func newRun(s string, numeric bool) Run {
	if !numeric {
		return Run{Value: strings.ToLower(s)}
	}
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return Run{Numeric: true, Value: trimmed}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Compare orders two keys run by run; a key that is a prefix of the other sorts first.
func (k Key) Compare(o Key) int {
	for i := 0; i < len(k) && i < len(o); i++ {
		if c := k[i].compare(o[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k) < len(o):
		return -1
	case len(k) > len(o):
		return 1
	}
	return 0
}

func (r Run) compare(o Run) int {
	if r.Numeric && o.Numeric {
		if len(r.Value) != len(o.Value) {
			if len(r.Value) < len(o.Value) {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(r.Value, o.Value)
}

// Compare compares two names by their natural sort keys
func Compare(a, b string) int {
	return NewKey(a).Compare(NewKey(b))
}

// Sort returns a stably sorted copy of names. Names with equal keys keep their
// input order in either direction.
func Sort(names []string, descending bool) []string {
	type keyed struct {
		name string
		key  Key
	}
	items := make([]keyed, len(names))
	for i, n := range names {
		items[i] = keyed{name: n, key: NewKey(n)}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		if descending {
			return b.key.Compare(a.key)
		}
		return a.key.Compare(b.key)
	})

	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

// Newest returns the name of the subdirectory of dir that sorts last, e.g. the
// latest SDK version folder. Among equal keys the last listed one wins.
func Newest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "listing versions in %s", dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", errors.Wrapf(ErrNoVersions, "%s", dir)
	}
	sorted := Sort(names, false)
	return sorted[len(sorted)-1], nil
}
