package pathmap

import (
	stdjson "encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toastate/buildgen/internal/collector"
)

func TestBuildOrdersMounts(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"data", "shaders", "cache10", "cache2"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, d), 0755))
	}

	m, err := Build(map[string]string{
		"/shaders": filepath.Join(root, "shaders"),
		"/data":    filepath.Join(root, "data"),
		"/cache10": filepath.Join(root, "cache10"),
		"/cache2":  filepath.Join(root, "cache2"),
	})
	require.NoError(t, err)

	var mounts []string
	for _, e := range m.Mappings {
		mounts = append(mounts, e.Mount)
		assert.True(t, filepath.IsAbs(filepath.FromSlash(e.Path)))
	}
	assert.Equal(t, []string{"/cache2", "/cache10", "/data", "/shaders"}, mounts)

	p, ok := m.Lookup("/data")
	assert.True(t, ok)
	assert.Equal(t, filepath.ToSlash(filepath.Join(root, "data")), p)
}

func TestBuildMissingDirectory(t *testing.T) {
	_, err := Build(map[string]string{"/data": filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, collector.ErrDirectoryNotFound))
}

func TestEncodeMinified(t *testing.T) {
	m := Mapping{Mappings: []Entry{{Mount: "/data", Path: "C:/engine/data"}}}

	pretty, err := Encode(m, false)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  ")

	small, err := Encode(m, true)
	require.NoError(t, err)
	assert.False(t, strings.ContainsAny(string(small), " \n"))

	var back Mapping
	require.NoError(t, stdjson.Unmarshal(small, &back))
	assert.Equal(t, m, back)
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out", "pathmap.json")

	require.NoError(t, Generate(map[string]string{"/data": root}, out, false))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"mount": "/data"`)
}
