package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Helper()
	Config = DefaultConfiguration()
	t.Cleanup(func() { Config = DefaultConfiguration() })
}

func TestInitJSON(t *testing.T) {
	reset(t)
	path := filepath.Join(t.TempDir(), "buildgen.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"bff": {"toolchain_root": "C:/VS/2019", "cache_dir": "D:/cache"},
		"builds": {"mode": "glob", "libraries": [{"name": "core", "deps": "[]"}]}
	}`), 0644))

	require.NoError(t, Init(path))

	assert.Equal(t, "C:/VS/2019", Config.BFF.ToolchainRoot)
	assert.Equal(t, "D:/cache", Config.BFF.CacheDir)
	assert.Equal(t, "latest", Config.BFF.VulkanSDKVersion, "defaults survive overlay")
	assert.Equal(t, "glob", Config.Builds.Mode)
	require.Len(t, Config.Builds.Libraries, 1)
	assert.Equal(t, "core", Config.Builds.Libraries[0].Name)
}

func TestInitYAML(t *testing.T) {
	reset(t)
	path := filepath.Join(t.TempDir(), "buildgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pathmap:
  data_directory: assets
  minify: true
  extra_mounts:
    /shaders: shaders
serve:
  port: 9000
`), 0644))

	require.NoError(t, Init(path))

	assert.Equal(t, "assets", Config.PathMap.DataDir)
	assert.True(t, Config.PathMap.Minify)
	assert.Equal(t, 9000, Config.Serve.Port)
	assert.Equal(t, map[string]string{"/data": "assets", "/shaders": "shaders"}, Config.PathMap.Mounts())
}

func TestInitMissingDefaultIsFine(t *testing.T) {
	reset(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	assert.NoError(t, Init(""))
	assert.Equal(t, 8100, Config.Serve.Port)
}

func TestInitMissingExplicitFails(t *testing.T) {
	reset(t)
	assert.Error(t, Init(filepath.Join(t.TempDir(), "nope.json")))
}

func TestInitBadJSON(t *testing.T) {
	reset(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	assert.Error(t, Init(path))
}
