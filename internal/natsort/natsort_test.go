package natsort

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	assert.Equal(t, Key{{Value: "v"}, {Numeric: true, Value: "10"}}, NewKey("v10"))
	assert.Equal(t, Key{{Value: ""}, {Numeric: true, Value: "10"}, {Value: ".sdk"}}, NewKey("010.SDK"))
	assert.Equal(t, Key{{Value: ""}}, NewKey(""))
	assert.Equal(t, Key{{Value: ""}, {Numeric: true, Value: "0"}}, NewKey("000"))
}

func TestSortAscending(t *testing.T) {
	assert.Equal(t, []string{"v1", "v2", "v10"}, Sort([]string{"v2", "v10", "v1"}, false))
}

func TestSortVersionsDescending(t *testing.T) {
	got := Sort([]string{"10.0.14393.0", "10.0.16299.0", "10.0.15063.0"}, true)
	assert.Equal(t, []string{"10.0.16299.0", "10.0.15063.0", "10.0.14393.0"}, got)
}

func TestSortIsStable(t *testing.T) {
	assert.Equal(t, []string{"a1", "A1", "a2"}, Sort([]string{"a1", "A1", "a2"}, false))
	assert.Equal(t, []string{"A1", "a1", "a2"}, Sort([]string{"A1", "a1", "a2"}, false))
	assert.Equal(t, []string{"a2", "a1", "A1"}, Sort([]string{"a1", "A1", "a2"}, true))
	assert.Equal(t, []string{"1", "01", "001"}, Sort([]string{"1", "01", "001"}, false))
}

func TestSortEdgeCases(t *testing.T) {
	assert.Empty(t, Sort(nil, false))
	assert.Equal(t, []string{"only"}, Sort([]string{"only"}, true))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := []string{"b", "a"}
	_ = Sort(in, false)
	assert.Equal(t, []string{"b", "a"}, in)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"v2", "v10", -1},
		{"v10", "v2", 1},
		{"File", "file", 0},
		{"v1", "v1a", -1},
		{"1.3.250", "1.3.239", 1},
		{"99999999999999999999999", "100000000000000000000000", -1},
		{"a", "1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}

func TestNewest(t *testing.T) {
	dir := t.TempDir()
	for _, v := range []string{"1.2.131.2", "1.3.239.0", "1.3.250.1"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, v), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "9.9.9.9"), nil, 0644))

	got, err := Newest(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.3.250.1", got)
}

func TestNewestEqualKeysPicksLastListed(t *testing.T) {
	dir := t.TempDir()
	for _, v := range []string{"1.01", "1.1"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, v), 0755))
	}

	got, err := Newest(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.1", got)
}

func TestNewestEmpty(t *testing.T) {
	_, err := Newest(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoVersions))
}
