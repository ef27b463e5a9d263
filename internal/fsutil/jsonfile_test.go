package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON_Missing(t *testing.T) {
	var v map[string]any
	found, err := ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &v)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestReadJSON_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	var v map[string]any
	found, err := ReadJSON(path, &v)
	assert.True(t, found)
	assert.ErrorContains(t, err, "bad.json")
}

func TestWriteJSON_PreservesMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))

	require.NoError(t, WriteJSON(path, map[string]int{"a": 1}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", string(data))
}

func TestWriteJSON_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "doc.json")
	require.NoError(t, WriteJSON(path, []string{"x"}))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")
	assert.Equal(t, "doc.json", entries[0].Name())
}

func TestUpdateJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")

	for i := 0; i < 3; i++ {
		err := UpdateJSON(path, func(v *map[string]int) error {
			if *v == nil {
				*v = map[string]int{}
			}
			(*v)["n"]++
			return nil
		})
		require.NoError(t, err)
	}

	var got map[string]int
	_, err := ReadJSON(path, &got)
	require.NoError(t, err)
	assert.Equal(t, 3, got["n"])
}
