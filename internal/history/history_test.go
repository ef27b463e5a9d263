package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	l := New(path)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	l.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	for i, dir := range []string{"/a", "/b", "/c"} {
		e, err := l.Append(Entry{Mode: ModeInteractive, Dir: dir, Servers: []string{"gmail"}, Resume: i == 1})
		require.NoError(t, err)
		_, err = uuid.Parse(e.ID)
		assert.NoError(t, err)
	}

	got, err := l.Recent(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "/b", got[0].Dir)
	assert.True(t, got[0].Resume)
	assert.Equal(t, "/c", got[1].Dir)
	assert.Equal(t, base.Add(3*time.Minute), got[1].Time)

	all, err := l.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecent_MissingAndCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	l := New(path)

	got, err := l.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, os.WriteFile(path, []byte("garbage\n{\"id\":\"x\",\"mode\":\"prompt\",\"dir\":\"/d\",\"servers\":[]}\n"), 0644))
	got, err = l.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ModePrompt, got[0].Mode)
}
