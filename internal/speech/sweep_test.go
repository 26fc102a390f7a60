package speech

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepOrphans(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	old := filepath.Join(dir, "tts_output_1.wav")
	fresh := filepath.Join(dir, "tts_output_2.wav")
	other := filepath.Join(dir, "notes.wav")

	for _, p := range []string{old, fresh, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}
	require.NoError(t, os.Chtimes(old, now.Add(-2*time.Hour), now.Add(-2*time.Hour)))
	require.NoError(t, os.Chtimes(other, now.Add(-2*time.Hour), now.Add(-2*time.Hour)))

	// dry-run ничего не удаляет
	removed, err := SweepOrphans(dir, time.Hour, now, true)
	require.NoError(t, err)
	assert.Equal(t, []string{old}, removed)
	assert.FileExists(t, old)

	removed, err = SweepOrphans(dir, time.Hour, now, false)
	require.NoError(t, err)
	assert.Equal(t, []string{old}, removed)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}

func TestSweepOrphans_MissingDir(t *testing.T) {
	_, err := SweepOrphans(filepath.Join(t.TempDir(), "nope"), time.Hour, time.Now(), false)
	assert.Error(t, err)
}
