package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSidebarPersists(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	assert.True(t, s.SidebarOpen(true))
	require.NoError(t, s.SetSidebarOpen(false))
	assert.False(t, s.SidebarOpen(true))

	reopened, err := Open(dir)
	require.NoError(t, err)
	assert.False(t, reopened.SidebarOpen(true))

	open, err := reopened.ToggleSidebar(true)
	require.NoError(t, err)
	assert.True(t, open)

	data, err := os.ReadFile(filepath.Join(dir, SidebarKey))
	require.NoError(t, err)
	assert.Equal(t, "true", string(data))
}

func TestTimezonePersists(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	assert.Equal(t, "UTC", s.Timezone("UTC"))
	require.NoError(t, s.SetTimezone("Asia/Kolkata"))
	assert.Equal(t, "Asia/Kolkata", s.Timezone("UTC"))
	assert.Error(t, s.SetTimezone("Nope/Nowhere"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, TimezoneKey), []byte("garbage"), 0600))
	fresh, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, "UTC", fresh.Timezone("UTC"))
}

func TestCorruptSidebarFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SidebarKey), []byte("maybe"), 0600))
	s, err := Open(dir)
	require.NoError(t, err)
	assert.True(t, s.SidebarOpen(true))
}
