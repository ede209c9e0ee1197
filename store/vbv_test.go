package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testVbvStore(t *testing.T) (*VbvStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vbvbin.txt")
	s, err := LoadVbvStore(path, zap.NewNop().Sugar())
	require.NoError(t, err, "failed to load vbv store")
	return s, path
}

func TestVbvStore_CreatesSeedWhenAbsent(t *testing.T) {
	s, path := testVbvStore(t)

	assert.Equal(t, 2, s.Len(), "default seed entries")

	token, ok := s.Get("447697")
	require.True(t, ok)
	assert.True(t, token.Enrolled(), "447697 is seeded as 3D TRUE")

	token, ok = s.Get("424242")
	require.True(t, ok)
	assert.False(t, token.Enrolled(), "424242 is seeded as 3D FALSE")

	_, err := os.Stat(path)
	assert.NoError(t, err, "seed file must be written")
}

func TestVbvStore_AddReplacesSameBin(t *testing.T) {
	s, _ := testVbvStore(t)
	before := s.Len()

	err := s.Add(VbvToken{BIN: "411111", Status: "3D TRUE", Response: "Enrolled"})
	require.NoError(t, err)
	assert.Equal(t, before+1, s.Len())

	token, ok := s.Get("411111")
	require.True(t, ok)
	assert.Equal(t, "Enrolled", token.Response)

	// A second add for the same BIN replaces, never duplicates
	err = s.Add(VbvToken{BIN: "411111", Status: "3D FALSE", Response: "Not Enrolled"})
	require.NoError(t, err)
	assert.Equal(t, before+1, s.Len(), "table size unchanged on replace")

	token, ok = s.Get("411111")
	require.True(t, ok)
	assert.Equal(t, "Not Enrolled", token.Response)
	assert.False(t, token.Enrolled())
}

func TestVbvStore_Remove(t *testing.T) {
	s, _ := testVbvStore(t)

	removed, err := s.Remove("447697")
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok := s.Get("447697")
	assert.False(t, ok)

	removed, err = s.Remove("000000")
	require.NoError(t, err)
	assert.False(t, removed, "removing an unknown BIN reports not found")
}

func TestVbvStore_PersistsAcrossReload(t *testing.T) {
	s, path := testVbvStore(t)

	require.NoError(t, s.Add(VbvToken{BIN: "411111", Status: "3D TRUE", Response: "Enrolled"}))
	_, err := s.Remove("424242")
	require.NoError(t, err)

	reloaded, err := LoadVbvStore(path, zap.NewNop().Sugar())
	require.NoError(t, err)

	token, ok := reloaded.Get("411111")
	require.True(t, ok)
	assert.Equal(t, "Enrolled", token.Response)

	_, ok = reloaded.Get("424242")
	assert.False(t, ok, "removal must survive reload")
}

func TestVbvStore_SkipsCommentsAndMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vbvbin.txt")
	content := "# comment line\n\n447697|3D TRUE|Required\nbroken-line\n447697|3D FALSE|Replaced\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadVbvStore(path, zap.NewNop().Sugar())
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len())
	token, ok := s.Get("447697")
	require.True(t, ok)
	assert.Equal(t, "Replaced", token.Response, "last write wins per BIN")
}

func TestVbvToken_Enrolled(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{status: "3D TRUE ❌", want: true},
		{status: "3d true", want: true},
		{status: "3D FALSE ✅", want: false},
		{status: "Unknown", want: false},
	}

	for _, tt := range tests {
		token := VbvToken{Status: tt.status}
		assert.Equal(t, tt.want, token.Enrolled(), "status %q", tt.status)
	}
}
