package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/employee-service/internal/domain"
)

func TestFileStore_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	_, found, err := store.Load()
	require.NoError(t, err)
	require.False(t, found)

	creds := Credentials{
		Token:    "tok-1",
		Identity: domain.Identity{UserID: "emp-1", Name: "Ada", Role: domain.RoleSuperUser},
	}
	require.NoError(t, store.Save(creds))

	got, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, creds, got)

	require.NoError(t, store.Clear())
	_, found, err = store.Load()
	require.NoError(t, err)
	require.False(t, found)

	// clearing twice is fine
	require.NoError(t, store.Clear())
}

func TestFileStore_CorruptFileTreatedAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileStore(path)
	_, found, err := store.Load()
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryStore_Roundtrip(t *testing.T) {
	store := NewMemoryStore()

	_, found, err := store.Load()
	require.NoError(t, err)
	require.False(t, found)

	creds := Credentials{Token: "tok-1"}
	require.NoError(t, store.Save(creds))

	got, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, creds, got)

	require.NoError(t, store.Clear())
	_, found, err = store.Load()
	require.NoError(t, err)
	require.False(t, found)
}
