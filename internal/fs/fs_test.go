package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "weapon")
	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	f, err := lfs.CreateTemp(dir, ".tmp-*")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(f.Name()))

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	target := filepath.Join(dir, "main.json")
	require.NoError(t, lfs.Rename(f.Name(), target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, lfs.Remove(target))
	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_WriteLimit(t *testing.T) {
	ffs := NewFaultyFS(nil)
	ffs.AddRule(".tmp-", Fault{FailAfterBytes: 4})

	f, err := ffs.CreateTemp(t.TempDir(), ".tmp-*")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = f.Write([]byte("de"))
	assert.ErrorIs(t, err, ErrInjected)
}

func TestFaultyFS_SyncCloseRename(t *testing.T) {
	custom := errors.New("disk full")
	dir := t.TempDir()

	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("sync", Fault{FailAfterBytes: -1, FailOnSync: true, Err: custom})
	ffs.AddRule("close", Fault{FailAfterBytes: -1, FailOnClose: true})
	ffs.AddRule("final", Fault{FailAfterBytes: -1, FailOnRename: true})

	f, err := ffs.CreateTemp(dir, "sync-*")
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), custom)
	require.NoError(t, f.Close())

	f, err = ffs.CreateTemp(dir, "close-*")
	require.NoError(t, err)
	assert.ErrorIs(t, f.Close(), ErrInjected)

	f, err = ffs.CreateTemp(dir, "ok-*")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.ErrorIs(t, ffs.Rename(f.Name(), filepath.Join(dir, "final.json")), ErrInjected)

	ffs.ClearRules()
	assert.NoError(t, ffs.Rename(f.Name(), filepath.Join(dir, "final.json")))
}
