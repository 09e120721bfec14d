package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/treasury/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeCommitStore(t testing.TB) (*CommitStore, string, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	require.NoError(t, err)
	commit, err := NewCommitStore(tmpDir, "base")
	require.NoError(t, err)
	cleanup := func() {
		commit.Close()
		os.RemoveAll(tmpDir)
	}
	return commit, tmpDir, cleanup
}

func TestCommitStoreSuite(t *testing.T) {
	suite := store.NewTestSuite(func() (store.CacheableKVStore, func()) {
		commit, _, cleanup := makeCommitStore(t)
		return commit, cleanup
	})
	t.Run("GetSet", suite.GetSet)
	t.Run("CacheConflicts", suite.CacheConflicts)
	t.Run("FuzzIterator", suite.FuzzIterator)
	t.Run("IteratorWithConflicts", suite.IteratorWithConflicts)
	t.Run("NestedCacheWrap", suite.NestedCacheWrap)
	t.Run("AtomicWrite", suite.AtomicWrite)
}

func TestCommitOverwrite(t *testing.T) {
	commit, _, cleanup := makeCommitStore(t)
	defer cleanup()

	id, err := commit.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), id.Version)

	k1, k2, k3 := []byte("k1"), []byte("k2"), []byte("k3")

	parent := commit.CacheWrap()
	require.NoError(t, parent.Set(k1, []byte("v1")))
	require.NoError(t, parent.Set(k2, []byte("v2")))
	require.NoError(t, parent.Write())
	id, err = commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)
	firstHash := id.Hash

	child := commit.CacheWrap()
	require.NoError(t, child.Set(k1, []byte("v11")))
	require.NoError(t, child.Set(k3, []byte("v3")))
	require.NoError(t, child.Delete(k2))

	// a side cache wrap sees the unmodified state until the child is written
	side := commit.CacheWrap()
	val, err := side.Get(k2)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), val)

	require.NoError(t, child.Write())
	val, err = side.Get(k2)
	require.NoError(t, err)
	assert.Nil(t, val)
	val, err = side.Get(k1)
	require.NoError(t, err)
	assert.Equal(t, []byte("v11"), val)

	id, err = commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), id.Version)
	assert.NotEqual(t, firstHash, id.Hash)
}

func TestCommitStoreReload(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "iavl-reload-")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	commit, err := NewCommitStore(tmpDir, "reload")
	require.NoError(t, err)
	require.NoError(t, commit.Set([]byte("vault"), []byte("one")))
	saved, err := commit.Commit()
	require.NoError(t, err)
	// not committed, must be lost
	require.NoError(t, commit.Set([]byte("member"), []byte("two")))
	commit.Close()

	reopened, err := NewCommitStore(tmpDir, "reload")
	require.NoError(t, err)
	defer reopened.Close()

	id, err := reopened.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, saved.Version, id.Version)
	assert.Equal(t, saved.Hash, id.Hash)

	val, err := reopened.Get([]byte("vault"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), val)
	has, err := reopened.Has([]byte("member"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMemCommitStore(t *testing.T) {
	commit, err := NewMemCommitStore()
	require.NoError(t, err)

	cache := commit.CacheWrap()
	require.NoError(t, cache.Set([]byte("a"), []byte("1")))
	require.NoError(t, cache.Write())
	id, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
}
