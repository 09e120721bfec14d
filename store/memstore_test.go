package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memConstructor() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestMemStoreSuite(t *testing.T) {
	suite := NewTestSuite(memConstructor)
	t.Run("GetSet", suite.GetSet)
	t.Run("CacheConflicts", suite.CacheConflicts)
	t.Run("FuzzIterator", suite.FuzzIterator)
	t.Run("IteratorWithConflicts", suite.IteratorWithConflicts)
	t.Run("NestedCacheWrap", suite.NestedCacheWrap)
	t.Run("AtomicWrite", suite.AtomicWrite)
}

func TestNilKeyIsRejected(t *testing.T) {
	db := MemStore()
	cache := db.CacheWrap()
	for name, kv := range map[string]KVStore{"mem": db, "cache": cache} {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(nil)
			assert.Error(t, err)
			_, err = kv.Has(nil)
			assert.Error(t, err)
			assert.Error(t, kv.Set(nil, []byte("x")))
			assert.Error(t, kv.Delete(nil))
		})
	}
}

// TestMemStoreConcurrentCacheWraps writes many cache wraps into the same
// store in parallel. Each wrap owns its own keys, so all of them must be
// visible afterwards.
func TestMemStoreConcurrentCacheWraps(t *testing.T) {
	db := MemStore()

	const workers = 16
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				cache := db.CacheWrap()
				key := []byte(fmt.Sprintf("%02d/%02d", w, i))
				if err := cache.Set(key, []byte{byte(i)}); err != nil {
					t.Errorf("set: %s", err)
					return
				}
				// reading a range while others write must not fail
				it, err := cache.Iterator([]byte(fmt.Sprintf("%02d/", w)), nil)
				if err != nil {
					t.Errorf("iterator: %s", err)
					return
				}
				it.Release()
				if err := cache.Write(); err != nil {
					t.Errorf("write: %s", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	it, err := db.Iterator(nil, nil)
	require.NoError(t, err)
	all, err := ReadAll(it)
	require.NoError(t, err)
	assert.Len(t, all, workers*perWorker)
}

func TestReverseIteratorBounds(t *testing.T) {
	db := MemStore()
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, db.Set([]byte(k), []byte(k)))
	}
	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("bb"), []byte("bb")))
	require.NoError(t, cache.Delete([]byte("c")))

	it, err := cache.ReverseIterator([]byte("b"), []byte("d"))
	require.NoError(t, err)
	got, err := ReadAll(it)
	require.NoError(t, err)

	var keys []string
	for _, m := range got {
		keys = append(keys, string(m.Key))
	}
	assert.Equal(t, []string{"bb", "b"}, keys)
}
