package queue

import (
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
)

func TestOutbox(t *testing.T) {
	db := store.MemStore()
	alice := treasurytest.NewAddress()

	events := []treasury.Event{
		treasury.NewEvent("vault/create", 2, alice, treasurytest.SequenceID(2)),
		treasury.NewEvent("vault/create", 1, alice, treasurytest.SequenceID(1)),
		treasury.NewEvent("proposal/create", 1, alice, treasurytest.SequenceID(0)).With("amount", "10"),
	}
	assert.Nil(t, Put(db, events...))

	all, err := Pending(db, 0)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(all))
	// ordered by vault, then by put order
	assert.Equal(t, events[1], all[0].Event)
	assert.Equal(t, events[2], all[1].Event)
	assert.Equal(t, events[0], all[2].Event)

	limited, err := Pending(db, 2)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(limited))

	forOne, err := PendingFor(db, 1)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(forOne))

	assert.Nil(t, Ack(db, forOne...))
	left, err := Pending(db, 0)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(left))
	assert.Equal(t, events[0], left[0].Event)

	// the sequence keeps counting after ack
	assert.Nil(t, Put(db, events[1]))
	forOne, err = PendingFor(db, 1)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(forOne))
	assert.Equal(t, entryKey(1, 3), forOne[0].Key)
}

func TestOutboxRollback(t *testing.T) {
	db := store.MemStore()
	alice := treasurytest.NewAddress()

	cache := db.CacheWrap()
	assert.Nil(t, Put(cache, treasury.NewEvent("vault/create", 1, alice, nil)))
	cache.Discard()

	all, err := Pending(db, 0)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(all))
}

func TestAckRejectsForeignKeys(t *testing.T) {
	db := store.MemStore()
	err := Ack(db, Entry{Key: []byte("vaults:1")})
	assert.IsErr(t, errors.ErrInput, err)
}
