package store

import (
	"bytes"

	"github.com/iov-one/treasury/errors"
)

// mergeIterator combines a snapshot of cached items with the iterator of
// the backing store. Cached values win over the parent ones, tombstones hide
// them.
type mergeIterator struct {
	items   []keyer
	idx     int
	parent  Iterator
	reverse bool

	// head of the parent iterator, read ahead
	pKey, pValue []byte
	pDone        bool
	pErr         error
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []keyer, parent Iterator, reverse bool) *mergeIterator {
	it := &mergeIterator{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	it.advanceParent()
	return it
}

func (i *mergeIterator) advanceParent() {
	key, value, err := i.parent.Next()
	switch {
	case err == nil:
		i.pKey, i.pValue = key, value
	case errors.ErrIteratorDone.Is(err):
		i.pKey, i.pValue, i.pDone = nil, nil, true
	default:
		i.pErr = err
	}
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// firstKey selects the iterator with the next key, if any
func (i *mergeIterator) firstKey() source {
	ours := i.idx < len(i.items)
	if i.pDone {
		if !ours {
			return none
		}
		return us
	}
	if !ours {
		return parent
	}

	cmp := bytes.Compare(i.pKey, i.items[i.idx].Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

// Next implements Iterator.
func (i *mergeIterator) Next() (key, value []byte, err error) {
	for {
		if i.pErr != nil {
			return nil, nil, i.pErr
		}

		switch i.firstKey() {
		case none:
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache wrap done")
		case parent:
			key, value = i.pKey, i.pValue
			i.advanceParent()
			return key, value, nil
		case both:
			// cached entry overrides the parent one
			i.advanceParent()
		}

		item := i.items[i.idx]
		i.idx++
		if set, ok := item.(setItem); ok {
			return set.key, set.value, nil
		}
		// deleted, move on
	}
}

// Release implements Iterator.
func (i *mergeIterator) Release() {
	i.parent.Release()
	i.items = nil
}
