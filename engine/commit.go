package engine

import (
	"github.com/iov-one/treasury"
)

// Commit persists a new store version after each successful mutation when
// the store is versioned. Stores that are not are left alone.
type Commit struct{}

var _ treasury.Decorator = Commit{}

func (Commit) Deliver(ctx treasury.Context, db treasury.KVStore, msg treasury.Msg, next treasury.Handler) (*treasury.Result, error) {
	res, err := next.Deliver(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	c, ok := db.(treasury.Committer)
	if !ok {
		return res, nil
	}
	// The mutation is already written to the working state and cannot be
	// reverted, a failed commit is retried with the next mutation.
	id, err := c.Commit()
	if err != nil {
		treasury.GetLogger(ctx).Error("commit failed", "err", err)
		return res, nil
	}
	treasury.GetLogger(ctx).Debug("commit", "version", id.Version)
	return res, nil
}
