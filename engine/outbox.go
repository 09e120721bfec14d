package engine

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/queue"
)

// Outbox stores the events of a successful mutation in the outbox. It must
// run within the savepoint, so that the events are written together with
// the state change.
type Outbox struct{}

var _ treasury.Decorator = Outbox{}

func (Outbox) Deliver(ctx treasury.Context, db treasury.KVStore, msg treasury.Msg, next treasury.Handler) (*treasury.Result, error) {
	res, err := next.Deliver(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := queue.Put(db, res.Events...); err != nil {
		return nil, errors.Wrap(err, "outbox")
	}
	return res, nil
}

// Dispatcher hands the queued events of the vaults changed by a mutation
// to the notifier, once the mutation was written. A notifier failure does
// not fail the mutation, the events stay queued.
//
// While the notifier runs, the vault is marked as dispatching on the guard,
// so the notifier may read the engine state.
type Dispatcher struct {
	notifier Notifier
	guard    *VaultGuard
}

var _ treasury.Decorator = Dispatcher{}

// NewDispatcher returns a dispatcher that delivers to n. g may be nil.
func NewDispatcher(n Notifier, g *VaultGuard) Dispatcher {
	return Dispatcher{notifier: n, guard: g}
}

func (d Dispatcher) Deliver(ctx treasury.Context, db treasury.KVStore, msg treasury.Msg, next treasury.Handler) (*treasury.Result, error) {
	res, err := next.Deliver(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint64]struct{})
	for _, e := range res.Events {
		if _, ok := seen[e.VaultID]; ok {
			continue
		}
		seen[e.VaultID] = struct{}{}
		if _, err := d.flush(ctx, db, e.VaultID); err != nil {
			treasury.GetLogger(ctx).Error("cannot dispatch events", "vault", e.VaultID, "err", err)
		}
	}
	return res, nil
}

// flush delivers the queued events of a vault in order, stopping at the
// first one the notifier refuses. Delivered events are removed from the
// outbox.
func (d Dispatcher) flush(ctx treasury.Context, db treasury.KVStore, vaultID uint64) (int, error) {
	entries, err := queue.PendingFor(db, vaultID)
	if err != nil {
		return 0, err
	}
	var (
		delivered []queue.Entry
		notifyErr error
	)
	notify := func() error {
		for _, e := range entries {
			if err := d.notifier.Notify(ctx, e.Event); err != nil {
				return err
			}
			delivered = append(delivered, e)
		}
		return nil
	}
	if d.guard != nil {
		notifyErr = d.guard.Dispatch(vaultID, notify)
	} else {
		notifyErr = notify()
	}
	if err := queue.Ack(db, delivered...); err != nil {
		return 0, err
	}
	if notifyErr != nil {
		return len(delivered), errors.Wrapf(notifyErr, "notify vault %d", vaultID)
	}
	return len(delivered), nil
}
