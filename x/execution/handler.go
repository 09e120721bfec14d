package execution

import (
	"strconv"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/x/membership"
	"github.com/iov-one/treasury/x/proposal"
	"github.com/iov-one/treasury/x/quorum"
	"github.com/iov-one/treasury/x/vault"
)

// Event attribute keys.
const (
	AttrDestination = "destination"
	AttrAmount      = "amount"
	AttrBalance     = "balance"
)

// RegisterRoutes registers the execution handler.
func RegisterRoutes(r treasury.Registry, ledger *membership.Ledger, s *proposal.Store, t Transferer) {
	r.Handle(pathExecuteMsg, ExecuteHandler{
		ledger:     ledger,
		vaults:     vault.NewBucket(),
		store:      s,
		transferer: t,
	})
}

// ExecuteHandler performs the transfer of an approved proposal.
type ExecuteHandler struct {
	ledger     *membership.Ledger
	vaults     *vault.Bucket
	store      *proposal.Store
	transferer Transferer
}

var _ treasury.Handler = ExecuteHandler{}

// Deliver runs the checks in order: proposal range, executed flag, quorum
// and balance. The proposal is marked executed before the transferer is
// called.
func (h ExecuteHandler) Deliver(ctx treasury.Context, db treasury.KVStore, m treasury.Msg) (*treasury.Result, error) {
	caller, err := treasury.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	var msg *ExecuteMsg
	if err := treasury.LoadMsg(m, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	v, err := h.vaults.GetVault(db, msg.VaultID)
	if err != nil {
		return nil, err
	}
	if _, err := h.ledger.RequireMember(db, v.ID, caller); err != nil {
		return nil, err
	}
	if err := v.RequireActive(); err != nil {
		return nil, err
	}

	p, err := h.store.Proposals.GetProposal(db, v.ID, msg.Index)
	if err != nil {
		return nil, err
	}
	if p.Executed {
		return nil, errors.Field("Index", proposal.ErrAlreadyExecuted, "%d", p.Index)
	}
	switch ok, err := quorum.MeetsQuorum(db, h.store, v, p.Index); {
	case err != nil:
		return nil, errors.Wrap(err, "quorum")
	case !ok:
		return nil, errors.Field("Index", ErrQuorumNotMet, "%d", p.Index)
	}
	if v.Balance < p.Amount {
		return nil, errors.Field("Amount", ErrInsufficientFunds, "%d available, %d requested", v.Balance, p.Amount)
	}

	cacheable, ok := db.(treasury.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "execution requires a cacheable store")
	}
	cache := cacheable.CacheWrap()
	defer cache.Discard()

	p.Executed = true
	if err := h.store.Proposals.Save(cache, p); err != nil {
		return nil, err
	}
	if err := h.transferer.Transfer(ctx, cache, v.ID, p.Destination, p.Amount); err != nil {
		return nil, errors.Field("Index", errors.Append(ErrTransferFailed, err), "%d", p.Index)
	}
	v.Balance -= p.Amount
	if err := h.vaults.Save(cache, v); err != nil {
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write execution")
	}

	event := treasury.NewEvent(msg.Path(), v.ID, caller, orm.EncodeSequence(p.Index)).
		With(AttrDestination, p.Destination.String()).
		With(AttrAmount, strconv.FormatUint(p.Amount, 10)).
		With(AttrBalance, strconv.FormatUint(v.Balance, 10))
	return &treasury.Result{Events: []treasury.Event{event}}, nil
}
