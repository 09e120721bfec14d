package proposal

import (
	"strconv"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/x/membership"
	"github.com/iov-one/treasury/x/vault"
)

// Event attribute keys.
const (
	AttrDestination = "destination"
	AttrAmount      = "amount"
	AttrIndex       = "index"
)

// RegisterRoutes registers handlers for proposal message processing.
func RegisterRoutes(r treasury.Registry, ledger *membership.Ledger, s *Store) {
	vaults := vault.NewBucket()
	r.Handle(pathCreateProposalMsg, CreateProposalHandler{ledger: ledger, vaults: vaults, store: s})
	r.Handle(pathEditProposalMsg, EditProposalHandler{ledger: ledger, vaults: vaults, store: s})
}

// RequireProposer checks the caller against the configured proposal policy.
// With the members policy the caller must hold an active roster slot, with
// the open policy anyone may propose.
func RequireProposer(db treasury.ReadOnlyKVStore, ledger *membership.Ledger, vaultID uint64, caller treasury.Address) error {
	conf, err := vault.LoadConfiguration(db)
	if err != nil {
		return err
	}
	if conf.ProposalPolicy == vault.PolicyOpen {
		return nil
	}
	_, err = ledger.RequireMember(db, vaultID, caller)
	return err
}

// checkTransfer validates the proposal content against the caller and the
// configured payload limit. A zero limit disables the check.
func checkTransfer(db treasury.ReadOnlyKVStore, caller, destination treasury.Address, payload []byte) error {
	if destination.Equals(caller) {
		return errors.Field("Destination", ErrSelfTransfer, "%s", destination)
	}
	conf, err := vault.LoadConfiguration(db)
	if err != nil {
		return err
	}
	if conf.MaxPayloadSize > 0 && len(payload) > int(conf.MaxPayloadSize) {
		return errors.Field("Payload", ErrPayloadTooLarge, "%d bytes allowed", conf.MaxPayloadSize)
	}
	return nil
}

// CreateProposalHandler appends a proposal at the next index of the vault.
type CreateProposalHandler struct {
	ledger *membership.Ledger
	vaults *vault.Bucket
	store  *Store
}

var _ treasury.Handler = CreateProposalHandler{}

func (h CreateProposalHandler) Deliver(ctx treasury.Context, db treasury.KVStore, m treasury.Msg) (*treasury.Result, error) {
	caller, err := treasury.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	var msg *CreateProposalMsg
	if err := treasury.LoadMsg(m, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	v, err := h.vaults.GetVault(db, msg.VaultID)
	if err != nil {
		return nil, err
	}
	if err := RequireProposer(db, h.ledger, v.ID, caller); err != nil {
		return nil, err
	}
	if err := v.RequireActive(); err != nil {
		return nil, err
	}
	if err := checkTransfer(db, caller, msg.Destination, msg.Payload); err != nil {
		return nil, err
	}

	p := &Proposal{
		VaultID:     v.ID,
		Index:       v.ProposalCount,
		Proposer:    caller,
		Destination: msg.Destination,
		Amount:      msg.Amount,
		Payload:     msg.Payload,
	}
	v.ProposalCount++
	if err := h.vaults.Save(db, v); err != nil {
		return nil, err
	}
	if err := h.store.Proposals.Save(db, p); err != nil {
		return nil, err
	}

	id := orm.EncodeSequence(p.Index)
	event := treasury.NewEvent(msg.Path(), v.ID, caller, id).
		With(AttrIndex, strconv.FormatUint(p.Index, 10)).
		With(AttrDestination, p.Destination.String()).
		With(AttrAmount, strconv.FormatUint(p.Amount, 10))
	return &treasury.Result{Data: id, Events: []treasury.Event{event}}, nil
}

// EditProposalHandler overwrites a proposal in place, as long as nobody
// voted on it.
type EditProposalHandler struct {
	ledger *membership.Ledger
	vaults *vault.Bucket
	store  *Store
}

var _ treasury.Handler = EditProposalHandler{}

func (h EditProposalHandler) Deliver(ctx treasury.Context, db treasury.KVStore, m treasury.Msg) (*treasury.Result, error) {
	caller, err := treasury.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	var msg *EditProposalMsg
	if err := treasury.LoadMsg(m, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	v, err := h.vaults.GetVault(db, msg.VaultID)
	if err != nil {
		return nil, err
	}
	if err := RequireProposer(db, h.ledger, v.ID, caller); err != nil {
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
		return nil, errors.Field("Index", ErrAlreadyExecuted, "%d", p.Index)
	}
	if p.VoteCount > 0 {
		return nil, errors.Field("Index", ErrAlreadyVoted, "%d", p.Index)
	}
	if err := checkTransfer(db, caller, msg.Destination, msg.Payload); err != nil {
		return nil, err
	}

	p.Destination = msg.Destination
	p.Amount = msg.Amount
	p.Payload = msg.Payload
	if err := h.store.Proposals.Save(db, p); err != nil {
		return nil, err
	}

	id := orm.EncodeSequence(p.Index)
	event := treasury.NewEvent(msg.Path(), v.ID, caller, id).
		With(AttrIndex, strconv.FormatUint(p.Index, 10)).
		With(AttrDestination, p.Destination.String()).
		With(AttrAmount, strconv.FormatUint(p.Amount, 10))
	return &treasury.Result{Data: id, Events: []treasury.Event{event}}, nil
}
