package quorum

import (
	"strconv"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/x/membership"
	"github.com/iov-one/treasury/x/proposal"
	"github.com/iov-one/treasury/x/vault"
)

// Event attribute keys.
const (
	AttrSelection = "selection"
	AttrTally     = "tally"
	AttrReplaced  = "replaced"
)

// RegisterRoutes registers handlers for vote message processing.
func RegisterRoutes(r treasury.Registry, ledger *membership.Ledger, s *proposal.Store) {
	r.Handle(pathCastVoteMsg, CastVoteHandler{ledger: ledger, vaults: vault.NewBucket(), store: s})
}

// CastVoteHandler records a vote, replacing the previous selection of the
// voter if any.
type CastVoteHandler struct {
	ledger *membership.Ledger
	vaults *vault.Bucket
	store  *proposal.Store
}

var _ treasury.Handler = CastVoteHandler{}

func (h CastVoteHandler) Deliver(ctx treasury.Context, db treasury.KVStore, m treasury.Msg) (*treasury.Result, error) {
	caller, err := treasury.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	var msg *CastVoteMsg
	if err := treasury.LoadMsg(m, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	v, err := h.vaults.GetVault(db, msg.VaultID)
	if err != nil {
		return nil, err
	}
	if err := RequireVoter(db, h.ledger, v.ID, caller); err != nil {
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

	replaced := false
	switch prev, err := h.store.Votes.GetVote(db, v.ID, p.Index, caller); {
	case err == nil:
		if prev.Selection == msg.Selection {
			return nil, errors.Field("Selection", ErrNoOpVote, "%s", prev.Selection)
		}
		replaced = true
	case errors.ErrNotFound.Is(err):
		p.VoteCount++
		if err := h.store.Proposals.Save(db, p); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	vote := &proposal.Vote{
		VaultID:       v.ID,
		ProposalIndex: p.Index,
		Voter:         caller,
		Selection:     msg.Selection,
	}
	if err := h.store.Votes.Save(db, vote); err != nil {
		return nil, err
	}
	tally, err := h.store.Votes.Tally(db, v.ID, p.Index)
	if err != nil {
		return nil, err
	}

	event := treasury.NewEvent(msg.Path(), v.ID, caller, orm.EncodeSequence(p.Index)).
		With(AttrSelection, msg.Selection.String()).
		With(AttrReplaced, strconv.FormatBool(replaced)).
		With(AttrTally, strconv.FormatUint(uint64(tally), 10))
	return &treasury.Result{Events: []treasury.Event{event}}, nil
}
