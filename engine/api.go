package engine

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/x/execution"
	"github.com/iov-one/treasury/x/membership"
	"github.com/iov-one/treasury/x/proposal"
	"github.com/iov-one/treasury/x/quorum"
	"github.com/iov-one/treasury/x/vault"
)

// call delivers the message on behalf of the caller.
func (e *Engine) call(ctx treasury.Context, caller treasury.Address, msg treasury.Msg) (*treasury.Result, error) {
	if inMutation(ctx) {
		return nil, errors.Wrapf(ErrReentrantCall, "%s from within a mutation", msg.Path())
	}
	if current, ok := treasury.GetCaller(ctx); ok {
		if !current.Equals(caller) {
			return nil, errors.Wrap(errors.ErrUnauthorized, "context carries another caller")
		}
	} else {
		ctx = treasury.WithCaller(ctx, caller)
	}
	return e.Deliver(ctx, msg)
}

// CreateVault creates a vault owned by the caller, with all users holding
// the User role. It returns the ID of the new vault.
func (e *Engine) CreateVault(ctx treasury.Context, caller treasury.Address, users []treasury.Address) (uint64, error) {
	res, err := e.call(ctx, caller, &vault.CreateVaultMsg{Users: users})
	if err != nil {
		return 0, err
	}
	return orm.DecodeSequence(res.Data)
}

// AddMembers adds users to the roster of a vault.
func (e *Engine) AddMembers(ctx treasury.Context, caller treasury.Address, vaultID uint64, users []treasury.Address) error {
	_, err := e.call(ctx, caller, &membership.AddMembersMsg{VaultID: vaultID, Users: users})
	return err
}

// ChangeRole promotes a member to owner or demotes it to user.
func (e *Engine) ChangeRole(ctx treasury.Context, caller treasury.Address, vaultID uint64, member treasury.Address, role membership.Role) error {
	_, err := e.call(ctx, caller, &membership.ChangeRoleMsg{VaultID: vaultID, Member: member, Role: role})
	return err
}

// SetMemberActive deactivates a member, or restores its former role.
func (e *Engine) SetMemberActive(ctx treasury.Context, caller treasury.Address, vaultID uint64, member treasury.Address, active bool) error {
	_, err := e.call(ctx, caller, &membership.SetActiveMsg{VaultID: vaultID, Member: member, Active: active})
	return err
}

// SetRequiredApprovals changes the number of positive votes proposals of
// the vault need.
func (e *Engine) SetRequiredApprovals(ctx treasury.Context, caller treasury.Address, vaultID uint64, n uint32) error {
	_, err := e.call(ctx, caller, &vault.SetRequiredApprovalsMsg{VaultID: vaultID, RequiredApprovals: n})
	return err
}

// SetStatus enables or disables a vault.
func (e *Engine) SetStatus(ctx treasury.Context, caller treasury.Address, vaultID uint64, active bool) error {
	_, err := e.call(ctx, caller, &vault.SetStatusMsg{VaultID: vaultID, Active: active})
	return err
}

// Deposit increases the vault balance. With proveMembership the caller
// must hold a roster slot in the vault.
func (e *Engine) Deposit(ctx treasury.Context, caller treasury.Address, vaultID, amount uint64, proveMembership bool) error {
	_, err := e.call(ctx, caller, &vault.DepositMsg{VaultID: vaultID, Amount: amount, ProveMembership: proveMembership})
	return err
}

// CreateProposal creates a transfer proposal and returns its index.
func (e *Engine) CreateProposal(ctx treasury.Context, caller treasury.Address, vaultID uint64, destination treasury.Address, amount uint64, payload []byte) (uint64, error) {
	res, err := e.call(ctx, caller, &proposal.CreateProposalMsg{
		VaultID:     vaultID,
		Destination: destination,
		Amount:      amount,
		Payload:     payload,
	})
	if err != nil {
		return 0, err
	}
	return orm.DecodeSequence(res.Data)
}

// EditProposal overwrites a proposal nobody voted on yet.
func (e *Engine) EditProposal(ctx treasury.Context, caller treasury.Address, vaultID, index uint64, destination treasury.Address, amount uint64, payload []byte) error {
	_, err := e.call(ctx, caller, &proposal.EditProposalMsg{
		VaultID:     vaultID,
		Index:       index,
		Destination: destination,
		Amount:      amount,
		Payload:     payload,
	})
	return err
}

// CastVote records the selection of the caller on a proposal.
func (e *Engine) CastVote(ctx treasury.Context, caller treasury.Address, vaultID, index uint64, selection proposal.Selection) error {
	_, err := e.call(ctx, caller, &quorum.CastVoteMsg{VaultID: vaultID, Index: index, Selection: selection})
	return err
}

// Execute transfers the amount of an approved proposal to its destination.
func (e *Engine) Execute(ctx treasury.Context, caller treasury.Address, vaultID, index uint64) error {
	_, err := e.call(ctx, caller, &execution.ExecuteMsg{VaultID: vaultID, Index: index})
	return err
}

// GetVault returns a snapshot of the vault. No authorization is required.
func (e *Engine) GetVault(ctx treasury.Context, vaultID uint64) (*vault.Vault, error) {
	var v *vault.Vault
	err := e.guard.Read(ctx, vaultID, func() error {
		var err error
		v, err = e.vaults.GetVault(e.db, vaultID)
		return err
	})
	return v, err
}

// IsAuthorized returns true if the identity is a member of the vault whose
// role satisfies the required one.
func (e *Engine) IsAuthorized(ctx treasury.Context, vaultID uint64, identity treasury.Address, required membership.Role) (bool, error) {
	var ok bool
	err := e.guard.Read(ctx, vaultID, func() error {
		var err error
		ok, err = e.ledger.IsAuthorized(e.db, vaultID, identity, required)
		return err
	})
	return ok, err
}

// Members returns the roster of a vault ordered by slot.
func (e *Engine) Members(ctx treasury.Context, vaultID uint64) ([]*membership.Member, error) {
	var res []*membership.Member
	err := e.guard.Read(ctx, vaultID, func() error {
		if _, err := e.vaults.GetVault(e.db, vaultID); err != nil {
			return err
		}
		var err error
		res, err = e.ledger.Members(e.db, vaultID)
		return err
	})
	return res, err
}

// VaultsOf returns the IDs of all vaults the identity holds a slot in.
func (e *Engine) VaultsOf(ctx treasury.Context, identity treasury.Address) ([]uint64, error) {
	return e.ledger.VaultsOf(e.db, identity)
}

// GetProposal returns the proposal together with its live positive tally.
func (e *Engine) GetProposal(ctx treasury.Context, vaultID, index uint64) (*proposal.Snapshot, error) {
	var snap *proposal.Snapshot
	err := e.guard.Read(ctx, vaultID, func() error {
		var err error
		snap, err = e.proposals.Snapshot(e.db, vaultID, index)
		return err
	})
	return snap, err
}

// ListProposals returns all proposals of a vault ordered by index.
func (e *Engine) ListProposals(ctx treasury.Context, vaultID uint64) ([]*proposal.Snapshot, error) {
	var res []*proposal.Snapshot
	err := e.guard.Read(ctx, vaultID, func() error {
		if _, err := e.vaults.GetVault(e.db, vaultID); err != nil {
			return err
		}
		var err error
		res, err = e.proposals.List(e.db, vaultID)
		return err
	})
	return res, err
}

// GetVote returns the vote of the voter on a proposal.
func (e *Engine) GetVote(ctx treasury.Context, vaultID, index uint64, voter treasury.Address) (*proposal.Vote, error) {
	var v *proposal.Vote
	err := e.guard.Read(ctx, vaultID, func() error {
		if _, err := e.proposals.Proposals.GetProposal(e.db, vaultID, index); err != nil {
			return err
		}
		var err error
		v, err = e.proposals.Votes.GetVote(e.db, vaultID, index, voter)
		return err
	})
	return v, err
}

// Tally returns the number of positive votes cast on a proposal.
func (e *Engine) Tally(ctx treasury.Context, vaultID, index uint64) (uint32, error) {
	snap, err := e.GetProposal(ctx, vaultID, index)
	if err != nil {
		return 0, err
	}
	return snap.Tally, nil
}

// MeetsQuorum returns true if the proposal collected the required
// approvals of its vault.
func (e *Engine) MeetsQuorum(ctx treasury.Context, vaultID, index uint64) (bool, error) {
	var ok bool
	err := e.guard.Read(ctx, vaultID, func() error {
		v, err := e.vaults.GetVault(e.db, vaultID)
		if err != nil {
			return err
		}
		ok, err = quorum.MeetsQuorum(e.db, e.proposals, v, index)
		return err
	})
	return ok, err
}

// Balance returns the value received by a wallet from executed proposals.
// Only transfers made through the cash ledger are counted.
func (e *Engine) Balance(ctx treasury.Context, wallet treasury.Address) (uint64, error) {
	return e.cash.Balance(e.db, wallet)
}
