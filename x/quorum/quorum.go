package quorum

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/x/membership"
	"github.com/iov-one/treasury/x/proposal"
	"github.com/iov-one/treasury/x/vault"
)

// RequireVoter checks the caller against the configured voting policy.
func RequireVoter(db treasury.ReadOnlyKVStore, ledger *membership.Ledger, vaultID uint64, caller treasury.Address) error {
	conf, err := vault.LoadConfiguration(db)
	if err != nil {
		return err
	}
	required := membership.RoleOwner
	if conf.VotingPolicy == vault.PolicyMembers {
		required = membership.RoleUser
	}
	_, err = ledger.RequireRole(db, vaultID, caller, required)
	return err
}

// MeetsQuorum returns true if the number of positive votes on the proposal
// reaches the required approvals of the vault. ErrInvalidProposal is
// returned if the index is out of range.
func MeetsQuorum(db treasury.ReadOnlyKVStore, s *proposal.Store, v *vault.Vault, index uint64) (bool, error) {
	if _, err := s.Proposals.GetProposal(db, v.ID, index); err != nil {
		return false, err
	}
	tally, err := s.Votes.Tally(db, v.ID, index)
	if err != nil {
		return false, err
	}
	return tally >= v.RequiredApprovals, nil
}
