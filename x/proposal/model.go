package proposal

import (
	"encoding/binary"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// Proposal is a request to move value out of a vault.
type Proposal struct {
	VaultID     uint64
	Index       uint64
	Proposer    treasury.Address
	Destination treasury.Address
	Amount      uint64
	Payload     []byte
	// Executed is terminal, once set it is never cleared.
	Executed bool
	// VoteCount is the number of distinct voters.
	VoteCount uint32
}

var _ orm.Model = (*Proposal)(nil)

func (p *Proposal) Marshal() ([]byte, error) {
	return orm.Marshal(p)
}

func (p *Proposal) Unmarshal(raw []byte) error {
	return orm.Unmarshal(raw, p)
}

// Validate ensures the proposal is valid.
func (p *Proposal) Validate() error {
	var errs error
	if p.VaultID == 0 {
		errs = errors.AppendField(errs, "VaultID", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Proposer", p.Proposer.Validate())
	if p.Destination.IsNull() {
		errs = errors.AppendField(errs, "Destination", ErrNullDestination)
	} else {
		errs = errors.AppendField(errs, "Destination", p.Destination.Validate())
	}
	if p.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

// Key returns the primary key the proposal is stored under.
func (p *Proposal) Key() []byte {
	return proposalKey(p.VaultID, p.Index)
}

// proposalKey is the vault ID followed by the proposal index, so that the
// proposals of a vault are ordered by index.
func proposalKey(vaultID, index uint64) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key, vaultID)
	binary.BigEndian.PutUint64(key[8:], index)
	return key
}

// Selection is the choice of a voter.
type Selection int32

const (
	SelectionNeutral  Selection = 1
	SelectionPositive Selection = 2
	SelectionNegative Selection = 3
)

func (s Selection) String() string {
	switch s {
	case SelectionNeutral:
		return "neutral"
	case SelectionPositive:
		return "positive"
	case SelectionNegative:
		return "negative"
	default:
		return "unknown"
	}
}

// Validate returns an error if this is not a known selection.
func (s Selection) Validate() error {
	switch s {
	case SelectionNeutral, SelectionPositive, SelectionNegative:
		return nil
	}
	return errors.Wrapf(ErrInvalidSelection, "%d", s)
}

// Vote is the selection of a single voter on a proposal.
type Vote struct {
	VaultID       uint64
	ProposalIndex uint64
	Voter         treasury.Address
	Selection     Selection
}

var _ orm.Model = (*Vote)(nil)

func (v *Vote) Marshal() ([]byte, error) {
	return orm.Marshal(v)
}

func (v *Vote) Unmarshal(raw []byte) error {
	return orm.Unmarshal(raw, v)
}

// Validate ensures the vote is valid.
func (v *Vote) Validate() error {
	var errs error
	if v.VaultID == 0 {
		errs = errors.AppendField(errs, "VaultID", errors.ErrEmpty)
	}
	if v.Voter.IsNull() {
		errs = errors.AppendField(errs, "Voter", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Voter", v.Voter.Validate())
	}
	errs = errors.AppendField(errs, "Selection", v.Selection.Validate())
	return errs
}

// Key returns the primary key the vote is stored under.
func (v *Vote) Key() []byte {
	return voteKey(v.VaultID, v.ProposalIndex, v.Voter)
}

func voteKey(vaultID, index uint64, voter treasury.Address) []byte {
	return append(proposalKey(vaultID, index), voter...)
}
