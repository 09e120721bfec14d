package proposal

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Store gives access to proposals and the votes cast on them.
type Store struct {
	Proposals *Bucket
	Votes     *VoteBucket
}

// NewStore returns a proposal store.
func NewStore() *Store {
	return &Store{
		Proposals: NewBucket(),
		Votes:     NewVoteBucket(),
	}
}

// Snapshot is a proposal together with its live positive tally.
type Snapshot struct {
	Proposal
	Tally uint32
}

// Snapshot returns the proposal and its positive tally. ErrInvalidProposal
// is returned if the index is out of range.
func (s *Store) Snapshot(db treasury.ReadOnlyKVStore, vaultID, index uint64) (*Snapshot, error) {
	p, err := s.Proposals.GetProposal(db, vaultID, index)
	if err != nil {
		return nil, err
	}
	tally, err := s.Votes.Tally(db, vaultID, index)
	if err != nil {
		return nil, errors.Wrap(err, "tally")
	}
	return &Snapshot{Proposal: *p, Tally: tally}, nil
}

// List returns snapshots of all proposals of a vault ordered by index.
func (s *Store) List(db treasury.ReadOnlyKVStore, vaultID uint64) ([]*Snapshot, error) {
	all, err := s.Proposals.List(db, vaultID)
	if err != nil {
		return nil, err
	}
	res := make([]*Snapshot, 0, len(all))
	for _, p := range all {
		tally, err := s.Votes.Tally(db, vaultID, p.Index)
		if err != nil {
			return nil, errors.Wrap(err, "tally")
		}
		res = append(res, &Snapshot{Proposal: *p, Tally: tally})
	}
	return res, nil
}
