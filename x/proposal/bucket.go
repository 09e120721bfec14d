package proposal

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// Bucket is the persistent bucket for proposals.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing proposals.
func NewBucket() *Bucket {
	return &Bucket{
		ModelBucket: orm.NewModelBucket("proposal", &Proposal{}),
	}
}

// GetProposal loads a proposal. ErrInvalidProposal is returned if the index
// is out of range.
func (b *Bucket) GetProposal(db treasury.ReadOnlyKVStore, vaultID, index uint64) (*Proposal, error) {
	var p Proposal
	switch err := b.One(db, proposalKey(vaultID, index), &p); {
	case err == nil:
		return &p, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Field("Index", ErrInvalidProposal, "%d", index)
	default:
		return nil, errors.Wrap(err, "cannot load proposal")
	}
}

// Save stores the proposal under its vault and index.
func (b *Bucket) Save(db treasury.KVStore, p *Proposal) error {
	if err := b.Put(db, p.Key(), p); err != nil {
		return errors.Wrapf(err, "cannot store proposal %d", p.Index)
	}
	return nil
}

// List returns all proposals of a vault ordered by index.
func (b *Bucket) List(db treasury.ReadOnlyKVStore, vaultID uint64) ([]*Proposal, error) {
	it, err := b.Scan(db, orm.EncodeSequence(vaultID), false)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []*Proposal
	for {
		var p Proposal
		switch _, err := it.Next(&p); {
		case err == nil:
			res = append(res, &p)
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, errors.Wrap(err, "proposal iterator")
		}
	}
}

// VoteBucket is the persistent bucket for votes.
type VoteBucket struct {
	orm.ModelBucket
}

// NewVoteBucket returns a bucket for managing votes.
func NewVoteBucket() *VoteBucket {
	return &VoteBucket{
		ModelBucket: orm.NewModelBucket("vote", &Vote{}),
	}
}

// GetVote returns the vote of the voter on a proposal. ErrNotFound is
// returned if no vote was cast.
func (b *VoteBucket) GetVote(db treasury.ReadOnlyKVStore, vaultID, index uint64, voter treasury.Address) (*Vote, error) {
	var v Vote
	switch err := b.One(db, voteKey(vaultID, index, voter), &v); {
	case err == nil:
		return &v, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Field("Voter", errors.ErrNotFound, "%s", voter)
	default:
		return nil, errors.Wrap(err, "cannot load vote")
	}
}

// Save stores the vote, replacing the previous selection of the voter.
func (b *VoteBucket) Save(db treasury.KVStore, v *Vote) error {
	if err := b.Put(db, v.Key(), v); err != nil {
		return errors.Wrapf(err, "cannot store vote of %s", v.Voter)
	}
	return nil
}

// Votes returns all votes cast on a proposal.
func (b *VoteBucket) Votes(db treasury.ReadOnlyKVStore, vaultID, index uint64) ([]*Vote, error) {
	it, err := b.Scan(db, proposalKey(vaultID, index), false)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []*Vote
	for {
		var v Vote
		switch _, err := it.Next(&v); {
		case err == nil:
			res = append(res, &v)
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, errors.Wrap(err, "vote iterator")
		}
	}
}

// Tally returns the number of positive votes cast on a proposal. It is
// computed by a full scan of the recorded votes.
func (b *VoteBucket) Tally(db treasury.ReadOnlyKVStore, vaultID, index uint64) (uint32, error) {
	votes, err := b.Votes(db, vaultID, index)
	if err != nil {
		return 0, err
	}
	var n uint32
	for _, v := range votes {
		if v.Selection == SelectionPositive {
			n++
		}
	}
	return n, nil
}
