package vault

import (
	"strconv"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Event attribute keys.
const (
	AttrMembers           = "members"
	AttrRequiredApprovals = "required_approvals"
	AttrStatus            = "status"
	AttrAmount            = "amount"
	AttrBalance           = "balance"
)

// RegisterRoutes registers handlers for vault registry message processing.
func RegisterRoutes(r treasury.Registry, roster Roster) {
	bucket := NewBucket()
	r.Handle(pathCreateVaultMsg, CreateVaultHandler{bucket: bucket, roster: roster})
	r.Handle(pathSetRequiredApprovalsMsg, SetRequiredApprovalsHandler{bucket: bucket, roster: roster})
	r.Handle(pathSetStatusMsg, SetStatusHandler{bucket: bucket, roster: roster})
	r.Handle(pathDepositMsg, DepositHandler{bucket: bucket, roster: roster})
}

// CreateVaultHandler creates a vault together with its roster.
type CreateVaultHandler struct {
	bucket *Bucket
	roster Roster
}

var _ treasury.Handler = CreateVaultHandler{}

// Deliver allocates the next vault ID and stores the vault and its roster.
// Both must be written within the same savepoint.
func (h CreateVaultHandler) Deliver(ctx treasury.Context, db treasury.KVStore, m treasury.Msg) (*treasury.Result, error) {
	caller, err := treasury.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	var msg *CreateVaultMsg
	if err := treasury.LoadMsg(m, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	id, err := h.bucket.NextID(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire vault ID")
	}
	count, err := h.roster.CreateRoster(db, id, caller, msg.Users)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create roster")
	}
	v := &Vault{
		ID:                id,
		Creator:           caller,
		MemberCount:       count,
		RequiredApprovals: 1,
		Balance:           0,
		Status:            StatusActive,
	}
	if err := h.bucket.Save(db, v); err != nil {
		return nil, err
	}

	event := treasury.NewEvent(msg.Path(), id, caller, v.Key()).
		With(AttrMembers, strconv.FormatUint(uint64(count), 10)).
		With(AttrRequiredApprovals, "1")
	return &treasury.Result{Data: v.Key(), Events: []treasury.Event{event}}, nil
}

// SetRequiredApprovalsHandler changes the vault quorum.
type SetRequiredApprovalsHandler struct {
	bucket *Bucket
	roster Roster
}

var _ treasury.Handler = SetRequiredApprovalsHandler{}

func (h SetRequiredApprovalsHandler) Deliver(ctx treasury.Context, db treasury.KVStore, m treasury.Msg) (*treasury.Result, error) {
	caller, err := treasury.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	var msg *SetRequiredApprovalsMsg
	if err := treasury.LoadMsg(m, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	v, err := h.bucket.GetVault(db, msg.VaultID)
	if err != nil {
		return nil, err
	}
	if err := h.roster.RequireOwner(db, v.ID, caller); err != nil {
		return nil, err
	}
	if err := v.RequireActive(); err != nil {
		return nil, err
	}
	if msg.RequiredApprovals == 0 {
		return nil, errors.Field("RequiredApprovals", ErrThresholdZero, "0")
	}
	owners, err := h.roster.OwnerCount(db, v.ID)
	if err != nil {
		return nil, errors.Wrap(err, "owner count")
	}
	if msg.RequiredApprovals > owners {
		return nil, errors.Field("RequiredApprovals", ErrThresholdTooHigh, "%d", msg.RequiredApprovals)
	}

	v.RequiredApprovals = msg.RequiredApprovals
	if err := h.bucket.Save(db, v); err != nil {
		return nil, err
	}
	event := treasury.NewEvent(msg.Path(), v.ID, caller, v.Key()).
		With(AttrRequiredApprovals, strconv.FormatUint(uint64(v.RequiredApprovals), 10))
	return &treasury.Result{Events: []treasury.Event{event}}, nil
}

// SetStatusHandler enables or disables a vault. Enabling is the only
// mutation an inactive vault accepts.
type SetStatusHandler struct {
	bucket *Bucket
	roster Roster
}

var _ treasury.Handler = SetStatusHandler{}

func (h SetStatusHandler) Deliver(ctx treasury.Context, db treasury.KVStore, m treasury.Msg) (*treasury.Result, error) {
	caller, err := treasury.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	var msg *SetStatusMsg
	if err := treasury.LoadMsg(m, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	v, err := h.bucket.GetVault(db, msg.VaultID)
	if err != nil {
		return nil, err
	}
	if err := h.roster.RequireOwner(db, v.ID, caller); err != nil {
		return nil, err
	}

	switch {
	case msg.Active && v.IsActive():
		return nil, errors.Field("VaultID", ErrAlreadyActive, "%d", v.ID)
	case !msg.Active && !v.IsActive():
		return nil, errors.Field("VaultID", ErrAlreadyInactive, "%d", v.ID)
	case msg.Active:
		v.Status = StatusActive
	default:
		v.Status = StatusInactive
	}
	if err := h.bucket.Save(db, v); err != nil {
		return nil, err
	}
	event := treasury.NewEvent(msg.Path(), v.ID, caller, v.Key()).
		With(AttrStatus, v.Status.String())
	return &treasury.Result{Events: []treasury.Event{event}}, nil
}

// DepositHandler increases the vault balance.
type DepositHandler struct {
	bucket *Bucket
	roster Roster
}

var _ treasury.Handler = DepositHandler{}

func (h DepositHandler) Deliver(ctx treasury.Context, db treasury.KVStore, m treasury.Msg) (*treasury.Result, error) {
	caller, err := treasury.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	var msg *DepositMsg
	if err := treasury.LoadMsg(m, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	v, err := h.bucket.GetVault(db, msg.VaultID)
	if err != nil {
		return nil, err
	}
	if !v.IsActive() {
		conf, err := LoadConfiguration(db)
		if err != nil {
			return nil, err
		}
		if !conf.AllowDepositWhenInactive {
			return nil, v.RequireActive()
		}
	}
	if msg.ProveMembership {
		if err := h.roster.RequireSlot(db, v.ID, caller); err != nil {
			return nil, err
		}
	}
	if v.Balance+msg.Amount < v.Balance {
		return nil, errors.Field("Amount", errors.ErrOverflow, "%d", msg.Amount)
	}

	v.Balance += msg.Amount
	if err := h.bucket.Save(db, v); err != nil {
		return nil, err
	}
	event := treasury.NewEvent(msg.Path(), v.ID, caller, v.Key()).
		With(AttrAmount, strconv.FormatUint(msg.Amount, 10)).
		With(AttrBalance, strconv.FormatUint(v.Balance, 10))
	return &treasury.Result{Events: []treasury.Event{event}}, nil
}
