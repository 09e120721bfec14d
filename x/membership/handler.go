package membership

import (
	"strconv"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/vault"
)

// Event attribute keys.
const (
	AttrRole   = "role"
	AttrSlot   = "slot"
	AttrActive = "active"
)

// RegisterRoutes registers handlers for roster message processing.
func RegisterRoutes(r treasury.Registry, ledger *Ledger) {
	vaults := vault.NewBucket()
	r.Handle(pathAddMembersMsg, AddMembersHandler{ledger: ledger, vaults: vaults})
	r.Handle(pathChangeRoleMsg, ChangeRoleHandler{ledger: ledger, vaults: vaults})
	r.Handle(pathSetActiveMsg, SetActiveHandler{ledger: ledger, vaults: vaults})
}

// loadOwnedVault returns the vault if the caller is its owner and the vault
// is active.
func loadOwnedVault(db treasury.ReadOnlyKVStore, ledger *Ledger, vaults *vault.Bucket, vaultID uint64, caller treasury.Address) (*vault.Vault, error) {
	v, err := vaults.GetVault(db, vaultID)
	if err != nil {
		return nil, err
	}
	if err := ledger.RequireOwner(db, v.ID, caller); err != nil {
		return nil, err
	}
	if err := v.RequireActive(); err != nil {
		return nil, err
	}
	return v, nil
}

// AddMembersHandler appends users to a vault roster.
type AddMembersHandler struct {
	ledger *Ledger
	vaults *vault.Bucket
}

var _ treasury.Handler = AddMembersHandler{}

func (h AddMembersHandler) Deliver(ctx treasury.Context, db treasury.KVStore, m treasury.Msg) (*treasury.Result, error) {
	caller, err := treasury.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	var msg *AddMembersMsg
	if err := treasury.LoadMsg(m, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	v, err := loadOwnedVault(db, h.ledger, h.vaults, msg.VaultID, caller)
	if err != nil {
		return nil, err
	}
	added, err := h.ledger.AddMembers(db, v, msg.Users)
	if err != nil {
		return nil, err
	}
	if err := h.vaults.Save(db, v); err != nil {
		return nil, err
	}

	events := make([]treasury.Event, 0, len(added))
	for _, a := range added {
		events = append(events, treasury.NewEvent(msg.Path(), v.ID, caller, a.Identity).
			With(AttrRole, a.Role.String()).
			With(AttrSlot, strconv.FormatUint(uint64(a.Slot), 10)))
	}
	return &treasury.Result{Events: events}, nil
}

// ChangeRoleHandler promotes or demotes a member.
type ChangeRoleHandler struct {
	ledger *Ledger
	vaults *vault.Bucket
}

var _ treasury.Handler = ChangeRoleHandler{}

func (h ChangeRoleHandler) Deliver(ctx treasury.Context, db treasury.KVStore, m treasury.Msg) (*treasury.Result, error) {
	caller, err := treasury.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	var msg *ChangeRoleMsg
	if err := treasury.LoadMsg(m, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	v, err := loadOwnedVault(db, h.ledger, h.vaults, msg.VaultID, caller)
	if err != nil {
		return nil, err
	}
	member, err := h.ledger.ChangeRole(db, v, msg.Member, msg.Role)
	if err != nil {
		return nil, err
	}
	event := treasury.NewEvent(msg.Path(), v.ID, caller, member.Identity).
		With(AttrRole, member.Role.String())
	return &treasury.Result{Events: []treasury.Event{event}}, nil
}

// SetActiveHandler deactivates or reactivates a member.
type SetActiveHandler struct {
	ledger *Ledger
	vaults *vault.Bucket
}

var _ treasury.Handler = SetActiveHandler{}

func (h SetActiveHandler) Deliver(ctx treasury.Context, db treasury.KVStore, m treasury.Msg) (*treasury.Result, error) {
	caller, err := treasury.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	var msg *SetActiveMsg
	if err := treasury.LoadMsg(m, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	v, err := loadOwnedVault(db, h.ledger, h.vaults, msg.VaultID, caller)
	if err != nil {
		return nil, err
	}
	member, err := h.ledger.SetActive(db, v, msg.Member, msg.Active)
	if err != nil {
		return nil, err
	}
	event := treasury.NewEvent(msg.Path(), v.ID, caller, member.Identity).
		With(AttrRole, member.Role.String()).
		With(AttrActive, strconv.FormatBool(msg.Active))
	return &treasury.Result{Events: []treasury.Event{event}}, nil
}
