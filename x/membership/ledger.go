package membership

import (
	"strconv"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/vault"
)

// Ledger is the membership ledger. It owns the roster of all vaults and
// provides the authorization guards used by the other extensions.
type Ledger struct {
	members *Bucket
}

var _ vault.Roster = (*Ledger)(nil)

// NewLedger returns a membership ledger.
func NewLedger() *Ledger {
	return &Ledger{members: NewBucket()}
}

// CreateRoster stores the initial roster of a new vault. The creator gets
// the first slot with the Owner role, all users follow with the User role.
func (l *Ledger) CreateRoster(db treasury.KVStore, vaultID uint64, creator treasury.Address, users []treasury.Address) (uint32, error) {
	if creator.IsNull() {
		return 0, errors.Field("Creator", ErrDuplicateMember, "null identity")
	}
	if err := checkIdentities(users, creator); err != nil {
		return 0, err
	}
	if err := checkRosterSize(db, 0, len(users)+1); err != nil {
		return 0, err
	}

	owner := &Member{VaultID: vaultID, Slot: 0, Identity: creator, Role: RoleOwner}
	if err := l.members.Save(db, owner); err != nil {
		return 0, err
	}
	for i, u := range users {
		m := &Member{VaultID: vaultID, Slot: uint32(i + 1), Identity: u, Role: RoleUser}
		if err := l.members.Save(db, m); err != nil {
			return 0, err
		}
	}
	return uint32(len(users) + 1), nil
}

// AddMembers appends users to the roster of an existing vault with the User
// role. The member count of the vault is updated, saving the vault is up to
// the caller.
func (l *Ledger) AddMembers(db treasury.KVStore, v *vault.Vault, users []treasury.Address) ([]*Member, error) {
	if len(users) == 0 {
		return nil, errors.Field("Users", errors.ErrEmpty, "no users")
	}
	if err := checkIdentities(users, nil); err != nil {
		return nil, err
	}
	for i, u := range users {
		switch _, err := l.members.BySeat(db, v.ID, u); {
		case err == nil:
			return nil, errors.Field(fieldIndex("Users", i), ErrMemberAlreadyExists, "%s", u)
		case errors.ErrNotFound.Is(err):
		default:
			return nil, err
		}
	}
	if err := checkRosterSize(db, int(v.MemberCount), len(users)); err != nil {
		return nil, err
	}

	added := make([]*Member, 0, len(users))
	for _, u := range users {
		m := &Member{VaultID: v.ID, Slot: v.MemberCount, Identity: u, Role: RoleUser}
		if err := l.members.Save(db, m); err != nil {
			return nil, err
		}
		v.MemberCount++
		added = append(added, m)
	}
	return added, nil
}

// ChangeRole promotes a member to Owner or demotes it to User.
func (l *Ledger) ChangeRole(db treasury.KVStore, v *vault.Vault, target treasury.Address, role Role) (*Member, error) {
	if role != RoleUser && role != RoleOwner {
		return nil, errors.Field("Role", errors.ErrInput, "%s", role)
	}
	m, err := l.members.BySeat(db, v.ID, target)
	if err != nil {
		return nil, err
	}
	if !m.IsActive() {
		return nil, errors.Field("Identity", ErrMemberInactive, "%s", target)
	}
	if m.Role == role {
		return nil, errors.Field("Role", ErrAlreadyInState, "%s", role)
	}
	if m.Role == RoleOwner {
		if err := l.checkOwnerRemoval(db, v); err != nil {
			return nil, err
		}
	}
	m.Role = role
	if err := l.members.Save(db, m); err != nil {
		return nil, err
	}
	return m, nil
}

// SetActive deactivates a member or restores the role it held before it
// was deactivated.
func (l *Ledger) SetActive(db treasury.KVStore, v *vault.Vault, target treasury.Address, active bool) (*Member, error) {
	m, err := l.members.BySeat(db, v.ID, target)
	if err != nil {
		return nil, err
	}
	if m.IsActive() == active {
		return nil, errors.Field("Identity", ErrAlreadyInState, "%s", target)
	}

	if active {
		m.Role = m.PriorRole
		if m.Role != RoleOwner {
			m.Role = RoleUser
		}
		m.PriorRole = RoleInactive
	} else {
		if m.Role == RoleOwner {
			if err := l.checkOwnerRemoval(db, v); err != nil {
				return nil, err
			}
		}
		m.PriorRole = m.Role
		m.Role = RoleInactive
	}
	if err := l.members.Save(db, m); err != nil {
		return nil, err
	}
	return m, nil
}

// checkOwnerRemoval ensures the vault keeps at least one owner, and at
// least as many owners as required approvals, after one owner is removed.
func (l *Ledger) checkOwnerRemoval(db treasury.ReadOnlyKVStore, v *vault.Vault) error {
	owners, err := l.OwnerCount(db, v.ID)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return errors.Field("VaultID", ErrNoOwnersRemaining, "%d", v.ID)
	}
	if owners-1 < v.RequiredApprovals {
		return errors.Field("RequiredApprovals", vault.ErrThresholdTooHigh, "%d", v.RequiredApprovals)
	}
	return nil
}

// IsAuthorized returns true if the identity is a member of the vault and
// its role satisfies the required one.
func (l *Ledger) IsAuthorized(db treasury.ReadOnlyKVStore, vaultID uint64, identity treasury.Address, required Role) (bool, error) {
	switch _, err := l.RequireRole(db, vaultID, identity, required); {
	case err == nil:
		return true, nil
	case errors.ErrUnauthorized.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// Member returns the member of the vault with given identity. ErrNotFound
// is returned if the identity holds no slot in the vault.
func (l *Ledger) Member(db treasury.ReadOnlyKVStore, vaultID uint64, identity treasury.Address) (*Member, error) {
	return l.members.BySeat(db, vaultID, identity)
}

// Members returns the roster of a vault, ordered by slot.
func (l *Ledger) Members(db treasury.ReadOnlyKVStore, vaultID uint64) ([]*Member, error) {
	return l.members.Roster(db, vaultID)
}

// VaultsOf returns the IDs of all vaults the identity holds a slot in.
func (l *Ledger) VaultsOf(db treasury.ReadOnlyKVStore, identity treasury.Address) ([]uint64, error) {
	return l.members.VaultIDs(db, identity)
}

// OwnerCount returns the number of members with the Owner role.
func (l *Ledger) OwnerCount(db treasury.ReadOnlyKVStore, vaultID uint64) (uint32, error) {
	roster, err := l.members.Roster(db, vaultID)
	if err != nil {
		return 0, err
	}
	var n uint32
	for _, m := range roster {
		if m.Role == RoleOwner {
			n++
		}
	}
	return n, nil
}

// RequireOwner implements vault.Roster.
func (l *Ledger) RequireOwner(db treasury.ReadOnlyKVStore, vaultID uint64, identity treasury.Address) error {
	_, err := l.RequireRole(db, vaultID, identity, RoleOwner)
	return err
}

// RequireSlot implements vault.Roster.
func (l *Ledger) RequireSlot(db treasury.ReadOnlyKVStore, vaultID uint64, identity treasury.Address) error {
	switch _, err := l.members.BySeat(db, vaultID, identity); {
	case err == nil:
		return nil
	case errors.ErrNotFound.Is(err):
		return errors.Field("Identity", vault.ErrNotAMember, "%s", identity)
	default:
		return err
	}
}

// RequireRole returns the member if its role satisfies the required one.
// Otherwise an ErrUnauthorized error is returned.
func (l *Ledger) RequireRole(db treasury.ReadOnlyKVStore, vaultID uint64, identity treasury.Address, required Role) (*Member, error) {
	m, err := l.members.BySeat(db, vaultID, identity)
	switch {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		return nil, errors.Field("Identity", vault.ErrNotAMember, "%s", identity)
	default:
		return nil, err
	}
	if !m.Role.Satisfies(required) {
		return nil, errors.Field("Identity", errors.ErrUnauthorized, "%s is %s, %s required", identity, m.Role, required)
	}
	return m, nil
}

// RequireMember returns the member if it is not inactive.
func (l *Ledger) RequireMember(db treasury.ReadOnlyKVStore, vaultID uint64, identity treasury.Address) (*Member, error) {
	return l.RequireRole(db, vaultID, identity, RoleUser)
}

// checkIdentities rejects null and repeated identities, and the creator
// listed among the users.
func checkIdentities(users []treasury.Address, creator treasury.Address) error {
	seen := make(map[string]struct{}, len(users))
	for i, u := range users {
		field := fieldIndex("Users", i)
		if u.IsNull() {
			return errors.Field(field, ErrDuplicateMember, "null identity")
		}
		if creator != nil && u.Equals(creator) {
			return errors.Field(field, ErrSelfReference, "%s", u)
		}
		if _, ok := seen[string(u)]; ok {
			return errors.Field(field, ErrDuplicateMember, "%s", u)
		}
		seen[string(u)] = struct{}{}
	}
	return nil
}

func checkRosterSize(db treasury.ReadOnlyKVStore, current, added int) error {
	conf, err := vault.LoadConfiguration(db)
	if err != nil {
		return err
	}
	if current+added > int(conf.MaxMembers) {
		return errors.Field("Users", ErrRosterFull, "%d members allowed", conf.MaxMembers)
	}
	return nil
}

func fieldIndex(name string, i int) string {
	return name + "." + strconv.Itoa(i)
}
