package vault_test

import (
	"math"
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/gconf"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
	"github.com/iov-one/treasury/x/membership"
	"github.com/iov-one/treasury/x/vault"
)

func newRouter() (treasurytest.Router, *membership.Ledger) {
	r := make(treasurytest.Router)
	l := membership.NewLedger()
	vault.RegisterRoutes(r, l)
	membership.RegisterRoutes(r, l)
	return r, l
}

func deliver(r treasurytest.Router, db treasury.KVStore, caller treasury.Address, msg treasury.Msg) (*treasury.Result, error) {
	return r.Deliver(treasurytest.CallerCtx(caller), db, msg)
}

func TestCreateVault(t *testing.T) {
	creator := treasurytest.NewAddress()
	u1 := treasurytest.NewAddress()
	u2 := treasurytest.NewAddress()

	cases := map[string]struct {
		caller      treasury.Address
		users       []treasury.Address
		wantErr     *errors.Error
		wantMembers uint32
	}{
		"creator only": {
			caller:      creator,
			wantMembers: 1,
		},
		"creator with users": {
			caller:      creator,
			users:       []treasury.Address{u1, u2},
			wantMembers: 3,
		},
		"creator listed as user": {
			caller:  creator,
			users:   []treasury.Address{u1, creator},
			wantErr: membership.ErrSelfReference,
		},
		"duplicated user": {
			caller:  creator,
			users:   []treasury.Address{u1, u2, u1},
			wantErr: membership.ErrDuplicateMember,
		},
		"null user": {
			caller:  creator,
			users:   []treasury.Address{u1, nil},
			wantErr: membership.ErrDuplicateMember,
		},
		"anonymous caller": {
			users:   []treasury.Address{u1},
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			r, l := newRouter()

			cache := db.CacheWrap()
			res, err := deliver(r, cache, tc.caller, &vault.CreateVaultMsg{Users: tc.users})
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				cache.Discard()
				// neither the vault nor any roster entry is visible
				_, err := vault.NewBucket().GetVault(db, 1)
				assert.IsErr(t, errors.ErrNotFound, err)
				roster, err := l.Members(db, 1)
				assert.Nil(t, err)
				assert.Equal(t, 0, len(roster))
				return
			}
			assert.Nil(t, cache.Write())

			id, err := orm.DecodeSequence(res.Data)
			assert.Nil(t, err)
			assert.Equal(t, uint64(1), id)
			assert.Equal(t, 1, len(res.Events))

			v, err := vault.NewBucket().GetVault(db, id)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantMembers, v.MemberCount)
			assert.Equal(t, uint32(1), v.RequiredApprovals)
			assert.Equal(t, uint64(0), v.Balance)
			assert.Equal(t, vault.StatusActive, v.Status)
			assert.Equal(t, tc.caller, v.Creator)

			ok, err := l.IsAuthorized(db, id, tc.caller, membership.RoleOwner)
			assert.Nil(t, err)
			assert.Equal(t, true, ok)
		})
	}
}

func TestVaultIDsAreMonotonic(t *testing.T) {
	db := store.MemStore()
	r, _ := newRouter()
	creator := treasurytest.NewAddress()

	for want := uint64(1); want <= 3; want++ {
		res, err := deliver(r, db, creator, &vault.CreateVaultMsg{})
		assert.Nil(t, err)
		id, err := orm.DecodeSequence(res.Data)
		assert.Nil(t, err)
		assert.Equal(t, want, id)
	}

	// a failed creation does not reuse nor skip the next identifier
	cache := db.CacheWrap()
	_, err := deliver(r, cache, creator, &vault.CreateVaultMsg{Users: []treasury.Address{creator}})
	assert.IsErr(t, membership.ErrSelfReference, err)
	cache.Discard()

	last, err := vault.NewBucket().LastID(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), last)
}

func TestSetRequiredApprovals(t *testing.T) {
	owner := treasurytest.NewAddress()
	second := treasurytest.NewAddress()
	user := treasurytest.NewAddress()

	cases := map[string]struct {
		caller    treasury.Address
		prep      []treasury.Msg
		approvals uint32
		wantErr   *errors.Error
	}{
		"single owner, one approval": {
			caller:    owner,
			approvals: 1,
			wantErr:   nil,
		},
		"two owners, two approvals": {
			caller:    owner,
			prep:      []treasury.Msg{&membership.ChangeRoleMsg{VaultID: 1, Member: second, Role: membership.RoleOwner}},
			approvals: 2,
		},
		"more approvals than owners": {
			caller:    owner,
			approvals: 2,
			wantErr:   vault.ErrThresholdTooHigh,
		},
		"users do not count as owners": {
			caller:    owner,
			approvals: 3,
			wantErr:   vault.ErrThresholdTooHigh,
		},
		"zero": {
			caller:    owner,
			approvals: 0,
			wantErr:   vault.ErrThresholdZero,
		},
		"user caller": {
			caller:    user,
			approvals: 1,
			wantErr:   errors.ErrUnauthorized,
		},
		"inactive vault": {
			caller:    owner,
			prep:      []treasury.Msg{&vault.SetStatusMsg{VaultID: 1, Active: false}},
			approvals: 1,
			wantErr:   vault.ErrVaultInactive,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			r, l := newRouter()
			_, err := deliver(r, db, owner, &vault.CreateVaultMsg{Users: []treasury.Address{second, user}})
			assert.Nil(t, err)
			for _, p := range tc.prep {
				_, err := deliver(r, db, owner, p)
				assert.Nil(t, err)
			}

			_, err = deliver(r, db, tc.caller, &vault.SetRequiredApprovalsMsg{VaultID: 1, RequiredApprovals: tc.approvals})
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			v, err := vault.NewBucket().GetVault(db, 1)
			assert.Nil(t, err)
			owners, err := l.OwnerCount(db, 1)
			assert.Nil(t, err)
			if v.RequiredApprovals > owners || v.RequiredApprovals == 0 {
				t.Fatalf("%d required approvals with %d owners", v.RequiredApprovals, owners)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.approvals, v.RequiredApprovals)
			} else {
				assert.Equal(t, uint32(1), v.RequiredApprovals)
			}
		})
	}
}

func TestSetStatus(t *testing.T) {
	owner := treasurytest.NewAddress()
	user := treasurytest.NewAddress()

	cases := map[string]struct {
		caller     treasury.Address
		prep       []treasury.Msg
		active     bool
		wantErr    *errors.Error
		wantStatus vault.Status
	}{
		"disable": {
			caller:     owner,
			active:     false,
			wantStatus: vault.StatusInactive,
		},
		"enable disabled": {
			caller:     owner,
			prep:       []treasury.Msg{&vault.SetStatusMsg{VaultID: 1, Active: false}},
			active:     true,
			wantStatus: vault.StatusActive,
		},
		"enable enabled": {
			caller:     owner,
			active:     true,
			wantErr:    vault.ErrAlreadyActive,
			wantStatus: vault.StatusActive,
		},
		"disable disabled": {
			caller:     owner,
			prep:       []treasury.Msg{&vault.SetStatusMsg{VaultID: 1, Active: false}},
			active:     false,
			wantErr:    vault.ErrAlreadyInactive,
			wantStatus: vault.StatusInactive,
		},
		"user cannot disable": {
			caller:     user,
			active:     false,
			wantErr:    errors.ErrUnauthorized,
			wantStatus: vault.StatusActive,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			r, _ := newRouter()
			_, err := deliver(r, db, owner, &vault.CreateVaultMsg{Users: []treasury.Address{user}})
			assert.Nil(t, err)
			for _, p := range tc.prep {
				_, err := deliver(r, db, owner, p)
				assert.Nil(t, err)
			}

			_, err = deliver(r, db, tc.caller, &vault.SetStatusMsg{VaultID: 1, Active: tc.active})
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			v, err := vault.NewBucket().GetVault(db, 1)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantStatus, v.Status)
		})
	}
}

func TestDeposit(t *testing.T) {
	owner := treasurytest.NewAddress()
	stranger := treasurytest.NewAddress()

	cases := map[string]struct {
		conf        *vault.Configuration
		prep        []treasury.Msg
		caller      treasury.Address
		msg         vault.DepositMsg
		wantErr     *errors.Error
		wantBalance uint64
	}{
		"anyone can deposit": {
			caller:      stranger,
			msg:         vault.DepositMsg{VaultID: 1, Amount: 10},
			wantBalance: 110,
		},
		"member proves membership": {
			caller:      owner,
			msg:         vault.DepositMsg{VaultID: 1, Amount: 5, ProveMembership: true},
			wantBalance: 105,
		},
		"stranger fails membership proof": {
			caller:      stranger,
			msg:         vault.DepositMsg{VaultID: 1, Amount: 5, ProveMembership: true},
			wantErr:     vault.ErrNotAMember,
			wantBalance: 100,
		},
		"inactive vault": {
			prep:        []treasury.Msg{&vault.SetStatusMsg{VaultID: 1, Active: false}},
			caller:      stranger,
			msg:         vault.DepositMsg{VaultID: 1, Amount: 5},
			wantErr:     vault.ErrVaultInactive,
			wantBalance: 100,
		},
		"inactive vault accepting deposits": {
			conf: &vault.Configuration{
				VotingPolicy:             vault.PolicyOwners,
				ProposalPolicy:           vault.PolicyMembers,
				AllowDepositWhenInactive: true,
				MaxMembers:               10,
			},
			prep:        []treasury.Msg{&vault.SetStatusMsg{VaultID: 1, Active: false}},
			caller:      stranger,
			msg:         vault.DepositMsg{VaultID: 1, Amount: 5},
			wantBalance: 105,
		},
		"overflow": {
			caller:      stranger,
			msg:         vault.DepositMsg{VaultID: 1, Amount: math.MaxUint64},
			wantErr:     errors.ErrOverflow,
			wantBalance: 100,
		},
		"zero amount": {
			caller:      stranger,
			msg:         vault.DepositMsg{VaultID: 1},
			wantErr:     errors.ErrAmount,
			wantBalance: 100,
		},
		"unknown vault": {
			caller:      stranger,
			msg:         vault.DepositMsg{VaultID: 2, Amount: 5},
			wantErr:     errors.ErrNotFound,
			wantBalance: 100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			r, _ := newRouter()
			if tc.conf != nil {
				assert.Nil(t, gconf.Save(db, vault.ConfigurationPkg, tc.conf))
			}
			_, err := deliver(r, db, owner, &vault.CreateVaultMsg{})
			assert.Nil(t, err)
			_, err = deliver(r, db, owner, &vault.DepositMsg{VaultID: 1, Amount: 100})
			assert.Nil(t, err)
			for _, p := range tc.prep {
				_, err := deliver(r, db, owner, p)
				assert.Nil(t, err)
			}

			msg := tc.msg
			_, err = deliver(r, db, tc.caller, &msg)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			v, err := vault.NewBucket().GetVault(db, 1)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBalance, v.Balance)
		})
	}
}

func TestGetVaultReportsID(t *testing.T) {
	db := store.MemStore()
	_, err := vault.NewBucket().GetVault(db, 42)
	assert.FieldError(t, err, "VaultID", errors.ErrNotFound)
	value, ok := errors.FieldValue(err, "VaultID")
	assert.Equal(t, true, ok)
	assert.Equal(t, "42", value)
}
