package vault

import (
	"testing"

	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
)

func TestVaultValidate(t *testing.T) {
	creator := treasurytest.NewAddress()

	cases := map[string]struct {
		vault     Vault
		wantField string
		wantErr   *errors.Error
	}{
		"valid": {
			vault: Vault{ID: 1, Creator: creator, MemberCount: 1, RequiredApprovals: 1, Status: StatusActive},
		},
		"missing ID": {
			vault:     Vault{Creator: creator, MemberCount: 1, RequiredApprovals: 1, Status: StatusActive},
			wantField: "ID",
			wantErr:   errors.ErrEmpty,
		},
		"missing creator": {
			vault:     Vault{ID: 1, MemberCount: 1, RequiredApprovals: 1, Status: StatusActive},
			wantField: "Creator",
			wantErr:   errors.ErrInput,
		},
		"no members": {
			vault:     Vault{ID: 1, Creator: creator, RequiredApprovals: 1, Status: StatusActive},
			wantField: "MemberCount",
			wantErr:   errors.ErrEmpty,
		},
		"zero approvals": {
			vault:     Vault{ID: 1, Creator: creator, MemberCount: 1, Status: StatusActive},
			wantField: "RequiredApprovals",
			wantErr:   ErrThresholdZero,
		},
		"unknown status": {
			vault:     Vault{ID: 1, Creator: creator, MemberCount: 1, RequiredApprovals: 1, Status: 7},
			wantField: "Status",
			wantErr:   errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.vault.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}

func TestRequireActive(t *testing.T) {
	v := Vault{ID: 7, Status: StatusActive}
	assert.Nil(t, v.RequireActive())

	v.Status = StatusInactive
	err := v.RequireActive()
	assert.IsErr(t, ErrVaultInactive, err)
	assert.IsErr(t, errors.ErrState, err)
	value, _ := errors.FieldValue(err, "VaultID")
	assert.Equal(t, "7", value)
}

func TestBucketRoundTrip(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()

	id, err := b.NextID(db)
	assert.Nil(t, err)
	v := &Vault{
		ID:                id,
		Creator:           treasurytest.NewAddress(),
		MemberCount:       3,
		RequiredApprovals: 2,
		Balance:           99,
		Status:            StatusInactive,
		ProposalCount:     4,
	}
	assert.Nil(t, b.Save(db, v))

	got, err := b.GetVault(db, id)
	assert.Nil(t, err)
	assert.Equal(t, v, got)

	// invalid vaults are never stored
	err = b.Save(db, &Vault{ID: 2})
	assert.IsErr(t, errors.ErrEmpty, err)
	_, err = b.GetVault(db, 2)
	assert.IsErr(t, errors.ErrNotFound, err)
}
