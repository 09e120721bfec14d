package cash

import (
	"context"
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
)

func TestTransfer(t *testing.T) {
	alice := treasurytest.NewAddress()
	bob := treasurytest.NewAddress()

	type transfer struct {
		vaultID uint64
		wallet  treasury.Address
		amount  uint64
	}

	cases := map[string]struct {
		transfers   []transfer
		wantErr     *errors.Error
		wantBalance map[string]uint64
		wantCredits int
	}{
		"single credit": {
			transfers:   []transfer{{1, alice, 5}},
			wantBalance: map[string]uint64{string(alice): 5},
			wantCredits: 1,
		},
		"credits from many vaults": {
			transfers:   []transfer{{1, alice, 5}, {2, alice, 7}, {1, alice, 1}, {2, bob, 3}},
			wantBalance: map[string]uint64{string(alice): 13, string(bob): 3},
			wantCredits: 3,
		},
		"zero amount": {
			transfers: []transfer{{1, alice, 0}},
			wantErr:   errors.ErrAmount,
		},
		"null wallet": {
			transfers: []transfer{{1, nil, 5}},
			wantErr:   errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			l := NewLedger()
			ctx := context.Background()

			var err error
			for _, tr := range tc.transfers {
				if err = l.Transfer(ctx, db, tr.vaultID, tr.wallet, tr.amount); err != nil {
					break
				}
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			for wallet, want := range tc.wantBalance {
				got, err := l.Balance(db, treasury.Address(wallet))
				assert.Nil(t, err)
				assert.Equal(t, want, got)
			}
			credits, err := l.Credits(db, alice)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantCredits, len(credits))
		})
	}
}

func TestCreditsAreOrdered(t *testing.T) {
	db := store.MemStore()
	l := NewLedger()
	wallet := treasurytest.NewAddress()
	ctx := context.Background()

	assert.Nil(t, l.Transfer(ctx, db, 2, wallet, 1))
	assert.Nil(t, l.Transfer(ctx, db, 1, wallet, 2))
	assert.Nil(t, l.Transfer(ctx, db, 2, wallet, 3))

	credits, err := l.Credits(db, wallet)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(credits))
	assert.Equal(t, uint64(1), credits[0].VaultID)
	assert.Equal(t, uint64(2), credits[1].VaultID)
	assert.Equal(t, uint64(1), credits[1].Seq)
	assert.Equal(t, uint64(2), credits[2].Seq)
	assert.Equal(t, uint64(3), credits[2].Amount)
}

func TestUnknownWalletIsEmpty(t *testing.T) {
	l := NewLedger()
	got, err := l.Balance(store.MemStore(), treasurytest.NewAddress())
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), got)
}
