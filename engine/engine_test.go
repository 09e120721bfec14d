package engine

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/queue"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
	"github.com/iov-one/treasury/x/execution"
	"github.com/iov-one/treasury/x/membership"
	"github.com/iov-one/treasury/x/proposal"
	"github.com/iov-one/treasury/x/vault"
	"github.com/tendermint/tendermint/libs/log"
)

// approvedProposal creates a vault holding 10, with a proposal of amount 2
// approved by the owner.
func approvedProposal(t testing.TB, e *Engine, owner treasury.Address) (uint64, uint64) {
	t.Helper()
	ctx := context.Background()
	id, err := e.CreateVault(ctx, owner, nil)
	assert.Nil(t, err)
	assert.Nil(t, e.Deposit(ctx, owner, id, 10, true))
	index, err := e.CreateProposal(ctx, owner, id, treasurytest.NewAddress(), 2, nil)
	assert.Nil(t, err)
	assert.Nil(t, e.CastVote(ctx, owner, id, index, proposal.SelectionPositive))
	return id, index
}

func TestReentrantExecution(t *testing.T) {
	owner := treasurytest.NewAddress()

	cases := map[string]struct {
		// reenter is called by the transferer with the engine and the
		// execution context.
		reenter func(ctx treasury.Context, e *Engine, vaultID uint64) error
	}{
		"execute again": {
			reenter: func(ctx treasury.Context, e *Engine, vaultID uint64) error {
				return e.Execute(ctx, owner, vaultID, 0)
			},
		},
		"mutate the same vault": {
			reenter: func(ctx treasury.Context, e *Engine, vaultID uint64) error {
				return e.Deposit(ctx, owner, vaultID, 1, false)
			},
		},
		"mutate another vault": {
			reenter: func(ctx treasury.Context, e *Engine, vaultID uint64) error {
				_, err := e.CreateVault(ctx, owner, nil)
				return err
			},
		},
		"mutate the same vault with a fresh context": {
			reenter: func(ctx treasury.Context, e *Engine, vaultID uint64) error {
				return e.Deposit(context.Background(), owner, vaultID, 1, false)
			},
		},
		"generic delivery": {
			reenter: func(ctx treasury.Context, e *Engine, vaultID uint64) error {
				_, err := e.Deliver(ctx, &execution.ExecuteMsg{VaultID: vaultID, Index: 0})
				return err
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				e          *Engine
				reenterErr error
				calls      int
			)
			transferer := execution.TransfererFunc(func(ctx treasury.Context, db treasury.KVStore, vaultID uint64, dest treasury.Address, amount uint64) error {
				calls++
				reenterErr = tc.reenter(ctx, e, vaultID)
				return reenterErr
			})
			e = New(store.MemStore(), WithTransferer(transferer))
			id, index := approvedProposal(t, e, owner)
			ctx := context.Background()

			err := e.Execute(ctx, owner, id, index)
			assert.IsErr(t, execution.ErrTransferFailed, err)
			assert.IsErr(t, ErrReentrantCall, reenterErr)
			assert.Equal(t, 1, calls)

			// nothing changed
			v, err := e.GetVault(ctx, id)
			assert.Nil(t, err)
			assert.Equal(t, uint64(10), v.Balance)
			p, err := e.GetProposal(ctx, id, index)
			assert.Nil(t, err)
			assert.Equal(t, false, p.Executed)
			last, err := e.vaults.LastID(e.db)
			assert.Nil(t, err)
			assert.Equal(t, id, last)
		})
	}
}

func TestReadsDuringExecution(t *testing.T) {
	owner := treasurytest.NewAddress()
	var (
		e    *Engine
		seen *vault.Vault
		err  error
	)
	transferer := execution.TransfererFunc(func(ctx treasury.Context, db treasury.KVStore, vaultID uint64, dest treasury.Address, amount uint64) error {
		// both must return without waiting for the execution to end
		seen, err = e.GetVault(ctx, vaultID)
		if err != nil {
			return err
		}
		_, err = e.GetProposal(context.Background(), vaultID, 0)
		return err
	})
	e = New(store.MemStore(), WithTransferer(transferer))
	id, index := approvedProposal(t, e, owner)

	assert.Nil(t, e.Execute(context.Background(), owner, id, index))
	assert.Nil(t, err)
	// committed state only
	assert.Equal(t, uint64(10), seen.Balance)
}

func TestConcurrentExecution(t *testing.T) {
	owner := treasurytest.NewAddress()
	e := New(store.MemStore())
	id, index := approvedProposal(t, e, owner)
	ctx := context.Background()

	const workers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := e.Execute(ctx, owner, id, index)
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}()
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case proposal.ErrAlreadyExecuted.Is(err), ErrReentrantCall.Is(err):
		default:
			t.Fatalf("unexpected error: %+v", err)
		}
	}
	assert.Equal(t, 1, succeeded)

	v, err := e.GetVault(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, uint64(8), v.Balance)
}

func TestConcurrentDeposits(t *testing.T) {
	e := New(store.MemStore())
	ctx := context.Background()
	owner := treasurytest.NewAddress()

	ids := make([]uint64, 3)
	for i := range ids {
		id, err := e.CreateVault(ctx, owner, nil)
		assert.Nil(t, err)
		ids[i] = id
	}

	const (
		perVault = 20
		creators = 10
	)
	var wg sync.WaitGroup
	// one deposit and one read per vault and round, one result per creator
	errc := make(chan error, perVault*len(ids)*2+creators)
	for _, id := range ids {
		for i := 0; i < perVault; i++ {
			wg.Add(2)
			go func(id uint64) {
				defer wg.Done()
				errc <- e.Deposit(ctx, treasurytest.NewAddress(), id, 1, false)
			}(id)
			go func(id uint64) {
				defer wg.Done()
				_, err := e.GetVault(ctx, id)
				errc <- err
			}(id)
		}
	}
	// vaults created in parallel get distinct identifiers
	created := make(chan uint64, creators)
	for i := 0; i < creators; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := e.CreateVault(ctx, treasurytest.NewAddress(), nil)
			errc <- err
			created <- id
		}()
	}
	wg.Wait()
	close(errc)
	close(created)

	for err := range errc {
		assert.Nil(t, err)
	}
	for _, id := range ids {
		v, err := e.GetVault(ctx, id)
		assert.Nil(t, err)
		assert.Equal(t, uint64(perVault), v.Balance)
	}
	unique := make(map[uint64]bool)
	for id := range created {
		if unique[id] {
			t.Fatalf("vault ID %d assigned twice", id)
		}
		unique[id] = true
	}
}

func TestInvariantsUnderRosterChanges(t *testing.T) {
	e := New(store.MemStore())
	ctx := context.Background()
	owners := []treasury.Address{treasurytest.NewAddress(), treasurytest.NewAddress(), treasurytest.NewAddress()}

	id, err := e.CreateVault(ctx, owners[0], owners[1:])
	assert.Nil(t, err)
	for _, o := range owners[1:] {
		assert.Nil(t, e.ChangeRole(ctx, owners[0], id, o, membership.RoleOwner))
	}
	assert.Nil(t, e.SetRequiredApprovals(ctx, owners[0], id, 2))

	check := func() {
		t.Helper()
		v, err := e.GetVault(ctx, id)
		assert.Nil(t, err)
		var n uint32
		roster, err := e.Members(ctx, id)
		assert.Nil(t, err)
		for _, m := range roster {
			if m.Role == membership.RoleOwner {
				n++
			}
		}
		if n < 1 || v.RequiredApprovals < 1 || v.RequiredApprovals > n {
			t.Fatalf("%d owners with %d required approvals", n, v.RequiredApprovals)
		}
	}

	// Every change is attempted; the ones breaking an invariant fail.
	changes := []func() error{
		func() error { return e.ChangeRole(ctx, owners[0], id, owners[1], membership.RoleUser) },
		func() error { return e.SetMemberActive(ctx, owners[0], id, owners[2], false) },
		func() error { return e.ChangeRole(ctx, owners[0], id, owners[0], membership.RoleUser) },
		func() error { return e.SetRequiredApprovals(ctx, owners[0], id, 1) },
		func() error { return e.SetMemberActive(ctx, owners[0], id, owners[2], false) },
		func() error { return e.ChangeRole(ctx, owners[0], id, owners[0], membership.RoleUser) },
		func() error { return e.SetMemberActive(ctx, owners[0], id, owners[0], false) },
		func() error { return e.SetRequiredApprovals(ctx, owners[0], id, 3) },
	}
	var failed int
	for _, change := range changes {
		if err := change(); err != nil {
			failed++
		}
		check()
	}
	// demoting or deactivating the last owner, and more approvals than owners
	assert.Equal(t, 5, failed)
}

func TestOutbox(t *testing.T) {
	owner := treasurytest.NewAddress()
	ctx := context.Background()

	var (
		mu       sync.Mutex
		received []treasury.Event
		down     bool
	)
	notifier := NotifierFunc(func(ctx treasury.Context, e treasury.Event) error {
		mu.Lock()
		defer mu.Unlock()
		if down {
			return errors.Wrap(errors.ErrState, "notifier down")
		}
		received = append(received, e)
		return nil
	})
	db := store.MemStore()
	e := New(db, WithNotifier(notifier))

	id, err := e.CreateVault(ctx, owner, []treasury.Address{treasurytest.NewAddress()})
	assert.Nil(t, err)
	assert.Equal(t, 1, len(received))
	assert.Equal(t, "vault/create", received[0].Operation)
	assert.Equal(t, id, received[0].VaultID)
	assert.Equal(t, owner, received[0].Caller)

	// rejected mutations emit nothing
	assert.IsErr(t, errors.ErrAmount, e.Deposit(ctx, owner, id, 0, false))
	assert.Equal(t, 1, len(received))

	down = true
	assert.Nil(t, e.Deposit(ctx, owner, id, 5, false))
	assert.Nil(t, e.Deposit(ctx, owner, id, 6, false))
	pending, err := queue.Pending(db, 0)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(pending))

	down = false
	n, err := e.Redeliver(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, len(received))
	amount, _ := received[1].Attr(vault.AttrAmount)
	assert.Equal(t, "5", amount)
	amount, _ = received[2].Attr(vault.AttrAmount)
	assert.Equal(t, "6", amount)

	pending, err = queue.Pending(db, 0)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(pending))
}

func TestSimulate(t *testing.T) {
	owner := treasurytest.NewAddress()
	ctx := treasury.WithCaller(context.Background(), owner)

	var transfers int
	transferer := execution.TransfererFunc(func(treasury.Context, treasury.KVStore, uint64, treasury.Address, uint64) error {
		transfers++
		return nil
	})
	db := store.MemStore()
	e := New(db, WithTransferer(transferer))
	id, index := approvedProposal(t, e, owner)
	before, err := queue.Pending(db, 0)
	assert.Nil(t, err)

	_, err = e.Simulate(ctx, &execution.ExecuteMsg{VaultID: id, Index: index})
	assert.Nil(t, err)
	_, err = e.Simulate(ctx, &vault.DepositMsg{VaultID: id})
	assert.IsErr(t, errors.ErrAmount, err)

	assert.Equal(t, 0, transfers)
	p, err := e.GetProposal(ctx, id, index)
	assert.Nil(t, err)
	assert.Equal(t, false, p.Executed)
	after, err := queue.Pending(db, 0)
	assert.Nil(t, err)
	assert.Equal(t, len(before), len(after))
}

func TestInit(t *testing.T) {
	ctx := context.Background()
	e := New(store.MemStore())
	opts := treasury.Options{
		"conf": []byte(`{"vault": {"voting_policy": "members", "allow_deposit_when_inactive": true}}`),
	}
	assert.Nil(t, e.Init(opts))

	owner := treasurytest.NewAddress()
	user := treasurytest.NewAddress()
	id, err := e.CreateVault(ctx, owner, []treasury.Address{user})
	assert.Nil(t, err)
	index, err := e.CreateProposal(ctx, owner, id, treasurytest.NewAddress(), 1, nil)
	assert.Nil(t, err)

	// members may vote
	assert.Nil(t, e.CastVote(ctx, user, id, index, proposal.SelectionPositive))
	// deposits reach inactive vaults
	assert.Nil(t, e.SetStatus(ctx, owner, id, false))
	assert.Nil(t, e.Deposit(ctx, user, id, 3, false))

	invalid := treasury.Options{
		"conf": []byte(`{"vault": {"voting_policy": "anyone"}}`),
	}
	assert.IsErr(t, errors.ErrInput, e.Init(invalid))
}

func TestCallerMismatch(t *testing.T) {
	e := New(store.MemStore())
	ctx := treasury.WithCaller(context.Background(), treasurytest.NewAddress())
	_, err := e.CreateVault(ctx, treasurytest.NewAddress(), nil)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = e.Deliver(context.Background(), &vault.CreateVaultMsg{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	e := New(store.MemStore(), WithLogger(log.NewTMLogger(log.NewSyncWriter(&buf))))
	ctx := context.Background()
	owner := treasurytest.NewAddress()

	id, err := e.CreateVault(ctx, owner, nil)
	assert.Nil(t, err)
	err = e.SetStatus(ctx, treasurytest.NewAddress(), id, false)
	assert.IsErr(t, vault.ErrNotAMember, err)

	out := buf.String()
	for _, want := range []string{"module=treasury", "op=vault/set_status", "vault=1", "code="} {
		if !strings.Contains(out, want) {
			t.Fatalf("%q not logged in\n%s", want, out)
		}
	}
}
