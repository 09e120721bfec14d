package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

type contextKey int

const contextKeyMutation contextKey = iota

// inMutation returns true if the context belongs to a running mutation.
func inMutation(ctx treasury.Context) bool {
	_, ok := ctx.Value(contextKeyMutation).(uint64)
	return ok
}

// VaultGuard serializes the mutations of each vault. Mutations of
// different vaults run in parallel, vault creation holds the registry lock.
//
// A mutation is rejected with ErrReentrantCall when requested from within
// another mutation, or while an execution on the same vault is in flight.
type VaultGuard struct {
	// isExecution tells which messages mark the vault as executing.
	isExecution func(treasury.Msg) bool

	registry sync.Mutex

	mu     sync.Mutex
	vaults map[uint64]*vaultLock
}

type vaultLock struct {
	sync.RWMutex
	// refs counts the callers using the lock, guarded by VaultGuard.mu.
	refs int

	executing   int32
	dispatching int32
}

// bypass returns true when the holder of the exclusive lock may call back
// into the engine, so that readers must not wait for it.
func (l *vaultLock) bypass() bool {
	return atomic.LoadInt32(&l.executing) == 1 || atomic.LoadInt32(&l.dispatching) > 0
}

var _ treasury.Decorator = (*VaultGuard)(nil)

// NewVaultGuard returns a guard. isExecution may be nil.
func NewVaultGuard(isExecution func(treasury.Msg) bool) *VaultGuard {
	if isExecution == nil {
		isExecution = func(treasury.Msg) bool { return false }
	}
	return &VaultGuard{
		isExecution: isExecution,
		vaults:      make(map[uint64]*vaultLock),
	}
}

// acquire returns the lock of the vault. Every acquire must be followed by
// a release, the entry is dropped once nobody uses it.
func (g *VaultGuard) acquire(vaultID uint64) *vaultLock {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.vaults[vaultID]
	if !ok {
		l = &vaultLock{}
		g.vaults[vaultID] = l
	}
	l.refs++
	return l
}

func (g *VaultGuard) release(vaultID uint64, l *vaultLock) {
	g.mu.Lock()
	defer g.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(g.vaults, vaultID)
	}
}

// Deliver runs the mutation while holding the exclusive lock of its vault.
func (g *VaultGuard) Deliver(ctx treasury.Context, db treasury.KVStore, msg treasury.Msg, next treasury.Handler) (*treasury.Result, error) {
	if inMutation(ctx) {
		return nil, errors.Wrapf(ErrReentrantCall, "%s from within a mutation", msg.Path())
	}

	vm, ok := msg.(treasury.VaultMsg)
	if !ok {
		g.registry.Lock()
		defer g.registry.Unlock()
		return next.Deliver(withMutation(ctx, 0), db, msg)
	}

	vaultID := vm.GetVaultID()
	l := g.acquire(vaultID)
	defer g.release(vaultID, l)
	if atomic.LoadInt32(&l.executing) == 1 {
		return nil, errors.Field("VaultID", ErrReentrantCall, "%d", vaultID)
	}
	l.Lock()
	defer l.Unlock()
	if g.isExecution(msg) {
		atomic.StoreInt32(&l.executing, 1)
		defer atomic.StoreInt32(&l.executing, 0)
	}
	return next.Deliver(withMutation(ctx, vaultID), db, msg)
}

// Read runs fn while holding the shared lock of the vault. From within a
// mutation, or while the vault is executing or dispatching its events, fn
// runs without the lock, since waiting for it would never end.
func (g *VaultGuard) Read(ctx treasury.Context, vaultID uint64, fn func() error) error {
	if inMutation(ctx) {
		return fn()
	}
	l := g.acquire(vaultID)
	defer g.release(vaultID, l)
	if l.bypass() {
		return fn()
	}
	l.RLock()
	defer l.RUnlock()
	return fn()
}

// Exclusive runs fn while holding the exclusive lock of the vault.
func (g *VaultGuard) Exclusive(vaultID uint64, fn func() error) error {
	l := g.acquire(vaultID)
	defer g.release(vaultID, l)
	l.Lock()
	defer l.Unlock()
	return fn()
}

// Dispatch runs fn with the vault marked as dispatching. Reads of the vault
// do not wait for its lock meanwhile, so that fn may query the engine. The
// state is already written when events are dispatched.
func (g *VaultGuard) Dispatch(vaultID uint64, fn func() error) error {
	l := g.acquire(vaultID)
	defer g.release(vaultID, l)
	atomic.AddInt32(&l.dispatching, 1)
	defer atomic.AddInt32(&l.dispatching, -1)
	return fn()
}

func withMutation(ctx treasury.Context, vaultID uint64) treasury.Context {
	return context.WithValue(ctx, contextKeyMutation, vaultID)
}
