package engine

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/gconf"
	"github.com/iov-one/treasury/queue"
	"github.com/iov-one/treasury/x/cash"
	"github.com/iov-one/treasury/x/execution"
	"github.com/iov-one/treasury/x/membership"
	"github.com/iov-one/treasury/x/proposal"
	"github.com/iov-one/treasury/x/quorum"
	"github.com/iov-one/treasury/x/utils"
	"github.com/iov-one/treasury/x/vault"
	"github.com/tendermint/tendermint/libs/log"
)

// Engine is a treasury instance. It is safe for concurrent use.
type Engine struct {
	db         treasury.CacheableKVStore
	logger     log.Logger
	notifier   Notifier
	transferer execution.Transferer

	guard      *VaultGuard
	dispatcher Dispatcher
	deliver    treasury.Handler
	simulate   treasury.Handler

	ledger    *membership.Ledger
	vaults    *vault.Bucket
	proposals *proposal.Store
	cash      *cash.Ledger
}

// New returns an engine operating on db.
func New(db treasury.CacheableKVStore, opts ...Option) *Engine {
	e := &Engine{
		db:        db,
		logger:    log.NewNopLogger(),
		notifier:  NopNotifier{},
		ledger:    membership.NewLedger(),
		vaults:    vault.NewBucket(),
		proposals: proposal.NewStore(),
		cash:      cash.NewLedger(),
	}
	for _, fn := range opts {
		fn(e)
	}
	if e.transferer == nil {
		e.transferer = e.cash
	}
	e.logger = e.logger.With("module", "treasury")

	e.guard = NewVaultGuard(isExecution)
	e.dispatcher = NewDispatcher(e.notifier, e.guard)
	e.deliver = ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		e.guard,
		Commit{},
		e.dispatcher,
		utils.NewSavepoint(),
		Outbox{},
	).WithHandler(e.router(e.transferer))

	// A dry run never calls an external transferer. The cash ledger
	// writes to the store only and can be used as is.
	dry := execution.Transferer(e.cash)
	if e.transferer != execution.Transferer(e.cash) {
		dry = execution.TransfererFunc(func(treasury.Context, treasury.KVStore, uint64, treasury.Address, uint64) error {
			return nil
		})
	}
	e.simulate = ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		e.guard,
	).WithHandler(e.router(dry))
	return e
}

func (e *Engine) router(t execution.Transferer) *Router {
	r := NewRouter()
	vault.RegisterRoutes(r, e.ledger)
	membership.RegisterRoutes(r, e.ledger)
	proposal.RegisterRoutes(r, e.ledger, e.proposals)
	quorum.RegisterRoutes(r, e.ledger, e.proposals)
	execution.RegisterRoutes(r, e.ledger, e.proposals, t)
	return r
}

func isExecution(msg treasury.Msg) bool {
	_, ok := msg.(*execution.ExecuteMsg)
	return ok
}

// Init stores the configuration found in opts under "conf". Missing
// values keep their defaults.
//
//	{"conf": {"vault": {"voting_policy": "members"}}}
func (e *Engine) Init(opts treasury.Options) error {
	e.guard.registry.Lock()
	defer e.guard.registry.Unlock()

	conf, err := vault.LoadConfiguration(e.db)
	if err != nil {
		return err
	}
	cache := e.db.CacheWrap()
	defer cache.Discard()
	if err := gconf.InitConfig(cache, opts, vault.ConfigurationPkg, conf); err != nil {
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write configuration")
	}
	e.logger.Info("configuration", "voting_policy", conf.VotingPolicy,
		"proposal_policy", conf.ProposalPolicy,
		"allow_deposit_when_inactive", conf.AllowDepositWhenInactive)
	return nil
}

// Deliver runs a mutation on behalf of the caller carried by ctx.
func (e *Engine) Deliver(ctx treasury.Context, msg treasury.Msg) (*treasury.Result, error) {
	return e.deliver.Deliver(e.withLogger(ctx, msg), e.db, msg)
}

// Simulate runs a mutation against a throwaway copy of the state. Nothing
// is written and no event is emitted.
func (e *Engine) Simulate(ctx treasury.Context, msg treasury.Msg) (*treasury.Result, error) {
	cache := e.db.CacheWrap()
	defer cache.Discard()
	return e.simulate.Deliver(e.withLogger(ctx, msg), cache, msg)
}

// Redeliver hands the events left in the outbox to the notifier, vault by
// vault. It returns the number of delivered events.
func (e *Engine) Redeliver(ctx treasury.Context) (int, error) {
	pending, err := queue.Pending(e.db, 0)
	if err != nil {
		return 0, err
	}
	var vaultIDs []uint64
	for i, p := range pending {
		if i == 0 || pending[i-1].Event.VaultID != p.Event.VaultID {
			vaultIDs = append(vaultIDs, p.Event.VaultID)
		}
	}

	ctx = treasury.WithLogger(ctx, e.logger)
	var total int
	for _, id := range vaultIDs {
		err := e.guard.Exclusive(id, func() error {
			n, err := e.dispatcher.flush(ctx, e.db, id)
			total += n
			return err
		})
		if err != nil {
			return total, err
		}
	}
	if c, ok := e.db.(treasury.Committer); ok && total > 0 {
		if _, err := c.Commit(); err != nil {
			return total, errors.Wrap(err, "commit")
		}
	}
	return total, nil
}

func (e *Engine) withLogger(ctx treasury.Context, msg treasury.Msg) treasury.Context {
	logger := e.logger.With("op", msg.Path())
	if vm, ok := msg.(treasury.VaultMsg); ok {
		logger = logger.With("vault", vm.GetVaultID())
	}
	return treasury.WithLogger(ctx, logger)
}
