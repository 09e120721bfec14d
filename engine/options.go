package engine

import (
	"github.com/iov-one/treasury/x/execution"
	"github.com/tendermint/tendermint/libs/log"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default one drops everything.
func WithLogger(l log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithNotifier sets the event notifier. By default events are dropped once
// written.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithTransferer sets the collaborator moving value out of the vaults. By
// default executed proposals are credited to the in-store cash ledger.
func WithTransferer(t execution.Transferer) Option {
	return func(e *Engine) {
		e.transferer = t
	}
}
