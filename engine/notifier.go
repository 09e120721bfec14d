package engine

import (
	"github.com/iov-one/treasury"
	"github.com/tendermint/tendermint/libs/log"
)

// Notifier delivers the events of committed mutations. An event that was
// not accepted stays in the outbox and is retried by Engine.Redeliver, so
// delivery is at least once.
//
// Notify may query the engine. It must not request mutations.
type Notifier interface {
	Notify(ctx treasury.Context, e treasury.Event) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx treasury.Context, e treasury.Event) error

func (fn NotifierFunc) Notify(ctx treasury.Context, e treasury.Event) error {
	return fn(ctx, e)
}

// NopNotifier accepts and drops all events.
type NopNotifier struct{}

func (NopNotifier) Notify(treasury.Context, treasury.Event) error {
	return nil
}

// LogNotifier writes every event to the logger.
type LogNotifier struct {
	Logger log.Logger
}

func (n LogNotifier) Notify(ctx treasury.Context, e treasury.Event) error {
	keyvals := []interface{}{
		"vault", e.VaultID,
		"caller", e.Caller,
		"entity", e.EntityID,
	}
	for _, kv := range e.Attributes {
		keyvals = append(keyvals, string(kv.Key), string(kv.Value))
	}
	n.Logger.Info(e.Operation, keyvals...)
	return nil
}
