package treasury

import (
	"encoding/json"
	"reflect"
	"regexp"

	"github.com/iov-one/treasury/errors"
)

// Msg is a request to take an action on a vault. It is just the request,
// and must be authorized by the Handlers. The caller identity is carried on
// the context, never inside of the message.
type Msg interface {
	// Path returns the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to them.
	Path() string

	// Validate performs stateless checks of the message content.
	Validate() error
}

// VaultMsg is implemented by all messages that operate on an existing vault.
// Those are serialized by the engine using the per vault lock.
type VaultMsg interface {
	Msg
	GetVaultID() uint64
}

// Marshaller is anything that can be represented in binary
//
// Marshall may validate the data before serializing it and
// unless you previously validated the struct,
// errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal
//
// This is separated from Marshal, as this almost always requires
// a pointer, and functions that only need to marshal bytes can
// use the Marshaller interface to access non-pointers.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Handler is a core engine that can process a few specific messages
// This could represent "create a proposal", or "cast a vote".
type Handler interface {
	Deliver(ctx Context, store KVStore, msg Msg) (*Result, error)
}

// HandlerFunc is an adapter that allows the use of an ordinary function as
// a Handler.
type HandlerFunc func(ctx Context, store KVStore, msg Msg) (*Result, error)

// Deliver implements Handler.
func (fn HandlerFunc) Deliver(ctx Context, store KVStore, msg Msg) (*Result, error) {
	return fn(ctx, store, msg)
}

// Decorator wraps a Handler to provide common functionality
// like locking, logging or atomic writes, to many Handlers
type Decorator interface {
	Deliver(ctx Context, store KVStore, msg Msg, next Handler) (*Result, error)
}

var isPath = regexp.MustCompile(`^[a-z0-9_\-]{3,20}/[a-z0-9_\-]{3,20}$`).MatchString

// ValidatePath returns an error if the given message path is not well formed.
func ValidatePath(path string) error {
	if !isPath(path) {
		return errors.Wrapf(errors.ErrInput, "invalid path %q", path)
	}
	return nil
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(path string, h Handler)
}

// Result is the outcome of a successfully processed message.
type Result struct {
	// Data is the operation specific result, for example the encoded
	// identifier of a created entity.
	Data []byte
	// Events are emitted for every state change the message caused.
	Events []Event
}

// Options are the engine options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "options %q: %s", key, err)
	}
	return nil
}

// Initializer implementations are used to initialize
// extensions from options file contents
type Initializer interface {
	FromOptions(Options, KVStore) error
}

// LoadMsg sets given destination to the message instance, if the types
// match, and validates it. Destination must be a pointer to a message
// pointer, for example:
//
//	var msg *CreateVaultMsg
//	if err := treasury.LoadMsg(m, &msg); err != nil {
//		return nil, err
//	}
func LoadMsg(msg Msg, destination interface{}) error {
	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.IsNil() {
		return errors.Wrapf(errors.ErrHuman, "destination must be a non nil pointer, got %T", destination)
	}
	src := reflect.ValueOf(msg)
	if !src.IsValid() || !src.Type().AssignableTo(dest.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "want %s message, got %T", dest.Elem().Type(), msg)
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	dest.Elem().Set(src)
	return nil
}
