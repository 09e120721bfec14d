package treasury

import (
	"encoding/binary"

	"github.com/iov-one/treasury/errors"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/libs/common"
)

// Event is the notification emitted for each successful mutation. The schema
// is stable: operation name, vault, caller, affected entity and operation
// specific attributes.
type Event struct {
	// Operation is the path of the message that caused the change.
	Operation string
	VaultID   uint64
	Caller    Address
	// EntityID is the key of the changed entity within the vault, for
	// example the encoded proposal index or a member identity.
	EntityID   []byte
	Attributes []common.KVPair
}

// NewEvent returns an event without attributes.
func NewEvent(op string, vaultID uint64, caller Address, entityID []byte) Event {
	return Event{
		Operation: op,
		VaultID:   vaultID,
		Caller:    caller,
		EntityID:  entityID,
	}
}

// With returns a copy of the event with given attribute appended.
func (e Event) With(key, value string) Event {
	attrs := make([]common.KVPair, len(e.Attributes), len(e.Attributes)+1)
	copy(attrs, e.Attributes)
	e.Attributes = append(attrs, common.KVPair{Key: []byte(key), Value: []byte(value)})
	return e
}

// Attr returns the value of the first attribute with given key.
func (e Event) Attr(key string) (string, bool) {
	for _, kv := range e.Attributes {
		if string(kv.Key) == key {
			return string(kv.Value), true
		}
	}
	return "", false
}

// EntityIndex decodes the entity ID as a big endian sequence number, which
// is how proposals are identified.
func (e Event) EntityIndex() (uint64, error) {
	if len(e.EntityID) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "entity %X is not an index", e.EntityID)
	}
	return binary.BigEndian.Uint64(e.EntityID), nil
}

var eventCodec = amino.NewCodec()

// eventWire is the binary representation of an event. Tendermint pairs carry
// protobuf bookkeeping fields, so attributes are stored as plain pairs.
type eventWire struct {
	Operation  string
	VaultID    uint64
	Caller     []byte
	EntityID   []byte
	Attributes []attributeWire
}

type attributeWire struct {
	Key   []byte
	Value []byte
}

// Marshal implements Marshaller.
func (e Event) Marshal() ([]byte, error) {
	w := eventWire{
		Operation: e.Operation,
		VaultID:   e.VaultID,
		Caller:    e.Caller,
		EntityID:  e.EntityID,
	}
	for _, kv := range e.Attributes {
		w.Attributes = append(w.Attributes, attributeWire{Key: kv.Key, Value: kv.Value})
	}
	raw, err := eventCodec.MarshalBinaryBare(w)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

// Unmarshal implements Persistent.
func (e *Event) Unmarshal(raw []byte) error {
	var w eventWire
	if err := eventCodec.UnmarshalBinaryBare(raw, &w); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	*e = Event{
		Operation: w.Operation,
		VaultID:   w.VaultID,
		Caller:    w.Caller,
		EntityID:  w.EntityID,
	}
	for _, a := range w.Attributes {
		e.Attributes = append(e.Attributes, common.KVPair{Key: a.Key, Value: a.Value})
	}
	return nil
}
