package proposal

import (
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/x/membership"
	"github.com/iov-one/treasury/x/vault"
)

func newTestRouter() (treasurytest.Router, *Store) {
	r := make(treasurytest.Router)
	l := membership.NewLedger()
	s := NewStore()
	vault.RegisterRoutes(r, l)
	membership.RegisterRoutes(r, l)
	RegisterRoutes(r, l, s)
	return r, s
}

func mustDeliver(t testing.TB, r treasurytest.Router, db treasury.KVStore, caller treasury.Address, msg treasury.Msg) *treasury.Result {
	t.Helper()
	res, err := r.Deliver(treasurytest.CallerCtx(caller), db, msg)
	if err != nil {
		t.Fatalf("cannot deliver %T: %+v", msg, err)
	}
	return res
}
