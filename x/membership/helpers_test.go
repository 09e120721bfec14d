package membership

import (
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/gconf"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/x/vault"
)

func newTestRouter() (treasurytest.Router, *Ledger) {
	r := make(treasurytest.Router)
	l := NewLedger()
	vault.RegisterRoutes(r, l)
	RegisterRoutes(r, l)
	return r, l
}

// createVault creates a vault through the registry and returns its ID.
func createVault(t testing.TB, r treasurytest.Router, db treasury.KVStore, creator treasury.Address, users ...treasury.Address) uint64 {
	t.Helper()
	res, err := r.Deliver(treasurytest.CallerCtx(creator), db, &vault.CreateVaultMsg{Users: users})
	if err != nil {
		t.Fatalf("cannot create vault: %+v", err)
	}
	id, err := orm.DecodeSequence(res.Data)
	if err != nil {
		t.Fatalf("cannot decode vault ID: %s", err)
	}
	return id
}

func mustDeliver(t testing.TB, r treasurytest.Router, db treasury.KVStore, caller treasury.Address, msg treasury.Msg) *treasury.Result {
	t.Helper()
	res, err := r.Deliver(treasurytest.CallerCtx(caller), db, msg)
	if err != nil {
		t.Fatalf("cannot deliver %T: %+v", msg, err)
	}
	return res
}

func saveConf(db treasury.KVStore, conf *vault.Configuration) error {
	return gconf.Save(db, vault.ConfigurationPkg, conf)
}
