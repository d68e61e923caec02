package core

import "time"

// resetState installs a fresh InMemoryStore and MemoryLedger so tests never
// leak records or balances across cases.
func resetState() *MemoryLedger {
	SetStore(NewInMemoryStore())
	ledger := NewMemoryLedger(nil)
	SetLedger(ledger)
	return ledger
}

func addr(b byte) Address {
	var a Address
	a[0] = b
	return a
}

func ctxAt(caller Address, when time.Time) *Context {
	return &Context{Caller: caller, Now: when}
}
