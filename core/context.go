package core

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Context carries the transaction-level fields every handler needs: who is
// calling, and when. The underlying ledger that actually signs and commits
// the transaction is an external collaborator (spec.md §1); Context is the
// minimal surface this package needs from it.
type Context struct {
	Caller Address
	Now    time.Time
}

// NewContext builds a Context for the given caller, stamped with the
// current time. Handlers needing a fixed clock for testing should construct
// Context literals directly instead.
func NewContext(caller Address) *Context {
	return &Context{Caller: caller, Now: time.Now().UTC()}
}

// Ledger is the minimal value-transfer primitive this package depends on.
// spec.md §1 deliberately externalizes "the fungible-token transfer
// primitive used for value movement" — this interface is the seam across
// which the Escrow Ledger (core/escrow.go) calls into it. A process wiring
// this package to a real chain supplies its own implementation; tests use
// NewMemoryLedger.
type Ledger interface {
	Transfer(from, to Address, amount uint64) error
	BalanceOf(addr Address) uint64
}

// ModuleAddress derives a stable pseudo-account for a named module (e.g.
// the per-task escrow vault), the same way the teacher derives module
// accounts: a domain-separated hash of the module name.
func ModuleAddress(module string) Address {
	sum := sha256.Sum256([]byte("module:" + module))
	var a Address
	copy(a[:], sum[:])
	return a
}

// ParseAddress decodes a hex-encoded 32-byte principal.
func ParseAddress(s string) (Address, error) {
	var a Address
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, err
	}
	if len(b) != len(a) {
		return a, errAddressLength
	}
	copy(a[:], b)
	return a, nil
}

var errAddressLength = &addressLengthError{}

type addressLengthError struct{}

func (e *addressLengthError) Error() string { return "address must decode to exactly 32 bytes" }

// MemoryLedger is a minimal in-process Ledger used by tests and as the
// package's default Ledger until SetLedger installs another: a flat balance
// map with no double-entry accounting
// beyond what Escrow itself already enforces.
type MemoryLedger struct {
	balances map[Address]uint64
}

// NewMemoryLedger constructs a MemoryLedger, seeding each address in
// initial with the given balance.
func NewMemoryLedger(initial map[Address]uint64) *MemoryLedger {
	l := &MemoryLedger{balances: make(map[Address]uint64, len(initial))}
	for a, b := range initial {
		l.balances[a] = b
	}
	return l
}

func (l *MemoryLedger) Transfer(from, to Address, amount uint64) error {
	if l.balances[from] < amount {
		return ErrInsufficientFunds
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

func (l *MemoryLedger) BalanceOf(addr Address) uint64 {
	return l.balances[addr]
}

// Credit adds amount to addr's balance without debiting anywhere — used to
// seed contributors and the governance mint authority in tests.
func (l *MemoryLedger) Credit(addr Address, amount uint64) {
	l.balances[addr] += amount
}

var activeLedger Ledger = NewMemoryLedger(nil)

// SetLedger installs the Ledger every Escrow operation moves value through.
// Call once at process startup with a real chain-backed implementation;
// tests may swap in a fresh MemoryLedger per case.
func SetLedger(l Ledger) { activeLedger = l }

// CurrentLedger returns the process-wide Ledger.
func CurrentLedger() Ledger { return activeLedger }
