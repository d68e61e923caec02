// Package core implements the on-chain coordination engine for the
// crowdfunded-task platform: campaign and task lifecycles, the weighted
// median budget aggregator, per-task escrow accounting, and the dispute
// resolution protocol that cross-cuts all three.
//
// Every exported type here is a per-task or per-campaign record; there is no
// global mutable state beyond the process-wide, read-only governance
// parameters in config.go, the pluggable KVStore that backs persistence, the
// installed Ledger, and the event bus's subscriber list.
package core
