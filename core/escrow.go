package core

import (
	"encoding/json"
	"time"
)

// Escrow is the per-task vault accounting record (spec.md §3, §4.2). The
// master invariant (E) — vault_balance = total_contributed - total_paid_out
// - total_refunded — is re-checked against the real Ledger balance after
// every mutation, not just against these counters, so a transfer that
// committed but diverged from the counters is still caught.
type Escrow struct {
	TotalContributed uint64 `json:"total_contributed"`
	TotalPaidOut     uint64 `json:"total_paid_out"`
	TotalRefunded    uint64 `json:"total_refunded"`
	IsFrozen         bool   `json:"is_frozen"`
}

// Contribution is one per (task, contributor), cumulative across deposits.
type Contribution struct {
	Contributor    Address   `json:"contributor"`
	Amount         uint64    `json:"amount"`
	Refunded       bool      `json:"refunded"`
	RefundAmount   uint64    `json:"refund_amount"`
	ContributedAt  time.Time `json:"contributed_at"`
}

func initializeEscrow(taskPDA []byte) (*Escrow, error) {
	esc := &Escrow{}
	if err := putEscrow(taskPDA, esc); err != nil {
		return nil, err
	}
	Broadcast(TopicEscrowInitialized, map[string]string{"task": string(taskPDA)})
	return esc, nil
}

// GetEscrow returns the Escrow record for a task.
func GetEscrow(taskPDA []byte) (*Escrow, error) {
	raw, err := getOrNotFound(escrowKeyFor(taskPDA))
	if err != nil {
		return nil, err
	}
	var esc Escrow
	if err := json.Unmarshal(raw, &esc); err != nil {
		return nil, err
	}
	return &esc, nil
}

func putEscrow(taskPDA []byte, esc *Escrow) error {
	raw, err := json.Marshal(esc)
	if err != nil {
		return err
	}
	return CurrentStore().Set(escrowKeyFor(taskPDA), raw)
}

func vaultAddress(taskPDA []byte) Address {
	return ModuleAddress("escrow:" + string(taskPDA))
}

// checkConservation re-derives the vault's real ledger balance and asserts
// it equals total_contributed - total_paid_out - total_refunded. A
// mismatch is fatal: InvariantViolation, never silently tolerated.
func checkConservation(taskPDA []byte, esc *Escrow) error {
	want := esc.TotalContributed - esc.TotalPaidOut - esc.TotalRefunded
	got := CurrentLedger().BalanceOf(vaultAddress(taskPDA))
	if got != want {
		return ErrInvariantViolation
	}
	return nil
}

// Contribute transfers amount from contributor into the task's vault,
// upserting their cumulative Contribution record.
func Contribute(ctx *Context, t *Task, contributor Address, amount uint64) error {
	if amount < MinContribution {
		return ErrContributionTooSmall
	}
	taskPDA := t.PDA()
	esc, err := GetEscrow(taskPDA)
	if err != nil {
		return err
	}
	if esc.IsFrozen {
		return ErrEscrowFrozen
	}

	if err := CurrentLedger().Transfer(contributor, vaultAddress(taskPDA), amount); err != nil {
		return err
	}

	key := contributionKey(taskPDA, contributor)
	var c Contribution
	if raw, err := CurrentStore().Get(key); err == nil {
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
	} else {
		c = Contribution{Contributor: contributor}
	}
	c.Amount += amount
	c.ContributedAt = ctx.Now
	raw, err := json.Marshal(&c)
	if err != nil {
		return err
	}
	if err := CurrentStore().Set(key, raw); err != nil {
		return err
	}

	esc.TotalContributed += amount
	if err := putEscrow(taskPDA, esc); err != nil {
		return err
	}
	if err := checkConservation(taskPDA, esc); err != nil {
		return err
	}
	Broadcast(TopicContributionMade, map[string]interface{}{
		"task_id": t.TaskID, "contributor": contributor.String(), "amount": amount,
	})
	return nil
}

// executePayout transfers amount from the task's vault to recipient and
// records it against total_paid_out. Precondition: ¬is_frozen and amount <=
// available. The caller (task.go) is responsible for the state=Approved
// guard.
func executePayout(taskPDA []byte, recipient Address, amount uint64) error {
	esc, err := GetEscrow(taskPDA)
	if err != nil {
		return err
	}
	if esc.IsFrozen {
		return ErrEscrowFrozen
	}
	available := esc.TotalContributed - esc.TotalPaidOut - esc.TotalRefunded
	if amount > available {
		return ErrInsufficientFunds
	}
	if err := CurrentLedger().Transfer(vaultAddress(taskPDA), recipient, amount); err != nil {
		return err
	}
	esc.TotalPaidOut += amount
	if err := putEscrow(taskPDA, esc); err != nil {
		return err
	}
	if err := checkConservation(taskPDA, esc); err != nil {
		return err
	}
	Broadcast(TopicPayoutExecuted, map[string]interface{}{
		"task": string(taskPDA), "recipient": recipient.String(), "amount": amount,
	})
	return nil
}

// RefundMode selects the settlement split applied to a task's escrow,
// spec.md §4.2.
type RefundMode struct {
	Kind          RefundKind
	PayoutPercent uint8 // only meaningful for PartialPayoutPartialRefund
}

type RefundKind int

const (
	RefundToDonors RefundKind = iota
	PayoutToRecipient
	PartialPayoutPartialRefund
)

// refundBps returns the basis-points share of a contribution refunded
// under mode, per spec.md §4.2's table.
func refundBps(mode RefundMode) uint64 {
	switch mode.Kind {
	case RefundToDonors:
		return 10000
	case PayoutToRecipient:
		return 0
	case PartialPayoutPartialRefund:
		return 10000 - uint64(mode.PayoutPercent)*100
	default:
		return 0
	}
}

// executeRefund refunds a single contributor under mode. Precondition:
// ¬is_frozen, Contribution exists, ¬contribution.refunded.
func executeRefund(taskPDA []byte, contributor Address, mode RefundMode) error {
	esc, err := GetEscrow(taskPDA)
	if err != nil {
		return err
	}
	if esc.IsFrozen {
		return ErrEscrowFrozen
	}
	key := contributionKey(taskPDA, contributor)
	raw, err := getOrNotFound(key)
	if err != nil {
		return err
	}
	var c Contribution
	if err := json.Unmarshal(raw, &c); err != nil {
		return err
	}
	if c.Refunded {
		return ErrAlreadyRefunded
	}

	refundAmount := c.Amount * refundBps(mode) / 10000
	if refundAmount > 0 {
		if err := CurrentLedger().Transfer(vaultAddress(taskPDA), contributor, refundAmount); err != nil {
			return err
		}
	}
	c.Refunded = true
	c.RefundAmount = refundAmount
	updated, err := json.Marshal(&c)
	if err != nil {
		return err
	}
	if err := CurrentStore().Set(key, updated); err != nil {
		return err
	}

	esc.TotalRefunded += refundAmount
	if err := putEscrow(taskPDA, esc); err != nil {
		return err
	}
	if err := checkConservation(taskPDA, esc); err != nil {
		return err
	}
	Broadcast(TopicRefundExecuted, map[string]interface{}{
		"task": string(taskPDA), "contributor": contributor.String(), "amount": refundAmount,
	})
	return nil
}

// ExecuteRefund is the public entry point for refunding a single
// contributor, used by the Rejected -> Refunding -> Refunded sweep.
func ExecuteRefund(t *Task, contributor Address, mode RefundMode) error {
	return executeRefund(t.PDA(), contributor, mode)
}

// allContributionsRefunded reports whether every Contribution for a task
// has refunded = true — the precondition for Refunding -> Refunded.
func allContributionsRefunded(taskPDA []byte) (bool, error) {
	it := CurrentStore().Iterator(contributionPrefix(taskPDA))
	defer it.Close()
	any := false
	for it.Next() {
		any = true
		var c Contribution
		if err := json.Unmarshal(it.Value(), &c); err != nil {
			return false, err
		}
		if !c.Refunded {
			return false, nil
		}
	}
	if err := it.Error(); err != nil {
		return false, err
	}
	return any, nil
}

// ListContributors returns every contributor who has a Contribution record
// against this task, for driving a full refund sweep.
func ListContributors(taskPDA []byte) ([]Contribution, error) {
	it := CurrentStore().Iterator(contributionPrefix(taskPDA))
	defer it.Close()
	var out []Contribution
	for it.Next() {
		var c Contribution
		if err := json.Unmarshal(it.Value(), &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, it.Error()
}

// SettlePartial executes the split settlement of
// PartialPayoutPartialRefund{payout_percent}: the recipient receives
// payout_percent percent of total_contributed in one call, each contributor is
// refunded the complementary share, and any integer-division residue is
// folded into the recipient's payout so that (E) holds with equality.
func SettlePartial(t *Task, recipient Address, payoutPercent uint8) error {
	taskPDA := t.PDA()
	esc, err := GetEscrow(taskPDA)
	if err != nil {
		return err
	}

	contributions, err := ListContributors(taskPDA)
	if err != nil {
		return err
	}
	mode := RefundMode{Kind: PartialPayoutPartialRefund, PayoutPercent: payoutPercent}
	var refundedTotal uint64
	for _, c := range contributions {
		if c.Refunded {
			refundedTotal += c.RefundAmount
			continue
		}
		before := esc.TotalRefunded
		if err := executeRefund(taskPDA, c.Contributor, mode); err != nil {
			return err
		}
		esc, err = GetEscrow(taskPDA)
		if err != nil {
			return err
		}
		refundedTotal += esc.TotalRefunded - before
	}

	grossPayout := esc.TotalContributed * uint64(payoutPercent) / 100
	// Residue from integer division on both the refund and payout legs
	// stays in the vault unless folded here; fold it into the payout so
	// total_contributed == total_paid_out + total_refunded exactly.
	residue := esc.TotalContributed - refundedTotal - grossPayout
	payout := grossPayout + residue
	return executePayout(taskPDA, recipient, payout)
}

// freezeEscrow sets is_frozen = true. Callable only from the Dispute Controller
// (core/dispute.go) — there is no standalone authority-gated entry point,
// per SPEC_FULL.md §5.
func freezeEscrow(taskPDA []byte) error {
	esc, err := GetEscrow(taskPDA)
	if err != nil {
		return err
	}
	esc.IsFrozen = true
	if err := putEscrow(taskPDA, esc); err != nil {
		return err
	}
	Broadcast(TopicEscrowFrozen, map[string]string{"task": string(taskPDA)})
	return nil
}

// unfreezeEscrow sets is_frozen = false.
func unfreezeEscrow(taskPDA []byte) error {
	esc, err := GetEscrow(taskPDA)
	if err != nil {
		return err
	}
	esc.IsFrozen = false
	if err := putEscrow(taskPDA, esc); err != nil {
		return err
	}
	Broadcast(TopicEscrowUnfrozen, map[string]string{"task": string(taskPDA)})
	return nil
}
