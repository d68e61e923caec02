package core

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DisputeStatus is the lifecycle of a Dispute record.
type DisputeStatus int

const (
	DisputeOpen DisputeStatus = iota
	DisputeResolved
	DisputeExpired
	// DisputeCancelled is a supplement over spec.md's 3-variant status,
	// grounded in the original Anchor program's dispute-module: the
	// initiator may withdraw an Open dispute before resolution_deadline if
	// no arbitration has started, with no Escrow/Task state to unwind
	// beyond the freeze (SPEC_FULL.md §4). It is additive, not a
	// replacement for Expired.
	DisputeCancelled
)

func (s DisputeStatus) String() string {
	switch s {
	case DisputeOpen:
		return "Open"
	case DisputeResolved:
		return "Resolved"
	case DisputeExpired:
		return "Expired"
	case DisputeCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Resolution is the closed sum of dispute outcomes (spec.md §9: "Enumerated
// settlement modes instead of dynamic callbacks"). It is the same shape as
// RefundMode because both describe the same settlement split; the Dispute
// Controller branches on Kind, never on a function pointer.
type Resolution = RefundMode

// Dispute is one active record per task (spec.md §3).
type Dispute struct {
	ID                 string        `json:"id"`
	Initiator          Address       `json:"initiator"`
	Reason             string        `json:"reason"`
	OpenedAt           time.Time     `json:"opened_at"`
	ResolutionDeadline time.Time     `json:"resolution_deadline"`
	Status             DisputeStatus `json:"status"`
	Resolution         *Resolution   `json:"resolution,omitempty"`
	ResolvedAt         *time.Time    `json:"resolved_at,omitempty"`
	PreDisputeState    TaskState     `json:"pre_dispute_state"`
}

// OpenDispute may be called by any participant against a non-terminal task.
// It freezes the task's Escrow, records the state to restore on expiry or
// cancellation, and moves the task to Disputed.
func OpenDispute(ctx *Context, t *Task, reason string) (*Dispute, error) {
	taskPDA := t.PDA()
	if _, err := getOrNotFound(disputeKey(taskPDA)); err == nil {
		return nil, ErrInvalidState
	} else if err != ErrNotFound {
		return nil, err
	}

	preState := t.State
	if err := transition(ctx, t, TaskDisputed); err != nil {
		return nil, err
	}
	if err := freezeEscrow(taskPDA); err != nil {
		return nil, err
	}

	d := &Dispute{
		ID:                 uuid.New().String(),
		Initiator:          ctx.Caller,
		Reason:             reason,
		OpenedAt:           ctx.Now,
		ResolutionDeadline: ctx.Now.Add(time.Duration(DisputeWindowSecs) * time.Second),
		Status:             DisputeOpen,
		PreDisputeState:    preState,
	}
	if err := putDispute(taskPDA, d); err != nil {
		return nil, err
	}
	Broadcast(TopicDisputeOpened, d)
	return d, nil
}

// ResolveDispute is authority-gated (governance) and valid only while the
// Dispute is Open. It unfreezes the Escrow, routes the settlement by
// Resolution.Kind, and advances the Task accordingly.
func ResolveDispute(ctx *Context, t *Task, resolution Resolution, gov GovernanceAuthoritySet) error {
	if !gov.IsGovernance(ctx.Caller) {
		return ErrUnauthorizedResolver
	}
	taskPDA := t.PDA()
	d, err := GetDispute(taskPDA)
	if err != nil {
		return err
	}
	if d.Status != DisputeOpen {
		return ErrDisputeNotOpen
	}

	if err := unfreezeEscrow(taskPDA); err != nil {
		return err
	}

	switch resolution.Kind {
	case PayoutToRecipient:
		if t.Recipient == nil {
			return ErrRecipientNotSet
		}
		if err := transition(ctx, t, TaskApproved); err != nil {
			return err
		}
		esc, err := GetEscrow(taskPDA)
		if err != nil {
			return err
		}
		available := esc.TotalContributed - esc.TotalPaidOut - esc.TotalRefunded
		if err := executePayout(taskPDA, *t.Recipient, available); err != nil {
			return err
		}
		if err := transition(ctx, t, TaskPaidOut); err != nil {
			return err
		}
	case RefundToDonors:
		if err := transition(ctx, t, TaskRejected); err != nil {
			return err
		}
		if err := transition(ctx, t, TaskRefunding); err != nil {
			return err
		}
	case PartialPayoutPartialRefund:
		if t.Recipient == nil {
			return ErrRecipientNotSet
		}
		if err := SettlePartial(t, *t.Recipient, resolution.PayoutPercent); err != nil {
			return err
		}
		if err := transition(ctx, t, TaskApproved); err != nil {
			return err
		}
		if err := transition(ctx, t, TaskPaidOut); err != nil {
			return err
		}
	default:
		return ErrInvalidState
	}

	d.Resolution = &resolution
	d.Status = DisputeResolved
	resolvedAt := ctx.Now
	d.ResolvedAt = &resolvedAt
	if err := putDispute(taskPDA, d); err != nil {
		return err
	}
	Broadcast(TopicDisputeResolved, d)
	return nil
}

// ExpireDispute may be called by anyone once now > resolution_deadline
// while the Dispute is still Open: it unfreezes the Escrow and restores the
// task to its pre-dispute state.
func ExpireDispute(ctx *Context, t *Task) error {
	taskPDA := t.PDA()
	d, err := GetDispute(taskPDA)
	if err != nil {
		return err
	}
	if d.Status != DisputeOpen {
		return ErrDisputeNotOpen
	}
	if !ctx.Now.After(d.ResolutionDeadline) {
		return ErrInvalidState
	}
	return expire(ctx, t, d, DisputeExpired)
}

// CancelDispute lets the initiator withdraw an Open dispute before
// resolution_deadline, restoring the pre-dispute state. Supplemented from
// the original Anchor dispute-module per SPEC_FULL.md §4.
func CancelDispute(ctx *Context, t *Task) error {
	taskPDA := t.PDA()
	d, err := GetDispute(taskPDA)
	if err != nil {
		return err
	}
	if d.Status != DisputeOpen {
		return ErrDisputeNotOpen
	}
	if d.Initiator != ctx.Caller {
		return ErrUnauthorizedCreator
	}
	if ctx.Now.After(d.ResolutionDeadline) {
		return ErrInvalidState
	}
	return expire(ctx, t, d, DisputeCancelled)
}

func expire(ctx *Context, t *Task, d *Dispute, status DisputeStatus) error {
	taskPDA := t.PDA()
	if err := unfreezeEscrow(taskPDA); err != nil {
		return err
	}
	t.State = d.PreDisputeState
	t.UpdatedAt = ctx.Now
	t.StateChangedAt = ctx.Now
	if err := putTask(t); err != nil {
		return err
	}
	d.Status = status
	if status == DisputeExpired {
		resolvedAt := ctx.Now
		d.ResolvedAt = &resolvedAt
	}
	if err := putDispute(taskPDA, d); err != nil {
		return err
	}
	topic := TopicDisputeExpired
	Broadcast(topic, d)
	return nil
}

// GetDispute returns the Dispute record for a task.
func GetDispute(taskPDA []byte) (*Dispute, error) {
	raw, err := getOrNotFound(disputeKey(taskPDA))
	if err != nil {
		return nil, err
	}
	var d Dispute
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func putDispute(taskPDA []byte, d *Dispute) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return CurrentStore().Set(disputeKey(taskPDA), raw)
}
