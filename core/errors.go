package core

import "errors"

// Validation errors — malformed or out-of-bounds input, never retried.
var (
	ErrInvalidCampaignID  = errors.New("invalid campaign id")
	ErrInvalidTitle       = errors.New("invalid title")
	ErrInvalidDescription = errors.New("invalid description")
	ErrInvalidMetadataURI = errors.New("invalid metadata uri")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidTaskID      = errors.New("invalid task id")
	ErrInvalidDeliverables = errors.New("invalid deliverables")
)

// Authorization errors — wrong signer, terminal for the transaction.
var (
	ErrUnauthorizedCreator   = errors.New("unauthorized: not the creator")
	ErrUnauthorizedRecipient = errors.New("unauthorized: not the recipient")
	ErrUnauthorizedPayout    = errors.New("unauthorized: payout authority required")
	ErrUnauthorizedRefund    = errors.New("unauthorized: refund authority required")
	ErrUnauthorizedResolver  = errors.New("unauthorized: dispute resolver authority required")
)

// State errors — operation illegal in the current lifecycle state.
var (
	ErrInvalidState           = errors.New("invalid state")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrNotEditable            = errors.New("campaign not editable outside Draft")
	ErrCannotAddTasks         = errors.New("campaign cannot accept new tasks")
	ErrHasActiveTasks         = errors.New("campaign has non-terminal tasks")
	ErrBudgetNotFinalized     = errors.New("budget not finalized")
	ErrNotFullyFunded         = errors.New("task not fully funded")
	ErrRecipientNotSet        = errors.New("recipient not set")
	ErrDeadlinePassed         = errors.New("deadline passed")
	ErrDisputeNotOpen         = errors.New("dispute not open")
	ErrProofAlreadySubmitted = errors.New("proof already submitted")
	ErrNoProofSubmitted      = errors.New("no proof submitted")
)

// Economic errors — value-movement preconditions.
var (
	ErrContributionTooSmall = errors.New("contribution below minimum")
	ErrQuorumNotMet         = errors.New("quorum not met")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrAlreadyRefunded      = errors.New("already refunded")
	ErrExceedsTotalSupply   = errors.New("exceeds total supply")
	ErrEscrowFrozen         = errors.New("escrow frozen")
)

// Integrity errors — fatal, never recovered automatically.
var ErrInvariantViolation = errors.New("invariant violation")

// ErrNotFound is returned when a record looked up by key does not exist.
var ErrNotFound = errors.New("resource not found")
