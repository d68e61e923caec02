package core

import (
	"encoding/json"
	"time"
)

// TaskState is the 13-variant Task lifecycle of spec.md §4.3.
type TaskState int

const (
	TaskDraft TaskState = iota
	TaskVotingBudget
	TaskBudgetFinalized
	TaskFundingOpen
	TaskFunded
	TaskInProgress
	TaskSubmittedForReview
	TaskApproved
	TaskPaidOut
	TaskRejected
	TaskRefunding
	TaskRefunded
	TaskDisputed
)

func (s TaskState) String() string {
	names := [...]string{
		"Draft", "VotingBudget", "BudgetFinalized", "FundingOpen", "Funded",
		"InProgress", "SubmittedForReview", "Approved", "PaidOut", "Rejected",
		"Refunding", "Refunded", "Disputed",
	}
	if int(s) < 0 || int(s) >= len(names) {
		return "Unknown"
	}
	return names[s]
}

// IsTerminal reports whether s has no outgoing transitions.
func (s TaskState) IsTerminal() bool {
	return s == TaskPaidOut || s == TaskRefunded
}

// legalTransitions is the exhaustive adjacency table of spec.md §4.3. Any
// pair not listed here (besides the additive ANY -> Disputed rule checked
// separately) is InvalidStateTransition. Keeping this as a dense map, not
// scattered if-chains, is what lets the guard be mechanically exhaustive.
var legalTransitions = map[TaskState][]TaskState{
	TaskDraft:              {TaskVotingBudget},
	TaskVotingBudget:       {TaskBudgetFinalized},
	TaskBudgetFinalized:    {TaskFundingOpen},
	TaskFundingOpen:        {TaskFunded, TaskRefunding},
	TaskFunded:             {TaskInProgress},
	TaskInProgress:         {TaskSubmittedForReview, TaskRefunding},
	TaskSubmittedForReview: {TaskApproved, TaskRejected, TaskDisputed},
	TaskApproved:           {TaskPaidOut},
	TaskRejected:           {TaskRefunding},
	TaskRefunding:          {TaskRefunded},
	TaskDisputed:           {TaskApproved, TaskRejected},
}

func canTransition(from, to TaskState) bool {
	if to == TaskDisputed {
		return !from.IsTerminal()
	}
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Task is the child of a Campaign and the primary state machine (spec.md §3).
type Task struct {
	CampaignCreator Address    `json:"campaign_creator"`
	CampaignID      string     `json:"campaign_id"`
	TaskID          string     `json:"task_id"`
	Creator         Address    `json:"creator"`
	Recipient       *Address   `json:"recipient,omitempty"`
	Title           string     `json:"title"`
	Deliverables    string     `json:"deliverables"`
	TargetBudget    uint64     `json:"target_budget"`
	FinalizedBudget *uint64    `json:"finalized_budget,omitempty"`
	Deadline        *int64     `json:"deadline,omitempty"`
	State           TaskState  `json:"state"`
	ProofHash       *string    `json:"proof_hash,omitempty"`
	ProofURI        *string    `json:"proof_uri,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	StateChangedAt  time.Time  `json:"state_changed_at"`
}

// PDA returns this task's opaque storage handle, derived from its owning
// campaign's PDA and its own human-chosen task_id.
func (t *Task) PDA() []byte {
	return TaskPDA(t.Campaign().PDA(), t.TaskID)
}

// Campaign reconstructs the (creator, campaign_id) pair this task belongs
// to, sufficient to look the owning Campaign back up.
func (t *Task) Campaign() *Campaign {
	return &Campaign{Creator: t.CampaignCreator, CampaignID: t.CampaignID}
}

// CreateTask creates a Task in Draft under campaign, auto-attaching it
// (incrementing Campaign.TasksCount and transitioning Published -> Active
// on first attachment), and initializes its Escrow and BudgetAggregate.
func CreateTask(ctx *Context, campaign *Campaign, taskID, title, deliverables string, targetBudget uint64, deadline *int64) (*Task, error) {
	if !ValidID(taskID, IDMaxLen) {
		return nil, ErrInvalidTaskID
	}
	if len(title) == 0 || len(title) > TitleMaxLen {
		return nil, ErrInvalidTitle
	}
	if len(deliverables) == 0 {
		return nil, ErrInvalidDeliverables
	}
	if campaign.Creator != ctx.Caller {
		return nil, ErrUnauthorizedCreator
	}

	t := &Task{
		CampaignCreator: campaign.Creator,
		CampaignID:      campaign.CampaignID,
		TaskID:          taskID,
		Creator:         ctx.Caller,
		Title:           title,
		Deliverables:    deliverables,
		TargetBudget:    targetBudget,
		Deadline:        deadline,
		State:           TaskDraft,
		CreatedAt:       ctx.Now,
		UpdatedAt:       ctx.Now,
		StateChangedAt:  ctx.Now,
	}
	if err := attachTask(ctx, campaign); err != nil {
		return nil, err
	}
	if err := putTask(t); err != nil {
		return nil, err
	}
	if _, err := initializeEscrow(t.PDA()); err != nil {
		return nil, err
	}
	if err := initializeBudgetAggregate(t.PDA()); err != nil {
		return nil, err
	}
	Broadcast(TopicTaskAddedToCampaign, map[string]string{"campaign_id": campaign.CampaignID, "task_id": taskID})
	Broadcast(TopicTaskCreated, t)
	return t, nil
}

// transition moves t from its current state to to, enforcing the
// adjacency table and stamping StateChangedAt, then persists and emits
// TaskStateChanged.
func transition(ctx *Context, t *Task, to TaskState) error {
	if !canTransition(t.State, to) {
		return ErrInvalidStateTransition
	}
	from := t.State
	t.State = to
	t.UpdatedAt = ctx.Now
	t.StateChangedAt = ctx.Now
	if err := putTask(t); err != nil {
		t.State = from
		return err
	}
	Broadcast(TopicTaskStateChanged, map[string]string{
		"campaign_id": t.CampaignID, "task_id": t.TaskID,
		"from": from.String(), "to": to.String(),
	})
	return nil
}

// StartVoting transitions Draft -> VotingBudget. Creator-gated.
func StartVoting(ctx *Context, t *Task) error {
	if t.Creator != ctx.Caller {
		return ErrUnauthorizedCreator
	}
	if err := transition(ctx, t, TaskVotingBudget); err != nil {
		return err
	}
	Broadcast(TopicBudgetVotingStarted, map[string]string{"campaign_id": t.CampaignID, "task_id": t.TaskID})
	return nil
}

// OpenFunding transitions BudgetFinalized -> FundingOpen. Authority-gated
// (spec.md §4.3: "is authority-gated"); bound here to governance per
// SPEC_FULL.md §5.
func OpenFunding(ctx *Context, t *Task, gov GovernanceAuthoritySet) error {
	if !gov.IsGovernance(ctx.Caller) {
		return ErrUnauthorizedPayout
	}
	return transition(ctx, t, TaskFundingOpen)
}

// MarkFunded transitions FundingOpen -> Funded once the Escrow has received
// at least the finalized budget.
func MarkFunded(ctx *Context, t *Task) error {
	if t.FinalizedBudget == nil {
		return ErrBudgetNotFinalized
	}
	esc, err := GetEscrow(t.PDA())
	if err != nil {
		return err
	}
	if esc.TotalContributed < *t.FinalizedBudget {
		return ErrNotFullyFunded
	}
	return transition(ctx, t, TaskFunded)
}

// RefundFromFunding transitions FundingOpen -> Refunding, for a task that
// failed to reach its finalized budget.
func RefundFromFunding(ctx *Context, t *Task) error {
	return transition(ctx, t, TaskRefunding)
}

// StartWork transitions Funded -> InProgress. A task whose deadline has
// already passed cannot enter InProgress.
func StartWork(ctx *Context, t *Task) error {
	if t.Deadline != nil && ctx.Now.Unix() > *t.Deadline {
		return ErrDeadlinePassed
	}
	return transition(ctx, t, TaskInProgress)
}

// RefundFromProgress transitions InProgress -> Refunding.
func RefundFromProgress(ctx *Context, t *Task) error {
	return transition(ctx, t, TaskRefunding)
}

// SubmitForReview transitions InProgress -> SubmittedForReview. Requires a
// Proof record, recipient signature, and (if a deadline was set) that now
// has not passed it.
func SubmitForReview(ctx *Context, t *Task, proofHash, proofURI string) error {
	if t.Recipient == nil || *t.Recipient != ctx.Caller {
		return ErrUnauthorizedRecipient
	}
	if t.Deadline != nil && ctx.Now.Unix() > *t.Deadline {
		return ErrDeadlinePassed
	}
	if !canTransition(t.State, TaskSubmittedForReview) {
		return ErrInvalidStateTransition
	}
	if err := submitProof(ctx, t, proofHash, proofURI); err != nil {
		return err
	}
	t.ProofHash = &proofHash
	t.ProofURI = &proofURI
	return transition(ctx, t, TaskSubmittedForReview)
}

// ApproveTask transitions SubmittedForReview or Disputed -> Approved.
// Governance-gated.
func ApproveTask(ctx *Context, t *Task, gov GovernanceAuthoritySet) error {
	if !gov.IsGovernance(ctx.Caller) {
		return ErrUnauthorizedPayout
	}
	if err := transition(ctx, t, TaskApproved); err != nil {
		return err
	}
	_ = MintGovernanceReward(t.Recipient, rewardForApproval(t))
	return nil
}

// RejectTask transitions SubmittedForReview or Disputed -> Rejected.
// Governance-gated.
func RejectTask(ctx *Context, t *Task, gov GovernanceAuthoritySet) error {
	if !gov.IsGovernance(ctx.Caller) {
		return ErrUnauthorizedPayout
	}
	return transition(ctx, t, TaskRejected)
}

// RejectedToRefunding transitions Rejected -> Refunding.
func RejectedToRefunding(ctx *Context, t *Task) error {
	return transition(ctx, t, TaskRefunding)
}

// ExecuteApprovedPayout transitions Approved -> PaidOut by running the
// Escrow payout for exactly the finalized budget, then advancing state. If
// the payout fails, the task remains Approved.
func ExecuteApprovedPayout(ctx *Context, t *Task, gov GovernanceAuthoritySet) error {
	if !gov.IsGovernance(ctx.Caller) {
		return ErrUnauthorizedPayout
	}
	if t.State != TaskApproved {
		return ErrInvalidState
	}
	if t.FinalizedBudget == nil {
		return ErrBudgetNotFinalized
	}
	if t.Recipient == nil {
		return ErrRecipientNotSet
	}
	if err := executePayout(t.PDA(), *t.Recipient, *t.FinalizedBudget); err != nil {
		return err
	}
	return transition(ctx, t, TaskPaidOut)
}

// FinishRefunding transitions Refunding -> Refunded once every Contribution
// for this task has refunded = true.
func FinishRefunding(ctx *Context, t *Task) error {
	ok, err := allContributionsRefunded(t.PDA())
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}
	return transition(ctx, t, TaskRefunded)
}

// SetRecipient assigns the recipient who will deliver work against this
// task's budget. Creator-gated, legal any time before review submission and
// while the task is Disputed.
func SetRecipient(ctx *Context, t *Task, recipient Address) error {
	if t.Creator != ctx.Caller {
		return ErrUnauthorizedCreator
	}
	if t.State >= TaskSubmittedForReview && t.State != TaskDisputed {
		return ErrInvalidState
	}
	t.Recipient = &recipient
	t.UpdatedAt = ctx.Now
	return putTask(t)
}

// GetTask looks up a Task by its owning campaign and task_id.
func GetTask(campaignCreator Address, campaignID, taskID string) (*Task, error) {
	campaignPDA := CampaignPDA(campaignCreator, campaignID)
	raw, err := getOrNotFound(taskKey(campaignPDA, taskID))
	if err != nil {
		return nil, err
	}
	var t Task
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func putTask(t *Task) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return CurrentStore().Set(t.PDA(), raw)
}

// GovernanceAuthoritySet answers whether an address holds governance
// authority, per the open question resolved in SPEC_FULL.md §5.
type GovernanceAuthoritySet map[Address]struct{}

// NewGovernanceAuthoritySet builds a set from a list of addresses.
func NewGovernanceAuthoritySet(addrs ...Address) GovernanceAuthoritySet {
	s := make(GovernanceAuthoritySet, len(addrs))
	for _, a := range addrs {
		s[a] = struct{}{}
	}
	return s
}

func (s GovernanceAuthoritySet) IsGovernance(a Address) bool {
	_, ok := s[a]
	return ok
}

func rewardForApproval(t *Task) uint64 {
	if t.FinalizedBudget == nil {
		return 0
	}
	// A small, fixed-bps governance-token reward proportional to the
	// finalized budget; ApproveTask discards the mint's error, so this is
	// only ever a best-effort side-channel.
	return *t.FinalizedBudget / 1000
}
