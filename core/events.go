package core

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event is an observable record delivered by Broadcast. Broadcast hands the
// event to subscribers at the moment it is called; there is no pending list
// and no rollback of delivered events. Most handlers broadcast as their last
// step, but an event emitted earlier in a handler (for example a
// TaskStateChanged from an intermediate transition) is still delivered when
// a later step of the same handler fails. ID is a correlation id unique to
// this broadcast, for tracing one event across the query API and metrics
// subscribers.
type Event struct {
	ID      string          `json:"id"`
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// Subscriber receives every event broadcast after it subscribes.
type Subscriber func(Event)

var (
	busMu       sync.RWMutex
	subscribers []Subscriber
)

// Subscribe registers fn to receive all future events. Intended for the
// query API and metrics layer to stay in sync without polling the store.
func Subscribe(fn Subscriber) {
	busMu.Lock()
	defer busMu.Unlock()
	subscribers = append(subscribers, fn)
}

// Broadcast marshals payload and fans it out to every subscriber under
// topic. Marshal failures are swallowed — event delivery is observability,
// never part of a transaction's success/failure path.
func Broadcast(topic string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	ev := Event{ID: uuid.New().String(), Topic: topic, Payload: raw}
	busMu.RLock()
	defer busMu.RUnlock()
	for _, sub := range subscribers {
		sub(ev)
	}
}

// Event topics, named per spec.md §6.
const (
	TopicCampaignCreated      = "CampaignCreated"
	TopicCampaignUpdated      = "CampaignUpdated"
	TopicCampaignPublished    = "CampaignPublished"
	TopicCampaignArchived     = "CampaignArchived"
	TopicCampaignStateChanged = "CampaignStateChanged"
	TopicTaskAddedToCampaign  = "TaskAddedToCampaign"
	TopicTaskCreated          = "TaskCreated"
	TopicTaskStateChanged     = "TaskStateChanged"
	TopicBudgetVotingStarted  = "BudgetVotingStarted"
	TopicBudgetVoteSubmitted  = "BudgetVoteSubmitted"
	TopicBudgetFinalized      = "BudgetFinalized"
	TopicEscrowInitialized    = "EscrowInitialized"
	TopicContributionMade     = "ContributionMade"
	TopicPayoutExecuted       = "PayoutExecuted"
	TopicRefundExecuted       = "RefundExecuted"
	TopicEscrowFrozen         = "EscrowFrozen"
	TopicEscrowUnfrozen       = "EscrowUnfrozen"
	TopicProofSubmitted       = "ProofSubmitted"
	TopicProofUpdated         = "ProofUpdated"
	TopicDisputeOpened        = "DisputeOpened"
	TopicDisputeResolved      = "DisputeResolved"
	TopicDisputeExpired       = "DisputeExpired"
	TopicGovernanceRewardMinted = "GovernanceRewardMinted"
	TopicGovernanceRewardSkipped = "GovernanceRewardSkipped"
)
