package core

import (
	"crypto/sha256"
	"fmt"
	"regexp"
)

// Address is an opaque 32-byte principal identifying a creator, recipient,
// contributor, voter, or governance authority.
type Address [32]byte

// Hash is a 32-byte digest type with a hex String form. Proof hashes are
// carried as strings and storage keys as byte slices, not as Hash values.
type Hash [32]byte

func (a Address) String() string {
	return fmt.Sprintf("%x", a[:])
}

func (h Hash) String() string {
	return fmt.Sprintf("%x", h[:])
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidID reports whether s is a legal human-chosen identifier: non-empty,
// at most maxLen bytes, drawn from [A-Za-z0-9_-].
func ValidID(s string, maxLen int) bool {
	return len(s) > 0 && len(s) <= maxLen && idPattern.MatchString(s)
}

// campaignKey derives the deterministic storage key for a Campaign from its
// PDA seed tuple ("campaign", creator, campaign_id). PDAs are a naming
// convention only here — there is no separate derived-address account, just
// a namespaced key into the KVStore.
func campaignKey(creator Address, campaignID string) []byte {
	return seedKey("campaign", creator[:], []byte(campaignID))
}

func taskKey(campaignPDA []byte, taskID string) []byte {
	return seedKey("task", campaignPDA, []byte(taskID))
}

// budgetVotePrefix returns the prefix shared by every BudgetVote owned by a
// task, so all votes can be enumerated for finalize_budget.
func budgetVotePrefix(taskPDA []byte) []byte {
	return seedPrefix("budget_vote", taskPDA)
}

func budgetVoteKey(taskPDA []byte, voter Address) []byte {
	return append(budgetVotePrefix(taskPDA), voter[:]...)
}

func budgetAggregateKey(taskPDA []byte) []byte {
	return seedKey("budget_aggregate", taskPDA)
}

func escrowKeyFor(taskPDA []byte) []byte {
	return seedKey("escrow", taskPDA)
}

// contributionPrefix returns the prefix shared by every Contribution owned
// by a task, so all contributors can be enumerated for refund sweeps.
func contributionPrefix(taskPDA []byte) []byte {
	return seedPrefix("contribution", taskPDA)
}

func contributionKey(taskPDA []byte, contributor Address) []byte {
	return append(contributionPrefix(taskPDA), contributor[:]...)
}

func disputeKey(taskPDA []byte) []byte {
	return seedKey("dispute", taskPDA)
}

func proofKey(taskPDA []byte) []byte {
	return seedKey("proof", taskPDA)
}

// seedKey hashes a variadic seed tuple into a stable, collision-resistant
// storage key, mirroring the PDA derivation convention of spec.md §6
// without needing an actual derived-address account.
func seedKey(name string, seeds ...[]byte) []byte {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	for _, s := range seeds {
		h.Write(s)
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return []byte(fmt.Sprintf("%s:%x", name, sum))
}

// seedPrefix hashes a seed tuple the same way seedKey does but leaves room
// for a caller-appended suffix (e.g. a voter or contributor address),
// keeping the owning collection prefix-iterable while remaining namespaced
// per task.
func seedPrefix(name string, seeds ...[]byte) []byte {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	for _, s := range seeds {
		h.Write(s)
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return []byte(fmt.Sprintf("%s:%x:", name, sum))
}

// TaskPDA returns the opaque handle used to key every record owned by a
// task (BudgetVote, BudgetAggregate, Escrow, Contribution, Dispute, Proof).
func TaskPDA(campaignPDA []byte, taskID string) []byte {
	return taskKey(campaignPDA, taskID)
}

// CampaignPDA returns the opaque handle for a campaign.
func CampaignPDA(creator Address, campaignID string) []byte {
	return campaignKey(creator, campaignID)
}
