package core

import (
	"encoding/json"
	"time"
)

// Proof is the recipient-submitted deliverable pointer for a task
// (spec.md §3). The blob itself lives in off-chain content-addressed
// storage — an external collaborator per spec.md §1 — so Proof only ever
// carries the hash and URI, never fetches or verifies the content.
type Proof struct {
	Recipient   Address   `json:"recipient"`
	ProofHash   string    `json:"proof_hash"`
	ProofURI    string    `json:"proof_uri"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// submitProof creates or updates the Proof record for a task. Called from
// SubmitForReview before the state transition itself, so a later guard
// failure (e.g. deadline passed, checked first) never leaves a dangling
// Proof record for a task that didn't actually move to SubmittedForReview.
func submitProof(ctx *Context, t *Task, proofHash, proofURI string) error {
	key := proofKey(t.PDA())
	existing, err := CurrentStore().Get(key)
	if err == nil && existing != nil {
		var p Proof
		if err := json.Unmarshal(existing, &p); err != nil {
			return err
		}
		p.ProofHash = proofHash
		p.ProofURI = proofURI
		now := ctx.Now
		p.UpdatedAt = &now
		raw, err := json.Marshal(&p)
		if err != nil {
			return err
		}
		if err := CurrentStore().Set(key, raw); err != nil {
			return err
		}
		Broadcast(TopicProofUpdated, &p)
		return nil
	}

	p := &Proof{
		Recipient:   ctx.Caller,
		ProofHash:   proofHash,
		ProofURI:    proofURI,
		SubmittedAt: ctx.Now,
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := CurrentStore().Set(key, raw); err != nil {
		return err
	}
	Broadcast(TopicProofSubmitted, p)
	return nil
}

// GetProof returns the Proof record for a task, or ErrNoProofSubmitted.
func GetProof(taskPDA []byte) (*Proof, error) {
	raw, err := CurrentStore().Get(proofKey(taskPDA))
	if err != nil {
		return nil, ErrNoProofSubmitted
	}
	var p Proof
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
