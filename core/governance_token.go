package core

import "encoding/json"

// MaxGovernanceSupply caps cumulative governance-reward minting, the same
// mint-cap-manager shape as a fungible token with a hard supply ceiling.
const MaxGovernanceSupply = 1_000_000_000

var governanceTokenStateKey = seedKey("governance_token_state")

// governanceTokenState tracks total minted supply, checked against
// MaxGovernanceSupply on every mint.
type governanceTokenState struct {
	TotalMinted uint64 `json:"total_minted"`
}

func governanceBalanceKey(addr Address) []byte {
	return seedKey("governance_balance", addr[:])
}

func loadGovernanceTokenState() (*governanceTokenState, error) {
	raw, err := CurrentStore().Get(governanceTokenStateKey)
	if err == ErrKeyNotFound {
		return &governanceTokenState{}, nil
	}
	if err != nil {
		return nil, err
	}
	var s governanceTokenState
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func putGovernanceTokenState(s *governanceTokenState) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return CurrentStore().Set(governanceTokenStateKey, raw)
}

// GovernanceBalanceOf returns addr's governance-reward balance.
func GovernanceBalanceOf(addr Address) uint64 {
	raw, err := CurrentStore().Get(governanceBalanceKey(addr))
	if err != nil {
		return 0
	}
	var balance uint64
	if err := json.Unmarshal(raw, &balance); err != nil {
		return 0
	}
	return balance
}

// MintGovernanceReward credits recipient with amount governance-reward
// tokens, a thin non-blocking collaborator invoked from ApproveTask: a
// capped-supply mint that the caller treats as best-effort and never lets
// abort a task approval (SPEC_FULL.md §4). A nil recipient or zero amount is
// a no-op, not an error.
func MintGovernanceReward(recipient *Address, amount uint64) error {
	if recipient == nil || amount == 0 {
		return nil
	}
	state, err := loadGovernanceTokenState()
	if err != nil {
		return err
	}
	if state.TotalMinted+amount > MaxGovernanceSupply {
		Broadcast(TopicGovernanceRewardSkipped, map[string]interface{}{
			"recipient": recipient.String(), "amount": amount,
		})
		return ErrExceedsTotalSupply
	}

	balance := GovernanceBalanceOf(*recipient) + amount
	raw, err := json.Marshal(balance)
	if err != nil {
		return err
	}
	if err := CurrentStore().Set(governanceBalanceKey(*recipient), raw); err != nil {
		return err
	}

	state.TotalMinted += amount
	if err := putGovernanceTokenState(state); err != nil {
		return err
	}
	Broadcast(TopicGovernanceRewardMinted, map[string]interface{}{
		"recipient": recipient.String(), "amount": amount,
	})
	return nil
}
