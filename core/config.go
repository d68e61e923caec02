package core

// Governance parameters — process-wide, read-only configuration, not
// per-call arguments (spec.md §6).
const (
	// MinContribution is the smallest single deposit accepted by the Escrow
	// Ledger, in 6-decimal base units of the pooled stable token.
	MinContribution uint64 = 10_000_000

	// MinContributionForVote is the minimum cumulative contribution a voter
	// must hold against a task before submit_vote will accept their ballot.
	MinContributionForVote uint64 = 10_000_000

	// QuorumPercentage is the minimum share of total_contributed that must
	// be represented by distinct voters' cumulative weight before
	// finalize_budget may run.
	QuorumPercentage uint64 = 60

	// MinVoters is the minimum number of distinct voters required for
	// quorum, independent of their combined weight.
	MinVoters uint32 = 3

	// DisputeWindowSecs is the duration, in seconds, a Dispute remains Open
	// before it becomes eligible for expire_dispute.
	DisputeWindowSecs int64 = 14 * 24 * 3600

	// TitleMaxLen, DescriptionMaxLen, URIMaxLen, CategoryMaxLen, and
	// IDMaxLen bound the string fields of Campaign per spec.md §3.
	TitleMaxLen       = 100
	DescriptionMaxLen = 500
	URIMaxLen         = 200
	CategoryMaxLen    = 50
	IDMaxLen          = 64
)

// Config is the process configuration loaded by pkg/config at startup. It is
// reshaped from the teacher's network/consensus/VM sections into the
// parameters this service actually needs: where records persist, how the
// query API listens, and who may exercise governance-gated transitions.
type Config struct {
	Store struct {
		Backend string `mapstructure:"backend" json:"backend"` // "memory" or "bbolt"
		Path    string `mapstructure:"path" json:"path"`
	} `mapstructure:"store" json:"store"`

	API struct {
		ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`
	} `mapstructure:"api" json:"api"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
	} `mapstructure:"logging" json:"logging"`

	// GovernanceAuthorities is the fixed set of principals authorized to
	// approve/reject tasks and resolve disputes (spec.md §9 open question).
	GovernanceAuthorities []string `mapstructure:"governance_authorities" json:"governance_authorities"`
}
