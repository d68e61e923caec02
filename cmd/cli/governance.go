package cli

import (
	"github.com/spf13/cobra"

	core "github.com/DaveEstey/openbook-protocol/core"
)

// govSet is populated by the main binary at startup from cmd/config's
// Bootstrap.Governance before RegisterRoutes runs any command.
var govSet core.GovernanceAuthoritySet

// SetGovernanceAuthoritySet installs the authority set every governance-gated
// command in this package checks against.
func SetGovernanceAuthoritySet(s core.GovernanceAuthoritySet) { govSet = s }

var governanceCmd = &cobra.Command{
	Use:   "governance",
	Short: "Approve, reject, and settle tasks as a governance authority",
}

var governanceApproveCmd = &cobra.Command{
	Use:   "approve <campaign-creator-hex> <campaign-id> <task-id> <authority-hex>",
	Short: "Approve a task submitted for review",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		authority, err := core.ParseAddress(args[3])
		if err != nil {
			return err
		}
		return core.ApproveTask(core.NewContext(authority), t, govSet)
	},
}

var governanceRejectCmd = &cobra.Command{
	Use:   "reject <campaign-creator-hex> <campaign-id> <task-id> <authority-hex>",
	Short: "Reject a task submitted for review",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		authority, err := core.ParseAddress(args[3])
		if err != nil {
			return err
		}
		return core.RejectTask(core.NewContext(authority), t, govSet)
	},
}

var governancePayoutCmd = &cobra.Command{
	Use:   "payout <campaign-creator-hex> <campaign-id> <task-id> <authority-hex>",
	Short: "Execute the approved payout for a task",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		authority, err := core.ParseAddress(args[3])
		if err != nil {
			return err
		}
		return core.ExecuteApprovedPayout(core.NewContext(authority), t, govSet)
	},
}

func init() {
	governanceCmd.AddCommand(governanceApproveCmd, governanceRejectCmd, governancePayoutCmd)
}

// GovernanceRoute is exported for registration in the main CLI.
var GovernanceRoute = governanceCmd
