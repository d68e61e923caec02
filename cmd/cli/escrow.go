package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	core "github.com/DaveEstey/openbook-protocol/core"
)

var escrowCmd = &cobra.Command{
	Use:   "escrow",
	Short: "Vote on budgets, fund, and settle task escrows",
}

var escrowVoteCmd = &cobra.Command{
	Use:   "vote <campaign-creator-hex> <campaign-id> <task-id> <voter-hex> <proposed-budget> <contribution-amount>",
	Short: "Submit a weighted budget vote",
	Args:  cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		voter, err := core.ParseAddress(args[3])
		if err != nil {
			return err
		}
		budget, err := strconv.ParseUint(args[4], 10, 64)
		if err != nil {
			return err
		}
		contribution, err := strconv.ParseUint(args[5], 10, 64)
		if err != nil {
			return err
		}
		return core.SubmitVote(core.NewContext(voter), t, voter, budget, contribution)
	},
}

var escrowFinalizeCmd = &cobra.Command{
	Use:   "finalize <campaign-creator-hex> <campaign-id> <task-id>",
	Short: "Finalize the budget from stored votes once quorum is met",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		esc, err := core.GetEscrow(t.PDA())
		if err != nil {
			return err
		}
		if err := core.FinalizeBudget(core.NewContext(t.Creator), t, esc.TotalContributed); err != nil {
			return err
		}
		printJSON(cmd, t)
		return nil
	},
}

var escrowContributeCmd = &cobra.Command{
	Use:   "contribute <campaign-creator-hex> <campaign-id> <task-id> <contributor-hex> <amount>",
	Short: "Deposit funds into a task's vault",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		contributor, err := core.ParseAddress(args[3])
		if err != nil {
			return err
		}
		amount, err := strconv.ParseUint(args[4], 10, 64)
		if err != nil {
			return err
		}
		return core.Contribute(core.NewContext(contributor), t, contributor, amount)
	},
}

var escrowInfoCmd = &cobra.Command{
	Use:   "info <campaign-creator-hex> <campaign-id> <task-id>",
	Short: "Show a task's escrow accounting",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		esc, err := core.GetEscrow(t.PDA())
		if err != nil {
			return err
		}
		printJSON(cmd, esc)
		return nil
	},
}

func init() {
	escrowCmd.AddCommand(escrowVoteCmd, escrowFinalizeCmd, escrowContributeCmd, escrowInfoCmd)
}

// EscrowRoute is exported for registration in the main CLI.
var EscrowRoute = escrowCmd
