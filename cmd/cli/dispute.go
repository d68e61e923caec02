package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	core "github.com/DaveEstey/openbook-protocol/core"
)

var disputeCmd = &cobra.Command{
	Use:   "dispute",
	Short: "Open, resolve, cancel, and expire task disputes",
}

var disputeOpenCmd = &cobra.Command{
	Use:   "open <campaign-creator-hex> <campaign-id> <task-id> <initiator-hex> <reason>",
	Short: "Open a dispute against a non-terminal task",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		initiator, err := core.ParseAddress(args[3])
		if err != nil {
			return err
		}
		d, err := core.OpenDispute(core.NewContext(initiator), t, args[4])
		if err != nil {
			return err
		}
		printJSON(cmd, d)
		return nil
	},
}

var disputeResolveCmd = &cobra.Command{
	Use:   "resolve <campaign-creator-hex> <campaign-id> <task-id> <authority-hex> <kind> [payout-percent]",
	Short: "Resolve an open dispute: kind is payout, refund, or partial",
	Args:  cobra.RangeArgs(5, 6),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		authority, err := core.ParseAddress(args[3])
		if err != nil {
			return err
		}
		var resolution core.Resolution
		switch args[4] {
		case "payout":
			resolution = core.Resolution{Kind: core.PayoutToRecipient}
		case "refund":
			resolution = core.Resolution{Kind: core.RefundToDonors}
		case "partial":
			if len(args) != 6 {
				return core.ErrInvalidState
			}
			pct, err := strconv.ParseUint(args[5], 10, 8)
			if err != nil {
				return err
			}
			resolution = core.Resolution{Kind: core.PartialPayoutPartialRefund, PayoutPercent: uint8(pct)}
		default:
			return core.ErrInvalidState
		}
		return core.ResolveDispute(core.NewContext(authority), t, resolution, govSet)
	},
}

var disputeCancelCmd = &cobra.Command{
	Use:   "cancel <campaign-creator-hex> <campaign-id> <task-id> <initiator-hex>",
	Short: "Cancel an open dispute before its resolution deadline",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		initiator, err := core.ParseAddress(args[3])
		if err != nil {
			return err
		}
		return core.CancelDispute(core.NewContext(initiator), t)
	},
}

var disputeExpireCmd = &cobra.Command{
	Use:   "expire <campaign-creator-hex> <campaign-id> <task-id>",
	Short: "Expire a dispute whose resolution deadline has passed",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return core.ExpireDispute(core.NewContext(t.Creator), t)
	},
}

func init() {
	disputeCmd.AddCommand(disputeOpenCmd, disputeResolveCmd, disputeCancelCmd, disputeExpireCmd)
}

// DisputeRoute is exported for registration in the main CLI.
var DisputeRoute = disputeCmd
