package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	core "github.com/DaveEstey/openbook-protocol/core"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks within a campaign",
}

func loadTask(creatorHex, campaignID, taskID string) (*core.Task, error) {
	creator, err := core.ParseAddress(creatorHex)
	if err != nil {
		return nil, err
	}
	return core.GetTask(creator, campaignID, taskID)
}

var taskCreateCmd = &cobra.Command{
	Use:   "create <campaign-creator-hex> <campaign-id> <task-id> <title> <deliverables> <target-budget>",
	Short: "Create a task under an existing campaign",
	Args:  cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		creator, err := core.ParseAddress(args[0])
		if err != nil {
			return err
		}
		campaign, err := core.GetCampaign(creator, args[1])
		if err != nil {
			return err
		}
		budget, err := strconv.ParseUint(args[5], 10, 64)
		if err != nil {
			return err
		}
		t, err := core.CreateTask(core.NewContext(creator), campaign, args[2], args[3], args[4], budget, nil)
		if err != nil {
			return err
		}
		printJSON(cmd, t)
		return nil
	},
}

var taskStartVotingCmd = &cobra.Command{
	Use:   "start-voting <campaign-creator-hex> <campaign-id> <task-id>",
	Short: "Move a task from Draft into budget voting",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return core.StartVoting(core.NewContext(t.Creator), t)
	},
}

var taskSetRecipientCmd = &cobra.Command{
	Use:   "set-recipient <campaign-creator-hex> <campaign-id> <task-id> <recipient-hex>",
	Short: "Assign the recipient who will deliver the task",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		recipient, err := core.ParseAddress(args[3])
		if err != nil {
			return err
		}
		return core.SetRecipient(core.NewContext(t.Creator), t, recipient)
	},
}

var taskSubmitReviewCmd = &cobra.Command{
	Use:   "submit-review <campaign-creator-hex> <campaign-id> <task-id> <proof-hash> <proof-uri>",
	Short: "Submit proof of delivery for governance review",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		if t.Recipient == nil {
			return core.ErrRecipientNotSet
		}
		return core.SubmitForReview(core.NewContext(*t.Recipient), t, args[3], args[4])
	},
}

var taskGetCmd = &cobra.Command{
	Use:   "get <campaign-creator-hex> <campaign-id> <task-id>",
	Short: "Show a task",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTask(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		printJSON(cmd, t)
		return nil
	},
}

func init() {
	taskCmd.AddCommand(taskCreateCmd, taskStartVotingCmd, taskSetRecipientCmd, taskSubmitReviewCmd, taskGetCmd)
}

// TaskRoute is exported for registration in the main CLI.
var TaskRoute = taskCmd
