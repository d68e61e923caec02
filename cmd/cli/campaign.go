package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	core "github.com/DaveEstey/openbook-protocol/core"
)

func callerFlag(cmd *cobra.Command) (core.Address, error) {
	s, _ := cmd.Flags().GetString("caller")
	return core.ParseAddress(s)
}

func printJSON(cmd *cobra.Command, v interface{}) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
}

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Manage crowdfunded-task campaigns",
}

var campaignCreateCmd = &cobra.Command{
	Use:   "create <campaign-id> <title> <description> <metadata-uri> <category>",
	Short: "Create a new campaign in Draft",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := callerFlag(cmd)
		if err != nil {
			return err
		}
		c, err := core.CreateCampaign(core.NewContext(caller), args[0], args[1], args[2], args[3], args[4])
		if err != nil {
			return err
		}
		printJSON(cmd, c)
		return nil
	},
}

var campaignPublishCmd = &cobra.Command{
	Use:   "publish <campaign-id>",
	Short: "Publish a Draft campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := callerFlag(cmd)
		if err != nil {
			return err
		}
		c, err := core.PublishCampaign(core.NewContext(caller), caller, args[0])
		if err != nil {
			return err
		}
		printJSON(cmd, c)
		return nil
	},
}

var campaignGetCmd = &cobra.Command{
	Use:   "get <creator-hex> <campaign-id>",
	Short: "Show a campaign",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		creator, err := core.ParseAddress(args[0])
		if err != nil {
			return err
		}
		c, err := core.GetCampaign(creator, args[1])
		if err != nil {
			return err
		}
		printJSON(cmd, c)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{campaignCreateCmd, campaignPublishCmd} {
		c.Flags().String("caller", "", "hex-encoded caller address")
	}
	campaignCmd.AddCommand(campaignCreateCmd, campaignPublishCmd, campaignGetCmd)
}

// CampaignRoute is exported for registration in the main CLI.
var CampaignRoute = campaignCmd
