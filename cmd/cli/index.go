package cli

import "github.com/spf13/cobra"

// RegisterRoutes attaches every command group defined in the cli package to
// the provided root command, so they are all invocable from the main
// binary (e.g. `taskcore campaign create ...`).
func RegisterRoutes(root *cobra.Command) {
	root.AddCommand(
		CampaignRoute,
		TaskRoute,
		EscrowRoute,
		GovernanceRoute,
		DisputeRoute,
	)
}
