package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DaveEstey/openbook-protocol/cmd/cli"
	bootstrap "github.com/DaveEstey/openbook-protocol/cmd/config"
)

func main() {
	var env string

	rootCmd := &cobra.Command{
		Use:   "taskcore",
		Short: "Crowdfunded-task coordination core",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			b := bootstrap.LoadConfig(env)
			cli.SetGovernanceAuthoritySet(b.Governance)
		},
	}
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "overlay config file to merge over cmd/config/default.yaml")

	cli.RegisterRoutes(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
