package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "ta",
		Short:         "Trae Accounts CLI (ta): manage Trae accounts and their quotas",
		Long:          "ta (Trae Accounts CLI) stores Trae IDE credentials locally, refreshes their fast, slow and extra request quotas, and runs single or batch account operations from the terminal or a local HTTP API.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "Config file (default ~/.trae-accounts/config.toml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newBatchCmd(app),
		newUsageCmd(app),
		newDashboardCmd(app),
		newServeCmd(app),
	)

	return rootCmd
}
