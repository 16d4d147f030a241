package cmd

import (
	"fmt"

	statusadapter "github.com/bnema/trae-accounts-cli/internal/adapters/render/status"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize accounts, plans and aggregated fast request usage",
		Args:  cobra.NoArgs,
		RunE: app.action(func(cmd *cobra.Command, _ []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}

			dashboard := app.engine.Dashboard()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), dashboard)
			}

			rendered, err := statusadapter.RenderDashboard(dashboard)
			if err != nil {
				return fmt.Errorf("render dashboard: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the dashboard as JSON")

	return cmd
}
