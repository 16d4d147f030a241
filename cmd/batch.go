package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/trae-accounts-cli/internal/application"
	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newBatchCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Refresh or delete several accounts at once",
	}

	cmd.AddCommand(
		newBatchRefreshCmd(app),
		newBatchDeleteCmd(app),
	)

	return cmd
}

func newBatchRefreshCmd(app *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "refresh [--all | <selector>...]",
		Short: "Refresh the usage of the given accounts",
		RunE: app.action(func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			if err := selectTargets(app, args, all); err != nil {
				return err
			}

			result, err := app.engine.RefreshSelected(cmd.Context())
			if err != nil {
				return err
			}

			writeBatchResult(cmd, "refreshed", result)
			return writeAccounts(cmd, app, app.engine.Accounts(), defaultStaleAfter, false)
		}),
	}

	cmd.Flags().BoolVar(&all, "all", false, "Refresh every account")

	return cmd
}

func newBatchDeleteCmd(app *app) *cobra.Command {
	var all bool
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete [--all | <selector>...]",
		Short: "Delete the given accounts after one confirmation",
		RunE: app.action(func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			if err := selectTargets(app, args, all); err != nil {
				return err
			}

			var result application.BatchResult
			pending, err := app.engine.RequestDeleteSelected(func(r application.BatchResult) {
				result = r
			})
			if err != nil {
				return err
			}

			confirmed, err := app.settle(cmd, pending, assumeYes)
			if !confirmed {
				return err
			}

			writeBatchResult(cmd, "deleted", result)
			if err != nil {
				return fmt.Errorf("batch delete: %d of %d failed", len(result.Failed()), len(result.Items))
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&all, "all", false, "Delete every account")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// selectTargets replaces the engine selection with the accounts named on the
// command line, or with every account for --all.
func selectTargets(app *app, args []string, all bool) error {
	switch {
	case all && len(args) > 0:
		return errors.New("use either --all or account selectors, not both")
	case all:
		app.engine.SelectAll()
		return nil
	case len(args) == 0:
		return fmt.Errorf("name at least one account or pass --all: %w", domain.ErrEmptySelection)
	}

	ids, err := resolveSelectors(app.engine.Accounts(), args)
	if err != nil {
		return err
	}

	app.engine.ClearSelection()
	for _, id := range ids {
		if _, err := app.engine.Toggle(id); err != nil {
			return err
		}
	}
	return nil
}

func writeBatchResult(cmd *cobra.Command, verb string, result application.BatchResult) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s %d of %d accounts\n", verb, result.Succeeded(), len(result.Items))
	for _, item := range result.Failed() {
		_, _ = fmt.Fprintf(out, "  %s: %s\n", item.ID, sanitizeForTerminal(item.Err.Error()))
	}
}
