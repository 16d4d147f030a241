package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	statusadapter "github.com/bnema/trae-accounts-cli/internal/adapters/render/status"
	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/spf13/cobra"
)

const (
	defaultStaleAfter = 30 * time.Minute
	exportFileMode    = 0o600
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(app),
		newAccountAddCmd(app),
		newAccountRemoveCmd(app),
		newAccountRefreshCmd(app),
		newAccountUpdateTokenCmd(app),
		newAccountSwitchCmd(app),
		newAccountTokenCmd(app),
		newAccountExportCmd(app),
		newAccountImportCmd(app),
	)

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	var asJSON bool
	var staleAfter time.Duration

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with their current quotas",
		Args:  cobra.NoArgs,
		RunE: app.action(func(cmd *cobra.Command, _ []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			return writeAccounts(cmd, app, app.engine.Accounts(), staleAfter, asJSON)
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print accounts as JSON")
	cmd.Flags().DurationVar(&staleAfter, "stale-after", defaultStaleAfter, "Mark usage older than this as stale")

	return cmd
}

func newAccountAddCmd(app *app) *cobra.Command {
	var token string
	var fromStdin bool
	var cookies string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account from a token, pasted JSON or session cookies",
		Args:  cobra.NoArgs,
		RunE: app.action(func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(cmd, token, fromStdin)
			if err != nil {
				return err
			}
			if strings.TrimSpace(raw) == "" && strings.TrimSpace(cookies) == "" {
				return errors.New("provide a token with --token or --stdin, or session cookies with --cookies")
			}

			account, err := app.engine.Add(cmd.Context(), raw, cookies)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added account %s (%s)\n", account.ID, sanitizeForTerminal(account.DisplayName()))
			return nil
		}),
	}

	cmd.Flags().StringVar(&token, "token", "", "Token, or any pasted text containing one")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the token text from stdin")
	cmd.Flags().StringVar(&cookies, "cookies", "", "Browser session cookies for www.trae.ai")
	cmd.MarkFlagsMutuallyExclusive("token", "stdin")

	return cmd
}

func newAccountRemoveCmd(app *app) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "remove <selector>",
		Short: "Delete an account and its stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: app.action(func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			id, err := resolveSelector(app.engine.Accounts(), args[0])
			if err != nil {
				return err
			}

			pending, err := app.engine.RequestRemove(id)
			if err != nil {
				return err
			}

			confirmed, err := app.settle(cmd, pending, assumeYes)
			if err != nil || !confirmed {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed account %s\n", id)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func newAccountRefreshCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh <selector>",
		Short: "Fetch fresh usage for one account",
		Args:  cobra.ExactArgs(1),
		RunE: app.action(func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			id, err := resolveSelector(app.engine.Accounts(), args[0])
			if err != nil {
				return err
			}

			err = runSpinner(cmd.Context(), cmd.ErrOrStderr(), "Refreshing usage...", func(ctx context.Context) error {
				return app.engine.Refresh(ctx, id)
			})
			if err != nil {
				return err
			}

			return writeAccount(cmd, app, id)
		}),
	}

	return cmd
}

func newAccountUpdateTokenCmd(app *app) *cobra.Command {
	var token string
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "update-token <selector>",
		Short: "Replace the token of an account",
		Args:  cobra.ExactArgs(1),
		RunE: app.action(func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, token, fromStdin)
			if err != nil {
				return err
			}
			if strings.TrimSpace(raw) == "" {
				return errors.New("provide the new token with --token or --stdin")
			}

			if err := app.load(cmd); err != nil {
				return err
			}
			id, err := resolveSelector(app.engine.Accounts(), args[0])
			if err != nil {
				return err
			}

			if _, err := app.engine.UpdateToken(cmd.Context(), id, raw); err != nil {
				return err
			}

			return writeAccount(cmd, app, id)
		}),
	}

	cmd.Flags().StringVar(&token, "token", "", "Token, or any pasted text containing one")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the token text from stdin")
	cmd.MarkFlagsMutuallyExclusive("token", "stdin")

	return cmd
}

func newAccountSwitchCmd(app *app) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "switch <selector>",
		Short: "Mark an account as the current one",
		Args:  cobra.ExactArgs(1),
		RunE: app.action(func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			id, err := resolveSelector(app.engine.Accounts(), args[0])
			if err != nil {
				return err
			}

			pending, err := app.engine.RequestSwitch(id)
			if err != nil {
				return err
			}

			confirmed, err := app.settle(cmd, pending, assumeYes)
			if err != nil || !confirmed {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Switched to account %s\n", id)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func newAccountTokenCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "token <selector>",
		Short: "Print the stored token of an account",
		Args:  cobra.ExactArgs(1),
		RunE: app.action(func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			id, err := resolveSelector(app.engine.Accounts(), args[0])
			if err != nil {
				return err
			}

			token, err := app.engine.RevealToken(cmd.Context(), id)
			if err != nil {
				return err
			}
			if token == "" {
				return nil
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		}),
	}
}

func newAccountExportCmd(app *app) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every account with its credential",
		Args:  cobra.NoArgs,
		RunE: app.action(func(cmd *cobra.Command, _ []string) error {
			exportFormat, err := domain.ParseExportFormat(format)
			if err != nil {
				return err
			}

			data, err := app.engine.Export(cmd.Context(), exportFormat)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if err := os.WriteFile(output, data, exportFileMode); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported accounts to %s\n", output)
			return nil
		}),
	}

	cmd.Flags().StringVar(&format, "format", string(domain.ExportJSON), "Export format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}

func newAccountImportCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import accounts from a JSON or YAML export (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: app.action(func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				raw, readErr := readInput(cmd, "", true)
				data, err = []byte(raw), readErr
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			count, err := app.engine.Import(cmd.Context(), data)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d accounts\n", count)
			return nil
		}),
	}
}

func writeAccounts(cmd *cobra.Command, app *app, entries []domain.AccountWithUsage, staleAfter time.Duration, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), entries)
	}

	selected := make(map[domain.AccountID]bool)
	for _, id := range app.engine.Selected() {
		selected[id] = true
	}

	rendered, err := app.statusRenderer(entries, statusadapter.RenderOptions{
		Now:        app.now(),
		StaleAfter: staleAfter,
		Selected:   selected,
		Refreshing: app.engine.Refreshing,
	})
	if err != nil {
		return fmt.Errorf("render accounts: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func writeAccount(cmd *cobra.Command, app *app, id domain.AccountID) error {
	entry, ok := app.engine.Account(id)
	if !ok {
		return fmt.Errorf("account %s: %w", id, domain.ErrAccountNotFound)
	}
	return writeAccounts(cmd, app, []domain.AccountWithUsage{entry}, defaultStaleAfter, false)
}
