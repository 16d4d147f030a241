package cmd

import (
	"fmt"
	"time"

	statusadapter "github.com/bnema/trae-accounts-cli/internal/adapters/render/status"
	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newUsageCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Inspect metered usage",
	}

	cmd.AddCommand(newUsageEventsCmd(app))

	return cmd
}

func newUsageEventsCmd(app *app) *cobra.Command {
	var window string
	var since string
	var until string
	var page int
	var size int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "events <selector>",
		Short: "List usage sessions of an account over a time range",
		Args:  cobra.ExactArgs(1),
		RunE: app.action(func(cmd *cobra.Command, args []string) error {
			parsed, err := domain.ParseWindow(window)
			if err != nil {
				return err
			}

			query, err := buildEventQuery(app.now(), parsed, since, until)
			if err != nil {
				return err
			}
			query.PageNum = page
			query.PageSize = size

			if err := app.load(cmd); err != nil {
				return err
			}
			id, err := resolveSelector(app.engine.Accounts(), args[0])
			if err != nil {
				return err
			}

			result, err := app.engine.UsageEvents(cmd.Context(), id, query)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			entry, _ := app.engine.Account(id)
			label := parsed.Label()
			if since != "" || until != "" {
				label = fmt.Sprintf("%s to %s", query.Start.Format(dateLayout), query.End.Format(dateLayout))
			}
			title := fmt.Sprintf("Usage of %s (%s)", sanitizeForTerminal(entry.Account.DisplayName()), label)

			rendered, err := statusadapter.RenderEvents(title, result)
			if err != nil {
				return fmt.Errorf("render usage events: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		}),
	}

	cmd.Flags().StringVar(&window, "range", string(domain.WindowDay), "Range: today, 7d or 30d")
	cmd.Flags().StringVar(&since, "since", "", "Custom range start (YYYY-MM-DD), overrides --range")
	cmd.Flags().StringVar(&until, "until", "", "Custom range end (YYYY-MM-DD, inclusive)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&size, "size", 20, "Page size (max 100)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print events as JSON")

	return cmd
}

// buildEventQuery spans window ending at now. since and until, when given,
// replace the matching bound; until covers its whole day.
func buildEventQuery(now time.Time, window domain.Window, since, until string) (domain.UsageEventQuery, error) {
	start, end := window.Span(now)

	if since != "" {
		parsed, err := time.ParseInLocation(dateLayout, since, now.Location())
		if err != nil {
			return domain.UsageEventQuery{}, fmt.Errorf("parse --since: %w", err)
		}
		start = parsed
	}
	if until != "" {
		parsed, err := time.ParseInLocation(dateLayout, until, now.Location())
		if err != nil {
			return domain.UsageEventQuery{}, fmt.Errorf("parse --until: %w", err)
		}
		end = parsed.Add(24*time.Hour - time.Second)
	}

	if end.Before(start) {
		return domain.UsageEventQuery{}, fmt.Errorf("range end %s is before start %s", end.Format(dateLayout), start.Format(dateLayout))
	}

	return domain.UsageEventQuery{Start: start, End: end}, nil
}
