package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/bnema/trae-accounts-cli/internal/application"
	"github.com/spf13/cobra"
)

// settle answers the pending confirmation: --yes confirms straight away,
// otherwise the user is asked on stdin and anything but y/yes cancels.
func (a *app) settle(cmd *cobra.Command, pending application.PendingConfirmation, assumeYes bool) (bool, error) {
	confirmed := assumeYes
	if !confirmed {
		var err error
		confirmed, err = promptYesNo(cmd, fmt.Sprintf("%s: %s", pending.Title, sanitizeForTerminal(pending.Message)))
		if err != nil {
			return false, errors.Join(err, a.engine.Cancel())
		}
	}

	if !confirmed {
		if err := a.engine.Cancel(); err != nil {
			return false, err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return false, nil
	}

	if err := a.engine.Confirm(cmd.Context()); err != nil {
		return true, err
	}
	return true, nil
}

func promptYesNo(cmd *cobra.Command, question string) (bool, error) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)

	reader := bufio.NewReader(cmd.InOrStdin())
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readInput returns flagValue, or all of stdin when fromStdin is set.
func readInput(cmd *cobra.Command, flagValue string, fromStdin bool) (string, error) {
	if !fromStdin {
		return flagValue, nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func sanitizeForTerminal(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
