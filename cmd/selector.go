package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/trae-accounts-cli/internal/domain"
)

var errAmbiguousSelector = errors.New("selector matches more than one account")

// resolveSelector finds the account named by raw: an exact id, an email
// (case-insensitive) or a unique id prefix, in that order.
func resolveSelector(entries []domain.AccountWithUsage, raw string) (domain.AccountID, error) {
	selector := strings.TrimSpace(raw)
	if selector == "" {
		return "", errors.New("account selector is empty")
	}

	for _, entry := range entries {
		if string(entry.Account.ID) == selector {
			return entry.Account.ID, nil
		}
	}

	for _, entry := range entries {
		if email := strings.TrimSpace(entry.Account.Email); email != "" && strings.EqualFold(email, selector) {
			return entry.Account.ID, nil
		}
	}

	var matches []domain.AccountID
	for _, entry := range entries {
		if strings.HasPrefix(string(entry.Account.ID), selector) {
			matches = append(matches, entry.Account.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("account %q: %w", selector, domain.ErrAccountNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("account %q: %w (%d matches)", selector, errAmbiguousSelector, len(matches))
	}
}

func resolveSelectors(entries []domain.AccountWithUsage, raws []string) ([]domain.AccountID, error) {
	ids := make([]domain.AccountID, 0, len(raws))
	seen := make(map[domain.AccountID]struct{}, len(raws))
	for _, raw := range raws {
		id, err := resolveSelector(entries, raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
