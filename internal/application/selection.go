package application

import "github.com/bnema/trae-accounts-cli/internal/domain"

// Selection is a set of account ids. It holds no lock of its own; the
// Registry guards it together with the account list so the two never drift.
type Selection struct {
	ids map[domain.AccountID]struct{}
}

func newSelection() Selection {
	return Selection{ids: map[domain.AccountID]struct{}{}}
}

// Toggle flips membership and reports whether id is now selected.
func (s *Selection) Toggle(id domain.AccountID) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Selection) Set(ids []domain.AccountID) {
	s.ids = make(map[domain.AccountID]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

func (s *Selection) Clear() {
	s.ids = map[domain.AccountID]struct{}{}
}

func (s *Selection) Remove(id domain.AccountID) {
	delete(s.ids, id)
}

// Retain drops every id not present in members.
func (s *Selection) Retain(members []domain.AccountID) {
	keep := make(map[domain.AccountID]struct{}, len(members))
	for _, id := range members {
		keep[id] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := keep[id]; !ok {
			delete(s.ids, id)
		}
	}
}

func (s Selection) Contains(id domain.AccountID) bool {
	_, ok := s.ids[id]
	return ok
}

func (s Selection) Len() int {
	return len(s.ids)
}

// IsAll reports whether every one of total accounts is selected.
func (s Selection) IsAll(total int) bool {
	return total > 0 && len(s.ids) == total
}

// Ordered returns the selected ids following order.
func (s Selection) Ordered(order []domain.AccountID) []domain.AccountID {
	ids := make([]domain.AccountID, 0, len(s.ids))
	for _, id := range order {
		if _, ok := s.ids[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
