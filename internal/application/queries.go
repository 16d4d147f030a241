package application

import (
	"math"
	"sort"

	"github.com/bnema/trae-accounts-cli/internal/domain"
)

type PlanCount struct {
	Plan  string
	Count int
}

// Dashboard aggregates the registry. Fast totals combine the plan allowance
// with any extra package.
type Dashboard struct {
	TotalAccounts  int
	ActiveAccounts int
	CurrentAccount *domain.Account
	FastUsed       float64
	FastLimit      float64
	FastLeft       float64
	UsagePercent   int
	Plans          []PlanCount
}

func Summarize(accounts []domain.AccountWithUsage) Dashboard {
	d := Dashboard{TotalAccounts: len(accounts)}
	plans := map[string]int{}

	for _, entry := range accounts {
		if entry.Account.IsCurrent {
			current := entry.Account
			d.CurrentAccount = &current
		}

		plan := entry.EffectivePlan()
		if plan == "" {
			plan = domain.PlanFree
		}
		plans[plan]++

		if entry.Usage == nil {
			continue
		}
		if entry.Usage.FastRequest.Left > 0 {
			d.ActiveAccounts++
		}

		total := entry.Usage.TotalFast()
		d.FastUsed += total.Used
		d.FastLimit += total.Limit
		d.FastLeft += total.Left
	}

	if d.FastLimit > 0 {
		d.UsagePercent = int(math.Round(d.FastUsed / d.FastLimit * 100))
	}

	d.Plans = make([]PlanCount, 0, len(plans))
	for plan, count := range plans {
		d.Plans = append(d.Plans, PlanCount{Plan: plan, Count: count})
	}
	sort.Slice(d.Plans, func(i, j int) bool {
		if d.Plans[i].Count != d.Plans[j].Count {
			return d.Plans[i].Count > d.Plans[j].Count
		}
		return d.Plans[i].Plan < d.Plans[j].Plan
	})

	return d
}

// UsageLevel buckets a used percentage the way account cards color it.
type UsageLevel string

const (
	UsageLevelLow    UsageLevel = "low"
	UsageLevelMedium UsageLevel = "medium"
	UsageLevelHigh   UsageLevel = "high"
)

func LevelFor(usedPercent float64) UsageLevel {
	switch {
	case usedPercent >= 80:
		return UsageLevelHigh
	case usedPercent >= 50:
		return UsageLevelMedium
	default:
		return UsageLevelLow
	}
}
