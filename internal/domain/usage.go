package domain

import (
	"fmt"
	"math"
	"time"
)

type QuotaCategory string

const (
	QuotaFastRequest      QuotaCategory = "fast_request"
	QuotaExtraFastRequest QuotaCategory = "extra_fast_request"
	QuotaSlowRequest      QuotaCategory = "slow_request"
	QuotaAdvancedModel    QuotaCategory = "advanced_model"
	QuotaAutocomplete     QuotaCategory = "autocomplete"
)

// QuotaCategories lists categories in display order.
var QuotaCategories = []QuotaCategory{
	QuotaFastRequest,
	QuotaExtraFastRequest,
	QuotaSlowRequest,
	QuotaAdvancedModel,
	QuotaAutocomplete,
}

func (c QuotaCategory) Label() string {
	switch c {
	case QuotaFastRequest:
		return "fast"
	case QuotaExtraFastRequest:
		return "extra fast"
	case QuotaSlowRequest:
		return "slow"
	case QuotaAdvancedModel:
		return "advanced"
	case QuotaAutocomplete:
		return "autocomplete"
	default:
		return string(c)
	}
}

// Quota holds one usage counter. Left is always Limit - Used.
type Quota struct {
	Used  float64
	Limit float64
	Left  float64
}

func NewQuota(used, limit float64) Quota {
	return Quota{Used: used, Limit: limit, Left: limit - used}
}

// UsedPercent is Used/Limit in [0, 100]; a zero limit reports 0.
func (q Quota) UsedPercent() float64 {
	if q.Limit <= 0 {
		return 0
	}
	return math.Max(0, math.Min(100, q.Used/q.Limit*100))
}

func (q Quota) Add(other Quota) Quota {
	return NewQuota(q.Used+other.Used, q.Limit+other.Limit)
}

type UsageSummary struct {
	PlanType         string
	ResetTime        time.Time
	FastRequest      Quota
	ExtraFastRequest Quota
	SlowRequest      Quota
	AdvancedModel    Quota
	Autocomplete     Quota
	ExtraExpireTime  time.Time
	ExtraPackageName string
	// UserID is the account owner reported by the entitlement list, empty
	// when the backend returned no pack.
	UserID    string
	FetchedAt time.Time
}

// DefaultUsageSummary is the allowance reported when the backend returns no
// entitlement pack.
func DefaultUsageSummary() UsageSummary {
	return UsageSummary{
		PlanType:      PlanFree,
		FastRequest:   NewQuota(0, 10),
		SlowRequest:   NewQuota(0, 50),
		AdvancedModel: NewQuota(0, 1000),
		Autocomplete:  NewQuota(0, 5000),
	}
}

func (u UsageSummary) Quota(category QuotaCategory) Quota {
	switch category {
	case QuotaFastRequest:
		return u.FastRequest
	case QuotaExtraFastRequest:
		return u.ExtraFastRequest
	case QuotaSlowRequest:
		return u.SlowRequest
	case QuotaAdvancedModel:
		return u.AdvancedModel
	case QuotaAutocomplete:
		return u.Autocomplete
	default:
		return Quota{}
	}
}

// TotalFast combines the plan and extra-package fast request allowances.
func (u UsageSummary) TotalFast() Quota {
	return u.FastRequest.Add(u.ExtraFastRequest)
}

func (u UsageSummary) HasExtraPackage() bool {
	return u.ExtraFastRequest.Limit > 0 || u.ExtraPackageName != ""
}

// UsageEvent is one session of metered usage.
type UsageEvent struct {
	SessionID        string
	UsageTime        time.Time
	Mode             string
	ModelName        string
	Amount           float64
	CostMoney        float64
	UseMaxMode       bool
	ProductTypes     []int
	InputTokens      int64
	OutputTokens     int64
	CacheReadTokens  int64
	CacheWriteTokens int64
}

func (e UsageEvent) TotalTokens() int64 {
	return e.InputTokens + e.OutputTokens + e.CacheReadTokens + e.CacheWriteTokens
}

func (e UsageEvent) TotalTokensCompact() string {
	return compactNumber(e.TotalTokens())
}

type UsageEventQuery struct {
	Start    time.Time
	End      time.Time
	PageNum  int
	PageSize int
}

type UsageEventPage struct {
	Total  int
	Events []UsageEvent
}

func compactNumber(v int64) string {
	if v < 1_000 {
		return fmt.Sprintf("%d", v)
	}

	if v < 1_000_000 {
		return fmt.Sprintf("%.1fk", float64(v)/1_000)
	}

	return fmt.Sprintf("%.1fM", float64(v)/1_000_000)
}
