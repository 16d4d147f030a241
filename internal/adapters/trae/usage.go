package trae

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
)

const (
	productTypeExtraPackage  = 2
	packageSourceAnniversary = 6
)

type entitlementListResponse struct {
	IsPayFreshman bool              `json:"is_pay_freshman"`
	Packs         []entitlementPack `json:"user_entitlement_pack_list"`
}

type entitlementPack struct {
	Base       entitlementBase `json:"entitlement_base_info"`
	ExpireTime int64           `json:"expire_time"`
	Status     int             `json:"status"`
	Usage      packUsage       `json:"usage"`
}

type entitlementBase struct {
	EndTime      int64        `json:"end_time"`
	StartTime    int64        `json:"start_time"`
	ProductID    int          `json:"product_id"`
	ProductType  int          `json:"product_type"`
	ProductExtra productExtra `json:"product_extra"`
	Quota        packQuota    `json:"quota"`
	UserID       string       `json:"user_id"`
}

type productExtra struct {
	PackageExtra *struct {
		PackageSourceType int `json:"package_source_type"`
	} `json:"package_extra"`
}

type packQuota struct {
	AdvancedModelRequestLimit    float64 `json:"advanced_model_request_limit"`
	AutoCompletionLimit          float64 `json:"auto_completion_limit"`
	PremiumModelFastRequestLimit float64 `json:"premium_model_fast_request_limit"`
	PremiumModelSlowRequestLimit float64 `json:"premium_model_slow_request_limit"`
}

type packUsage struct {
	AdvancedModelAmount    float64 `json:"advanced_model_amount"`
	AutoCompletionAmount   float64 `json:"auto_completion_amount"`
	PremiumModelFastAmount float64 `json:"premium_model_fast_amount"`
	PremiumModelSlowAmount float64 `json:"premium_model_slow_amount"`
}

func (c *Client) GetUsage(ctx context.Context, token string) (domain.UsageSummary, error) {
	var response entitlementListResponse
	err := c.postRegional(ctx, request{
		path:  entitlementPath,
		token: token,
		body:  map[string]bool{"require_usage": true},
	}, &response)
	if err != nil {
		return domain.UsageSummary{}, fmt.Errorf("fetch entitlements: %w", err)
	}

	summary := summarizeEntitlements(response)
	summary.FetchedAt = c.now().UTC()
	return summary, nil
}

// summarizeEntitlements folds entitlement packs into one summary. The extra
// package (product type 2) fills the extra fast request quota; any other pack
// is the Free or Pro plan. Without packs the Free defaults are reported.
func summarizeEntitlements(response entitlementListResponse) domain.UsageSummary {
	summary := domain.DefaultUsageSummary()

	for _, pack := range response.Packs {
		base := pack.Base
		quota := base.Quota
		usage := pack.Usage

		if summary.UserID == "" {
			summary.UserID = base.UserID
		}

		if base.ProductType == productTypeExtraPackage {
			summary.ExtraFastRequest = domain.NewQuota(usage.PremiumModelFastAmount, quota.PremiumModelFastRequestLimit)
			summary.ExtraExpireTime = unixTime(base.EndTime)
			if extra := base.ProductExtra.PackageExtra; extra != nil && extra.PackageSourceType == packageSourceAnniversary {
				summary.ExtraPackageName = "2026 Anniversary Treat"
			}
			continue
		}

		summary.PlanType = domain.PlanPro
		if base.ProductID == 0 {
			summary.PlanType = domain.PlanFree
		}
		summary.ResetTime = unixTime(base.EndTime)
		summary.FastRequest = domain.NewQuota(usage.PremiumModelFastAmount, quota.PremiumModelFastRequestLimit)
		summary.SlowRequest = domain.NewQuota(usage.PremiumModelSlowAmount, quota.PremiumModelSlowRequestLimit)
		summary.AdvancedModel = domain.NewQuota(usage.AdvancedModelAmount, quota.AdvancedModelRequestLimit)
		summary.Autocomplete = domain.NewQuota(usage.AutoCompletionAmount, quota.AutoCompletionLimit)
	}

	return summary
}

func unixTime(seconds int64) time.Time {
	if seconds <= 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}
