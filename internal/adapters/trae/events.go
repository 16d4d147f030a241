package trae

import (
	"context"
	"fmt"

	"github.com/bnema/trae-accounts-cli/internal/domain"
)

const (
	defaultEventPageSize = 20
	maxEventPageSize     = 100
)

type usageEventsRequest struct {
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
	PageSize  int   `json:"page_size"`
	PageNum   int   `json:"page_num"`
}

type usageEventsResponse struct {
	Total    int            `json:"total"`
	Sessions []usageSession `json:"user_usage_group_by_sessions"`
}

type usageSession struct {
	SessionID       string  `json:"session_id"`
	UsageTime       int64   `json:"usage_time"`
	Mode            string  `json:"mode"`
	ModelName       string  `json:"model_name"`
	AmountFloat     float64 `json:"amount_float"`
	CostMoneyFloat  float64 `json:"cost_money_float"`
	UseMaxMode      bool    `json:"use_max_mode"`
	ProductTypeList []int   `json:"product_type_list"`
	ExtraInfo       struct {
		CacheReadToken  int64 `json:"cache_read_token"`
		CacheWriteToken int64 `json:"cache_write_token"`
		InputToken      int64 `json:"input_token"`
		OutputToken     int64 `json:"output_token"`
	} `json:"extra_info"`
}

// QueryUsageEvents lists metered sessions between query.Start and query.End.
// Page numbers start at 1.
func (c *Client) QueryUsageEvents(ctx context.Context, token string, query domain.UsageEventQuery) (domain.UsageEventPage, error) {
	if query.End.Before(query.Start) {
		return domain.UsageEventPage{}, fmt.Errorf("query usage events: end %s is before start %s", query.End, query.Start)
	}

	body := usageEventsRequest{
		StartTime: query.Start.Unix(),
		EndTime:   query.End.Unix(),
		PageSize:  query.PageSize,
		PageNum:   query.PageNum,
	}
	if body.PageSize <= 0 {
		body.PageSize = defaultEventPageSize
	}
	if body.PageSize > maxEventPageSize {
		body.PageSize = maxEventPageSize
	}
	if body.PageNum <= 0 {
		body.PageNum = 1
	}

	var response usageEventsResponse
	if err := c.postRegional(ctx, request{path: usageEventsPath, token: token, body: body}, &response); err != nil {
		return domain.UsageEventPage{}, fmt.Errorf("query usage events: %w", err)
	}

	page := domain.UsageEventPage{Total: response.Total, Events: make([]domain.UsageEvent, 0, len(response.Sessions))}
	for _, session := range response.Sessions {
		page.Events = append(page.Events, domain.UsageEvent{
			SessionID:        session.SessionID,
			UsageTime:        unixTime(session.UsageTime),
			Mode:             session.Mode,
			ModelName:        session.ModelName,
			Amount:           session.AmountFloat,
			CostMoney:        session.CostMoneyFloat,
			UseMaxMode:       session.UseMaxMode,
			ProductTypes:     append([]int(nil), session.ProductTypeList...),
			InputTokens:      session.ExtraInfo.InputToken,
			OutputTokens:     session.ExtraInfo.OutputToken,
			CacheReadTokens:  session.ExtraInfo.CacheReadToken,
			CacheWriteTokens: session.ExtraInfo.CacheWriteToken,
		})
	}

	return page, nil
}
