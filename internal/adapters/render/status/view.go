package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/application"
	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 24

type RenderOptions struct {
	Now        time.Time
	StaleAfter time.Duration
	Selected   map[domain.AccountID]bool
	Refreshing func(domain.AccountID) bool
}

func renderView(entries []domain.AccountWithUsage, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Trae Account Usage"),
		s.header.Render(fmt.Sprintf("accounts: %d", len(entries))),
	}

	if len(entries) == 0 {
		lines = append(lines, s.empty.Render("No accounts yet. Add one with `ta account add`."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, entry := range entries {
		lines = append(lines, s.section.Render(renderAccount(entry, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderAccount(entry domain.AccountWithUsage, opts RenderOptions, s styles) string {
	account := entry.Account

	head := s.account.Render(accountTitle(account, entry.EffectivePlan()))
	if account.IsCurrent {
		head = s.current.Render("* ") + head + " " + s.current.Render("(current)")
	}
	if opts.Selected[account.ID] {
		head = s.limitMeta.Render("[x] ") + head
	}
	if opts.Refreshing != nil && opts.Refreshing(account.ID) {
		head += " " + s.limitMeta.Render("refreshing...")
	}
	if entry.Usage != nil && !opts.Now.IsZero() && entry.Usage.IsStale(opts.Now, opts.StaleAfter) {
		head += " " + s.warning.Render("[stale]")
	}

	parts := []string{head, s.header.Render("id: " + string(account.ID))}
	if entry.Usage == nil {
		parts = append(parts, s.detail.Render("usage: n/a"))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	parts = append(parts, quotaLines(*entry.Usage, s)...)
	if entry.Usage.HasExtraPackage() {
		parts = append(parts, extraLine(*entry.Usage, opts.Now, s))
	}
	if !entry.Usage.ResetTime.IsZero() {
		parts = append(parts, s.limitMeta.Render(formatResetRelative(entry.Usage.ResetTime, opts.Now)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func quotaLines(usage domain.UsageSummary, s styles) []string {
	lines := make([]string, 0, len(domain.QuotaCategories))
	for _, category := range domain.QuotaCategories {
		quota := usage.Quota(category)
		if quota.Limit <= 0 {
			continue
		}
		lines = append(lines, quotaLine(category.Label(), quota, s))
	}

	if len(lines) == 0 {
		return []string{s.detail.Render("quota: n/a")}
	}

	return lines
}

func quotaLine(label string, quota domain.Quota, s styles) string {
	used := quota.UsedPercent()
	leftPercent := clampPercent(100 - used)

	percentStyle := lipgloss.NewStyle().Foreground(interpolateColor(leftPercent, 0, 100))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.limitKey.Render(fmt.Sprintf("%-13s", label+":")),
		renderProgressBar(used, barWidth, s),
		" ",
		percentStyle.Render(fmt.Sprintf("%3.0f%% left", leftPercent)),
		" ",
		s.limitMeta.Render(fmt.Sprintf("%s/%s", formatAmount(quota.Used), formatAmount(quota.Limit))),
	)
}

func extraLine(usage domain.UsageSummary, now time.Time, s styles) string {
	name := strings.TrimSpace(usage.ExtraPackageName)
	if name == "" {
		name = "extra package"
	}

	line := s.detail.Render("extra: " + name)
	if !usage.ExtraExpireTime.IsZero() {
		line += " " + s.limitMeta.Render("(expires "+formatResetAt(usage.ExtraExpireTime, now)+")")
	}
	return line
}

func renderDashboard(d application.Dashboard, s styles) string {
	current := "none"
	if d.CurrentAccount != nil {
		current = d.CurrentAccount.DisplayName()
	}

	plans := make([]string, 0, len(d.Plans))
	for _, plan := range d.Plans {
		plans = append(plans, fmt.Sprintf("%s %d", plan.Plan, plan.Count))
	}
	planLine := "none"
	if len(plans) > 0 {
		planLine = strings.Join(plans, ", ")
	}

	fast := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.limitKey.Render("fast requests: "),
		renderProgressBar(float64(d.UsagePercent), barWidth, s),
		" ",
		s.detail.Render(fmt.Sprintf("%d%% used", d.UsagePercent)),
		" ",
		s.limitMeta.Render(fmt.Sprintf("%s/%s (%s left)", formatAmount(d.FastUsed), formatAmount(d.FastLimit), formatAmount(d.FastLeft))),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		s.title.Render("Dashboard"),
		s.header.Render(fmt.Sprintf("accounts: %d  active: %d", d.TotalAccounts, d.ActiveAccounts)),
		s.detail.Render("current: "+current),
		fast,
		s.detail.Render("plans: "+planLine),
	)
}

func renderEvents(title string, page domain.UsageEventPage, s styles) string {
	lines := []string{
		s.title.Render(title),
		s.header.Render(fmt.Sprintf("sessions: %d", page.Total)),
	}

	if len(page.Events) == 0 {
		lines = append(lines, s.empty.Render("No usage in this range."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.tableHeader.Render(fmt.Sprintf("%-16s  %-24s  %-8s  %8s  %8s", "time", "model", "mode", "amount", "tokens")))
	for _, event := range page.Events {
		mode := event.Mode
		if event.UseMaxMode {
			mode += "+max"
		}
		row := fmt.Sprintf("%-16s  %-24s  %-8s  %8s  %8s",
			event.UsageTime.Format("2006-01-02 15:04"),
			truncate(event.ModelName, 24),
			truncate(mode, 8),
			formatAmount(event.Amount),
			event.TotalTokensCompact(),
		)
		lines = append(lines, s.detail.Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// FormatNotifications renders one line per message, colored by severity.
func FormatNotifications(notifications []application.Notification) string {
	s := newStyles()

	lines := make([]string, 0, len(notifications))
	for _, n := range notifications {
		style, ok := s.severities[n.Severity]
		if !ok {
			style = s.detail
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s: %s", n.Severity, n.Message)))
	}
	return strings.Join(lines, "\n")
}

func renderProgressBar(usedPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	used := clampPercent(usedPercent)
	leftFraction := (100.0 - used) / 100.0
	filled := int(math.Round(float64(width) * leftFraction))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	fill := s.barLevels[application.LevelFor(used)]
	empty := width - filled

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", empty)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func formatResetAt(resetsAt, now time.Time) string {
	if resetsAt.IsZero() {
		return "unknown"
	}
	if now.IsZero() {
		return resetsAt.Format(time.RFC3339)
	}

	yearA, monthA, dayA := now.Date()
	yearB, monthB, dayB := resetsAt.Date()
	if yearA == yearB && monthA == monthB && dayA == dayB {
		return resetsAt.Format("15:04")
	}

	return resetsAt.Format("15:04 on 02 Jan")
}

func formatResetRelative(resetsAt, now time.Time) string {
	if now.IsZero() {
		return "resets " + formatResetAt(resetsAt, now)
	}

	if resetsAt.Before(now) {
		return "reset now"
	}

	remaining := resetsAt.Sub(now)
	if remaining < 24*time.Hour {
		hours := int(math.Ceil(remaining.Hours()))
		if hours < 1 {
			hours = 1
		}
		suffix := "hours"
		if hours == 1 {
			suffix = "hour"
		}
		return fmt.Sprintf("resets in %d %s (%s)", hours, suffix, resetsAt.Format("15:04"))
	}

	days := int(math.Ceil(remaining.Hours() / 24))
	suffix := "days"
	if days == 1 {
		suffix = "day"
	}

	return fmt.Sprintf("resets in %d %s (%s)", days, suffix, resetsAt.Format("15:04 on 02 Jan"))
}

func accountTitle(account domain.Account, planType string) string {
	classification := domain.AccountClassification(planType)
	if email := strings.TrimSpace(account.Email); email != "" {
		return fmt.Sprintf("Account: %s (%s)", email, classification)
	}
	return fmt.Sprintf("%s (%s)", account.DisplayName(), classification)
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// 240 (faded grey) at min up to 255 (bright white) at max.
	baseColor := 240.0
	targetColor := 255.0
	colorCode := int(baseColor + (targetColor-baseColor)*normalized)

	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}
