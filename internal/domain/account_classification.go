package domain

import "strings"

const (
	PlanFree = "Free"
	PlanPro  = "Pro"
)

func AccountClassification(planType string) string {
	switch strings.ToLower(strings.TrimSpace(planType)) {
	case "":
		return "Unknown"
	case "free":
		return PlanFree
	case "pro", "pro_plus", "ultra":
		return PlanPro
	default:
		return strings.TrimSpace(planType)
	}
}
