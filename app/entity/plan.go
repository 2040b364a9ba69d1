package entity

import "time"

type Plan string

const (
	PlanMonthly   Plan = "monthly"
	PlanQuarterly Plan = "quarterly"
	PlanYearly    Plan = "yearly"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanMonthly, PlanQuarterly, PlanYearly:
		return true
	default:
		return false
	}
}

// PeriodEnd returns the end of a billing period starting at start. Calendar
// arithmetic with AddDate normalization, so Jan 31 + 1 month rolls into March.
func (p Plan) PeriodEnd(start time.Time) time.Time {
	switch p {
	case PlanMonthly:
		return start.AddDate(0, 1, 0)
	case PlanQuarterly:
		return start.AddDate(0, 3, 0)
	case PlanYearly:
		return start.AddDate(1, 0, 0)
	default:
		return start
	}
}
