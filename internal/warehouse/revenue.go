package warehouse

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recognized payment frequency codes. Any other code is an unknown billing
// model and contributes zero cycles.
const (
	FreqMonthly  = "MONTHLY"
	FreqAnnually = "ANNUALLY"
	FreqOnetime  = "ONETIME"
)

// Fixed analysis period for the revenue estimate, inclusive on both ends.
var (
	revenuePeriodStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	revenuePeriodEnd   = time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// RevenueRow is the estimated 2024 revenue for one subscription instance.
// PaymentFrequencyCode is empty when the subscription's plan row is missing;
// revenue is then zero (the plan's cost is unknown).
type RevenueRow struct {
	UserRegistrationID   int
	PlanID               int
	PaymentFrequencyCode string
	Cycles2024           int
	Revenue2024          decimal.Decimal
}

// BillingCycles counts the billing cycles a subscription generates over the
// active interval [activeStart, activeEnd] under the given payment frequency.
// Monthly and annual plans charge once per calendar month or year touched by
// the interval, regardless of day: active Jan 31 through Feb 1 is two monthly
// cycles. A one-time purchase is a single charge however long the interval.
func BillingCycles(activeStart, activeEnd time.Time, frequencyCode string) int {
	switch frequencyCode {
	case FreqMonthly:
		startMonths := activeStart.Year()*12 + int(activeStart.Month())
		endMonths := activeEnd.Year()*12 + int(activeEnd.Month())
		return endMonths - startMonths + 1
	case FreqAnnually:
		return activeEnd.Year() - activeStart.Year() + 1
	case FreqOnetime:
		return 1
	default:
		return 0
	}
}

// EstimateRevenue computes the 2024 billing cycle count and revenue estimate
// for every subscription instance, one output row per input row. A missing
// start date means the subscription's activity cannot be determined and it
// contributes zero cycles; a missing end date means the subscription is still
// active and is assumed to run through the end of the period.
func EstimateRevenue(userPlans []UserPlan, plans []Plan) []RevenueRow {
	byID := make(map[int]Plan, len(plans))
	for _, p := range plans {
		byID[p.PlanID] = p
	}

	rows := make([]RevenueRow, 0, len(userPlans))
	for _, up := range userPlans {
		row := RevenueRow{
			UserRegistrationID: up.UserRegistrationID,
			PlanID:             up.PlanID,
			Revenue2024:        decimal.Zero,
		}

		plan, hasPlan := byID[up.PlanID]
		if hasPlan {
			row.PaymentFrequencyCode = plan.PaymentFrequencyCode
		}

		if start, ok := parseDate(up.StartDate); ok {
			activeStart := maxDate(start, revenuePeriodStart)
			activeEnd := revenuePeriodEnd
			if end, ok := parseDate(up.EndDate); ok {
				activeEnd = minDate(end, revenuePeriodEnd)
			}
			if !activeStart.After(activeEnd) {
				row.Cycles2024 = BillingCycles(activeStart, activeEnd, row.PaymentFrequencyCode)
			}
		}

		if hasPlan && row.Cycles2024 > 0 {
			row.Revenue2024 = plan.CostAmount.Mul(decimal.NewFromInt(int64(row.Cycles2024)))
		}

		rows = append(rows, row)
	}
	return rows
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
