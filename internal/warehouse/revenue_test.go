package warehouse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBillingCycles(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		freq  string
		want  int
	}{
		{"monthly within one month", date(2024, time.March, 5), date(2024, time.March, 20), FreqMonthly, 1},
		{"monthly three months touched", date(2024, time.February, 15), date(2024, time.April, 10), FreqMonthly, 3},
		{"monthly counts months touched not elapsed", date(2024, time.January, 31), date(2024, time.February, 1), FreqMonthly, 2},
		{"monthly full year", date(2024, time.January, 1), date(2024, time.December, 31), FreqMonthly, 12},
		{"annually single year", date(2024, time.January, 1), date(2024, time.May, 1), FreqAnnually, 1},
		{"annually two years touched", date(2023, time.December, 31), date(2024, time.January, 1), FreqAnnually, 2},
		{"onetime ignores span", date(2024, time.January, 1), date(2024, time.December, 31), FreqOnetime, 1},
		{"onetime single day", date(2024, time.June, 1), date(2024, time.June, 1), FreqOnetime, 1},
		{"unknown frequency", date(2024, time.January, 1), date(2024, time.December, 31), "LIFETIME", 0},
		{"empty frequency", date(2024, time.January, 1), date(2024, time.December, 31), "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BillingCycles(tt.start, tt.end, tt.freq)
			if got != tt.want {
				t.Errorf("BillingCycles(%s, %s, %s) = %d, want %d",
					tt.start.Format("2006-01-02"), tt.end.Format("2006-01-02"),
					tt.freq, got, tt.want)
			}
		})
	}
}

func TestEstimateRevenueScenarios(t *testing.T) {
	plans := []Plan{
		{PlanID: 1, PaymentFrequencyCode: FreqMonthly, CostAmount: decimal.NewFromInt(10)},
		{PlanID: 2, PaymentFrequencyCode: FreqOnetime, CostAmount: decimal.RequireFromString("25")},
		{PlanID: 3, PaymentFrequencyCode: FreqAnnually, CostAmount: decimal.NewFromInt(100)},
		{PlanID: 4, PaymentFrequencyCode: "LIFETIME", CostAmount: decimal.NewFromInt(299)},
	}

	tests := []struct {
		name        string
		userPlan    UserPlan
		wantCycles  int
		wantRevenue string
	}{
		{
			name:        "monthly mid-period",
			userPlan:    UserPlan{UserRegistrationID: 1001, PlanID: 1, StartDate: "2024-02-15", EndDate: "2024-04-10"},
			wantCycles:  3,
			wantRevenue: "30",
		},
		{
			name:        "onetime open-ended",
			userPlan:    UserPlan{UserRegistrationID: 1002, PlanID: 2, StartDate: "2024-06-01", EndDate: ""},
			wantCycles:  1,
			wantRevenue: "25",
		},
		{
			name:        "annual clamped to period start",
			userPlan:    UserPlan{UserRegistrationID: 1003, PlanID: 3, StartDate: "2023-05-01", EndDate: "2024-05-01"},
			wantCycles:  1,
			wantRevenue: "100",
		},
		{
			name:        "entirely after period",
			userPlan:    UserPlan{UserRegistrationID: 1004, PlanID: 1, StartDate: "2025-01-10", EndDate: ""},
			wantCycles:  0,
			wantRevenue: "0",
		},
		{
			name:        "entirely before period",
			userPlan:    UserPlan{UserRegistrationID: 1005, PlanID: 1, StartDate: "2023-01-01", EndDate: "2023-11-30"},
			wantCycles:  0,
			wantRevenue: "0",
		},
		{
			name:        "no start date",
			userPlan:    UserPlan{UserRegistrationID: 1006, PlanID: 1, StartDate: "", EndDate: "2024-06-30"},
			wantCycles:  0,
			wantRevenue: "0",
		},
		{
			name:        "unrecognized frequency",
			userPlan:    UserPlan{UserRegistrationID: 1007, PlanID: 4, StartDate: "2024-01-01", EndDate: ""},
			wantCycles:  0,
			wantRevenue: "0",
		},
		{
			name:        "monthly clamped open-ended",
			userPlan:    UserPlan{UserRegistrationID: 1008, PlanID: 1, StartDate: "2023-11-15", EndDate: ""},
			wantCycles:  12,
			wantRevenue: "120",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := EstimateRevenue([]UserPlan{tt.userPlan}, plans)
			if len(rows) != 1 {
				t.Fatalf("Expected 1 row, got %d", len(rows))
			}
			row := rows[0]
			if row.Cycles2024 != tt.wantCycles {
				t.Errorf("Expected cycles_2024 %d, got %d", tt.wantCycles, row.Cycles2024)
			}
			if !row.Revenue2024.Equal(decimal.RequireFromString(tt.wantRevenue)) {
				t.Errorf("Expected revenue_2024 %s, got %s", tt.wantRevenue, row.Revenue2024)
			}
		})
	}
}

func TestEstimateRevenueMissingPlan(t *testing.T) {
	// A subscription whose plan_id has no plan row: cost is unknown, so the
	// documented policy is cycles 0, revenue 0, empty frequency code.
	rows := EstimateRevenue(
		[]UserPlan{{UserRegistrationID: 1001, PlanID: 99, StartDate: "2024-03-01", EndDate: "2024-09-30"}},
		[]Plan{{PlanID: 1, PaymentFrequencyCode: FreqMonthly, CostAmount: decimal.NewFromInt(10)}},
	)

	if len(rows) != 1 {
		t.Fatalf("Expected the row preserved, got %d rows", len(rows))
	}
	row := rows[0]
	if row.PaymentFrequencyCode != "" {
		t.Errorf("Expected empty frequency code, got %q", row.PaymentFrequencyCode)
	}
	if row.Cycles2024 != 0 || !row.Revenue2024.IsZero() {
		t.Errorf("Expected zero cycles and revenue, got %d / %s", row.Cycles2024, row.Revenue2024)
	}
}

func TestEstimateRevenueRowPreserving(t *testing.T) {
	userPlans := []UserPlan{
		{UserRegistrationID: 1001, PlanID: 1, StartDate: "2024-01-01", EndDate: ""},
		{UserRegistrationID: 1001, PlanID: 2, StartDate: "", EndDate: ""},
		{UserRegistrationID: 1002, PlanID: 99, StartDate: "2024-05-01", EndDate: "2024-05-02"},
	}
	plans := []Plan{
		{PlanID: 1, PaymentFrequencyCode: FreqMonthly, CostAmount: decimal.NewFromInt(10)},
		{PlanID: 2, PaymentFrequencyCode: FreqOnetime, CostAmount: decimal.NewFromInt(25)},
	}

	rows := EstimateRevenue(userPlans, plans)
	if len(rows) != len(userPlans) {
		t.Fatalf("Expected one output row per subscription, got %d for %d", len(rows), len(userPlans))
	}
}
