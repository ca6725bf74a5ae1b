package warehouse

import "github.com/dicehub/dice-warehouse/internal/sink"

// Converters from typed row slices to the generic output table descriptor.
// Column order here is the published warehouse contract.

func planDimTable(rows []PlanDim) sink.Table {
	t := sink.Table{
		Name: "dim_plan",
		Columns: []sink.Column{
			{Name: "plan_id", Type: "INTEGER"},
			{Name: "payment_frequency_code", Type: "TEXT"},
			{Name: "payment_frequency_desc_en", Type: "TEXT"},
			{Name: "cost_amount", Type: "NUMERIC(12,2)"},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.PlanID, r.PaymentFrequencyCode, opt(r.PaymentFrequencyDescEN), r.CostAmount,
		})
	}
	return t
}

func userDimTable(rows []UserDim) sink.Table {
	t := sink.Table{
		Name: "dim_user",
		Columns: []sink.Column{
			{Name: "user_id", Type: "INTEGER"},
			{Name: "user_registration_id", Type: "INTEGER"},
			{Name: "username", Type: "TEXT"},
			{Name: "registration_email", Type: "TEXT"},
			{Name: "first_name", Type: "TEXT"},
			{Name: "last_name", Type: "TEXT"},
			{Name: "ip_address", Type: "TEXT"},
			{Name: "social_media_handle", Type: "TEXT"},
			{Name: "email", Type: "TEXT"},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.UserID, r.UserRegistrationID, opt(r.Username), r.RegistrationEmail,
			opt(r.FirstName), opt(r.LastName), opt(r.IPAddress),
			opt(r.SocialMediaHandle), opt(r.Email),
		})
	}
	return t
}

func channelDimTable(rows []ChannelDim) sink.Table {
	t := sink.Table{
		Name: "dim_channel",
		Columns: []sink.Column{
			{Name: "channel_code", Type: "TEXT"},
			{Name: "channel_desc_en", Type: "TEXT"},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.ChannelCode, r.ChannelDescEN})
	}
	return t
}

func statusDimTable(rows []StatusDim) sink.Table {
	t := sink.Table{
		Name: "dim_status",
		Columns: []sink.Column{
			{Name: "status_code", Type: "TEXT"},
			{Name: "status_desc_en", Type: "TEXT"},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.StatusCode, r.StatusDescEN})
	}
	return t
}

func dateDimTable(rows []DateDimRow) sink.Table {
	t := sink.Table{
		Name: "dim_date",
		Columns: []sink.Column{
			{Name: "date_key", Type: "INTEGER"},
			{Name: "date", Type: "DATE"},
			{Name: "year", Type: "INTEGER"},
			{Name: "quarter", Type: "INTEGER"},
			{Name: "month", Type: "INTEGER"},
			{Name: "day", Type: "INTEGER"},
			{Name: "day_of_week", Type: "INTEGER"},
			{Name: "week_of_year", Type: "INTEGER"},
			{Name: "is_weekend", Type: "BOOLEAN"},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.DateKey, r.Date, r.Year, r.Quarter, r.Month, r.Day,
			r.DayOfWeek, r.WeekOfYear, r.IsWeekend,
		})
	}
	return t
}

func playSessionFactTable(rows []PlaySessionFact) sink.Table {
	t := sink.Table{
		Name: "fact_play_session",
		Columns: []sink.Column{
			{Name: "play_session_id", Type: "INTEGER"},
			{Name: "user_id", Type: "INTEGER"},
			{Name: "date_key", Type: "INTEGER"},
			{Name: "start_ts", Type: "TIMESTAMP"},
			{Name: "end_ts", Type: "TIMESTAMP"},
			{Name: "duration_seconds", Type: "DOUBLE PRECISION"},
			{Name: "channel_code", Type: "TEXT"},
			{Name: "status_code", Type: "TEXT"},
			{Name: "total_score", Type: "INTEGER"},
			{Name: "channel_desc_en", Type: "TEXT"},
			{Name: "status_desc_en", Type: "TEXT"},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.PlaySessionID, r.UserID, opt(r.DateKey), opt(r.StartTS), opt(r.EndTS),
			opt(r.DurationSeconds), r.ChannelCode, r.StatusCode, r.TotalScore,
			opt(r.ChannelDescEN), opt(r.StatusDescEN),
		})
	}
	return t
}

func userPlanFactTable(rows []UserPlanFact) sink.Table {
	t := sink.Table{
		Name: "fact_user_plan",
		Columns: []sink.Column{
			{Name: "user_registration_id", Type: "INTEGER"},
			{Name: "plan_id", Type: "INTEGER"},
			{Name: "start_date", Type: "DATE"},
			{Name: "end_date", Type: "DATE"},
			{Name: "start_date_key", Type: "INTEGER"},
			{Name: "end_date_key", Type: "INTEGER"},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.UserRegistrationID, r.PlanID, opt(r.StartDate), opt(r.EndDate),
			opt(r.StartDateKey), opt(r.EndDateKey),
		})
	}
	return t
}

func revenueTable(rows []RevenueRow) sink.Table {
	t := sink.Table{
		Name: "revenue_2024_by_subscription",
		Columns: []sink.Column{
			{Name: "user_registration_id", Type: "INTEGER"},
			{Name: "plan_id", Type: "INTEGER"},
			{Name: "payment_frequency_code", Type: "TEXT"},
			{Name: "cycles_2024", Type: "INTEGER"},
			{Name: "revenue_2024", Type: "NUMERIC(12,2)"},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.UserRegistrationID, r.PlanID, r.PaymentFrequencyCode,
			r.Cycles2024, r.Revenue2024,
		})
	}
	return t
}

// opt unwraps an optional value: nil pointer becomes a nil cell.
func opt[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
