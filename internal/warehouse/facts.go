package warehouse

import "time"

// PlaySessionFact is one derived play session row. Pointer fields are nil
// when the underlying extract value was absent or unparsable, or when a code
// has no match in the conformed dimension.
type PlaySessionFact struct {
	PlaySessionID   int
	UserID          int
	DateKey         *int
	StartTS         *time.Time
	EndTS           *time.Time
	DurationSeconds *float64
	ChannelCode     string
	StatusCode      string
	TotalScore      int
	ChannelDescEN   *string
	StatusDescEN    *string
}

// UserPlanFact is one derived subscription row. A nil end date means the
// subscription is still active.
type UserPlanFact struct {
	UserRegistrationID int
	PlanID             int
	StartDate          *time.Time
	EndDate            *time.Time
	StartDateKey       *int
	EndDateKey         *int
}

// BuildPlaySessionFacts derives the play session fact rows. The transform is
// row-preserving: exactly one output row per input session, in input order.
// Durations are not clamped; an end before start surfaces as a negative
// value since it indicates malformed upstream data.
func BuildPlaySessionFacts(sessions []PlaySession, channels []ChannelDim, statuses []StatusDim) []PlaySessionFact {
	channelDesc := make(map[string]string, len(channels))
	for _, c := range channels {
		channelDesc[c.ChannelCode] = c.ChannelDescEN
	}
	statusDesc := make(map[string]string, len(statuses))
	for _, s := range statuses {
		statusDesc[s.StatusCode] = s.StatusDescEN
	}

	rows := make([]PlaySessionFact, 0, len(sessions))
	for _, s := range sessions {
		row := PlaySessionFact{
			PlaySessionID: s.PlaySessionID,
			UserID:        s.UserID,
			ChannelCode:   s.ChannelCode,
			StatusCode:    s.StatusCode,
			TotalScore:    s.TotalScore,
		}

		if start, ok := parseTimestamp(s.StartDatetime); ok {
			row.StartTS = &start
			key := dateKey(start)
			row.DateKey = &key
		}
		if end, ok := parseTimestamp(s.EndDatetime); ok {
			row.EndTS = &end
		}
		if row.StartTS != nil && row.EndTS != nil {
			dur := row.EndTS.Sub(*row.StartTS).Seconds()
			row.DurationSeconds = &dur
		}

		if desc, ok := channelDesc[s.ChannelCode]; ok {
			row.ChannelDescEN = &desc
		}
		if desc, ok := statusDesc[s.StatusCode]; ok {
			row.StatusDescEN = &desc
		}

		rows = append(rows, row)
	}
	return rows
}

// BuildUserPlanFacts derives the subscription fact rows. Row-preserving;
// blank or unparsable dates become absent date keys.
func BuildUserPlanFacts(userPlans []UserPlan) []UserPlanFact {
	rows := make([]UserPlanFact, 0, len(userPlans))
	for _, up := range userPlans {
		row := UserPlanFact{
			UserRegistrationID: up.UserRegistrationID,
			PlanID:             up.PlanID,
		}
		if start, ok := parseDate(up.StartDate); ok {
			row.StartDate = &start
			key := dateKey(start)
			row.StartDateKey = &key
		}
		if end, ok := parseDate(up.EndDate); ok {
			row.EndDate = &end
			key := dateKey(end)
			row.EndDateKey = &key
		}
		rows = append(rows, row)
	}
	return rows
}
