package warehouse

import "github.com/shopspring/decimal"

// PlanDim is the conformed plan dimension row. The description is nil when
// the plan carries an unrecognized payment frequency code.
type PlanDim struct {
	PlanID                 int
	PaymentFrequencyCode   string
	PaymentFrequencyDescEN *string
	CostAmount             decimal.Decimal
}

// UserDim is the conformed user dimension row, driven by the registration
// table. User-derived attributes are nil when no user record matches.
type UserDim struct {
	UserID             int
	UserRegistrationID int
	Username           *string
	RegistrationEmail  string
	FirstName          *string
	LastName           *string
	IPAddress          *string
	SocialMediaHandle  *string
	Email              *string
}

// ChannelDim is the conformed play session channel dimension row.
type ChannelDim struct {
	ChannelCode   string
	ChannelDescEN string
}

// StatusDim is the conformed play session status dimension row.
type StatusDim struct {
	StatusCode   string
	StatusDescEN string
}

// ConformPlans joins plans to their payment frequency codes. Every plan row
// is preserved even when the frequency code is unrecognized.
func ConformPlans(plans []Plan, freqs []PaymentFrequency) []PlanDim {
	byCode := make(map[string]PaymentFrequency, len(freqs))
	for _, f := range freqs {
		byCode[f.Code] = f
	}

	rows := make([]PlanDim, 0, len(plans))
	for _, p := range plans {
		row := PlanDim{
			PlanID:               p.PlanID,
			PaymentFrequencyCode: p.PaymentFrequencyCode,
			CostAmount:           p.CostAmount,
		}
		if f, ok := byCode[p.PaymentFrequencyCode]; ok {
			desc := f.DescriptionEN
			row.PaymentFrequencyDescEN = &desc
		}
		rows = append(rows, row)
	}
	return rows
}

// ConformUsers joins registrations to user accounts on user_id. Every
// registration row is preserved; a registration whose user record is missing
// yields nil user attributes. The registration email and the account email
// are kept as two separate columns.
func ConformUsers(regs []UserRegistration, users []User) []UserDim {
	byID := make(map[int]User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	rows := make([]UserDim, 0, len(regs))
	for _, r := range regs {
		row := UserDim{
			UserID:             r.UserID,
			UserRegistrationID: r.UserRegistrationID,
			RegistrationEmail:  r.Email,
		}
		if u, ok := byID[r.UserID]; ok {
			row.Username = strPtr(u.Username)
			row.FirstName = strPtr(u.FirstName)
			row.LastName = strPtr(u.LastName)
			row.IPAddress = strPtr(u.IPAddress)
			row.SocialMediaHandle = strPtr(u.SocialMediaHandle)
			row.Email = strPtr(u.Email)
		}
		rows = append(rows, row)
	}
	return rows
}

// ConformChannels projects the channel code table to its conformed shape.
func ConformChannels(codes []ChannelCode) []ChannelDim {
	rows := make([]ChannelDim, 0, len(codes))
	for _, c := range codes {
		rows = append(rows, ChannelDim{ChannelCode: c.Code, ChannelDescEN: c.DescriptionEN})
	}
	return rows
}

// ConformStatuses projects the status code table to its conformed shape.
func ConformStatuses(codes []StatusCode) []StatusDim {
	rows := make([]StatusDim, 0, len(codes))
	for _, s := range codes {
		rows = append(rows, StatusDim{StatusCode: s.Code, StatusDescEN: s.DescriptionEN})
	}
	return rows
}

func strPtr(s string) *string {
	return &s
}
