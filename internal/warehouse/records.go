// Package warehouse implements the dimensional transform pipeline for the
// dice-game platform: code-table conformance, fact derivation, and the 2024
// billing-cycle revenue estimate.
package warehouse

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Plan is a raw subscription plan record.
type Plan struct {
	PlanID               int
	PaymentFrequencyCode string
	CostAmount           decimal.Decimal
}

// PaymentFrequency is a raw payment frequency code record.
type PaymentFrequency struct {
	Code          string
	DescriptionEN string
	DescriptionFR string
}

// User is a raw user account record.
type User struct {
	UserID            int
	Username          string
	Email             string
	FirstName         string
	LastName          string
	IPAddress         string
	SocialMediaHandle string
}

// UserRegistration is a raw registration record. The registration email is
// kept separate from the account email: the two may legitimately disagree.
type UserRegistration struct {
	UserRegistrationID int
	UserID             int
	Email              string
}

// ChannelCode is a raw play session channel code record.
type ChannelCode struct {
	Code          string
	DescriptionEN string
	DescriptionFR string
}

// StatusCode is a raw play session status code record.
type StatusCode struct {
	Code          string
	DescriptionEN string
	DescriptionFR string
}

// PlaySession is a raw play session record. The timestamps are kept as the
// free-form strings found in the extract; parsing happens during fact
// derivation and unparsable values become absent rather than fatal.
type PlaySession struct {
	PlaySessionID int
	UserID        int
	StartDatetime string
	EndDatetime   string
	ChannelCode   string
	StatusCode    string
	TotalScore    int
}

// UserPlan is a raw subscription record. A blank end date means the
// subscription is still active.
type UserPlan struct {
	UserRegistrationID int
	PlanID             int
	StartDate          string
	EndDate            string
}

// Source provides the eight raw extract tables the pipeline consumes.
// A source that cannot produce a table returns *MissingInputError.
type Source interface {
	Plans() ([]Plan, error)
	PaymentFrequencies() ([]PaymentFrequency, error)
	Users() ([]User, error)
	UserRegistrations() ([]UserRegistration, error)
	ChannelCodes() ([]ChannelCode, error)
	StatusCodes() ([]StatusCode, error)
	PlaySessions() ([]PlaySession, error)
	UserPlans() ([]UserPlan, error)
}

// MissingInputError indicates a required raw extract table is unavailable.
// The pipeline cannot proceed without it.
type MissingInputError struct {
	Table string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input table %q", e.Table)
}
