//-------------------------------------------------------------------------
//
// Dice Warehouse
//
// Copyright (c) 2025 - 2026, DiceHub, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package source reads the raw operational extracts from CSV files.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dicehub/dice-warehouse/internal/warehouse"
)

// CSVSource implements warehouse.Source over a directory of CSV extracts,
// one file per logical table (<dir>/<table>.csv).
type CSVSource struct {
	dir string
}

// NewCSVSource creates a source rooted at dir.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

// table is one parsed CSV file with header-addressed fields.
type table struct {
	name    string
	index   map[string]int
	records [][]string
}

func (s *CSVSource) read(name string) (*table, error) {
	path := filepath.Join(s.dir, name+".csv")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &warehouse.MissingInputError{Table: name}
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("extract %s has no header row", path)
	}

	index := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		index[strings.TrimSpace(col)] = i
	}
	return &table{name: name, index: index, records: records[1:]}, nil
}

func (t *table) field(record []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (t *table) intField(record []string, column string) (int, error) {
	raw := t.field(record, column)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("table %s: invalid integer %q in column %s: %w", t.name, raw, column, err)
	}
	return n, nil
}

func (t *table) decimalField(record []string, column string) (decimal.Decimal, error) {
	raw := t.field(record, column)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("table %s: invalid decimal %q in column %s: %w", t.name, raw, column, err)
	}
	return d, nil
}

// Plans reads plan.csv.
func (s *CSVSource) Plans() ([]warehouse.Plan, error) {
	t, err := s.read("plan")
	if err != nil {
		return nil, err
	}
	rows := make([]warehouse.Plan, 0, len(t.records))
	for _, rec := range t.records {
		id, err := t.intField(rec, "plan_id")
		if err != nil {
			return nil, err
		}
		cost, err := t.decimalField(rec, "cost_amount")
		if err != nil {
			return nil, err
		}
		rows = append(rows, warehouse.Plan{
			PlanID:               id,
			PaymentFrequencyCode: t.field(rec, "payment_frequency_code"),
			CostAmount:           cost,
		})
	}
	return rows, nil
}

// PaymentFrequencies reads plan_payment_frequency.csv.
func (s *CSVSource) PaymentFrequencies() ([]warehouse.PaymentFrequency, error) {
	t, err := s.read("plan_payment_frequency")
	if err != nil {
		return nil, err
	}
	rows := make([]warehouse.PaymentFrequency, 0, len(t.records))
	for _, rec := range t.records {
		rows = append(rows, warehouse.PaymentFrequency{
			Code:          t.field(rec, "payment_frequency_code"),
			DescriptionEN: t.field(rec, "english_description"),
			DescriptionFR: t.field(rec, "french_description"),
		})
	}
	return rows, nil
}

// Users reads user.csv.
func (s *CSVSource) Users() ([]warehouse.User, error) {
	t, err := s.read("user")
	if err != nil {
		return nil, err
	}
	rows := make([]warehouse.User, 0, len(t.records))
	for _, rec := range t.records {
		id, err := t.intField(rec, "user_id")
		if err != nil {
			return nil, err
		}
		rows = append(rows, warehouse.User{
			UserID:            id,
			Username:          t.field(rec, "username"),
			Email:             t.field(rec, "email"),
			FirstName:         t.field(rec, "first_name"),
			LastName:          t.field(rec, "last_name"),
			IPAddress:         t.field(rec, "ip_address"),
			SocialMediaHandle: t.field(rec, "social_media_handle"),
		})
	}
	return rows, nil
}

// UserRegistrations reads user_registration.csv.
func (s *CSVSource) UserRegistrations() ([]warehouse.UserRegistration, error) {
	t, err := s.read("user_registration")
	if err != nil {
		return nil, err
	}
	rows := make([]warehouse.UserRegistration, 0, len(t.records))
	for _, rec := range t.records {
		regID, err := t.intField(rec, "user_registration_id")
		if err != nil {
			return nil, err
		}
		userID, err := t.intField(rec, "user_id")
		if err != nil {
			return nil, err
		}
		rows = append(rows, warehouse.UserRegistration{
			UserRegistrationID: regID,
			UserID:             userID,
			Email:              t.field(rec, "email"),
		})
	}
	return rows, nil
}

// ChannelCodes reads channel_code.csv.
func (s *CSVSource) ChannelCodes() ([]warehouse.ChannelCode, error) {
	t, err := s.read("channel_code")
	if err != nil {
		return nil, err
	}
	rows := make([]warehouse.ChannelCode, 0, len(t.records))
	for _, rec := range t.records {
		rows = append(rows, warehouse.ChannelCode{
			Code:          t.field(rec, "play_session_channel_code"),
			DescriptionEN: t.field(rec, "english_description"),
			DescriptionFR: t.field(rec, "french_description"),
		})
	}
	return rows, nil
}

// StatusCodes reads status_code.csv.
func (s *CSVSource) StatusCodes() ([]warehouse.StatusCode, error) {
	t, err := s.read("status_code")
	if err != nil {
		return nil, err
	}
	rows := make([]warehouse.StatusCode, 0, len(t.records))
	for _, rec := range t.records {
		rows = append(rows, warehouse.StatusCode{
			Code:          t.field(rec, "play_session_status_code"),
			DescriptionEN: t.field(rec, "english_description"),
			DescriptionFR: t.field(rec, "french_description"),
		})
	}
	return rows, nil
}

// PlaySessions reads user_play_session.csv.
func (s *CSVSource) PlaySessions() ([]warehouse.PlaySession, error) {
	t, err := s.read("user_play_session")
	if err != nil {
		return nil, err
	}
	rows := make([]warehouse.PlaySession, 0, len(t.records))
	for _, rec := range t.records {
		sessionID, err := t.intField(rec, "play_session_id")
		if err != nil {
			return nil, err
		}
		userID, err := t.intField(rec, "user_id")
		if err != nil {
			return nil, err
		}
		score, err := t.intField(rec, "total_score")
		if err != nil {
			return nil, err
		}
		rows = append(rows, warehouse.PlaySession{
			PlaySessionID: sessionID,
			UserID:        userID,
			StartDatetime: t.field(rec, "start_datetime"),
			EndDatetime:   t.field(rec, "end_datetime"),
			ChannelCode:   t.field(rec, "channel_code"),
			StatusCode:    t.field(rec, "status_code"),
			TotalScore:    score,
		})
	}
	return rows, nil
}

// UserPlans reads user_plan.csv.
func (s *CSVSource) UserPlans() ([]warehouse.UserPlan, error) {
	t, err := s.read("user_plan")
	if err != nil {
		return nil, err
	}
	rows := make([]warehouse.UserPlan, 0, len(t.records))
	for _, rec := range t.records {
		regID, err := t.intField(rec, "user_registration_id")
		if err != nil {
			return nil, err
		}
		planID, err := t.intField(rec, "plan_id")
		if err != nil {
			return nil, err
		}
		rows = append(rows, warehouse.UserPlan{
			UserRegistrationID: regID,
			PlanID:             planID,
			StartDate:          t.field(rec, "start_date"),
			EndDate:            t.field(rec, "end_date"),
		})
	}
	return rows, nil
}
