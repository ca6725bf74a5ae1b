package warehouse

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dicehub/dice-warehouse/internal/sink"
)

// memSource is an in-memory Source for pipeline tests. Setting missing to a
// table name makes that loader fail with MissingInputError.
type memSource struct {
	plans    []Plan
	freqs    []PaymentFrequency
	users    []User
	regs     []UserRegistration
	channels []ChannelCode
	statuses []StatusCode
	sessions []PlaySession
	plansFor []UserPlan
	missing  string
}

func (m *memSource) table(name string) error {
	if m.missing == name {
		return &MissingInputError{Table: name}
	}
	return nil
}

func (m *memSource) Plans() ([]Plan, error) {
	return m.plans, m.table("plan")
}

func (m *memSource) PaymentFrequencies() ([]PaymentFrequency, error) {
	return m.freqs, m.table("plan_payment_frequency")
}

func (m *memSource) Users() ([]User, error) {
	return m.users, m.table("user")
}

func (m *memSource) UserRegistrations() ([]UserRegistration, error) {
	return m.regs, m.table("user_registration")
}

func (m *memSource) ChannelCodes() ([]ChannelCode, error) {
	return m.channels, m.table("channel_code")
}

func (m *memSource) StatusCodes() ([]StatusCode, error) {
	return m.statuses, m.table("status_code")
}

func (m *memSource) PlaySessions() ([]PlaySession, error) {
	return m.sessions, m.table("user_play_session")
}

func (m *memSource) UserPlans() ([]UserPlan, error) {
	return m.plansFor, m.table("user_plan")
}

// memWriter captures written tables by name.
type memWriter struct {
	tables map[string]sink.Table
}

func newMemWriter() *memWriter {
	return &memWriter{tables: make(map[string]sink.Table)}
}

func (w *memWriter) WriteTable(ctx context.Context, table sink.Table) error {
	w.tables[table.Name] = table
	return nil
}

func testSource() *memSource {
	return &memSource{
		plans: []Plan{
			{PlanID: 1, PaymentFrequencyCode: FreqMonthly, CostAmount: decimal.RequireFromString("9.99")},
			{PlanID: 2, PaymentFrequencyCode: FreqOnetime, CostAmount: decimal.RequireFromString("24.99")},
		},
		freqs: []PaymentFrequency{
			{Code: FreqMonthly, DescriptionEN: "Monthly subscription"},
			{Code: FreqOnetime, DescriptionEN: "One-time purchase"},
		},
		users: []User{
			{UserID: 1, Username: "dicemaster", Email: "a@example.com"},
		},
		regs: []UserRegistration{
			{UserRegistrationID: 1001, UserID: 1, Email: "a@example.com"},
			{UserRegistrationID: 1002, UserID: 2, Email: "b@example.com"},
		},
		channels: []ChannelCode{
			{Code: "BROWSER", DescriptionEN: "Web browser"},
		},
		statuses: []StatusCode{
			{Code: "COMPLETED", DescriptionEN: "Session completed"},
		},
		sessions: []PlaySession{
			{PlaySessionID: 1, UserID: 1, StartDatetime: "2024-03-01 20:00:00", EndDatetime: "2024-03-01 21:00:00", ChannelCode: "BROWSER", StatusCode: "COMPLETED", TotalScore: 100},
			{PlaySessionID: 2, UserID: 2, StartDatetime: "bad", EndDatetime: "", ChannelCode: "BROWSER", StatusCode: "COMPLETED", TotalScore: 5},
		},
		plansFor: []UserPlan{
			{UserRegistrationID: 1001, PlanID: 1, StartDate: "2024-02-15", EndDate: "2024-04-10"},
			{UserRegistrationID: 1002, PlanID: 2, StartDate: "2024-06-01", EndDate: ""},
		},
	}
}

func TestPipelineRunCounts(t *testing.T) {
	src := testSource()
	w := newMemWriter()
	p := NewPipeline(src, []sink.Writer{w},
		date(2024, time.January, 1), date(2024, time.January, 31))

	counts, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := map[string]int{
		"dim_plan":                     2,
		"dim_user":                     2,
		"dim_channel":                  1,
		"dim_status":                   1,
		"dim_date":                     31,
		"fact_play_session":            2,
		"fact_user_plan":               2,
		"revenue_2024_by_subscription": 2,
	}
	if len(counts) != len(want) {
		t.Fatalf("Expected %d tables in summary, got %d", len(want), len(counts))
	}
	for name, n := range want {
		if counts[name] != n {
			t.Errorf("Table %s: expected %d rows, got %d", name, n, counts[name])
		}
	}
	for name := range want {
		if _, ok := w.tables[name]; !ok {
			t.Errorf("Table %s was never written", name)
		}
	}
}

func TestPipelineRowCountPreservation(t *testing.T) {
	src := testSource()
	w := newMemWriter()
	p := NewPipeline(src, []sink.Writer{w},
		date(2024, time.January, 1), date(2024, time.December, 31))

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if got := len(w.tables["fact_play_session"].Rows); got != len(src.sessions) {
		t.Errorf("fact_play_session: expected %d rows, got %d", len(src.sessions), got)
	}
	if got := len(w.tables["fact_user_plan"].Rows); got != len(src.plansFor) {
		t.Errorf("fact_user_plan: expected %d rows, got %d", len(src.plansFor), got)
	}
}

func TestPipelineReferentialCompleteness(t *testing.T) {
	src := testSource()
	w := newMemWriter()
	p := NewPipeline(src, []sink.Writer{w},
		date(2024, time.January, 1), date(2024, time.January, 2))

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	dimCodes := make(map[string]bool)
	for _, row := range w.tables["dim_channel"].Rows {
		dimCodes[row[0].(string)] = true
	}
	channelIdx := columnIndex(t, w.tables["fact_play_session"], "channel_code")
	for _, row := range w.tables["fact_play_session"].Rows {
		code := row[channelIdx].(string)
		if !dimCodes[code] {
			t.Errorf("fact channel_code %q missing from dim_channel", code)
		}
	}
}

func columnIndex(t *testing.T, table sink.Table, name string) int {
	t.Helper()
	for i, col := range table.Columns {
		if col.Name == name {
			return i
		}
	}
	t.Fatalf("Table %s has no column %s", table.Name, name)
	return -1
}

func TestPipelineMissingInput(t *testing.T) {
	src := testSource()
	src.missing = "user_plan"
	p := NewPipeline(src, []sink.Writer{newMemWriter()},
		date(2024, time.January, 1), date(2024, time.January, 2))

	_, err := p.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing input table, got nil")
	}
	var missingErr *MissingInputError
	if !errors.As(err, &missingErr) {
		t.Fatalf("Expected *MissingInputError, got %T", err)
	}
	if missingErr.Table != "user_plan" {
		t.Errorf("Expected missing table user_plan, got %s", missingErr.Table)
	}
}

func TestPipelineInvalidDateRange(t *testing.T) {
	p := NewPipeline(testSource(), []sink.Writer{newMemWriter()},
		date(2024, time.June, 1), date(2024, time.January, 1))

	_, err := p.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error for inverted date range, got nil")
	}
	var rangeErr *InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("Expected *InvalidRangeError, got %T", err)
	}
}

func TestPipelineIdempotent(t *testing.T) {
	dir := t.TempDir()
	p := NewPipeline(testSource(), []sink.Writer{sink.NewCSVWriter(dir)},
		date(2024, time.January, 1), date(2024, time.March, 31))

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("First run returned error: %v", err)
	}

	first := make(map[string][]byte)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read warehouse dir: %v", err)
	}
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", e.Name(), err)
		}
		first[e.Name()] = data
	}
	if len(first) != 8 {
		t.Fatalf("Expected 8 output files, got %d", len(first))
	}

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Second run returned error: %v", err)
	}

	for name, before := range first {
		after, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("Failed to re-read %s: %v", name, err)
		}
		if string(before) != string(after) {
			t.Errorf("Output %s not byte-identical across reruns", name)
		}
	}
}
