package datagen

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dicehub/dice-warehouse/internal/logging"
)

// Reference code sets for the generated extracts.
var paymentFrequencies = []struct {
	code   string
	descEN string
	descFR string
}{
	{"MONTHLY", "Monthly subscription", "Abonnement mensuel"},
	{"ANNUALLY", "Annual subscription", "Abonnement annuel"},
	{"ONETIME", "One-time purchase", "Achat unique"},
}

var channels = []struct {
	code   string
	descEN string
	descFR string
}{
	{"BROWSER", "Web browser", "Navigateur web"},
	{"MOBILE-APP", "Mobile application", "Application mobile"},
	{"CONSOLE", "Game console", "Console de jeu"},
}

var statuses = []struct {
	code   string
	descEN string
	descFR string
}{
	{"COMPLETED", "Session completed", "Session terminee"},
	{"ABANDONED", "Session abandoned", "Session abandonnee"},
	{"ERROR", "Session ended in error", "Session terminee en erreur"},
}

var plans = []struct {
	id   int
	freq string
	cost string
}{
	{1, "MONTHLY", "9.99"},
	{2, "MONTHLY", "14.99"},
	{3, "ANNUALLY", "99.00"},
	{4, "ANNUALLY", "149.00"},
	{5, "ONETIME", "24.99"},
	{6, "LIFETIME", "299.00"}, // unrecognized frequency, exercises the left-join miss
}

// Seeder writes the eight raw extract CSVs the pipeline consumes.
type Seeder struct {
	faker *Faker
}

// NewSeeder creates a seeder. A fixed seed makes output reproducible.
func NewSeeder(seed uint64) *Seeder {
	return &Seeder{faker: NewFakerWithSeed(seed)}
}

// Generate writes the raw extracts for the given number of users and play
// sessions into dir.
func (s *Seeder) Generate(dir string, users, sessions int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create raw directory: %w", err)
	}

	if err := s.writeCodeTables(dir); err != nil {
		return err
	}
	if err := s.writeUsers(dir, users); err != nil {
		return err
	}
	if err := s.writePlaySessions(dir, users, sessions); err != nil {
		return err
	}
	if err := s.writeUserPlans(dir, users); err != nil {
		return err
	}

	logging.Info().
		Str("dir", dir).
		Int("users", users).
		Int("sessions", sessions).
		Msg("Generated raw extracts")

	return nil
}

func (s *Seeder) writeCodeTables(dir string) error {
	freqRows := make([][]string, 0, len(paymentFrequencies))
	for _, f := range paymentFrequencies {
		freqRows = append(freqRows, []string{f.code, f.descEN, f.descFR})
	}
	if err := writeCSV(dir, "plan_payment_frequency",
		[]string{"payment_frequency_code", "english_description", "french_description"},
		freqRows); err != nil {
		return err
	}

	channelRows := make([][]string, 0, len(channels))
	for _, c := range channels {
		channelRows = append(channelRows, []string{c.code, c.descEN, c.descFR})
	}
	if err := writeCSV(dir, "channel_code",
		[]string{"play_session_channel_code", "english_description", "french_description"},
		channelRows); err != nil {
		return err
	}

	statusRows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		statusRows = append(statusRows, []string{st.code, st.descEN, st.descFR})
	}
	if err := writeCSV(dir, "status_code",
		[]string{"play_session_status_code", "english_description", "french_description"},
		statusRows); err != nil {
		return err
	}

	planRows := make([][]string, 0, len(plans))
	for _, p := range plans {
		planRows = append(planRows, []string{strconv.Itoa(p.id), p.freq, p.cost})
	}
	return writeCSV(dir, "plan",
		[]string{"plan_id", "payment_frequency_code", "cost_amount"},
		planRows)
}

func (s *Seeder) writeUsers(dir string, users int) error {
	userRows := make([][]string, 0, users)
	regRows := make([][]string, 0, users)
	for i := 1; i <= users; i++ {
		email := s.faker.Email()
		regEmail := email
		// A small share of registrations carry a pre-verification email
		// that never matched the account email.
		if s.faker.Int(1, 100) <= 10 {
			regEmail = s.faker.Email()
		}
		regRows = append(regRows, []string{strconv.Itoa(1000 + i), strconv.Itoa(i), regEmail})

		// A few registrations reference a user record the extract lost,
		// exercising the left-join null path.
		if s.faker.Int(1, 100) <= 3 {
			continue
		}
		userRows = append(userRows, []string{
			strconv.Itoa(i),
			s.faker.Username(),
			email,
			s.faker.FirstName(),
			s.faker.LastName(),
			s.faker.IPv4(),
			"@" + s.faker.Username(),
		})
	}

	if err := writeCSV(dir, "user",
		[]string{"user_id", "username", "email", "first_name", "last_name", "ip_address", "social_media_handle"},
		userRows); err != nil {
		return err
	}
	return writeCSV(dir, "user_registration",
		[]string{"user_registration_id", "user_id", "email"},
		regRows)
}

func (s *Seeder) writePlaySessions(dir string, users, sessions int) error {
	windowStart := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	statusWeights := []int{80, 15, 5}

	rows := make([][]string, 0, sessions)
	for i := 1; i <= sessions; i++ {
		start := s.faker.DateRange(windowStart, windowEnd)
		end := start.Add(time.Duration(s.faker.Int(120, 7200)) * time.Second)

		endStr := end.Format("2006-01-02 15:04:05")
		// Occasionally the platform loses the session end timestamp.
		if s.faker.Int(1, 100) <= 2 {
			endStr = ""
		}

		status := ChooseWeighted(s.faker, statuses, statusWeights)
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(s.faker.Int(1, users)),
			start.Format("2006-01-02 15:04:05"),
			endStr,
			Choose(s.faker, channels).code,
			status.code,
			strconv.Itoa(s.faker.Int(0, 5000)),
		})
	}

	return writeCSV(dir, "user_play_session",
		[]string{"play_session_id", "user_id", "start_datetime", "end_datetime", "channel_code", "status_code", "total_score"},
		rows)
}

func (s *Seeder) writeUserPlans(dir string, users int) error {
	windowStart := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	var rows [][]string
	for i := 1; i <= users; i++ {
		for n := s.faker.Int(0, 2); n > 0; n-- {
			start := s.faker.DateRange(windowStart, windowEnd)
			endStr := ""
			// 60% of subscriptions have ended; the rest are still active.
			if s.faker.Int(1, 100) <= 60 {
				endStr = start.AddDate(0, s.faker.Int(1, 18), 0).Format("2006-01-02")
			}
			rows = append(rows, []string{
				strconv.Itoa(1000 + i),
				strconv.Itoa(Choose(s.faker, plans).id),
				start.Format("2006-01-02"),
				endStr,
			})
		}
	}

	return writeCSV(dir, "user_plan",
		[]string{"user_registration_id", "plan_id", "start_date", "end_date"},
		rows)
}

func writeCSV(dir, name string, header []string, rows [][]string) error {
	path := filepath.Join(dir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}
