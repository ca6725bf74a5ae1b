package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/dicehub/dice-warehouse/internal/logging"
	"github.com/dicehub/dice-warehouse/internal/sink"
)

// Pipeline sequences the full warehouse rebuild: conform dimensions, derive
// facts, estimate revenue, and persist every output table. Each run fully
// recomputes and overwrites the previous outputs; there is no merge.
type Pipeline struct {
	source    Source
	writers   []sink.Writer
	dateStart time.Time
	dateEnd   time.Time
}

// NewPipeline creates a pipeline reading from source and writing every
// output table through each of the given writers. The date range bounds the
// calendar dimension.
func NewPipeline(source Source, writers []sink.Writer, dateStart, dateEnd time.Time) *Pipeline {
	return &Pipeline{
		source:    source,
		writers:   writers,
		dateStart: dateStart,
		dateEnd:   dateEnd,
	}
}

// Run executes the pipeline and returns output table name -> row count.
func (p *Pipeline) Run(ctx context.Context) (map[string]int, error) {
	plans, err := p.source.Plans()
	if err != nil {
		return nil, err
	}
	freqs, err := p.source.PaymentFrequencies()
	if err != nil {
		return nil, err
	}
	users, err := p.source.Users()
	if err != nil {
		return nil, err
	}
	regs, err := p.source.UserRegistrations()
	if err != nil {
		return nil, err
	}
	channelCodes, err := p.source.ChannelCodes()
	if err != nil {
		return nil, err
	}
	statusCodes, err := p.source.StatusCodes()
	if err != nil {
		return nil, err
	}
	sessions, err := p.source.PlaySessions()
	if err != nil {
		return nil, err
	}
	userPlans, err := p.source.UserPlans()
	if err != nil {
		return nil, err
	}

	logging.Info().
		Int("plans", len(plans)).
		Int("users", len(users)).
		Int("play_sessions", len(sessions)).
		Int("user_plans", len(userPlans)).
		Msg("Loaded raw extracts")

	planDim := ConformPlans(plans, freqs)
	userDim := ConformUsers(regs, users)
	channelDim := ConformChannels(channelCodes)
	statusDim := ConformStatuses(statusCodes)

	dateDim, err := BuildDateDim(p.dateStart, p.dateEnd)
	if err != nil {
		return nil, err
	}

	sessionFacts := BuildPlaySessionFacts(sessions, channelDim, statusDim)
	userPlanFacts := BuildUserPlanFacts(userPlans)
	revenue := EstimateRevenue(userPlans, plans)

	p.verifyReferences(sessionFacts, channelDim, statusDim)

	tables := []sink.Table{
		planDimTable(planDim),
		userDimTable(userDim),
		channelDimTable(channelDim),
		statusDimTable(statusDim),
		dateDimTable(dateDim),
		playSessionFactTable(sessionFacts),
		userPlanFactTable(userPlanFacts),
		revenueTable(revenue),
	}

	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		for _, w := range p.writers {
			if err := w.WriteTable(ctx, table); err != nil {
				return nil, fmt.Errorf("failed to write table %s: %w", table.Name, err)
			}
		}
		counts[table.Name] = len(table.Rows)
		logging.Debug().
			Str("table", table.Name).
			Int("rows", len(table.Rows)).
			Msg("Wrote table")
	}

	logging.Info().Int("tables", len(tables)).Msg("Warehouse rebuild complete")

	return counts, nil
}

// verifyReferences checks that every channel and status code observed in the
// play session facts exists in its conformed dimension. Dimensions are built
// from the same universe of codes, so a violation means the extracts
// disagree; the affected rows are still written (with absent descriptions)
// and the violation is surfaced as a warning.
func (p *Pipeline) verifyReferences(facts []PlaySessionFact, channels []ChannelDim, statuses []StatusDim) {
	knownChannels := make(map[string]bool, len(channels))
	for _, c := range channels {
		knownChannels[c.ChannelCode] = true
	}
	knownStatuses := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		knownStatuses[s.StatusCode] = true
	}

	missingChannels := make(map[string]int)
	missingStatuses := make(map[string]int)
	for _, f := range facts {
		if !knownChannels[f.ChannelCode] {
			missingChannels[f.ChannelCode]++
		}
		if !knownStatuses[f.StatusCode] {
			missingStatuses[f.StatusCode]++
		}
	}

	for code, n := range missingChannels {
		logging.Warn().
			Str("channel_code", code).
			Int("rows", n).
			Msg("Fact references channel code missing from dim_channel")
	}
	for code, n := range missingStatuses {
		logging.Warn().
			Str("status_code", code).
			Int("rows", n).
			Msg("Fact references status code missing from dim_status")
	}
}
