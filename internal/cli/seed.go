package cli

import (
	"github.com/spf13/cobra"

	"github.com/dicehub/dice-warehouse/internal/datagen"
)

var (
	seedUsers    int
	seedSessions int
	seedSeed     uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate sample raw extracts",
	Long: `Generate the eight raw extract CSVs (plans, code tables, users,
registrations, play sessions, subscriptions) into the raw directory, so the
pipeline can be exercised without platform data.

Example:
  dice-warehouse seed --raw-dir data/raw --users 500 --sessions 5000`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedUsers, "users", 0,
		"number of users to generate")
	seedCmd.Flags().IntVar(&seedSessions, "sessions", 0,
		"number of play sessions to generate")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0,
		"RNG seed for reproducible output")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedUsers > 0 {
		cfg.Seed.Users = seedUsers
	}
	if seedSessions > 0 {
		cfg.Seed.Sessions = seedSessions
	}
	if seedSeed > 0 {
		cfg.Seed.Seed = seedSeed
	}

	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	seeder := datagen.NewSeeder(cfg.Seed.Seed)
	return seeder.Generate(cfg.RawDir, cfg.Seed.Users, cfg.Seed.Sessions)
}
