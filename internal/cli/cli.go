//-------------------------------------------------------------------------
//
// Dice Warehouse
//
// Copyright (c) 2025 - 2026, DiceHub, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for dice-warehouse.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/dicehub/dice-warehouse/internal/config"
	"github.com/dicehub/dice-warehouse/internal/logging"
	"github.com/dicehub/dice-warehouse/pkg/version"
)

var (
	// Global flags
	cfgFile      string
	rawDir       string
	warehouseDir string
	connection   string
	logLevel     string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "dice-warehouse",
		Short: "Dimensional warehouse builder for the dice game platform",
		Long: `dice-warehouse transforms the raw operational extracts of the dice
game platform (plans, users, play sessions, subscriptions) into a conformed
dimensional warehouse: dimension tables, fact tables, and an estimated
2024 revenue figure per subscription.

Each run fully recomputes and overwrites every output table; outputs are
written as CSV files and, optionally, loaded into PostgreSQL.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./dice-warehouse.yaml)")
	rootCmd.PersistentFlags().StringVar(&rawDir, "raw-dir", "",
		"directory containing the raw extracts")
	rootCmd.PersistentFlags().StringVar(&warehouseDir, "warehouse-dir", "",
		"directory to write warehouse tables to")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"optional PostgreSQL connection string for the warehouse")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tablesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if rawDir != "" {
		cfg.RawDir = rawDir
	}
	if warehouseDir != "" {
		cfg.WarehouseDir = warehouseDir
	}
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the warehouse output tables",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Warehouse output tables:")
		cmd.Println()
		cmd.Println("Dimensions:")
		cmd.Println("  dim_plan      - subscription plans with payment frequency")
		cmd.Println("  dim_user      - registrations joined to user accounts")
		cmd.Println("  dim_channel   - play session channels")
		cmd.Println("  dim_status    - play session statuses")
		cmd.Println("  dim_date      - calendar dimension (configurable range)")
		cmd.Println()
		cmd.Println("Facts:")
		cmd.Println("  fact_play_session - one row per play session")
		cmd.Println("  fact_user_plan    - one row per subscription instance")
		cmd.Println()
		cmd.Println("Derived:")
		cmd.Println("  revenue_2024_by_subscription - billing cycles and revenue estimate")
	},
}
