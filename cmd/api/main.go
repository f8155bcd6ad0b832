package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/gardenplan/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gardenplan",
		Short: "GardenPlan API Server",
		Long:  `GardenPlan is a vegetable garden planning service that turns a garden layout into sowing, maintenance and harvest schedules with crop rotation checks.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
