package main

import (
	"os"

	"github.com/spf13/cobra"

	"kuppi/internal/interfaces/cli/migrate"
	"kuppi/internal/interfaces/cli/seed"
	"kuppi/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kuppi",
		Short: "Kuppi - video course platform",
		Long:  `Kuppi is a video course platform with play-limited video access, purchase gating, and live library updates.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
