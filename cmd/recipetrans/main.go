package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/recipetrans/internal/cli"
	"codeberg.org/snonux/recipetrans/internal/processor"
)

func main() {
	// API keys may come from a local .env file
	_ = godotenv.Load()

	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags, func(flags *cli.Flags) (cli.Runner, error) {
		return processor.NewProcessor(flags, os.Stdout)
	})

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
