// AgriChain - post-harvest decision support for farmers.
// Licensed under the Apache License 2.0

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "agrichain",
		Short: "Post-harvest decision support for farmers",
		Long: `AgriChain scores spoilage risk, middleman bypass, arrival surges and
price outlook, and composes them into an explained selling recommendation.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newSpoilageCmd(),
		newBypassCmd(),
		newCropsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
