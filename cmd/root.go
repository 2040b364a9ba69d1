package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marketplace-service",
	Short: "Web3 subscription marketplace service",
	Long:  "Marketplace where publishers list subscription services and subscribers pay for access with their wallets.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
