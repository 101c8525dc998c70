package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "foundation",
	Short: "Roberto Save Dreams Foundation site backend",
	Long:  "Backend for the foundation website: donation payment flows, content pages, contact inbox, loan applications, and donation lifecycle jobs.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
