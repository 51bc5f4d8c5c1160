package main

import (
	"fmt"
	"os"

	"github.com/dixieflatline76/Realist/config"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "realist",
		Short: "Turn architectural renders into photographs",
		Long: `Realist sends an architectural rendering to an image model, lets you compare the
result with the source on a before/after slider, grade it and export it.

Run without a command to open the desktop application.`,
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI()
		},
	}

	rootCmd.AddCommand(
		enhanceCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
