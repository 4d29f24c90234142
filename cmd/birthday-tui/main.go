package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/vocaloid-birthday/internal/config"
	"github.com/handiism/vocaloid-birthday/internal/tui"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "birthday-tui",
		Short:         "Interactive VOCALOID birthday song collector",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return tui.Run(settings)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML settings file")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
