package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"claimassist/internal/extractor"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the registered field extraction providers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range extractor.Providers() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}
