// claimctl runs the claim intake pipeline from the command line and exports
// stored analyses.
//
// Usage:
//
//	claimctl analyze --type=health bill.png
//	claimctl export --format=xlsx -o claims.xlsx
//	claimctl providers
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "claimassist/internal/extractor/claude"
	_ "claimassist/internal/extractor/gemini"
	_ "claimassist/internal/extractor/openai"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "claimctl",
	Short: "Insurance claim document intake tool",
	Long: "claimctl scores claim documents with the intake pipeline and exports\n" +
		"stored analyses. Configuration is read from CLAIMASSIST_* environment variables.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
