package secretsweep

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagJSON    bool
	flagSARIF   bool
	flagNoColor bool

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the secretsweep CLI.
var rootCmd = &cobra.Command{
	Use:           "secretsweep",
	Short:         "Scan remote repositories for secrets",
	Long:          "Secretsweep clones each repository from a list, runs trufflehog and gitleaks against every clone in parallel, and aggregates the findings into one report.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the secretsweep CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
}
