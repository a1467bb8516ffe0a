package secretsweep

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/secretsweep/secretsweep/internal/config"
	"github.com/secretsweep/secretsweep/internal/detect/gitleaks"
	"github.com/secretsweep/secretsweep/internal/detect/trufflehog"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Show the resolved detector binaries and versions",
		RunE:  runTools,
	}
	rootCmd.AddCommand(cmd)
}

func runTools(_ *cobra.Command, _ []string) error {
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if wd, err := os.Getwd(); err == nil {
		if c, err := config.LoadLocal(wd); err == nil {
			lcfg = c
		}
	}

	ok := true
	if s, err := trufflehog.NewScanner(pickToolConfig(lcfg.Trufflehog, gcfg.Trufflehog)); err != nil {
		ok = false
		fmt.Printf("trufflehog: %v\n", err)
	} else {
		fmt.Printf("trufflehog: %s (%s)\n", s.Version(), s.BinaryPath())
	}
	if s, err := gitleaks.NewScanner(pickToolConfig(lcfg.Gitleaks, gcfg.Gitleaks)); err != nil {
		ok = false
		fmt.Printf("gitleaks: %v\n", err)
	} else {
		fmt.Printf("gitleaks: %s (%s)\n", s.Version(), s.BinaryPath())
	}
	if !ok {
		return fmt.Errorf("one or more detector tools are unavailable")
	}
	return nil
}
