package secretsweep

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/secretsweep/secretsweep/internal/cache"
	"github.com/secretsweep/secretsweep/internal/config"
	"github.com/secretsweep/secretsweep/internal/detect/gitleaks"
	"github.com/secretsweep/secretsweep/internal/detect/trufflehog"
	"github.com/secretsweep/secretsweep/internal/orchestrator"
	"github.com/secretsweep/secretsweep/internal/report"
	"github.com/secretsweep/secretsweep/internal/source"
	"github.com/secretsweep/secretsweep/internal/workspace"
)

var (
	flagConcurrency  int
	flagCloneTimeout time.Duration
	flagInclude      string
	flagExclude      string
	flagNoCache      bool
	flagWorkDir      string
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan <repos-file>",
		Short: "Scan every repository in the list",
		Long:  "Reads repository URLs from the given file (one per line, blank lines and # comments ignored), scans each with trufflehog and gitleaks, and prints one aggregated report.",
		Args:  cobra.ExactArgs(1),
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().IntVarP(&flagConcurrency, "concurrency", "c", 0, "simultaneous repository scans (default 4)")
	cmd.Flags().DurationVar(&flagCloneTimeout, "clone-timeout", 0, "time budget for cloning one repository (default 5m)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated globs; only matching locators are scanned")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated globs; matching locators are skipped")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "disable the clean-scan cache")
	cmd.Flags().StringVar(&flagWorkDir, "work-dir", "", "base directory for temporary clones (default system temp)")
}

func runScan(cmd *cobra.Command, args []string) error {
	// Load configs: CLI > local > global
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if wd, err := os.Getwd(); err == nil {
		if c, err := config.LoadLocal(wd); err == nil {
			lcfg = c
		}
	}

	locs, err := source.Load(args[0], source.Filter{
		IncludeGlobs: pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs: pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
	})
	if err != nil {
		return err
	}

	concurrency := pickInt(flagConcurrency, lcfg.Concurrency, gcfg.Concurrency)
	if concurrency == 0 {
		concurrency = config.DefaultConcurrency
	}

	// Both detector binaries must resolve before any job starts.
	secrets, err := trufflehog.NewScanner(pickToolConfig(lcfg.Trufflehog, gcfg.Trufflehog))
	if err != nil {
		return err
	}
	leaks, err := gitleaks.NewScanner(pickToolConfig(lcfg.Gitleaks, gcfg.Gitleaks))
	if err != nil {
		return err
	}

	cloneTimeout := pickDuration(flagCloneTimeout, lcfg.CloneTimeout, gcfg.CloneTimeout, config.DefaultCloneTimeout)
	mgr, err := workspace.NewManager(pickString(flagWorkDir, lcfg.WorkDir, gcfg.WorkDir), cloneTimeout)
	if err != nil {
		return err
	}
	defer mgr.Cleanup()

	var resultCache orchestrator.ResultCache
	var db *cache.Cache
	if !pickBool(flagNoCache, lcfg.NoCache, gcfg.NoCache) {
		if p := cache.DefaultPath(); p != "" {
			db = cache.Open(p)
			resultCache = db
		}
	}

	job := orchestrator.NewJob(orchestrator.NewManagerProvider(mgr), secrets, leaks, resultCache)
	orch, err := orchestrator.New(job, concurrency)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !flagJSON && !flagSARIF {
		fmt.Fprintf(os.Stderr, "Scanning %d repositories with %d workers (trufflehog %s, gitleaks %s)...\n",
			len(locs), concurrency, secrets.Version(), leaks.Version())
	}

	results := orch.ScanAll(ctx, locs)

	if db != nil {
		if err := db.Save(); err != nil {
			fmt.Fprintln(os.Stderr, "cache warning:", err)
		}
	}

	switch {
	case flagSARIF:
		if err := report.WriteSARIF(os.Stdout, results, version); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	default:
		noColor := pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor)
		report.Render(os.Stdout, results, report.PrintOptions{NoColor: noColor})
	}

	// per-repository failures are in the report; only orchestration-level
	// errors make the process exit non-zero
	return nil
}

func pickToolConfig(local, global *config.ToolConfig) config.ToolConfig {
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return config.ToolConfig{}
}
