// Package gitleaks adapts the external gitleaks binary as the leak scanner.
// It runs a filesystem scan of a cloned working copy and normalizes the
// tool's JSON report.
package gitleaks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/secretsweep/secretsweep/internal/config"
	"github.com/secretsweep/secretsweep/internal/detect"
	"github.com/secretsweep/secretsweep/internal/types"
)

// DefaultTimeout bounds one gitleaks run. Filesystem scans are much cheaper
// than history scans, so the budget is tighter than trufflehog's.
const DefaultTimeout = 10 * time.Minute

// Scanner implements detect.Detector using the gitleaks binary.
type Scanner struct {
	binaryPath string
	configPath string
	timeout    time.Duration
	version    string
}

// NewScanner resolves the gitleaks binary and verifies any configured
// minimum version. A missing binary is an error here, before any job starts.
func NewScanner(cfg config.ToolConfig) (*Scanner, error) {
	binaryPath, err := detect.ResolveBinary(cfg.GetBinaryPath(), "gitleaks")
	if err != nil {
		return nil, err
	}
	version := detect.ToolVersion(binaryPath, "version")
	if err := detect.CheckMinVersion("gitleaks", version, cfg.GetMinVersion()); err != nil {
		return nil, err
	}
	return &Scanner{
		binaryPath: binaryPath,
		configPath: cfg.GetConfigPath(),
		timeout:    cfg.GetTimeout(DefaultTimeout),
		version:    version,
	}, nil
}

// Name implements detect.Detector.
func (s *Scanner) Name() string { return "gitleaks" }

// Version returns the resolved tool version.
func (s *Scanner) Version() string { return s.version }

// BinaryPath returns the resolved binary location.
func (s *Scanner) BinaryPath() string { return s.binaryPath }

// Run implements detect.Detector. Gitleaks is invoked with --exit-code 0 so
// findings never look like a crash; the report is written to a private temp
// file and read back after the run.
func (s *Scanner) Run(ctx context.Context, dir string) types.Outcome {
	reportFile, err := os.CreateTemp("", "secretsweep-gitleaks-*.json")
	if err != nil {
		return types.Failure(fmt.Sprintf("gitleaks: create report file: %v", err))
	}
	reportPath := reportFile.Name()
	_ = reportFile.Close()
	defer os.Remove(reportPath)

	args := []string{
		"detect",
		"--source", dir,
		"--no-git",
		"--exit-code", "0",
		"--report-format", "json",
		"--report-path", reportPath,
	}
	configPath := s.configPath
	if configPath == "" {
		// honor the repository's own allowlist when it ships one
		configPath = DetectConfigPath(dir)
	}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}

	if _, err := detect.RunTool(ctx, detect.Invocation{
		Binary:  s.binaryPath,
		Args:    args,
		Timeout: s.timeout,
	}); err != nil {
		return types.Failure(fmt.Sprintf("gitleaks: %v", err))
	}

	reportData, err := os.ReadFile(reportPath)
	if err != nil {
		return types.Failure(fmt.Sprintf("gitleaks: read report: %v", err))
	}
	findings, err := parseReport(reportData)
	if err != nil {
		return types.Failure(fmt.Sprintf("gitleaks: %v", err))
	}
	return types.Success(findings)
}

// leak is the subset of gitleaks' report entries we consume.
type leak struct {
	RuleID    string `json:"RuleID"`
	File      string `json:"File"`
	StartLine int    `json:"StartLine"`
}

// parseReport decodes the JSON report. An empty or whitespace-only report is
// a clean scan; a report that is not a JSON array is a broken output
// contract. Entries missing a rule ID are skipped, not fatal, unless no entry
// in a non-empty report is usable.
func parseReport(data []byte) ([]types.Finding, error) {
	if len(data) == 0 || isBlank(data) {
		return nil, nil
	}
	var leaks []leak
	if err := json.Unmarshal(data, &leaks); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	if len(leaks) == 0 {
		return nil, nil
	}
	var findings []types.Finding
	for _, l := range leaks {
		if l.RuleID == "" {
			continue
		}
		findings = append(findings, types.Finding{
			Kind:        types.KindLeak,
			Description: l.RuleID,
			Location:    fmt.Sprintf("%s:%d", l.File, l.StartLine),
		})
	}
	if len(findings) == 0 {
		return nil, fmt.Errorf("no usable entries in non-empty report")
	}
	return findings, nil
}

func isBlank(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

// DetectConfigPath looks for a repo-local gitleaks config inside a cloned
// working copy so repositories can keep using their own allowlists.
func DetectConfigPath(repoRoot string) string {
	candidates := []string{
		filepath.Join(repoRoot, ".gitleaks.toml"),
		filepath.Join(repoRoot, ".gitleaks", "config.toml"),
		filepath.Join(repoRoot, ".github", ".gitleaks.toml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
