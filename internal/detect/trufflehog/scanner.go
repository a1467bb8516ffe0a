// Package trufflehog adapts the external trufflehog binary as the secret
// verifier. It scans a cloned working copy's git history and normalizes the
// tool's line-delimited JSON output.
package trufflehog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/secretsweep/secretsweep/internal/config"
	"github.com/secretsweep/secretsweep/internal/detect"
	"github.com/secretsweep/secretsweep/internal/types"
)

// DefaultTimeout bounds one trufflehog run. History scans of large
// repositories are slow, so the budget is generous.
const DefaultTimeout = time.Hour

// Scanner implements detect.Detector using the trufflehog binary.
type Scanner struct {
	binaryPath string
	timeout    time.Duration
	version    string
}

// NewScanner resolves the trufflehog binary and verifies any configured
// minimum version. A missing binary is an error here, before any job starts.
func NewScanner(cfg config.ToolConfig) (*Scanner, error) {
	binaryPath, err := detect.ResolveBinary(cfg.GetBinaryPath(), "trufflehog")
	if err != nil {
		return nil, err
	}
	version := detect.ToolVersion(binaryPath, "--version")
	if err := detect.CheckMinVersion("trufflehog", version, cfg.GetMinVersion()); err != nil {
		return nil, err
	}
	return &Scanner{
		binaryPath: binaryPath,
		timeout:    cfg.GetTimeout(DefaultTimeout),
		version:    version,
	}, nil
}

// Name implements detect.Detector.
func (s *Scanner) Name() string { return "trufflehog" }

// Version returns the resolved tool version.
func (s *Scanner) Version() string { return s.version }

// BinaryPath returns the resolved binary location.
func (s *Scanner) BinaryPath() string { return s.binaryPath }

// Run implements detect.Detector. Findings are emitted by the tool as one
// JSON object per stdout line; everything else (log lines, partial writes)
// is skipped. Zero parsable lines from non-empty output means the tool's
// output contract broke, which is a failure rather than a clean result.
func (s *Scanner) Run(ctx context.Context, dir string) types.Outcome {
	out, err := detect.RunTool(ctx, detect.Invocation{
		Binary:  s.binaryPath,
		Args:    []string{"git", "--only-verified", "--json", "--no-update", "file://" + dir},
		Timeout: s.timeout,
	})
	if err != nil {
		return types.Failure(fmt.Sprintf("trufflehog: %v", err))
	}

	findings, parsed, total := parseOutput(out)
	if total > 0 && parsed == 0 {
		return types.Failure("trufflehog: no parsable findings in non-empty output")
	}
	return types.Success(findings)
}

// record is the subset of trufflehog's JSON output we consume.
type record struct {
	DetectorName   string `json:"DetectorName"`
	Verified       bool   `json:"Verified"`
	SourceMetadata struct {
		Data struct {
			Git struct {
				File   string `json:"file"`
				Commit string `json:"commit"`
				Line   int    `json:"line"`
			} `json:"Git"`
		} `json:"Data"`
	} `json:"SourceMetadata"`
}

// parseOutput walks stdout line by line and returns the normalized findings,
// the number of lines that parsed, and the number of non-blank lines seen.
func parseOutput(out []byte) (findings []types.Finding, parsed, total int) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		total++
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil || rec.DetectorName == "" {
			continue
		}
		parsed++
		findings = append(findings, toFinding(rec))
	}
	return findings, parsed, total
}

func toFinding(rec record) types.Finding {
	git := rec.SourceMetadata.Data.Git
	loc := git.File
	if loc == "" {
		loc = "unknown"
	}
	if git.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, git.Line)
	}
	if git.Commit != "" {
		loc = fmt.Sprintf("%s @ %s", loc, shortCommit(git.Commit))
	}
	severity := ""
	if rec.Verified {
		severity = "high"
	}
	return types.Finding{
		Kind:        types.KindSecret,
		Description: rec.DetectorName,
		Location:    loc,
		Severity:    severity,
	}
}

func shortCommit(c string) string {
	if len(c) > 12 {
		return c[:12]
	}
	return c
}
