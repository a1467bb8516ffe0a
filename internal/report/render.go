// Package report renders the aggregated scan results. Entries follow the
// input order of the locators, never completion order, so two runs over the
// same list produce the same report.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/secretsweep/secretsweep/internal/types"
)

// CleanSentinel is the single line emitted when no repository has findings.
const CleanSentinel = "No findings across all repositories"

var (
	locatorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	findingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	sentinelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
)

// PrintOptions controls rendering.
type PrintOptions struct {
	NoColor bool
}

func (o PrintOptions) paint(style lipgloss.Style, s string) string {
	if o.NoColor {
		return s
	}
	return style.Render(s)
}

// Render writes the final report. A repository contributes a findings block
// only when at least one detector succeeded with findings; repositories that
// could not be scanned are summarized separately so "scanned clean" and
// "could not scan" are never conflated. When nothing anywhere was found the
// report is exactly the clean-scan sentinel.
func Render(w io.Writer, results []types.Result, opts PrintOptions) {
	any := false
	for _, res := range results {
		if res.HasFindings() {
			renderBlock(w, res, opts)
			any = true
		}
	}

	failures := collectFailures(results)
	if len(failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, opts.paint(headerStyle, "Scan failures:"))
		for _, line := range failures {
			fmt.Fprintln(w, line)
		}
	}

	if !any {
		fmt.Fprintln(w, opts.paint(sentinelStyle, CleanSentinel))
	}
}

func renderBlock(w io.Writer, res types.Result, opts PrintOptions) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, opts.paint(locatorStyle, string(res.Locator)))
	fmt.Fprintln(w, strings.Repeat("-", 50))
	renderOutcome(w, "TRUFFLEHOG Findings:", res.Secrets, opts)
	renderOutcome(w, "GITLEAKS Findings:", res.Leaks, opts)
}

func renderOutcome(w io.Writer, header string, out types.Outcome, opts PrintOptions) {
	if !out.HasFindings() {
		return
	}
	fmt.Fprintln(w, opts.paint(headerStyle, header))
	for _, f := range out.Findings {
		desc := f.Description
		if f.Severity != "" {
			desc = fmt.Sprintf("%s [%s]", desc, f.Severity)
		}
		fmt.Fprintf(w, "  %s\n", opts.paint(findingStyle, desc))
		fmt.Fprintf(w, "    %s\n", f.Location)
	}
}

func collectFailures(results []types.Result) []string {
	var out []string
	for _, res := range results {
		reasons := res.Failures()
		if len(reasons) == 0 {
			continue
		}
		// retrieval failures repeat the same reason for both detectors
		if len(reasons) == 2 && reasons[0] == reasons[1] {
			reasons = reasons[:1]
		}
		for _, reason := range reasons {
			out = append(out, fmt.Sprintf("  %s: %s", res.Locator, reason))
		}
	}
	return out
}
