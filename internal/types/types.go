package types

// DetectorKind identifies which external detector produced a finding.
type DetectorKind string

const (
	// KindSecret marks findings from the secret verifier (trufflehog).
	KindSecret DetectorKind = "secret"
	// KindLeak marks findings from the leak scanner (gitleaks).
	KindLeak DetectorKind = "leak"
)

// Locator identifies a remote repository to scan, typically a clone URL.
type Locator string

// Finding is one normalized detected issue. Detector-specific fields (rule
// IDs, detector names, commit metadata) are folded into Description and
// Location by the adapters; nothing tool-shaped survives past that boundary.
type Finding struct {
	Kind        DetectorKind `json:"kind"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Severity    string       `json:"severity,omitempty"`
}

// Outcome is the result of running one detector against one workspace.
// A detector that ran and found nothing yields an empty Findings slice and an
// empty Err; a detector that could not run (crash, timeout, unparsable
// output) carries the reason in Err. The two are never conflated.
type Outcome struct {
	Findings []Finding `json:"findings,omitempty"`
	Err      string    `json:"error,omitempty"`
}

// Success builds a successful outcome, including the clean (zero findings) case.
func Success(findings []Finding) Outcome {
	return Outcome{Findings: findings}
}

// Failure builds a failed outcome carrying the reason the detector never
// produced usable results.
func Failure(reason string) Outcome {
	return Outcome{Err: reason}
}

// Failed reports whether the detector failed to produce results.
func (o Outcome) Failed() bool { return o.Err != "" }

// HasFindings reports whether the detector ran and found at least one issue.
func (o Outcome) HasFindings() bool { return !o.Failed() && len(o.Findings) > 0 }

// Result is the complete outcome for one repository: one outcome per
// detector. Exactly one Result exists per submitted locator, on every path,
// including retrieval failures and job crashes.
type Result struct {
	Locator Locator `json:"locator"`
	Secrets Outcome `json:"secrets"`
	Leaks   Outcome `json:"leaks"`
}

// HasFindings reports whether either detector found something.
func (r Result) HasFindings() bool {
	return r.Secrets.HasFindings() || r.Leaks.HasFindings()
}

// Failures returns the failure reasons recorded for this repository, one per
// failed detector, in secret-then-leak order.
func (r Result) Failures() []string {
	var out []string
	if r.Secrets.Failed() {
		out = append(out, r.Secrets.Err)
	}
	if r.Leaks.Failed() {
		out = append(out, r.Leaks.Err)
	}
	return out
}

// Clean reports whether both detectors ran and neither found anything.
func (r Result) Clean() bool {
	return !r.Secrets.Failed() && !r.Leaks.Failed() && !r.HasFindings()
}

// FailedResult builds a Result whose both outcomes share one failure reason.
// Used for retrieval failures and crashed jobs, where neither detector ran.
func FailedResult(loc Locator, reason string) Result {
	return Result{Locator: loc, Secrets: Failure(reason), Leaks: Failure(reason)}
}
