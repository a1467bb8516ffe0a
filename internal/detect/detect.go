// Package detect defines the adapter contract for the external secret
// detectors and the shared plumbing they use to invoke their binaries.
// Implementations live in the per-tool subpackages; nothing tool-shaped
// crosses their boundary.
package detect

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/secretsweep/secretsweep/internal/types"
)

// Detector runs one external analyzer against a local working copy.
// Run never panics and never returns an error: every failure of the
// underlying process (crash, timeout, unparsable output) is captured as a
// failed Outcome so a broken tool cannot abort the job or its sibling.
type Detector interface {
	// Name is the external tool name, used in reports and diagnostics.
	Name() string
	// Run analyzes the working copy rooted at dir. Findings carry the
	// detector's kind tag.
	Run(ctx context.Context, dir string) types.Outcome
}

// Invocation is one bounded run of an external tool.
type Invocation struct {
	Binary  string
	Args    []string
	Timeout time.Duration
}

// RunTool executes the invocation and returns captured stdout. A non-zero
// exit, a missing binary, or exceeding the time budget comes back as an
// error with trimmed stderr attached for diagnosis.
func RunTool(ctx context.Context, inv Invocation) ([]byte, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if inv.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, inv.Binary, inv.Args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("timed out after %s", inv.Timeout)
	}
	if err != nil {
		msg := trimStderr(stderr.Bytes())
		if msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// trimStderr keeps stderr short enough to embed in a failure reason.
func trimStderr(b []byte) string {
	const max = 300
	s := string(bytes.TrimSpace(b))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
