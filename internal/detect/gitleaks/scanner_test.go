package gitleaks

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretsweep/secretsweep/internal/config"
	"github.com/secretsweep/secretsweep/internal/types"
)

const sampleReport = `[
  {"RuleID":"aws-access-token","Description":"AWS Access Token","File":"config/creds.yml","StartLine":3},
  {"RuleID":"generic-api-key","Description":"Generic API Key","File":".env","StartLine":17}
]`

func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake shell binaries are unix-only")
	}
	p := filepath.Join(t.TempDir(), "gitleaks")
	require.NoError(t, os.WriteFile(p, []byte(script), 0o755))
	return p
}

func toolConfig(binary string) config.ToolConfig {
	cfg := config.ToolConfig{}
	cfg.BinaryPath = &binary
	return cfg
}

// reportingScript builds a fake gitleaks that answers `version` and writes
// the given report body to whatever --report-path it is handed.
func reportingScript(report string) string {
	return `#!/bin/sh
if [ "$1" = "version" ]; then echo "8.18.0"; exit 0; fi
rp=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--report-path" ]; then rp="$2"; fi
  shift
done
cat > "$rp" <<'EOF'
` + report + `
EOF
`
}

func TestParseReport_Normalizes(t *testing.T) {
	findings, err := parseReport([]byte(sampleReport))
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, types.KindLeak, findings[0].Kind)
	assert.Equal(t, "aws-access-token", findings[0].Description)
	assert.Equal(t, "config/creds.yml:3", findings[0].Location)
	assert.Equal(t, ".env:17", findings[1].Location)
}

func TestParseReport_EmptyMeansClean(t *testing.T) {
	for _, body := range []string{"", "  \n", "[]", "null"} {
		findings, err := parseReport([]byte(body))
		require.NoError(t, err, "body %q", body)
		assert.Empty(t, findings, "body %q", body)
	}
}

func TestParseReport_MalformedIsError(t *testing.T) {
	_, err := parseReport([]byte("{not json"))
	assert.Error(t, err)
}

func TestParseReport_EntriesWithoutRuleIDSkipped(t *testing.T) {
	body := `[{"RuleID":"","File":"x"},{"RuleID":"jwt","File":"a.txt","StartLine":1}]`
	findings, err := parseReport([]byte(body))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "jwt", findings[0].Description)
}

func TestParseReport_OnlyUnusableEntriesIsError(t *testing.T) {
	_, err := parseReport([]byte(`[{"RuleID":"","File":"x"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable entries")
}

func TestNewScanner_MissingBinary(t *testing.T) {
	_, err := NewScanner(toolConfig(filepath.Join(t.TempDir(), "nope")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRun_NormalizesReport(t *testing.T) {
	s, err := NewScanner(toolConfig(fakeBinary(t, reportingScript(sampleReport))))
	require.NoError(t, err)
	assert.Equal(t, "8.18.0", s.Version())

	out := s.Run(context.Background(), t.TempDir())
	require.False(t, out.Failed(), "unexpected failure: %s", out.Err)
	assert.Len(t, out.Findings, 2)
}

func TestRun_CleanRepo(t *testing.T) {
	s, err := NewScanner(toolConfig(fakeBinary(t, reportingScript("[]"))))
	require.NoError(t, err)

	out := s.Run(context.Background(), t.TempDir())
	assert.False(t, out.Failed())
	assert.Empty(t, out.Findings)
}

func TestRun_NonZeroExitIsFailure(t *testing.T) {
	script := "#!/bin/sh\nif [ \"$1\" = \"version\" ]; then echo 8.18.0; exit 0; fi\necho 'bad config' >&2\nexit 1\n"
	s, err := NewScanner(toolConfig(fakeBinary(t, script)))
	require.NoError(t, err)

	out := s.Run(context.Background(), t.TempDir())
	require.True(t, out.Failed())
	assert.Contains(t, out.Err, "gitleaks")
	assert.Contains(t, out.Err, "bad config")
}

func TestDetectConfigPath(t *testing.T) {
	root := t.TempDir()
	assert.Empty(t, DetectConfigPath(root))

	p := filepath.Join(root, ".gitleaks.toml")
	require.NoError(t, os.WriteFile(p, []byte("[allowlist]\n"), 0o644))
	assert.Equal(t, p, DetectConfigPath(root))
}
