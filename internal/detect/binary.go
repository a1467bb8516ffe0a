package detect

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	semver "github.com/blang/semver/v4"
)

// ResolveBinary locates a detector binary. An explicit path, when given,
// must exist; otherwise the name is searched in $PATH.
func ResolveBinary(customPath, name string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		return "", fmt.Errorf("configured %s binary not found: %s", name, customPath)
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s binary not found in PATH", name)
	}
	return path, nil
}

// ToolVersion runs the binary with the given version arguments and parses the
// first line of output. Returns "unknown" when the output is unusable rather
// than failing preflight over cosmetics.
func ToolVersion(binaryPath string, args ...string) string {
	out, err := exec.Command(binaryPath, args...).CombinedOutput()
	if err != nil {
		return "unknown"
	}
	version := strings.TrimSpace(string(out))
	if lines := strings.Split(version, "\n"); len(lines) > 0 {
		version = strings.TrimSpace(lines[0])
	}
	// common prefixes across tools: "v8.18.0", "version 8.18.0", "trufflehog 3.63.0"
	if i := strings.LastIndex(version, " "); i >= 0 {
		version = version[i+1:]
	}
	version = strings.TrimPrefix(version, "v")
	if version == "" {
		return "unknown"
	}
	return version
}

// CheckMinVersion enforces a configured minimum tool version. Both sides are
// parsed tolerantly; an unparsable installed version passes so odd vendor
// version strings do not block scanning.
func CheckMinVersion(name, installed, min string) error {
	if min == "" {
		return nil
	}
	minVer, err := semver.ParseTolerant(min)
	if err != nil {
		return fmt.Errorf("invalid min_version for %s: %q", name, min)
	}
	have, err := semver.ParseTolerant(installed)
	if err != nil {
		return nil
	}
	if have.LT(minVer) {
		return fmt.Errorf("%s %s is older than required %s", name, installed, min)
	}
	return nil
}
