// Package source supplies the ordered list of repository locators to scan.
// It reads one locator per line from an input file and applies include and
// exclude glob filters.
package source

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"

	"github.com/secretsweep/secretsweep/internal/types"
)

// Filter restricts which locators from the input list are scanned. Globs are
// comma-separated doublestar patterns matched against the full locator.
type Filter struct {
	IncludeGlobs string
	ExcludeGlobs string
}

// Load reads repository locators from the file at path, one per line.
// Blank lines and lines starting with '#' are ignored. The returned order is
// the file order, which the final report preserves.
func Load(path string, filter Filter) ([]types.Locator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open repository list: %w", err)
	}
	defer f.Close()

	includes := parseGlobsList(filter.IncludeGlobs)
	excludes := parseGlobsList(filter.ExcludeGlobs)

	var out []types.Locator
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(includes) > 0 && !matchAnyGlob(line, includes) {
			continue
		}
		if len(excludes) > 0 && matchAnyGlob(line, excludes) {
			continue
		}
		out = append(out, types.Locator(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read repository list: %w", err)
	}
	return out, nil
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchAnyGlob(locator string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, locator); ok {
			return true
		}
	}
	return false
}
