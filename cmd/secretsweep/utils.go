package secretsweep

import "time"

// pickString resolves flag/local/global config precedence: CLI wins, then the
// repo-local file, then the global file.
func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}

// pickDuration resolves a duration from CLI and config file string fields.
func pickDuration(cli time.Duration, local, global *string, def time.Duration) time.Duration {
	if cli > 0 {
		return cli
	}
	for _, s := range []*string{local, global} {
		if s == nil {
			continue
		}
		if d, err := time.ParseDuration(*s); err == nil && d > 0 {
			return d
		}
	}
	return def
}
