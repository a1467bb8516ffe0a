// Package core provides a small, stable facade over secretsweep's internal
// orchestrator for external integrations. It deliberately re-exports a narrow
// API surface so other tools can depend on a stable import path without
// reaching into internal packages.
//
// Example:
//
//	results, err := core.ScanList(ctx, core.Options{ListPath: "repos.txt"})
//	if err != nil { /* handle */ }
//	_ = core.MarshalResults(os.Stdout, results)
package core
