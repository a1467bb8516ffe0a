package report

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/secretsweep/secretsweep/internal/types"
)

type sarif struct {
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt `json:"artifactLocation"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

func sevToLevel(severity string) string {
	switch strings.ToLower(severity) {
	case "high":
		return "error"
	case "medium":
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes every successful finding across all repositories as
// SARIF 2.1.0. Failed outcomes carry no findings and are omitted; the
// repository locator is folded into the artifact URI so findings from
// different repositories stay distinguishable.
func WriteSARIF(w io.Writer, results []types.Result, version string) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{Name: "secretsweep", Version: version}},
	}
	for _, res := range results {
		for _, out := range []types.Outcome{res.Secrets, res.Leaks} {
			if out.Failed() {
				continue
			}
			for _, f := range out.Findings {
				run.Results = append(run.Results, sarifResult{
					RuleID:  string(f.Kind) + "/" + f.Description,
					Level:   sevToLevel(f.Severity),
					Message: sarifMessage{Text: f.Description + " detected"},
					Locations: []sarifLoc{{
						PhysicalLocation: sarifPhys{
							ArtifactLocation: sarifArt{URI: string(res.Locator) + "#" + f.Location},
						},
					}},
				})
			}
		}
	}
	doc := sarif{Version: "2.1.0", Runs: []sarifRun{run}}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
