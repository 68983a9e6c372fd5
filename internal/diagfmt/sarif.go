package diagfmt

import (
	"io"
	"path/filepath"
	"sort"
	"strings"

	"bgql/internal/diag"
	"bgql/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        int             `json:"ruleIndex"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	ID               *int                  `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

// SarifInput is one independently checked document set.
type SarifInput struct {
	Bag   *diag.Bag
	Files *source.FileSet
}

// Sarif форматирует диагностики в SARIF 2.1.0. Rules list every code that
// occurs, sorted by id; results reference them by index.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	return SarifMulti(w, []SarifInput{{Bag: bag, Files: fs}}, meta)
}

// SarifMulti writes one run covering every input, as `bgql diag` does for a directory.
func SarifMulti(w io.Writer, inputs []SarifInput, meta SarifRunMeta) error {
	var codes []diag.Code
	seen := make(map[diag.Code]struct{})
	for _, in := range inputs {
		if in.Bag == nil {
			continue
		}
		for _, d := range in.Bag.Items() {
			if _, ok := seen[d.Code]; ok {
				continue
			}
			seen[d.Code] = struct{}{}
			codes = append(codes, d.Code)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].ID() < codes[j].ID() })
	ruleIndex := make(map[diag.Code]int, len(codes))
	rules := make([]sarifRule, len(codes))
	for i, c := range codes {
		ruleIndex[c] = i
		rules[i] = sarifRule{ID: c.ID(), ShortDescription: sarifMessage{Text: c.Title()}}
	}

	results := []sarifResult{}
	for _, in := range inputs {
		if in.Bag == nil {
			continue
		}
		fs := in.Files
		for _, d := range in.Bag.Items() {
			res := sarifResult{
				RuleID:    d.Code.ID(),
				RuleIndex: ruleIndex[d.Code],
				Level:     sarifLevel(d.Severity),
				Message:   sarifMessage{Text: d.Message},
				Locations: []sarifLocation{{PhysicalLocation: sarifPhysical(fs, d.Primary)}},
			}
			for i, n := range d.Notes {
				id := i + 1
				res.RelatedLocations = append(res.RelatedLocations, sarifLocation{
					ID:               &id,
					PhysicalLocation: sarifPhysical(fs, n.Span),
					Message:          &sarifMessage{Text: n.Msg},
				})
			}
			results = append(results, res)
		}
	}

	name := meta.ToolName
	if name == "" {
		name = "bgql"
	}
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           name,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
			Rules:          rules,
		}},
		Results: results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: true,
		}}
	}

	encoder := jsonAPI.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifPhysical(fs *source.FileSet, sp source.Span) sarifPhysicalLocation {
	start, end := fs.Resolve(sp)
	uri := ""
	if f := fs.Get(sp.File); f != nil {
		uri = sarifURI(f.FormatPath("relative", fs.BaseDir()))
	}
	return sarifPhysicalLocation{
		ArtifactLocation: sarifArtifact{URI: uri},
		Region: sarifRegion{
			StartLine:   start.Line,
			StartColumn: start.Col,
			EndLine:     end.Line,
			EndColumn:   end.Col,
		},
	}
}

// sarifURI keeps relative paths relative; absolute ones become file:// URIs.
func sarifURI(path string) string {
	path = filepath.ToSlash(path)
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
