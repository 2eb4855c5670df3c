package output

import (
	"encoding/json"
	"io"

	"github.com/maxvaer/weakscan/internal/scanner"
)

// document is the shape shared by the JSON and YAML writers.
type document struct {
	Summary  Stats             `json:"summary" yaml:"summary"`
	Duration string            `json:"duration" yaml:"duration"`
	Findings []scanner.Finding `json:"findings" yaml:"findings"`
}

func newDocument(findings []scanner.Finding, stats Stats) document {
	if findings == nil {
		findings = []scanner.Finding{}
	}
	return document{Summary: stats, Duration: stats.Duration.String(), Findings: findings}
}

// JSONWriter writes the summary and all findings as one JSON document.
type JSONWriter struct {
	w        io.Writer
	closer   io.Closer
	findings []scanner.Finding
}

// NewJSONWriter creates a JSON output writer.
func NewJSONWriter(outputFile string) (*JSONWriter, error) {
	w, closer, err := openOutput(outputFile)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{w: w, closer: closer}, nil
}

func (j *JSONWriter) WriteHeader() error { return nil }

func (j *JSONWriter) WriteFinding(finding *scanner.Finding) error {
	j.findings = append(j.findings, *finding)
	return nil
}

func (j *JSONWriter) WriteFooter(stats Stats) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(j.findings, stats))
}

func (j *JSONWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
