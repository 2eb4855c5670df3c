package output

import (
	"fmt"
	"io"

	"github.com/maxvaer/weakscan/internal/scanner"
	"gopkg.in/yaml.v3"
)

// YAMLWriter writes the same document as JSONWriter in YAML.
type YAMLWriter struct {
	w        io.Writer
	closer   io.Closer
	findings []scanner.Finding
}

// NewYAMLWriter creates a YAML output writer.
func NewYAMLWriter(outputFile string) (*YAMLWriter, error) {
	w, closer, err := openOutput(outputFile)
	if err != nil {
		return nil, err
	}
	return &YAMLWriter{w: w, closer: closer}, nil
}

func (y *YAMLWriter) WriteHeader() error { return nil }

func (y *YAMLWriter) WriteFinding(finding *scanner.Finding) error {
	y.findings = append(y.findings, *finding)
	return nil
}

func (y *YAMLWriter) WriteFooter(stats Stats) error {
	enc := yaml.NewEncoder(y.w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(y.findings, stats)); err != nil {
		return fmt.Errorf("encoding yaml report: %w", err)
	}
	return enc.Close()
}

func (y *YAMLWriter) Close() error {
	if y.closer != nil {
		return y.closer.Close()
	}
	return nil
}
