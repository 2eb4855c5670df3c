package output

import (
	"encoding/csv"
	"io"

	"github.com/maxvaer/weakscan/internal/heuristic"
	"github.com/maxvaer/weakscan/internal/scanner"
)

// CSVWriter writes findings in CSV format.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter creates a CSV output writer.
func NewCSVWriter(outputFile string) (*CSVWriter, error) {
	w, closer, err := openOutput(outputFile)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{w: csv.NewWriter(w), closer: closer}, nil
}

func (c *CSVWriter) WriteHeader() error {
	return c.w.Write([]string{"url", "flags"})
}

func (c *CSVWriter) WriteFinding(finding *scanner.Finding) error {
	return c.w.Write([]string{finding.URL, heuristic.Join(finding.Flags, ",")})
}

func (c *CSVWriter) WriteFooter(_ Stats) error {
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
