package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/maxvaer/weakscan/internal/heuristic"
	"github.com/maxvaer/weakscan/internal/scanner"
)

// TextWriter writes one "URL | flag,flag" line per finding.
type TextWriter struct {
	w      io.Writer
	closer io.Closer
	quiet  bool

	dim   *color.Color
	url   *color.Color
	warn  *color.Color
	err   *color.Color
	match *color.Color
}

// NewTextWriter creates a text output writer. If outputFile is empty, stdout
// is used. Colors are never written to a file.
func NewTextWriter(outputFile string, noColor, quiet bool) (*TextWriter, error) {
	w, closer, err := openOutput(outputFile)
	if err != nil {
		return nil, err
	}
	t := &TextWriter{
		w:      w,
		closer: closer,
		quiet:  quiet,
		dim:    color.New(color.Faint),
		url:    color.New(color.FgWhite, color.Bold),
		warn:   color.New(color.FgYellow),
		err:    color.New(color.FgRed),
		match:  color.New(color.FgCyan),
	}
	if noColor || outputFile != "" {
		for _, c := range []*color.Color{t.dim, t.url, t.warn, t.err, t.match} {
			c.DisableColor()
		}
	}
	return t, nil
}

func (t *TextWriter) WriteHeader() error {
	if t.quiet {
		return nil
	}
	_, err := t.dim.Fprintln(t.w, "URL | FLAGS")
	return err
}

func (t *TextWriter) WriteFinding(finding *scanner.Finding) error {
	parts := make([]string, len(finding.Flags))
	for i, f := range finding.Flags {
		parts[i] = t.colorFlag(f)
	}
	_, err := fmt.Fprintf(t.w, "%s | %s\n", t.url.Sprint(finding.URL), strings.Join(parts, ","))
	return err
}

// WriteFooter is a no-op; the dashboard carries the summary.
func (t *TextWriter) WriteFooter(Stats) error {
	return nil
}

func (t *TextWriter) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

func (t *TextWriter) colorFlag(f heuristic.Flag) string {
	switch {
	case f.IsScanError():
		return t.err.Sprint(f)
	case f.IsTemplate():
		return t.match.Sprint(f)
	default:
		return t.warn.Sprint(f)
	}
}
