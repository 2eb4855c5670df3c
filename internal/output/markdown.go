package output

import (
	"io"
	"sort"
	"strconv"

	"github.com/maxvaer/weakscan/internal/heuristic"
	"github.com/maxvaer/weakscan/internal/scanner"
	"github.com/maxvaer/weakscan/pkg/version"
	"github.com/nao1215/markdown"
)

// MarkdownWriter buffers findings and renders a Markdown report with a
// summary table, a per-flag breakdown and the list of findings.
type MarkdownWriter struct {
	w        io.Writer
	closer   io.Closer
	findings []*scanner.Finding
}

// NewMarkdownWriter creates a Markdown output writer.
func NewMarkdownWriter(outputFile string) (*MarkdownWriter, error) {
	w, closer, err := openOutput(outputFile)
	if err != nil {
		return nil, err
	}
	return &MarkdownWriter{w: w, closer: closer}, nil
}

func (m *MarkdownWriter) WriteHeader() error { return nil }

func (m *MarkdownWriter) WriteFinding(finding *scanner.Finding) error {
	cpy := *finding
	m.findings = append(m.findings, &cpy)
	return nil
}

func (m *MarkdownWriter) WriteFooter(stats Stats) error {
	md := markdown.NewMarkdown(m.w)

	md.H1("Weak URL Scan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"URLs scanned", strconv.Itoa(stats.TotalURLs)},
			{"Weak URLs", strconv.Itoa(stats.Flagged)},
			{"Fetch errors", strconv.Itoa(stats.Failed)},
			{"Templates loaded", strconv.Itoa(stats.Templates)},
			{"Duration", stats.Duration.String()},
		},
	})
	md.PlainText("")

	if len(m.findings) == 0 {
		md.Tip("No weak URLs found.")
		md.HorizontalRule()
		md.PlainTextf("*Generated by weakscan %s*", version.Version)
		return md.Build()
	}

	md.H2("Flag Breakdown")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Flag", "Count"},
		Rows:   breakdownRows(flagCounts(m.findings)),
	})
	md.PlainText("")

	if stats.Failed > 0 {
		md.Warningf("%d URL(s) could not be fetched; header checks were skipped for them.", stats.Failed)
		md.PlainText("")
	}

	md.H2("Findings")
	md.PlainText("")
	rows := make([][]string, len(m.findings))
	for i, f := range m.findings {
		rows[i] = []string{"`" + f.URL + "`", heuristic.Join(f.Flags, ", ")}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Flags"},
		Rows:   rows,
	})
	md.PlainText("")
	md.HorizontalRule()
	md.PlainTextf("*Generated by weakscan %s*", version.Version)

	return md.Build()
}

func (m *MarkdownWriter) Close() error {
	if m.closer != nil {
		return m.closer.Close()
	}
	return nil
}

// breakdownRows orders flags by count, then name.
func breakdownRows(counts map[heuristic.Flag]int) [][]string {
	flags := make([]heuristic.Flag, 0, len(counts))
	for f := range counts {
		flags = append(flags, f)
	}
	sort.Slice(flags, func(i, j int) bool {
		if counts[flags[i]] != counts[flags[j]] {
			return counts[flags[i]] > counts[flags[j]]
		}
		return flags[i] < flags[j]
	})
	rows := make([][]string, len(flags))
	for i, f := range flags {
		rows[i] = []string{string(f), strconv.Itoa(counts[f])}
	}
	return rows
}
