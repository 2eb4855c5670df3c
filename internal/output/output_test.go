package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maxvaer/weakscan/internal/config"
	"github.com/maxvaer/weakscan/internal/heuristic"
	"github.com/maxvaer/weakscan/internal/scanner"
	"gopkg.in/yaml.v3"
)

func sampleFindings() []scanner.Finding {
	return []scanner.Finding{
		{URL: "https://b.example/?token=1", Flags: []heuristic.Flag{heuristic.FlagMissingClickjacking, heuristic.FlagSensitiveParamLeak}},
		{URL: "http://a.example/", Flags: []heuristic.Flag{heuristic.FlagInsecureHTTP}},
		{URL: "https://c.example/", Flags: []heuristic.Flag{"SCAN_ERROR:timeout", "GF:redirect", "GF:ssrf"}},
	}
}

func sampleStats() Stats {
	return Stats{TotalURLs: 5, Flagged: 3, Failed: 1, Templates: 2, Duration: 1500 * time.Millisecond, URLsPerSec: 3.3}
}

func reportPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestNewStats(t *testing.T) {
	res := &scanner.Result{Findings: sampleFindings(), Total: 10, Failed: 2, Duration: 2 * time.Second}

	s := NewStats(res, 2, 4)
	if s.TotalURLs != 10 || s.Flagged != 2 || s.Filtered != 1 || s.Failed != 2 || s.Templates != 4 {
		t.Errorf("unexpected stats %+v", s)
	}
	if s.URLsPerSec != 5 {
		t.Errorf("URLsPerSec = %v, want 5", s.URLsPerSec)
	}
}

func TestTextWriter(t *testing.T) {
	path := reportPath(t, "report.txt")
	w, err := NewTextWriter(path, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteAll(w, sampleFindings(), sampleStats()); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	out := readFile(t, path)
	if strings.Contains(out, "\033[") {
		t.Error("file output must not contain ANSI escapes")
	}
	if !strings.HasPrefix(out, "URL | FLAGS\n") {
		t.Errorf("missing header line:\n%s", out)
	}
	if !strings.Contains(out, "http://a.example/ | INSECURE_HTTP\n") {
		t.Errorf("missing finding line:\n%s", out)
	}
	if !strings.Contains(out, "https://c.example/ | SCAN_ERROR:timeout,GF:redirect,GF:ssrf\n") {
		t.Errorf("flags not joined in order:\n%s", out)
	}
}

func TestTextWriterQuietSkipsHeader(t *testing.T) {
	path := reportPath(t, "report.txt")
	w, err := NewTextWriter(path, true, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteAll(w, sampleFindings()[:1], sampleStats()); err != nil {
		t.Fatal(err)
	}
	w.Close()

	out := readFile(t, path)
	if strings.Contains(out, "URL | FLAGS") {
		t.Error("quiet mode should not print the header")
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected a single line, got:\n%s", out)
	}
}

func TestJSONWriter(t *testing.T) {
	path := reportPath(t, "report.json")
	w, err := NewJSONWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteAll(w, sampleFindings(), sampleStats()); err != nil {
		t.Fatal(err)
	}
	w.Close()

	var doc struct {
		Summary struct {
			TotalURLs int `json:"total_urls"`
			Flagged   int `json:"flagged"`
		} `json:"summary"`
		Duration string `json:"duration"`
		Findings []struct {
			URL   string   `json:"url"`
			Flags []string `json:"flags"`
		} `json:"findings"`
	}
	if err := json.Unmarshal([]byte(readFile(t, path)), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Summary.TotalURLs != 5 || doc.Summary.Flagged != 3 {
		t.Errorf("summary = %+v", doc.Summary)
	}
	if doc.Duration != "1.5s" {
		t.Errorf("duration = %q", doc.Duration)
	}
	if len(doc.Findings) != 3 || doc.Findings[0].Flags[1] != "SENSITIVE_PARAM_LEAK" {
		t.Errorf("findings = %+v", doc.Findings)
	}
}

func TestJSONWriterEmptyFindingsIsArray(t *testing.T) {
	path := reportPath(t, "report.json")
	w, err := NewJSONWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteAll(w, nil, Stats{}); err != nil {
		t.Fatal(err)
	}
	w.Close()

	if !strings.Contains(readFile(t, path), `"findings": []`) {
		t.Error("expected an empty findings array, not null")
	}
}

func TestYAMLWriter(t *testing.T) {
	path := reportPath(t, "report.yaml")
	w, err := NewYAMLWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteAll(w, sampleFindings(), sampleStats()); err != nil {
		t.Fatal(err)
	}
	w.Close()

	var doc struct {
		Summary struct {
			Failed int `yaml:"failed"`
		} `yaml:"summary"`
		Findings []struct {
			URL   string   `yaml:"url"`
			Flags []string `yaml:"flags"`
		} `yaml:"findings"`
	}
	if err := yaml.Unmarshal([]byte(readFile(t, path)), &doc); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if doc.Summary.Failed != 1 {
		t.Errorf("failed = %d, want 1", doc.Summary.Failed)
	}
	if len(doc.Findings) != 3 || doc.Findings[2].Flags[0] != "SCAN_ERROR:timeout" {
		t.Errorf("findings = %+v", doc.Findings)
	}
}

func TestCSVWriter(t *testing.T) {
	path := reportPath(t, "report.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteAll(w, sampleFindings(), sampleStats()); err != nil {
		t.Fatal(err)
	}
	w.Close()

	records, err := csv.NewReader(strings.NewReader(readFile(t, path))).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if records[0][0] != "url" || records[0][1] != "flags" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][1] != "MISSING_CLICKJACKING_PROTECTION,SENSITIVE_PARAM_LEAK" {
		t.Errorf("row = %v", records[1])
	}
}

func TestMarkdownWriter(t *testing.T) {
	path := reportPath(t, "report.md")
	w, err := NewMarkdownWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteAll(w, sampleFindings(), sampleStats()); err != nil {
		t.Fatal(err)
	}
	w.Close()

	out := readFile(t, path)
	for _, want := range []string{"# Weak URL Scan Report", "## Flag Breakdown", "## Findings", "`http://a.example/`", "GF:ssrf"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown report missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownWriterNoFindings(t *testing.T) {
	path := reportPath(t, "report.md")
	w, err := NewMarkdownWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteAll(w, nil, Stats{TotalURLs: 2}); err != nil {
		t.Fatal(err)
	}
	w.Close()

	out := readFile(t, path)
	if !strings.Contains(out, "No weak URLs found.") {
		t.Errorf("expected tip for empty report:\n%s", out)
	}
	if strings.Contains(out, "## Findings") {
		t.Error("empty report should not have a findings section")
	}
}

// recordingWriter keeps the order findings were written in.
type recordingWriter struct {
	urls   []string
	footer bool
	closed bool
}

func (r *recordingWriter) WriteHeader() error { return nil }
func (r *recordingWriter) WriteFinding(f *scanner.Finding) error {
	r.urls = append(r.urls, f.URL)
	return nil
}
func (r *recordingWriter) WriteFooter(Stats) error { r.footer = true; return nil }
func (r *recordingWriter) Close() error            { r.closed = true; return nil }

func TestSortedWriter(t *testing.T) {
	tests := []struct {
		sortBy string
		want   []string
	}{
		{sortBy: "url", want: []string{"http://a.example/", "https://b.example/?token=1", "https://c.example/"}},
		{sortBy: "flags", want: []string{"https://c.example/", "https://b.example/?token=1", "http://a.example/"}},
	}

	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			inner := &recordingWriter{}
			w := NewSortedWriter(inner, tt.sortBy)
			if err := WriteAll(w, sampleFindings(), sampleStats()); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}
			if !inner.footer || !inner.closed {
				t.Error("footer and close should reach the inner writer")
			}
			for i := range tt.want {
				if inner.urls[i] != tt.want[i] {
					t.Errorf("[%d] = %q, want %q", i, inner.urls[i], tt.want[i])
				}
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "scan")

	paths, err := WriteArtifacts(prefix, sampleFindings())
	if err != nil {
		t.Fatal(err)
	}
	if paths.WeakURLs != prefix+"_weak_urls.txt" || paths.Matched != prefix+"_gf_matched.txt" {
		t.Errorf("unexpected paths %+v", paths)
	}

	weak := readFile(t, paths.WeakURLs)
	if weak != "https://b.example/?token=1\nhttp://a.example/\nhttps://c.example/\n" {
		t.Errorf("weak file:\n%s", weak)
	}
	matched := readFile(t, paths.Matched)
	if !strings.Contains(matched, "http://a.example/ => INSECURE_HTTP\n") {
		t.Errorf("matched file:\n%s", matched)
	}
}

func TestWriteArtifactsEmpty(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "scan")
	paths, err := WriteArtifacts(prefix, nil)
	if err != nil {
		t.Fatal(err)
	}
	if readFile(t, paths.WeakURLs) != "" || readFile(t, paths.Matched) != "" {
		t.Error("expected empty artifact files")
	}
}

func TestDashboard(t *testing.T) {
	var buf bytes.Buffer
	d := NewDashboard(&buf, "magenta", true)
	d.Print(sampleStats(), sampleFindings())
	d.Saved(ArtifactPaths("out"))

	out := buf.String()
	for _, want := range []string{
		"Weak URL Scanner Dashboard",
		"Total URLs scanned: 5",
		"Weak URLs found:    3",
		"Fetch errors:       1",
		"INSECURE_HTTP",
		"out_weak_urls.txt",
		"out_gf_matched.txt",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("noColor dashboard must not contain ANSI escapes")
	}
}

func TestDashboardAccentColor(t *testing.T) {
	var buf bytes.Buffer
	d := NewDashboard(&buf, "light_cyan", false)
	d.accent.EnableColor()
	d.Print(sampleStats(), sampleFindings())

	// FgHiCyan is SGR 96.
	if !strings.Contains(buf.String(), "\033[96mTotal URLs scanned: 5") {
		t.Errorf("dashboard not drawn in light_cyan:\n%q", buf.String())
	}
}

func TestDashboardColorsCoverConfig(t *testing.T) {
	for _, name := range config.Colors {
		if _, ok := accentColors[name]; !ok {
			t.Errorf("color %q has no terminal attribute", name)
		}
	}
	if len(accentColors) != len(config.Colors) {
		t.Errorf("accentColors has %d entries, config.Colors %d", len(accentColors), len(config.Colors))
	}
}

func TestProgressCounters(t *testing.T) {
	p := NewProgress(3, true)
	p.Start()
	p.Increment()
	p.Increment()
	p.IncrementFlagged()
	p.IncrementErrors()
	p.Stop()
	p.Stop()

	if line := p.line(); !strings.Contains(line, "2/3") || !strings.Contains(line, "Weak: 1 | Errors: 1") {
		t.Errorf("line = %q", line)
	}
}

func TestProgressStopFlushesFinalLine(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(2, true)
	p.enabled = true
	p.w = &buf

	p.Start()
	p.Increment()
	p.Increment()
	p.Stop()

	// Stop must not return before the last redraw and newline are written.
	got := buf.String()
	if !strings.HasSuffix(got, "\n") || !strings.Contains(got, "2/2") {
		t.Errorf("progress output after Stop = %q", got)
	}
	p.Stop()
	if buf.String() != got {
		t.Error("second Stop wrote more output")
	}
}
