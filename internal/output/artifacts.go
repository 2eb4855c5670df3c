package output

import (
	"bufio"
	"fmt"
	"os"

	"github.com/maxvaer/weakscan/internal/heuristic"
	"github.com/maxvaer/weakscan/internal/scanner"
)

// Artifacts names the two plain-text files written after a scan.
type Artifacts struct {
	WeakURLs string // one URL per line
	Matched  string // "URL => flag,flag" per line
}

// ArtifactPaths returns the artifact file names for prefix.
func ArtifactPaths(prefix string) Artifacts {
	return Artifacts{
		WeakURLs: prefix + "_weak_urls.txt",
		Matched:  prefix + "_gf_matched.txt",
	}
}

// WriteArtifacts writes the weak-URL list and the URL-to-flags mapping.
func WriteArtifacts(prefix string, findings []scanner.Finding) (Artifacts, error) {
	paths := ArtifactPaths(prefix)

	if err := writeLines(paths.WeakURLs, findings, func(f scanner.Finding) string {
		return f.URL
	}); err != nil {
		return paths, err
	}
	if err := writeLines(paths.Matched, findings, func(f scanner.Finding) string {
		return fmt.Sprintf("%s => %s", f.URL, heuristic.Join(f.Flags, ","))
	}); err != nil {
		return paths, err
	}
	return paths, nil
}

func writeLines(path string, findings []scanner.Finding, line func(scanner.Finding) string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for _, finding := range findings {
		if _, err := fmt.Fprintln(w, line(finding)); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
