package targets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/maxvaer/weakscan/internal/config"
)

// Load reads a newline-delimited target list. Blank lines and lines starting
// with '#' are skipped; entries are neither de-duplicated nor normalized, so
// every remaining line is one target. A missing file is a configuration error.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", config.ErrTargetListMissing, path)
		}
		return nil, fmt.Errorf("reading target list %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// Parse splits raw text into targets using the same rules as Load.
func Parse(raw string) []string {
	lines := strings.Split(raw, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result = append(result, line)
	}
	return result
}
