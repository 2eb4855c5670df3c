// Package pattern loads named collections of regular expressions (templates)
// used to categorize URLs. A Set is immutable once built and safe to share
// across goroutines without locking.
package pattern

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxParallelReads bounds concurrent template file reads.
const maxParallelReads = 8

// Template is a named, ordered list of compiled patterns.
type Template struct {
	Name     string
	Patterns []*regexp.Regexp
}

// Match reports whether any pattern matches s. Patterns are tried in file
// order and scanning stops at the first hit.
func (t Template) Match(s string) bool {
	for _, re := range t.Patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Set is the full loaded collection of templates, ordered by name.
type Set struct {
	templates []Template
}

// Len returns the number of templates.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.templates)
}

// Templates returns the templates in name order. Callers must not modify
// the returned slice.
func (s *Set) Templates() []Template {
	if s == nil {
		return nil
	}
	return s.templates
}

// Names returns the template names in order.
func (s *Set) Names() []string {
	names := make([]string, 0, s.Len())
	for _, t := range s.Templates() {
		names = append(names, t.Name)
	}
	return names
}

// PatternCount returns the total number of compiled patterns.
func (s *Set) PatternCount() int {
	n := 0
	for _, t := range s.Templates() {
		n += len(t.Patterns)
	}
	return n
}

type options struct {
	logger        *zap.Logger
	createMissing bool
}

// Option configures Load and NewSet.
type Option func(*options)

// WithLogger sets the logger used to report skipped files and patterns.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCreateMissing makes Load create the template directory when it does
// not exist.
func WithCreateMissing(create bool) Option {
	return func(o *options) {
		o.createMissing = create
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load reads every regular file in dir as a template: one pattern per line,
// whitespace trimmed, blank lines dropped, template name = file name.
//
// Load never fails. A missing directory yields an empty Set; an unreadable
// file or a pattern that does not compile is logged and skipped.
func Load(dir string, opts ...Option) *Set {
	o := buildOptions(opts)
	log := o.logger.With(zap.String("dir", dir))

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("template directory not found, no templates loaded")
			if o.createMissing {
				if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
					log.Warn("could not create template directory", zap.Error(mkErr))
				} else {
					log.Info("created empty template directory")
				}
			}
		} else {
			log.Warn("could not read template directory", zap.Error(err))
		}
		return &Set{}
	}

	raw := make([]map[string][]string, len(entries))
	var g errgroup.Group
	g.SetLimit(maxParallelReads)
	for i, entry := range entries {
		if entry.IsDir() {
			continue
		}
		i, entry := i, entry
		g.Go(func() error {
			path := filepath.Join(dir, entry.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				log.Warn("skipping unreadable template", zap.String("file", entry.Name()), zap.Error(err))
				return nil
			}
			raw[i] = map[string][]string{entry.Name(): splitPatterns(string(data))}
			return nil
		})
	}
	_ = g.Wait()

	merged := make(map[string][]string, len(entries))
	for _, m := range raw {
		for name, lines := range m {
			merged[name] = lines
		}
	}
	return compile(merged, o.logger)
}

// NewSet builds a Set from an in-memory mapping of template name to pattern
// strings, applying the same trimming and compile rules as Load.
func NewSet(templates map[string][]string, opts ...Option) *Set {
	o := buildOptions(opts)
	cleaned := make(map[string][]string, len(templates))
	for name, lines := range templates {
		cleaned[name] = splitPatterns(strings.Join(lines, "\n"))
	}
	return compile(cleaned, o.logger)
}

func splitPatterns(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func compile(templates map[string][]string, logger *zap.Logger) *Set {
	set := &Set{templates: make([]Template, 0, len(templates))}
	for name, lines := range templates {
		t := Template{Name: name}
		for _, line := range lines {
			re, err := regexp.Compile(line)
			if err != nil {
				logger.Warn("skipping invalid pattern",
					zap.String("template", name),
					zap.String("pattern", line),
					zap.Error(err),
				)
				continue
			}
			t.Patterns = append(t.Patterns, re)
		}
		if len(t.Patterns) == 0 {
			logger.Debug("template has no usable patterns", zap.String("template", name))
			continue
		}
		set.templates = append(set.templates, t)
	}
	sort.Slice(set.templates, func(i, j int) bool {
		return set.templates[i].Name < set.templates[j].Name
	})
	return set
}
