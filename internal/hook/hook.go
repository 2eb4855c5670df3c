package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/maxvaer/weakscan/internal/scanner"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single hook invocation.
const DefaultTimeout = 30 * time.Second

// findingJSON is the JSON payload sent to the hook command via stdin.
type findingJSON struct {
	URL       string   `json:"url"`
	Host      string   `json:"host,omitempty"`
	Scheme    string   `json:"scheme,omitempty"`
	Flags     []string `json:"flags"`
	Templates []string `json:"templates,omitempty"`
}

// Runner executes a shell command for each reported finding.
type Runner struct {
	cmd     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRunner creates a hook runner. cmd is the shell command to execute.
func NewRunner(cmd string, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cmd: cmd, timeout: DefaultTimeout, logger: logger.Named("hook")}
}

// Run executes the hook command with the finding as JSON on stdin.
// Errors are logged and returned but never halt the scan.
func (r *Runner) Run(ctx context.Context, finding *scanner.Finding) error {
	payload := newPayload(finding)

	data, err := json.Marshal(payload)
	if err != nil {
		r.logger.Warn("marshal error", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	shell, args := shellCommand()
	cmd := exec.CommandContext(ctx, shell, append(args, r.expand())...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Env = append(os.Environ(), payload.env()...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		r.logger.Warn("command failed",
			zap.String("url", finding.URL),
			zap.Error(err),
			zap.String("stderr", strings.TrimSpace(stderr.String())),
		)
		return fmt.Errorf("hook for %s: %w", finding.URL, err)
	}

	if out := strings.TrimSpace(string(output)); out != "" {
		r.logger.Info(out, zap.String("url", finding.URL))
	}
	return nil
}

// Placeholder values come from the target list and must never be parsed by
// the shell. They are exported as environment variables and each
// placeholder becomes a quoted reference to its variable.
var placeholders = []struct{ name, env string }{
	{"{url}", "WEAKSCAN_URL"},
	{"{host}", "WEAKSCAN_HOST"},
	{"{scheme}", "WEAKSCAN_SCHEME"},
	{"{flags}", "WEAKSCAN_FLAGS"},
}

// expand replaces {url}, {host}, {scheme} and {flags} with references to
// the matching WEAKSCAN_* variables.
func (r *Runner) expand() string {
	pairs := make([]string, 0, 2*len(placeholders))
	for _, p := range placeholders {
		pairs = append(pairs, p.name, envRef(p.env))
	}
	return strings.NewReplacer(pairs...).Replace(r.cmd)
}

func (p findingJSON) env() []string {
	return []string{
		"WEAKSCAN_URL=" + p.URL,
		"WEAKSCAN_HOST=" + p.Host,
		"WEAKSCAN_SCHEME=" + p.Scheme,
		"WEAKSCAN_FLAGS=" + strings.Join(p.Flags, ","),
	}
}

func envRef(name string) string {
	if runtime.GOOS == "windows" {
		return "%" + name + "%"
	}
	return `"$` + name + `"`
}

func newPayload(finding *scanner.Finding) findingJSON {
	p := findingJSON{URL: finding.URL, Flags: make([]string, len(finding.Flags))}
	for i, f := range finding.Flags {
		p.Flags[i] = string(f)
	}
	for _, f := range finding.TemplateMatches() {
		p.Templates = append(p.Templates, f.Template())
	}
	if u, err := url.Parse(finding.URL); err == nil {
		p.Host = u.Host
		p.Scheme = u.Scheme
	}
	return p
}

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}
