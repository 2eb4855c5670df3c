package hook

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/maxvaer/weakscan/internal/heuristic"
	"github.com/maxvaer/weakscan/internal/scanner"
	"go.uber.org/zap/zaptest"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("hook tests use POSIX shell syntax")
	}
}

func testFinding() *scanner.Finding {
	return &scanner.Finding{
		URL:   "http://shop.example:8080/cart?token=x",
		Flags: []heuristic.Flag{heuristic.FlagInsecureHTTP, heuristic.FlagSensitiveParamLeak, "GF:idor"},
	}
}

func TestRunSendsPayloadOnStdin(t *testing.T) {
	skipOnWindows(t)
	out := filepath.Join(t.TempDir(), "payload.json")

	r := NewRunner("cat > "+out, zaptest.NewLogger(t))
	if err := r.Run(context.Background(), testFinding()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var got findingJSON
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid payload %q: %v", data, err)
	}
	if got.URL != "http://shop.example:8080/cart?token=x" || got.Host != "shop.example:8080" || got.Scheme != "http" {
		t.Errorf("payload = %+v", got)
	}
	if len(got.Flags) != 3 || got.Flags[2] != "GF:idor" {
		t.Errorf("flags = %v", got.Flags)
	}
	if len(got.Templates) != 1 || got.Templates[0] != "idor" {
		t.Errorf("templates = %v", got.Templates)
	}
}

func TestRunExpandsPlaceholders(t *testing.T) {
	skipOnWindows(t)
	out := filepath.Join(t.TempDir(), "line.txt")

	r := NewRunner("echo {scheme} {host} {flags} > "+out, nil)
	if err := r.Run(context.Background(), testFinding()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "http shop.example:8080 INSECURE_HTTP,SENSITIVE_PARAM_LEAK,GF:idor"
	if got := strings.TrimSpace(string(data)); got != want {
		t.Errorf("expanded = %q, want %q", got, want)
	}
}

func TestRunReturnsCommandError(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner("exit 3", zaptest.NewLogger(t))
	if err := r.Run(context.Background(), testFinding()); err == nil {
		t.Error("expected error from failing command")
	}
}

func TestRunDoesNotEvaluateTargetText(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	marker := filepath.Join(dir, "pwned")
	out := filepath.Join(dir, "url.txt")

	finding := &scanner.Finding{
		URL:   "http://evil.example/?q=$(touch${IFS}" + marker + ")`touch${IFS}" + marker + "`;touch " + marker,
		Flags: []heuristic.Flag{heuristic.FlagInsecureHTTP},
	}
	r := NewRunner("echo {url} > "+out+" && echo {host} {flags} >> "+out, zaptest.NewLogger(t))
	if err := r.Run(context.Background(), finding); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatalf("target URL was executed by the shell (stat err = %v)", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[0] != finding.URL {
		t.Errorf("url line = %q, want %q", lines, finding.URL)
	}
	if lines[len(lines)-1] != "evil.example INSECURE_HTTP" {
		t.Errorf("host/flags line = %q", lines[len(lines)-1])
	}
}

func TestExpandQuotesPlaceholders(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner("notify {url} {host} {scheme} {flags}", nil)
	want := `notify "$WEAKSCAN_URL" "$WEAKSCAN_HOST" "$WEAKSCAN_SCHEME" "$WEAKSCAN_FLAGS"`
	if got := r.expand(); got != want {
		t.Errorf("expand = %q, want %q", got, want)
	}
}
