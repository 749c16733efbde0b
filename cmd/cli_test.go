package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Reset sticky flags that may persist Changed state across invocations
	for _, name := range []string{"kind", "x", "y", "value", "output", "preview"} {
		if fl := analyzeCmd.Flags().Lookup(name); fl != nil {
			_ = fl.Value.Set(fl.DefValue)
			fl.Changed = false
		}
	}
	if fl := sessionShowCmd.Flags().Lookup("full"); fl != nil {
		_ = fl.Value.Set("false")
		fl.Changed = false
	}
	if fl := rootCmd.PersistentFlags().Lookup("backend"); fl != nil {
		_ = fl.Value.Set("")
		fl.Changed = false
	}
	cfg = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestCLI_AnalyzeBarChart(t *testing.T) {
	home := isolateHome(t)
	p := writeCSV(t, home, "pairs.csv", "x,y\np,1\np,3\nq,2\n")

	out, err := runCmd(t, "analyze", p, "--kind", "bar", "--x", "x", "--y", "y")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var got struct {
		Data []map[string]any `json:"data"`
		XKey string           `json:"xKey"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(got.Data) != 2 || got.Data[0]["x"] != "p" || got.Data[0]["y"] != 2.0 {
		t.Fatalf("unexpected bar data: %+v", got.Data)
	}
}

func TestCLI_AnalyzeWritesFile(t *testing.T) {
	home := isolateHome(t)
	p := writeCSV(t, home, "m.csv", "a,b\n1,\n2,x\n")
	dest := filepath.Join(home, "out.json")

	if _, err := runCmd(t, "analyze", p, "-k", "missing", "-o", dest); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(b), `"overview"`) || !strings.Contains(string(b), `"missingPercent": 50`) {
		t.Fatalf("unexpected output: %s", b)
	}
}

func TestCLI_AnalyzeRejectsBadInput(t *testing.T) {
	home := isolateHome(t)
	p := writeCSV(t, home, "m.csv", "a,b\n1,2\n")
	if _, err := runCmd(t, "analyze", p, "--kind", "regression"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if _, err := runCmd(t, "analyze", p, "--kind", "scatter", "--x", "a", "--y", "zz"); err == nil {
		t.Fatalf("expected error for unknown column")
	}
	txt := writeCSV(t, home, "notes.txt", "hello")
	if _, err := runCmd(t, "analyze", txt); err == nil {
		t.Fatalf("expected error for unsupported file type")
	}
}

func TestCLI_SessionCreateShow(t *testing.T) {
	home := isolateHome(t)
	var rows strings.Builder
	rows.WriteString("n\n")
	for i := 0; i < 8; i++ {
		rows.WriteString("1\n")
	}
	p := writeCSV(t, home, "eight.csv", rows.String())

	out, err := runCmd(t, "session", "create", p, "--backend", "file")
	if err != nil {
		t.Fatalf("session create: %v", err)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		t.Fatalf("no session id printed")
	}

	out, err = runCmd(t, "session", "show", id, "--backend", "file")
	if err != nil {
		t.Fatalf("session show: %v", err)
	}
	var preview struct {
		Filename string  `json:"filename"`
		Preview  [][]any `json:"preview"`
	}
	if err := json.Unmarshal([]byte(out), &preview); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if preview.Filename != "eight.csv" || len(preview.Preview) != 6 {
		t.Fatalf("preview = %s / %d rows", preview.Filename, len(preview.Preview))
	}

	out, err = runCmd(t, "session", "show", id, "--backend", "file", "--full")
	if err != nil {
		t.Fatalf("session show --full: %v", err)
	}
	var full struct {
		Data [][]any `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &full); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(full.Data) != 9 {
		t.Fatalf("full rows = %d, want 9", len(full.Data))
	}

	if _, err := runCmd(t, "session", "show", "nope", "--backend", "file"); err == nil {
		t.Fatalf("expected not found error")
	}
	if _, err := runCmd(t, "session", "create", p); err == nil {
		t.Fatalf("memory backend should be refused")
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolateHome(t)
	if _, err := runCmd(t, "config", "set", "session_backend", "sqlite"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".sheetlens", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out, err := runCmd(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "session_backend: sqlite") {
		t.Fatalf("show output missing value: %s", out)
	}
	if _, err := runCmd(t, "config", "set", "session_backend", "redis"); err == nil {
		t.Fatalf("expected error for invalid backend")
	}
}
