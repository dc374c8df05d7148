package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommandMetadata(t *testing.T) {
	root := NewRootCommand()

	if root.Use != "grepline [flags] PATTERN [PATH...]" {
		t.Errorf("Use = %q", root.Use)
	}
	if !root.SilenceUsage || !root.SilenceErrors {
		t.Error("root command should silence cobra's own usage/error output")
	}
	if root.Version != Version {
		t.Errorf("Version = %q, want %q", root.Version, Version)
	}
}

func TestRootRequiresPattern(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(nil)

	if err := root.Execute(); err == nil {
		t.Error("running without a pattern should fail")
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	configPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("history:\n  enabled: true\n  db_path: %s\n", dbPath)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GREPLINE_CONFIG", configPath)

	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("cat\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	// Run a search that should be recorded.
	search := NewRootCommand()
	search.SetOut(&bytes.Buffer{})
	search.SetErr(&bytes.Buffer{})
	search.SetArgs([]string{"cat", file})
	if err := search.Execute(); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	// The recorded run shows up in the listing.
	var out bytes.Buffer
	list := NewRootCommand()
	list.SetOut(&out)
	list.SetErr(&bytes.Buffer{})
	list.SetArgs([]string{"history", "list"})
	if err := list.Execute(); err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	if !strings.Contains(out.String(), `"cat"`) {
		t.Errorf("history listing = %q, want the recorded pattern", out.String())
	}

	// Export writes a JSON document.
	exportPath := filepath.Join(dir, "runs.json")
	export := NewRootCommand()
	export.SetOut(&bytes.Buffer{})
	export.SetErr(&bytes.Buffer{})
	export.SetArgs([]string{"history", "export", exportPath})
	if err := export.Execute(); err != nil {
		t.Fatalf("history export failed: %v", err)
	}
	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), `"pattern": "cat"`) {
		t.Errorf("export = %q", data)
	}

	// Clear removes everything.
	var clearOut bytes.Buffer
	clear := NewRootCommand()
	clear.SetOut(&clearOut)
	clear.SetErr(&bytes.Buffer{})
	clear.SetArgs([]string{"history", "clear"})
	if err := clear.Execute(); err != nil {
		t.Fatalf("history clear failed: %v", err)
	}
	if !strings.Contains(clearOut.String(), "removed 1 run(s)") {
		t.Errorf("clear output = %q", clearOut.String())
	}
}

func TestExitErrorMessage(t *testing.T) {
	if got := (&ExitError{Code: 1}).Error(); got != "exit status 1" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&ExitError{Code: 2, Err: os.ErrPermission}).Error(); got != os.ErrPermission.Error() {
		t.Errorf("Error() = %q", got)
	}
}
