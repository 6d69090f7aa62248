package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProjectConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	taskmanDir := filepath.Join(projectDir, TaskmanDir)
	if err := os.MkdirAll(taskmanDir, 0o755); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, TaskmanProjectDir: taskmanDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	if got := c.StorePath(); got != filepath.Join(taskmanDir, "data", "store.yaml") {
		t.Fatalf("default store path = %s", got)
	}
	if got := c.ReportFormats(); len(got) != 2 {
		t.Fatalf("default formats = %v, want text+pdf", got)
	}
}

func TestLoadProjectConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	taskmanDir := filepath.Join(projectDir, TaskmanDir)
	if err := os.MkdirAll(taskmanDir, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
storage:
  file: data/records.yaml
reports:
  directory: out
  formats:
    - PDF
`)
	if err := os.WriteFile(filepath.Join(taskmanDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, TaskmanProjectDir: taskmanDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if got := c.StorePath(); got != filepath.Join(taskmanDir, "data", "records.yaml") {
		t.Fatalf("store path = %s", got)
	}
	if got := c.ReportsDir(); got != filepath.Join(taskmanDir, "out") {
		t.Fatalf("reports dir = %s", got)
	}
	if got := c.ReportFormats(); len(got) != 1 || got[0] != "pdf" {
		t.Fatalf("formats = %v, want [pdf]", got)
	}
}

func TestLoadProjectConfigRejectsUnknownFormat(t *testing.T) {
	projectDir := t.TempDir()
	taskmanDir := filepath.Join(projectDir, TaskmanDir)
	if err := os.MkdirAll(taskmanDir, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := "version: 1\nreports:\n  formats:\n    - docx\n"
	if err := os.WriteFile(filepath.Join(taskmanDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, TaskmanProjectDir: taskmanDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err == nil {
		t.Fatalf("expected error for unknown report format")
	}
}

func TestInitTaskmanDirCreatesStructure(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitTaskmanDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, sub := range []string{"data", "logs", "reports"} {
		info, err := os.Stat(filepath.Join(projectDir, TaskmanDir, sub))
		if err != nil || !info.IsDir() {
			t.Fatalf("missing directory %s: %v", sub, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(projectDir, TaskmanDir, "config.yaml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "taskman configuration") {
		t.Fatalf("default config body unexpected:\n%s", data)
	}

	// A second init must not clobber an edited config.
	if err := os.WriteFile(filepath.Join(projectDir, TaskmanDir, "config.yaml"), []byte("version: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := InitTaskmanDir(projectDir); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(filepath.Join(projectDir, TaskmanDir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "version: 1\n" {
		t.Fatalf("re-init overwrote existing config")
	}
}
