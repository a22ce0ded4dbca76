package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `
output_dir: /data/studies
log_dir: /data/logs
processor:
  command: /opt/ana/bin/skim
merger:
  command: hadd
queues:
  - name: blue
    memory_mb: 128000
    threads_per_cpu: 2
    cpus_per_node: 32
    nodes: 16
  - name: red
    memory_mb: 64000
    threads_per_cpu: 1
    cpus_per_node: 16
    nodes: 8
    node_share: 0.5
analyses:
  - name: S17
    input_dir: /data/raw/S17
    version: v1
    selector: /ana/S17.cxx
    group: signal
  - name: S18
    input_dir: /data/raw/S18
    version: v2
    selector: /ana/S18.cxx
extensions:
  - name: polarize
    command: /opt/ana/bin/polarize
    args: ["--input", "@flattree.root"]
    outputs:
      "@flattree": "@flattree_polarized"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Scheduler.SubmitCommand != "qsub" {
		t.Errorf("SubmitCommand = %q, want qsub", cfg.Scheduler.SubmitCommand)
	}
	if len(cfg.Scheduler.SubmitArgs) != 1 || cfg.Scheduler.SubmitArgs[0] != "-terse" {
		t.Errorf("SubmitArgs = %v, want [-terse]", cfg.Scheduler.SubmitArgs)
	}
	if cfg.Processor.InputGlob != "*.root" {
		t.Errorf("InputGlob = %q, want *.root", cfg.Processor.InputGlob)
	}
	if cfg.Queues[0].NodeShare != 1.0 {
		t.Errorf("blue NodeShare = %g, want defaulted 1.0", cfg.Queues[0].NodeShare)
	}
	if cfg.Queues[1].NodeShare != 0.5 {
		t.Errorf("red NodeShare = %g, want 0.5 kept", cfg.Queues[1].NodeShare)
	}
	if got := cfg.Queues[0].ThreadsPerNode(); got != 64 {
		t.Errorf("blue ThreadsPerNode = %d, want 64", got)
	}
}

func TestLoadConfigCollectsAllProblems(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
queues:
  - name: blue
    memory_mb: 0
    threads_per_cpu: 2
    cpus_per_node: 32
    nodes: 16
    node_share: 1.5
analyses:
  - name: S17
    version: v1
`))
	if err == nil {
		t.Fatal("LoadConfig accepted a broken config")
	}
	for _, want := range []string{
		"output_dir", "log_dir", "processor.command", "merger.command",
		"queues[0].memory_mb", "queues[0].node_share",
		"analyses[0].input_dir", "analyses[0].selector",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error does not mention %s: %v", want, err)
		}
	}
}

func TestLoadConfigRejectsDuplicateNames(t *testing.T) {
	dup := strings.Replace(validConfig, "name: S18", "name: S17", 1)
	_, err := LoadConfig(writeConfig(t, dup))
	if err == nil || !strings.Contains(err.Error(), "duplicate analysis") {
		t.Errorf("want duplicate analysis error, got %v", err)
	}
}

func TestLookups(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if _, err := cfg.Analysis("S17"); err != nil {
		t.Errorf("Analysis(S17): %v", err)
	}
	if _, err := cfg.Analysis("nope"); !errors.Is(err, ErrUnknownAnalysis) {
		t.Errorf("want ErrUnknownAnalysis, got %v", err)
	}

	if _, err := cfg.Extension("polarize"); err != nil {
		t.Errorf("Extension(polarize): %v", err)
	}
	if _, err := cfg.Extension("nope"); !errors.Is(err, ErrUnknownExtension) {
		t.Errorf("want ErrUnknownExtension, got %v", err)
	}

	q, err := cfg.Queue("")
	if err != nil || q.Name != "blue" {
		t.Errorf("Queue(\"\") = %v, %v; want first-configured blue", q.Name, err)
	}
	if _, err := cfg.Queue("nope"); !errors.Is(err, ErrUnknownQueue) {
		t.Errorf("want ErrUnknownQueue, got %v", err)
	}

	group := cfg.AnalysesInGroup("signal")
	if len(group) != 1 || group[0].Name != "S17" {
		t.Errorf("AnalysesInGroup(signal) = %v, want [S17]", group)
	}
	if got := cfg.AnalysesInGroup("nope"); got != nil {
		t.Errorf("AnalysesInGroup(nope) = %v, want nil", got)
	}
}

func TestValidName(t *testing.T) {
	for _, name := range []string{"S17", "my-study", "run_2.1", "a"} {
		if !ValidName(name) {
			t.Errorf("ValidName(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"", "-lead", ".hidden", "has space", "a/b"} {
		if ValidName(name) {
			t.Errorf("ValidName(%q) = true, want false", name)
		}
	}
}
