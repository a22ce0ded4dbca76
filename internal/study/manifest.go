package study

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hepfarm/studyctl/internal/model"
	"github.com/hepfarm/studyctl/internal/queue"
	"github.com/hepfarm/studyctl/internal/token"
	yamlutil "github.com/hepfarm/studyctl/internal/yaml"
)

// Manifest is the tool's own record of one submitted chain, written
// into the study directory. It is informational: nothing reads it back
// to drive scheduling.
type Manifest struct {
	SchemaVersion int    `yaml:"schema_version"`
	FileType      string `yaml:"file_type"`
	RunID         string `yaml:"run_id"`
	CreatedAt     string `yaml:"created_at"`

	Analysis string `yaml:"analysis"`
	Version  string `yaml:"version"`
	Study    string `yaml:"study"`

	Queue      string `yaml:"queue"`
	Threads    int    `yaml:"threads"`
	Nodes      int    `yaml:"nodes"`
	MemoryMB   int    `yaml:"memory_mb"`
	InputCount int    `yaml:"input_count"`

	ProcessingJob   string            `yaml:"processing_job"`
	ProcessingGroup string            `yaml:"processing_group"`
	MergeJob        string            `yaml:"merge_job"`
	Extensions      []ExtensionRecord `yaml:"extensions,omitempty"`
	Tokens          map[string]string `yaml:"tokens"`
}

type ExtensionRecord struct {
	Name string `yaml:"name"`
	Job  string `yaml:"job"`
}

type manifestData struct {
	Analysis        model.AnalysisConfig
	Study           string
	Alloc           queue.Allocation
	InputCount      int
	ProcessingJob   string
	ProcessingGroup string
	MergeJob        string
	Extensions      []ExtensionRecord
	Tokens          token.Table
}

func writeManifest(path string, d manifestData) error {
	m := Manifest{
		SchemaVersion:   yamlutil.CurrentSchemaVersion,
		FileType:        yamlutil.FileTypeManifest,
		RunID:           uuid.NewString(),
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		Analysis:        d.Analysis.Name,
		Version:         d.Analysis.Version,
		Study:           d.Study,
		Queue:           d.Alloc.Queue,
		Threads:         d.Alloc.Threads,
		Nodes:           d.Alloc.Nodes,
		MemoryMB:        d.Alloc.MemoryMB,
		InputCount:      d.InputCount,
		ProcessingJob:   d.ProcessingJob,
		ProcessingGroup: d.ProcessingGroup,
		MergeJob:        d.MergeJob,
		Extensions:      d.Extensions,
		Tokens:          d.Tokens,
	}
	if err := yamlutil.AtomicWrite(path, m); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
