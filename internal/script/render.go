// Package script renders the batch submission scripts for the three
// stage kinds. Rendering is pure text assembly: every computed value
// (thread counts, dependency targets, paths) is resolved by the caller
// before it lands here.
package script

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/hepfarm/studyctl/templates"
)

var tmpl = template.Must(template.ParseFS(templates.FS,
	"process.sh.tmpl", "merge.sh.tmpl", "extension.sh.tmpl"))

// ProcessingParams describes one array stage: one task per input file,
// each staging its own input, running the processor, and copying the
// three outputs back to index-correlated destinations.
type ProcessingParams struct {
	JobName          string
	Queue            string
	TaskCount        int
	TaskMemoryMB     int
	LogDir           string
	FileListPath     string
	ProcessorCommand string
	SelectorPath     string
	TreesDir         string
	HistsDir         string
	FlatTreesDir     string
}

// MergeSpec is one merge-tool invocation: all per-file outputs of one
// kind into one named file.
type MergeSpec struct {
	Output    string
	InputGlob string
}

// MergeParams describes the merge stage. HoldJobName is the processing
// array's job name; holding on the name waits for the entire group.
// Clean appends removal of the intermediate subdirectories, which then
// only happens after a successful merge.
type MergeParams struct {
	JobName       string
	Queue         string
	HoldJobName   string
	Threads       int
	LogDir        string
	StudyDir      string
	MergerCommand string
	Merges        []MergeSpec
	Clean         bool
}

// ExtensionParams describes one extension stage. HoldJobID is the
// previous stage's job id; the scheduler runs the stage only if that
// job succeeded. Args are already token-substituted.
type ExtensionParams struct {
	JobName   string
	Queue     string
	HoldJobID string
	LogDir    string
	StudyDir  string
	Command   string
	Args      []string
}

// RenderProcessing builds the per-file array script.
func RenderProcessing(p ProcessingParams) (string, error) {
	if err := requireFields(map[string]string{
		"job name":          p.JobName,
		"queue":             p.Queue,
		"log dir":           p.LogDir,
		"file list path":    p.FileListPath,
		"processor command": p.ProcessorCommand,
		"selector path":     p.SelectorPath,
		"trees dir":         p.TreesDir,
		"hists dir":         p.HistsDir,
		"flattrees dir":     p.FlatTreesDir,
	}); err != nil {
		return "", err
	}
	if p.TaskCount < 1 {
		return "", fmt.Errorf("processing script: task count is %d", p.TaskCount)
	}
	return render("process.sh.tmpl", p)
}

// RenderMerge builds the merge script.
func RenderMerge(p MergeParams) (string, error) {
	if err := requireFields(map[string]string{
		"job name":       p.JobName,
		"queue":          p.Queue,
		"hold job name":  p.HoldJobName,
		"log dir":        p.LogDir,
		"study dir":      p.StudyDir,
		"merger command": p.MergerCommand,
	}); err != nil {
		return "", err
	}
	if len(p.Merges) == 0 {
		return "", fmt.Errorf("merge script: no merge outputs")
	}
	if p.Threads < 1 {
		p.Threads = 1
	}
	return render("merge.sh.tmpl", p)
}

// RenderExtension builds one extension script.
func RenderExtension(p ExtensionParams) (string, error) {
	if err := requireFields(map[string]string{
		"job name":    p.JobName,
		"queue":       p.Queue,
		"hold job id": p.HoldJobID,
		"log dir":     p.LogDir,
		"study dir":   p.StudyDir,
		"command":     p.Command,
	}); err != nil {
		return "", err
	}
	return render("extension.sh.tmpl", p)
}

func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return sb.String(), nil
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("script: missing %s", name)
		}
	}
	return nil
}
