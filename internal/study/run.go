package study

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hepfarm/studyctl/internal/model"
	"github.com/hepfarm/studyctl/internal/queue"
	"github.com/hepfarm/studyctl/internal/scheduler"
	"github.com/hepfarm/studyctl/internal/script"
	"github.com/hepfarm/studyctl/internal/token"
)

// Options carries everything the run subcommand resolved from its
// arguments.
type Options struct {
	Analyses   []string // analysis names, in request order
	Study      string
	Queue      string // empty selects the first configured queue
	Extensions []string
	Message    string // desc text; empty opens the editor
	Force      bool
	Clean      bool
	First      int // truncate the input file list to the first N when > 0
}

// Runner submits study pipelines. Out receives one summary line per
// submitted analysis chain.
type Runner struct {
	Config    model.Config
	Submitter scheduler.Submitter
	Out       io.Writer
}

// Run submits one pipeline chain per requested analysis. Chains of
// different analyses are independent at the scheduler; they are
// submitted sequentially from this single control flow. The first
// failing analysis aborts the loop — already-submitted chains stay
// submitted, there is no retraction.
func (r *Runner) Run(opts Options) error {
	if !model.ValidName(opts.Study) {
		return fmt.Errorf("invalid study name %q", opts.Study)
	}
	if len(opts.Analyses) == 0 {
		return fmt.Errorf("no analyses selected")
	}

	// Resolve everything named up front so a typo fails the whole run
	// before the first submission.
	q, err := r.Config.Queue(opts.Queue)
	if err != nil {
		return err
	}
	exts := make([]model.ExtensionConfig, 0, len(opts.Extensions))
	for _, name := range opts.Extensions {
		e, err := r.Config.Extension(name)
		if err != nil {
			return err
		}
		exts = append(exts, e)
	}
	analyses := make([]model.AnalysisConfig, 0, len(opts.Analyses))
	for _, name := range opts.Analyses {
		a, err := r.Config.Analysis(name)
		if err != nil {
			return err
		}
		analyses = append(analyses, a)
	}

	for _, a := range analyses {
		if err := r.runOne(a, q, exts, opts); err != nil {
			return fmt.Errorf("analysis %s: %w", a.Name, err)
		}
	}
	return nil
}

func (r *Runner) runOne(a model.AnalysisConfig, q model.QueueConfig, exts []model.ExtensionConfig, opts Options) error {
	dir := Dir(r.Config, a, opts.Study)
	if _, err := os.Stat(dir); err == nil {
		if !opts.Force {
			return fmt.Errorf("%w: %s", model.ErrStudyExists, dir)
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("wipe study dir: %w", err)
		}
	}
	for _, sub := range []string{treesSubdir, histsSubdir, flatTreesSubdir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return fmt.Errorf("create study dir: %w", err)
		}
	}
	if err := os.MkdirAll(r.Config.LogDir, 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	// Archive the selector and its header next to the outputs; queued
	// tasks compile the archived copy, so later edits to the original
	// cannot change a submitted study.
	selectorCopy, err := archiveSelector(a, dir)
	if err != nil {
		return err
	}

	files, err := listInputs(a, r.Config.Processor.InputGlob, opts.First)
	if err != nil {
		return err
	}
	fileList := filepath.Join(dir, inputListFileName)
	if err := os.WriteFile(fileList, []byte(strings.Join(files, "\n")+"\n"), 0644); err != nil {
		return fmt.Errorf("write input list: %w", err)
	}

	floorMB, err := memoryFloorMB(files)
	if err != nil {
		return err
	}
	alloc, err := queue.Plan(q, floorMB)
	if err != nil {
		return err
	}

	// Stage 1: per-file processing array. The job name is the
	// dependency target for the whole group.
	procName := scheduler.JobName("proc", a.Name, opts.Study)
	procScript, err := script.RenderProcessing(script.ProcessingParams{
		JobName:          procName,
		Queue:            q.Name,
		TaskCount:        len(files),
		TaskMemoryMB:     alloc.TaskMemoryMB,
		LogDir:           r.Config.LogDir,
		FileListPath:     fileList,
		ProcessorCommand: r.Config.Processor.Command,
		SelectorPath:     selectorCopy,
		TreesDir:         filepath.Join(dir, treesSubdir),
		HistsDir:         filepath.Join(dir, histsSubdir),
		FlatTreesDir:     filepath.Join(dir, flatTreesSubdir),
	})
	if err != nil {
		return err
	}
	procID, err := r.Submitter.Submit(procScript)
	if err != nil {
		return fmt.Errorf("submit processing: %w", err)
	}

	// Stage 2: merge, holding on the processing group name. The clean
	// option rides along in the merge script so the intermediates are
	// only removed after a successful merge.
	table := builtinTable(opts.Study)
	mergeThreads := alloc.Threads
	if tpn := q.ThreadsPerNode(); mergeThreads > tpn {
		mergeThreads = tpn
	}
	mergeScript, err := script.RenderMerge(script.MergeParams{
		JobName:       scheduler.JobName("merge", a.Name, opts.Study),
		Queue:         q.Name,
		HoldJobName:   procName,
		Threads:       mergeThreads,
		LogDir:        r.Config.LogDir,
		StudyDir:      dir,
		MergerCommand: r.Config.Merger.Command,
		Merges: []script.MergeSpec{
			{Output: table[token.TagTree] + ".root", InputGlob: treesSubdir + "/*.root"},
			{Output: table[token.TagHist] + ".root", InputGlob: histsSubdir + "/*.root"},
			{Output: table[token.TagFlatTree] + ".root", InputGlob: flatTreesSubdir + "/*.root"},
		},
		Clean: opts.Clean,
	})
	if err != nil {
		return err
	}
	mergeID, err := r.Submitter.Submit(mergeScript)
	if err != nil {
		return fmt.Errorf("submit merge: %w", err)
	}

	// Stage 3..n: extensions, each holding on the previous stage's job
	// id. Each one sees the table as of its own submission and commits
	// its renames for the stages behind it; reordering the list changes
	// the final stems.
	prev := mergeID
	records := make([]ExtensionRecord, 0, len(exts))
	for _, e := range exts {
		extScript, err := script.RenderExtension(script.ExtensionParams{
			JobName:   scheduler.JobName("ext", a.Name, opts.Study, e.Name),
			Queue:     q.Name,
			HoldJobID: string(prev),
			LogDir:    r.Config.LogDir,
			StudyDir:  dir,
			Command:   e.Command,
			Args:      table.SubstituteAll(e.Args),
		})
		if err != nil {
			return err
		}
		id, err := r.Submitter.Submit(extScript)
		if err != nil {
			return fmt.Errorf("submit extension %s: %w", e.Name, err)
		}
		table = table.ApplyOutputs(e.Outputs)
		records = append(records, ExtensionRecord{Name: e.Name, Job: string(id)})
		prev = id
	}

	if err := writeDescription(filepath.Join(dir, descFileName), opts.Message); err != nil {
		return err
	}

	if err := writeManifest(filepath.Join(dir, manifestFileName), manifestData{
		Analysis:        a,
		Study:           opts.Study,
		Alloc:           alloc,
		InputCount:      len(files),
		ProcessingJob:   string(procID),
		ProcessingGroup: procName,
		MergeJob:        string(mergeID),
		Extensions:      records,
		Tokens:          table,
	}); err != nil {
		return err
	}

	fmt.Fprintf(r.Out, "%s/%s/%s: processing %s (%d tasks, %d threads on %d nodes), merge %s, %d extension(s)\n",
		a.Name, a.Version, opts.Study, procID, len(files), alloc.Threads, alloc.Nodes, mergeID, len(records))
	return nil
}

// archiveSelector copies the analysis selector and its header (suffix
// swapped to .h) into the study directory and returns the path of the
// archived selector.
func archiveSelector(a model.AnalysisConfig, dir string) (string, error) {
	header := strings.TrimSuffix(a.Selector, filepath.Ext(a.Selector)) + ".h"
	for _, src := range []string{a.Selector, header} {
		if err := copyFile(src, filepath.Join(dir, filepath.Base(src))); err != nil {
			return "", fmt.Errorf("archive selector: %w", err)
		}
	}
	return filepath.Join(dir, filepath.Base(a.Selector)), nil
}
