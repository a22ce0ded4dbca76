// Package study implements the pipeline orchestrator. It creates the
// study directory tree, submits the processing, merge, and extension
// stages with scheduler dependency directives between them, and records
// what it submitted. It never waits for any job: stage ordering lives
// entirely in the scheduler's hold directives.
package study

import (
	"io"
	"os"
	"path/filepath"

	"github.com/hepfarm/studyctl/internal/model"
	"github.com/hepfarm/studyctl/internal/token"
)

const (
	treesSubdir     = "trees"
	histsSubdir     = "hists"
	flatTreesSubdir = "flattrees"

	descFileName      = "desc"
	manifestFileName  = "study.yaml"
	inputListFileName = "inputs.txt"
)

// Dir returns the study directory for one analysis:
// <output_dir>/<analysis>/<version>/<study>.
func Dir(cfg model.Config, a model.AnalysisConfig, study string) string {
	return filepath.Join(cfg.OutputDir, a.Name, a.Version, study)
}

// builtinTable seeds the token table for one run: the three built-in
// tags point at the post-merge stems.
func builtinTable(study string) token.Table {
	return token.Table{
		token.TagTree:     "tree_" + study,
		token.TagHist:     "hists_" + study,
		token.TagFlatTree: "flattree_" + study,
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
