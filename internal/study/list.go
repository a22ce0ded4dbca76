package study

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/hepfarm/studyctl/internal/model"
)

// StudyInfo is one existing study found under the output root.
type StudyInfo struct {
	Analysis string `json:"analysis"`
	Version  string `json:"version"`
	Study    string `json:"study"`
	Desc     string `json:"desc,omitempty"`
}

// List prints configured analyses, queues, or extensions, or the
// studies found on disk. With jsonOutput the same data is emitted as
// JSON for scripting.
func List(cfg model.Config, what string, jsonOutput bool, w io.Writer) error {
	switch what {
	case "analyses":
		return listAnalyses(cfg, jsonOutput, w)
	case "queues":
		return listQueues(cfg, jsonOutput, w)
	case "extensions":
		return listExtensions(cfg, jsonOutput, w)
	case "studies":
		return listStudies(cfg, jsonOutput, w)
	default:
		return fmt.Errorf("unknown list target %q (want analyses, queues, extensions, or studies)", what)
	}
}

func listAnalyses(cfg model.Config, jsonOutput bool, w io.Writer) error {
	if jsonOutput {
		return writeJSON(w, cfg.Analyses)
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tGROUP\tINPUT DIR")
	for _, a := range cfg.Analyses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Name, a.Version, orDash(a.Group), a.InputDir)
	}
	return tw.Flush()
}

func listQueues(cfg model.Config, jsonOutput bool, w io.Writer) error {
	if jsonOutput {
		return writeJSON(w, cfg.Queues)
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMEMORY MB\tTHREADS/NODE\tNODES\tSHARE")
	for _, q := range cfg.Queues {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%g\n", q.Name, q.MemoryMB, q.ThreadsPerNode(), q.Nodes, q.NodeShare)
	}
	return tw.Flush()
}

func listExtensions(cfg model.Config, jsonOutput bool, w io.Writer) error {
	if jsonOutput {
		return writeJSON(w, cfg.Extensions)
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCOMMAND\tOUTPUTS")
	for _, e := range cfg.Extensions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Command, formatOutputs(e.Outputs))
	}
	return tw.Flush()
}

func listStudies(cfg model.Config, jsonOutput bool, w io.Writer) error {
	infos, err := FindStudies(cfg)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(w, infos)
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ANALYSIS\tVERSION\tSTUDY\tDESC")
	for _, s := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Analysis, s.Version, s.Study, orDash(s.Desc))
	}
	return tw.Flush()
}

// FindStudies walks <output_dir>/<analysis>/<version>/<study> and
// returns every study directory found, with the first line of its desc
// file when present.
func FindStudies(cfg model.Config) ([]StudyInfo, error) {
	var infos []StudyInfo

	analyses, err := readSubdirs(cfg.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read output dir: %w", err)
	}
	for _, analysis := range analyses {
		versions, err := readSubdirs(filepath.Join(cfg.OutputDir, analysis))
		if err != nil {
			continue
		}
		for _, version := range versions {
			studies, err := readSubdirs(filepath.Join(cfg.OutputDir, analysis, version))
			if err != nil {
				continue
			}
			for _, study := range studies {
				infos = append(infos, StudyInfo{
					Analysis: analysis,
					Version:  version,
					Study:    study,
					Desc:     descFirstLine(filepath.Join(cfg.OutputDir, analysis, version, study, descFileName)),
				})
			}
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		a, b := infos[i], infos[j]
		if a.Analysis != b.Analysis {
			return a.Analysis < b.Analysis
		}
		if a.Version != b.Version {
			return a.Version < b.Version
		}
		return a.Study < b.Study
	})
	return infos, nil
}

func readSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func descFirstLine(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}

func formatOutputs(outputs map[string]string) string {
	if len(outputs) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(outputs))
	for k := range outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+" -> "+outputs[k])
	}
	return strings.Join(pairs, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
