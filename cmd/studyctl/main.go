package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hepfarm/studyctl/internal/model"
	"github.com/hepfarm/studyctl/internal/scheduler"
	"github.com/hepfarm/studyctl/internal/setup"
	"github.com/hepfarm/studyctl/internal/study"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		// No-argument default: report the configured output root.
		cfg := mustLoadConfig()
		fmt.Println(cfg.OutputDir)
		return
	}

	switch os.Args[1] {
	case "run":
		runRun(os.Args[2:])
	case "list":
		runList(os.Args[2:])
	case "setup":
		runSetup(os.Args[2:])
	case "version":
		fmt.Printf("studyctl %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runRun(args []string) {
	opts := study.Options{}
	var selectors []string

	i := 0
	for i < len(args) {
		a := args[i]
		switch a {
		case "-s", "--study":
			opts.Study = takeValue(args, &i, a)
		case "-q", "--queue":
			opts.Queue = takeValue(args, &i, a)
		case "-e", "--extensions":
			for _, name := range strings.Split(takeValue(args, &i, a), ",") {
				if name = strings.TrimSpace(name); name != "" {
					opts.Extensions = append(opts.Extensions, name)
				}
			}
		case "-m", "--message":
			opts.Message = takeValue(args, &i, a)
		case "-f", "--force":
			opts.Force = true
		case "-c", "--clean":
			opts.Clean = true
		case "-n", "--first":
			n, err := strconv.Atoi(takeValue(args, &i, a))
			if err != nil || n < 1 {
				fmt.Fprintf(os.Stderr, "error: --first wants a positive integer\n")
				os.Exit(1)
			}
			opts.First = n
		default:
			if strings.HasPrefix(a, "-") {
				fmt.Fprintf(os.Stderr, "unknown flag: %s\n\n", a)
				printRunUsage()
				os.Exit(1)
			}
			selectors = append(selectors, a)
		}
		i++
	}

	if opts.Study == "" {
		fmt.Fprintln(os.Stderr, "error: a study name is required (-s)")
		printRunUsage()
		os.Exit(1)
	}
	if len(selectors) == 0 {
		fmt.Fprintln(os.Stderr, "error: at least one analysis (or group:<tag>) is required")
		printRunUsage()
		os.Exit(1)
	}

	cfg := mustLoadConfig()
	opts.Analyses = resolveSelectors(cfg, selectors)

	runner := &study.Runner{
		Config: cfg,
		Submitter: scheduler.CommandSubmitter{
			Command: cfg.Scheduler.SubmitCommand,
			Args:    cfg.Scheduler.SubmitArgs,
		},
		Out: os.Stdout,
	}
	if err := runner.Run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// resolveSelectors expands group:<tag> selectors and keeps plain
// analysis names, preserving request order and dropping duplicates.
func resolveSelectors(cfg model.Config, selectors []string) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, sel := range selectors {
		if tag, ok := strings.CutPrefix(sel, "group:"); ok {
			matches := cfg.AnalysesInGroup(tag)
			if len(matches) == 0 {
				fmt.Fprintf(os.Stderr, "error: no analyses in group %q\n", tag)
				os.Exit(1)
			}
			for _, a := range matches {
				add(a.Name)
			}
			continue
		}
		add(sel)
	}
	return names
}

func runList(args []string) {
	what := "analyses"
	jsonOutput := false
	for _, a := range args {
		switch a {
		case "--json":
			jsonOutput = true
		case "analyses", "queues", "extensions", "studies":
			what = a
		default:
			fmt.Fprintf(os.Stderr, "unknown argument: %s\nusage: studyctl list [analyses|queues|extensions|studies] [--json]\n", a)
			os.Exit(1)
		}
	}

	cfg := mustLoadConfig()
	if err := study.List(cfg, what, jsonOutput, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runSetup(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: studyctl setup <dir>")
		os.Exit(1)
	}
	path, err := setup.Run(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s — edit it before the first run\n", path)
}

func takeValue(args []string, i *int, flag string) string {
	*i++
	if *i >= len(args) {
		fmt.Fprintf(os.Stderr, "error: %s wants a value\n", flag)
		os.Exit(1)
	}
	return args[*i]
}

func mustLoadConfig() model.Config {
	path := findConfig()
	if path == "" {
		fmt.Fprintf(os.Stderr, "error: %s not found. Run 'studyctl setup <dir>' or set STUDYCTL_CONFIG.\n", model.ConfigFileName)
		os.Exit(1)
	}
	cfg, err := model.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func findConfig() string {
	if path := os.Getenv("STUDYCTL_CONFIG"); path != "" {
		return path
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, model.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `studyctl %s — batch pipeline coordinator for analysis studies

Usage: studyctl <command> [options]

Commands:
  run [flags] <analysis ...|group:<tag>>   Submit a study pipeline
  list [target] [--json]                   Show analyses, queues, extensions, or studies
  setup <dir>                              Write a starter %s
  version                                  Show version
  help                                     Show this help

Without arguments, studyctl prints the configured output root.
`, version, model.ConfigFileName)
}

func printRunUsage() {
	fmt.Fprint(os.Stderr, `usage: studyctl run -s <study> [options] <analysis ...|group:<tag>>

Options:
  -s, --study <name>       Study name (required)
  -q, --queue <name>       Queue to submit to (default: first configured)
  -e, --extensions <a,b>   Extensions to chain after the merge, in order
  -m, --message <text>     Study description (default: open $EDITOR)
  -f, --force              Wipe and recreate an existing study
  -c, --clean              Remove per-file intermediates after a successful merge
  -n, --first <N>          Process only the first N input files
`)
}
