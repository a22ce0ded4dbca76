package model

import (
	"fmt"
	"os"
	"regexp"

	yamlv3 "gopkg.in/yaml.v3"
)

// ConfigFileName is the file looked up when no explicit config path is given.
const ConfigFileName = "studyctl.yaml"

var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidName reports whether a study, analysis, queue, or extension name
// is safe to use in directory paths and scheduler job names.
func ValidName(name string) bool {
	return nameRegex.MatchString(name)
}

// LoadConfig reads and validates the configuration file, applying
// defaults for optional fields.
func LoadConfig(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yamlv3.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()

	if verrs := cfg.Validate(); verrs != nil {
		return Config{}, fmt.Errorf("invalid config %s:\n%w", path, verrs)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Scheduler.SubmitCommand == "" {
		c.Scheduler.SubmitCommand = "qsub"
		if c.Scheduler.SubmitArgs == nil {
			c.Scheduler.SubmitArgs = []string{"-terse"}
		}
	}
	if c.Processor.InputGlob == "" {
		c.Processor.InputGlob = "*.root"
	}
	for i := range c.Queues {
		if c.Queues[i].NodeShare == 0 {
			c.Queues[i].NodeShare = 1.0
		}
	}
}

// Validate checks every required field and returns all problems at once,
// or nil when the config is usable.
func (c Config) Validate() *ValidationErrors {
	errs := &ValidationErrors{}

	if c.OutputDir == "" {
		errs.Add("output_dir", "required field is missing")
	}
	if c.LogDir == "" {
		errs.Add("log_dir", "required field is missing")
	}
	if c.Processor.Command == "" {
		errs.Add("processor.command", "required field is missing")
	}
	if c.Merger.Command == "" {
		errs.Add("merger.command", "required field is missing")
	}

	if len(c.Queues) == 0 {
		errs.Add("queues", "at least one queue is required")
	}
	seenQueues := make(map[string]bool)
	for i, q := range c.Queues {
		prefix := fmt.Sprintf("queues[%d]", i)
		switch {
		case q.Name == "":
			errs.Add(prefix+".name", "required field is missing")
		case !ValidName(q.Name):
			errs.Add(prefix+".name", fmt.Sprintf("invalid name %q", q.Name))
		case seenQueues[q.Name]:
			errs.Add(prefix+".name", fmt.Sprintf("duplicate queue %q", q.Name))
		}
		seenQueues[q.Name] = true
		if q.MemoryMB <= 0 {
			errs.Add(prefix+".memory_mb", "must be > 0")
		}
		if q.ThreadsPerCPU <= 0 {
			errs.Add(prefix+".threads_per_cpu", "must be > 0")
		}
		if q.CPUsPerNode <= 0 {
			errs.Add(prefix+".cpus_per_node", "must be > 0")
		}
		if q.Nodes <= 0 {
			errs.Add(prefix+".nodes", "must be > 0")
		}
		if q.NodeShare <= 0 || q.NodeShare > 1 {
			errs.Add(prefix+".node_share", fmt.Sprintf("must be in (0,1], got %g", q.NodeShare))
		}
	}

	seenAnalyses := make(map[string]bool)
	for i, a := range c.Analyses {
		prefix := fmt.Sprintf("analyses[%d]", i)
		switch {
		case a.Name == "":
			errs.Add(prefix+".name", "required field is missing")
		case !ValidName(a.Name):
			errs.Add(prefix+".name", fmt.Sprintf("invalid name %q", a.Name))
		case seenAnalyses[a.Name]:
			errs.Add(prefix+".name", fmt.Sprintf("duplicate analysis %q", a.Name))
		}
		seenAnalyses[a.Name] = true
		if a.InputDir == "" {
			errs.Add(prefix+".input_dir", "required field is missing")
		}
		if a.Version == "" {
			errs.Add(prefix+".version", "required field is missing")
		}
		if a.Selector == "" {
			errs.Add(prefix+".selector", "required field is missing")
		}
	}

	seenExtensions := make(map[string]bool)
	for i, e := range c.Extensions {
		prefix := fmt.Sprintf("extensions[%d]", i)
		switch {
		case e.Name == "":
			errs.Add(prefix+".name", "required field is missing")
		case !ValidName(e.Name):
			errs.Add(prefix+".name", fmt.Sprintf("invalid name %q", e.Name))
		case seenExtensions[e.Name]:
			errs.Add(prefix+".name", fmt.Sprintf("duplicate extension %q", e.Name))
		}
		seenExtensions[e.Name] = true
		if e.Command == "" {
			errs.Add(prefix+".command", "required field is missing")
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
