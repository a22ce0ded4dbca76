// Package model defines the data structures for studyctl's configuration
// and the user-input error taxonomy.
package model

type Config struct {
	OutputDir  string            `yaml:"output_dir"`
	LogDir     string            `yaml:"log_dir"`
	Scheduler  SchedulerConfig   `yaml:"scheduler"`
	Processor  ProcessorConfig   `yaml:"processor"`
	Merger     MergerConfig      `yaml:"merger"`
	Queues     []QueueConfig     `yaml:"queues"`
	Analyses   []AnalysisConfig  `yaml:"analyses"`
	Extensions []ExtensionConfig `yaml:"extensions"`
}

type SchedulerConfig struct {
	SubmitCommand string   `yaml:"submit_command"`
	SubmitArgs    []string `yaml:"submit_args"`
}

type ProcessorConfig struct {
	Command   string `yaml:"command"`
	InputGlob string `yaml:"input_glob"`
}

type MergerConfig struct {
	Command string `yaml:"command"`
}

// QueueConfig is the static resource profile of one batch queue.
// Memory is in MB. NodeShare is the usable fraction of the queue in
// (0,1]; allocations never plan onto the full queue unless the share
// is 1.0.
type QueueConfig struct {
	Name          string  `yaml:"name" json:"name"`
	MemoryMB      int     `yaml:"memory_mb" json:"memory_mb"`
	ThreadsPerCPU int     `yaml:"threads_per_cpu" json:"threads_per_cpu"`
	CPUsPerNode   int     `yaml:"cpus_per_node" json:"cpus_per_node"`
	Nodes         int     `yaml:"nodes" json:"nodes"`
	NodeShare     float64 `yaml:"node_share" json:"node_share"`
}

// ThreadsPerNode is the hardware thread count of one node.
func (q QueueConfig) ThreadsPerNode() int {
	return q.ThreadsPerCPU * q.CPUsPerNode
}

// AnalysisConfig declares one named source of raw input files. Selector
// is the per-file processing descriptor handed to the external
// processor; its header lives next to it with the suffix swapped to .h.
type AnalysisConfig struct {
	Name     string `yaml:"name" json:"name"`
	InputDir string `yaml:"input_dir" json:"input_dir"`
	Version  string `yaml:"version" json:"version"`
	Selector string `yaml:"selector" json:"selector"`
	Group    string `yaml:"group,omitempty" json:"group,omitempty"`
}

// ExtensionConfig declares one post-merge processing step. Args and the
// Outputs values may contain symbolic tags resolved against the token
// table at submission time.
type ExtensionConfig struct {
	Name    string            `yaml:"name" json:"name"`
	Command string            `yaml:"command" json:"command"`
	Args    []string          `yaml:"args" json:"args"`
	Outputs map[string]string `yaml:"outputs" json:"outputs"`
}
