// Package scheduler wraps batch script submission to the external
// cluster scheduler.
package scheduler

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// JobID is the opaque identifier the scheduler returns for a submitted
// job. It is only ever threaded into the next stage's hold directive,
// never inspected. The distinct type keeps job ids from being confused
// with file-stem tokens.
type JobID string

// Submitter accepts one rendered batch script and returns the
// scheduler's identifier for it.
type Submitter interface {
	Submit(script string) (JobID, error)
}

// CommandSubmitter submits by piping the script to an external submit
// command (qsub-style). With -terse the scheduler prints only the job
// id; array submissions print "<id>.<range>", of which the leading
// integer is the group's id.
type CommandSubmitter struct {
	Command string
	Args    []string
}

var jobIDRegex = regexp.MustCompile(`[0-9]+`)

func (s CommandSubmitter) Submit(script string) (JobID, error) {
	cmd := exec.Command(s.Command, s.Args...)
	cmd.Stdin = strings.NewReader(script)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %w: %s", s.Command, err, strings.TrimSpace(string(out)))
	}

	id := jobIDRegex.FindString(string(out))
	if id == "" {
		return "", fmt.Errorf("%s: no job id in output %q", s.Command, strings.TrimSpace(string(out)))
	}
	return JobID(id), nil
}

// unsafeJobNameChars matches characters the scheduler rejects in job
// names; they are folded to underscores.
var unsafeJobNameChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// JobName builds a scheduler job name from a stage kind and its
// identifying parts. Job names double as dependency targets for whole
// array groups, so they must be stable and unique per stage.
func JobName(stage string, parts ...string) string {
	name := stage + "_" + strings.Join(parts, "_")
	return unsafeJobNameChars.ReplaceAllString(name, "_")
}
