// Package token implements the artifact token table that chains
// extension stages together. Each extension consumes the current
// tag-to-stem mapping to resolve its arguments and commits renamed
// stems for the stages behind it.
package token

import "strings"

// Built-in tags, bound to the post-merge artifact stems at the start of
// every chain. Extensions may introduce further tags freely.
const (
	TagTree     = "@tree"
	TagHist     = "@hist"
	TagFlatTree = "@flattree"
)

// Table maps symbolic tags to their current concrete file stems. A
// table belongs to exactly one orchestrated analysis run; updates go
// through ApplyOutputs, which returns a new snapshot and leaves the
// receiver untouched.
type Table map[string]string

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Substitute resolves every tag occurring in template in a single
// left-to-right pass. At each position the longest matching tag wins,
// and substituted values are never re-scanned, so a stem containing
// another tag's text passes through literally. Text matching no tag is
// kept unchanged; unresolved tags are not an error.
func (t Table) Substitute(template string) string {
	if len(t) == 0 {
		return template
	}

	var sb strings.Builder
	i := 0
	for i < len(template) {
		tag, ok := t.longestMatch(template[i:])
		if !ok {
			sb.WriteByte(template[i])
			i++
			continue
		}
		sb.WriteString(t[tag])
		i += len(tag)
	}
	return sb.String()
}

// SubstituteAll resolves a list of templates independently against the
// same table state.
func (t Table) SubstituteAll(templates []string) []string {
	out := make([]string, len(templates))
	for i, tmpl := range templates {
		out[i] = t.Substitute(tmpl)
	}
	return out
}

// ApplyOutputs returns a new table extended with an extension's output
// mapping. Every new value is computed against the receiver's pre-update
// state before any of them is committed, so one output referencing
// another output's tag in the same extension sees the old stem.
func (t Table) ApplyOutputs(outputs map[string]string) Table {
	next := t.Clone()
	for tag, tmpl := range outputs {
		next[tag] = t.Substitute(tmpl)
	}
	return next
}

func (t Table) longestMatch(s string) (string, bool) {
	best := ""
	for tag := range t {
		if len(tag) > len(best) && strings.HasPrefix(s, tag) {
			best = tag
		}
	}
	return best, best != ""
}
