package token

import (
	"reflect"
	"testing"
)

func TestSubstituteNoRecognizedTags(t *testing.T) {
	table := Table{TagTree: "tree_my", TagHist: "hists_my"}

	in := "--output plain_file.root @unknown"
	if got := table.Substitute(in); got != in {
		t.Errorf("Substitute(%q) = %q, want input unchanged", in, got)
	}
}

func TestSubstituteEmptyTable(t *testing.T) {
	var table Table
	if got := table.Substitute("@tree.root"); got != "@tree.root" {
		t.Errorf("empty table must pass text through, got %q", got)
	}
}

func TestSubstituteLongestTagWins(t *testing.T) {
	table := Table{"@flat": "SHORT", "@flattree": "LONG"}

	if got := table.Substitute("@flattree.root"); got != "LONG.root" {
		t.Errorf("got %q, want longest tag resolved first", got)
	}
	if got := table.Substitute("@flat.root"); got != "SHORT.root" {
		t.Errorf("got %q, want short tag still resolvable", got)
	}
}

func TestSubstituteDoesNotRescanValues(t *testing.T) {
	// A stem that happens to contain another tag's text must pass
	// through literally.
	table := Table{"@a": "@b", "@b": "resolved"}

	if got := table.Substitute("@a"); got != "@b" {
		t.Errorf("got %q, substituted values must not be re-scanned", got)
	}
}

func TestApplyOutputsUsesPreUpdateState(t *testing.T) {
	table := Table{"@x": "x0"}

	got := table.ApplyOutputs(map[string]string{
		"@x": "x1_from_@x",
		"@y": "y_from_@x",
	})

	want := Table{"@x": "x1_from_x0", "@y": "y_from_x0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ApplyOutputs = %v, want %v", got, want)
	}

	// The input snapshot stays untouched.
	if !reflect.DeepEqual(table, Table{"@x": "x0"}) {
		t.Errorf("receiver mutated: %v", table)
	}
}

func TestChainOrderChangesFinalTable(t *testing.T) {
	base := Table{"@t": "stem"}
	extA := map[string]string{"@t": "@t_a"}
	extB := map[string]string{"@t": "@t_b"}

	ab := base.ApplyOutputs(extA).ApplyOutputs(extB)
	ba := base.ApplyOutputs(extB).ApplyOutputs(extA)

	if reflect.DeepEqual(ab, ba) {
		t.Errorf("[A,B] and [B,A] produced the same table %v; redefining the same tag must depend on order", ab)
	}
	if ab["@t"] != "stem_a_b" {
		t.Errorf("[A,B] final @t = %q, want stem_a_b", ab["@t"])
	}
	if ba["@t"] != "stem_b_a" {
		t.Errorf("[B,A] final @t = %q, want stem_b_a", ba["@t"])
	}
}

func TestPolarizeSplotChain(t *testing.T) {
	table := Table{TagFlatTree: "flattree_my"}

	table = table.ApplyOutputs(map[string]string{TagFlatTree: "@flattree_polarized"})
	table = table.ApplyOutputs(map[string]string{TagFlatTree: "@flattree_splot"})

	if got := table[TagFlatTree]; got != "flattree_my_polarized_splot" {
		t.Errorf("final @flattree = %q, want flattree_my_polarized_splot", got)
	}
}

func TestEarlierTagsStayResolvable(t *testing.T) {
	// An extension renaming @flattree must not disturb what other tags
	// resolve to; a later extension can still reference them.
	table := Table{TagFlatTree: "flattree_my", TagHist: "hists_my"}
	table = table.ApplyOutputs(map[string]string{TagFlatTree: "@flattree_polarized"})

	if got := table.Substitute("@hist.pdf"); got != "hists_my.pdf" {
		t.Errorf("got %q, want hists_my.pdf", got)
	}
	if got := table.Substitute("@flattree.root"); got != "flattree_my_polarized.root" {
		t.Errorf("got %q, want flattree_my_polarized.root", got)
	}
}

func TestSubstituteAllIsIndependentPerTemplate(t *testing.T) {
	table := Table{"@x": "x0"}
	got := table.SubstituteAll([]string{"--in", "@x.root", "--out", "@x_new.root"})
	want := []string{"--in", "x0.root", "--out", "x0_new.root"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SubstituteAll = %v, want %v", got, want)
	}
}
