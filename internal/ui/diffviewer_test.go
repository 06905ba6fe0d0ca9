package ui

import (
	"strings"
	"testing"

	"github.com/TanaroSch/appkeys/internal/diffutil"
)

func TestRenderDiffHTMLFoldsUnchangedRuns(t *testing.T) {
	var original, modified strings.Builder
	for i := 0; i < 10; i++ {
		original.WriteString("same\n")
		modified.WriteString("same\n")
	}
	original.WriteString("Notes <old>\n")
	modified.WriteString("Notes <new>\n")

	out := renderDiffHTML(diffutil.LineDiff(original.String(), modified.String()), 2)

	if !strings.Contains(out, "6 lines hidden") {
		t.Fatalf("expected folded run, got:\n%s", out)
	}
	if !strings.Contains(out, "Notes &lt;old&gt;") || !strings.Contains(out, "Notes &lt;new&gt;") {
		t.Fatal("changed lines missing or not escaped")
	}
	if strings.Count(out, "diff-delete") != 1 || strings.Count(out, "diff-insert") != 1 {
		t.Fatalf("unexpected change count in:\n%s", out)
	}
}
