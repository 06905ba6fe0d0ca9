// internal/diffutil/diffutil.go
package diffutil

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffLine represents a single line in the diff output.
type DiffLine struct {
	Type        diffmatchpatch.Operation // DiffEqual, DiffInsert, or DiffDelete
	OrigLineNum int                      // Original line number (0 if inserted)
	ModLineNum  int                      // Modified line number (0 if deleted)
	Text        string                   // Line content without the trailing newline
}

// LineDiff compares original and modified line by line.
func LineDiff(original, modified string) []DiffLine {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 5 * time.Second

	a, b, lineArray := dmp.DiffLinesToChars(original, modified)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []DiffLine
	origLineNum, modLineNum := 1, 1
	for _, diff := range diffs {
		for _, text := range splitLines(diff.Text) {
			line := DiffLine{Type: diff.Type, Text: text}
			switch diff.Type {
			case diffmatchpatch.DiffEqual:
				line.OrigLineNum, line.ModLineNum = origLineNum, modLineNum
				origLineNum++
				modLineNum++
			case diffmatchpatch.DiffDelete:
				line.OrigLineNum = origLineNum
				origLineNum++
			case diffmatchpatch.DiffInsert:
				line.ModLineNum = modLineNum
				modLineNum++
			}
			lines = append(lines, line)
		}
	}
	return lines
}

// GenerateDiffAndSummary builds a line diff with a short summary.
func GenerateDiffAndSummary(original, modified string) (lines []DiffLine, summary string) {
	lines = LineDiff(original, modified)

	inserted, deleted := 0, 0
	for _, line := range lines {
		switch line.Type {
		case diffmatchpatch.DiffInsert:
			inserted++
		case diffmatchpatch.DiffDelete:
			deleted++
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Comparison Summary:\n")
	fmt.Fprintf(&buf, "- Original Lines : %d\n", lineCount(original))
	fmt.Fprintf(&buf, "- Modified Lines : %d\n", lineCount(modified))
	fmt.Fprintf(&buf, "- Lines Inserted : %d\n", inserted)
	fmt.Fprintf(&buf, "- Lines Deleted  : %d\n", deleted)

	return lines, buf.String()
}

// FormatChanges renders only the inserted and deleted lines, prefixed with
// "+ " and "- ".
func FormatChanges(lines []DiffLine) string {
	var sb strings.Builder
	for _, line := range lines {
		switch line.Type {
		case diffmatchpatch.DiffInsert:
			sb.WriteString("+ ")
		case diffmatchpatch.DiffDelete:
			sb.WriteString("- ")
		default:
			continue
		}
		sb.WriteString(line.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// lineCount returns the number of *physical* lines in the snippet.
func lineCount(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++ // final line has no trailing newline
	}
	return n
}
