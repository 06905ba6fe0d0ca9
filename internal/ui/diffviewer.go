package ui

import (
	"fmt"
	"html"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TanaroSch/appkeys/internal/diffutil"
	"github.com/TanaroSch/appkeys/internal/launcher"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// renderDiffHTML renders the line diff, folding unchanged runs longer
// than 2*contextLines.
func renderDiffHTML(lines []diffutil.DiffLine, contextLines int) string {
	var builder strings.Builder
	builder.WriteString(`<pre class="diff-output">`)

	for i := 0; i < len(lines); {
		if lines[i].Type != diffmatchpatch.DiffEqual {
			writeDiffLine(&builder, lines[i])
			i++
			continue
		}
		j := i
		for j < len(lines) && lines[j].Type == diffmatchpatch.DiffEqual {
			j++
		}
		run := lines[i:j]
		if len(run) > 2*contextLines {
			for _, l := range run[:contextLines] {
				writeDiffLine(&builder, l)
			}
			fmt.Fprintf(&builder,
				"<div class=\"line foldable\"><span class=\"line-content\">%d lines hidden</span></div>",
				len(run)-2*contextLines)
			for _, l := range run[len(run)-contextLines:] {
				writeDiffLine(&builder, l)
			}
		} else {
			for _, l := range run {
				writeDiffLine(&builder, l)
			}
		}
		i = j
	}

	builder.WriteString(`</pre>`)
	return builder.String()
}

func writeDiffLine(builder *strings.Builder, line diffutil.DiffLine) {
	lineClass, opChar := "diff-equal", " "
	switch line.Type {
	case diffmatchpatch.DiffDelete:
		lineClass, opChar = "diff-delete", "-"
	case diffmatchpatch.DiffInsert:
		lineClass, opChar = "diff-insert", "+"
	}

	origNumStr, modNumStr := "", ""
	if line.OrigLineNum > 0 {
		origNumStr = fmt.Sprintf("%d", line.OrigLineNum)
	}
	if line.ModLineNum > 0 {
		modNumStr = fmt.Sprintf("%d", line.ModLineNum)
	}

	fmt.Fprintf(builder,
		"<div class=\"line %s\"><span class=\"line-num\">%s</span><span class=\"line-num\">%s</span><span class=\"line-op\">%s</span><span class=\"line-content\">%s</span></div>",
		lineClass, origNumStr, modNumStr, opChar, html.EscapeString(line.Text))
}

const diffPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Hotkey Changes</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif; margin: 15px; background-color: #f8f9fa; color: #212529; }
        h1, h2 { border-bottom: 1px solid #dee2e6; padding-bottom: 8px; color: #0d6efd; }
        pre { font-family: SFMono-Regular, Menlo, Consolas, monospace; font-size: 0.9em; border: 1px solid #dee2e6; background-color: #fff; padding: 10px; border-radius: 4px; }
        .line { display: flex; min-height: 1.4em; }
        .line-num { width: 35px; padding-right: 10px; text-align: right; color: #6c757d; user-select: none; flex-shrink: 0; }
        .line-op { width: 15px; text-align: center; font-weight: bold; margin-right: 10px; flex-shrink: 0; }
        .line-content { white-space: pre-wrap; flex-grow: 1; }
        .line.diff-insert { background-color: #e6ffed; color: #198754; }
        .line.diff-delete { background-color: #ffeef0; color: #dc3545; text-decoration: line-through; }
        .line.foldable { background-color: #e9ecef; color: #6c757d; font-style: italic; justify-content: center; }
    </style>
</head>
<body>
    <h1>Hotkey Changes</h1>
    <h2>Summary</h2>
    <pre>%s</pre>
    <h2>Detailed Diff</h2>
    %s
</body>
</html>
`

// ShowDiffViewer writes an HTML diff of two hotkey listings to a temp file
// and opens it in the default browser.
func ShowDiffViewer(original, modified string, contextLines int) {
	log.Println("Generating hotkey change view...")
	lines, summary := diffutil.GenerateDiffAndSummary(original, modified)
	if contextLines <= 0 {
		contextLines = 3
	}
	page := fmt.Sprintf(diffPageTemplate, html.EscapeString(summary), renderDiffHTML(lines, contextLines))

	tmpFile, err := os.CreateTemp("", "appkeys-diff-*.html")
	if err != nil {
		log.Printf("Error creating temp file for diff view: %v", err)
		ShowAdminNotification(LevelWarn, "Diff View Error", fmt.Sprintf("Could not create temporary file. Error: %v", err))
		return
	}
	if _, err := tmpFile.WriteString(page); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		log.Printf("Error writing to temp file: %v", err)
		ShowAdminNotification(LevelWarn, "Diff View Error", fmt.Sprintf("Could not write changes to temporary file. Error: %v", err))
		return
	}
	if err := tmpFile.Close(); err != nil {
		log.Printf("Error closing temp file after write: %v", err)
	}

	absPath, err := filepath.Abs(tmpFile.Name())
	if err != nil {
		absPath = tmpFile.Name()
	}
	log.Printf("Diff view saved to: %s", absPath)
	if err := launcher.OpenFile(absPath); err != nil {
		ShowAdminNotification(LevelWarn, "Diff View Error", fmt.Sprintf("Could not open changes in browser. File saved at: %s. Error: %v", absPath, err))
		return
	}

	time.AfterFunc(time.Minute, func() {
		if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Error deleting temporary diff file %s: %v", absPath, err)
		}
	})
}
