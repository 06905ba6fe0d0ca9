package ui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathSuggestion(t *testing.T) {
	dir := t.TempDir()
	app := filepath.Join(dir, "Notes.app")
	if err := os.Mkdir(app, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"existing", app, app},
		{"quoted with spaces", "  \"" + app + "\"\n", app},
		{"missing", filepath.Join(dir, "Missing.app"), ""},
		{"multi-line", app + "\n" + app, ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pathSuggestion(tt.in); got != tt.want {
				t.Fatalf("pathSuggestion(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
