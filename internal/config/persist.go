package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/TanaroSch/appkeys/internal/binding"
	"github.com/google/uuid"
)

// ErrCorruptFile is returned by FilePersister.Load when the bindings file
// exists but does not hold a valid binding list.
var ErrCorruptFile = errors.New("bindings file is corrupt")

// Persister saves and loads the full binding list.
type Persister interface {
	Save(bindings []binding.Binding) error
	Load() ([]binding.Binding, error)
}

// FilePersister stores bindings as a JSON array in a single file.
type FilePersister struct {
	path string
}

// NewFilePersister returns a persister for path. The file is created on
// the first Save.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Path returns the bindings file path.
func (p *FilePersister) Path() string {
	return p.path
}

// Load reads the bindings file. A missing file yields an empty list.
// Entries without an id, or repeating an earlier id, are given a fresh
// one; entries without a path are dropped.
func (p *FilePersister) Load() ([]binding.Binding, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Bindings file '%s' not found, starting with no bindings.", p.path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read bindings file '%s': %w", p.path, err)
	}

	var loaded []binding.Binding
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("%w: '%s': %v", ErrCorruptFile, p.path, err)
	}

	out := loaded[:0]
	seen := make(map[uuid.UUID]bool, len(loaded))
	for _, b := range loaded {
		if b.AppPath == "" {
			log.Printf("Warning: Dropping binding %s with empty app path.", b.ID)
			continue
		}
		switch {
		case b.ID == uuid.Nil:
			b.ID = uuid.New()
			log.Printf("Warning: Binding for '%s' had no id, assigned %s.", b.AppPath, b.ID)
		case seen[b.ID]:
			old := b.ID
			b.ID = uuid.New()
			log.Printf("Warning: Binding for '%s' repeats id %s, assigned %s.", b.AppPath, old, b.ID)
		}
		seen[b.ID] = true
		if !b.Modifiers.Valid() {
			log.Printf("Warning: Binding for '%s' has unknown modifier bits 0x%x; its hotkey will stay inactive.", b.AppPath, uint32(b.Modifiers))
		}
		out = append(out, b)
	}
	return out, nil
}

// Save writes bindings atomically: the list goes to a temp file in the
// same directory which is then renamed over the bindings file.
func (p *FilePersister) Save(bindings []binding.Binding) error {
	if bindings == nil {
		bindings = []binding.Binding{}
	}
	data, err := json.MarshalIndent(bindings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bindings: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory '%s': %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".hotkeys-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions on temp file: %w", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace bindings file '%s': %w", p.path, err)
	}
	return nil
}
