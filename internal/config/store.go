package config

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/TanaroSch/appkeys/internal/binding"
	"github.com/google/uuid"
)

// ErrPersistence wraps failures to save the binding list. The in-memory
// change has still been applied when it is returned.
var ErrPersistence = errors.New("failed to persist bindings")

// Store is the authoritative, ordered list of bindings. Every mutation
// is saved through the Persister.
type Store struct {
	mu        sync.RWMutex
	bindings  []binding.Binding
	persister Persister
}

// NewStore loads the bindings from p. A file that cannot be loaded is
// logged and the store starts empty.
func NewStore(p Persister) *Store {
	s := &Store{persister: p}
	loaded, err := p.Load()
	if err != nil {
		log.Printf("Warning: Failed to load bindings: %v. Starting with no bindings.", err)
		return s
	}
	s.bindings = cloneAll(loaded)
	log.Printf("Loaded %d bindings.", len(s.bindings))
	return s
}

// Add appends an unbound binding for appPath and returns it.
func (s *Store) Add(appPath string) (binding.Binding, error) {
	b := binding.New(appPath)

	s.mu.Lock()
	s.bindings = append(s.bindings, b)
	snapshot := cloneAll(s.bindings)
	s.mu.Unlock()

	return b.Clone(), s.save(snapshot)
}

// Remove deletes the binding with id. Unknown ids are a no-op.
func (s *Store) Remove(id uuid.UUID) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.bindings = append(s.bindings[:idx], s.bindings[idx+1:]...)
	snapshot := cloneAll(s.bindings)
	s.mu.Unlock()

	return s.save(snapshot)
}

// Update replaces the stored binding that has b's id. Unknown ids are a no-op.
func (s *Store) Update(b binding.Binding) error {
	s.mu.Lock()
	idx := s.indexLocked(b.ID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.bindings[idx] = b.Clone()
	snapshot := cloneAll(s.bindings)
	s.mu.Unlock()

	return s.save(snapshot)
}

// All returns a copy of every binding in insertion order.
func (s *Store) All() []binding.Binding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.bindings)
}

// Get returns the binding with id.
func (s *Store) Get(id uuid.UUID) (binding.Binding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.bindings[idx].Clone(), true
	}
	return binding.Binding{}, false
}

// Sorted returns a copy of every binding ordered by application name.
func (s *Store) Sorted() []binding.Binding {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].AppName()) < strings.ToLower(out[j].AppName())
	})
	return out
}

// Replace swaps in an externally loaded list without saving it.
func (s *Store) Replace(bindings []binding.Binding) {
	s.mu.Lock()
	s.bindings = cloneAll(bindings)
	s.mu.Unlock()
}

// Reload re-reads the persisted list. It reports whether the list differs
// from the one held in memory, along with both versions.
func (s *Store) Reload() (before, after []binding.Binding, changed bool, err error) {
	loaded, err := s.persister.Load()
	if err != nil {
		return nil, nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	before = cloneAll(s.bindings)
	if equalLists(before, loaded) {
		return before, before, false, nil
	}
	s.bindings = cloneAll(loaded)
	return before, cloneAll(s.bindings), true, nil
}

func (s *Store) save(snapshot []binding.Binding) error {
	if err := s.persister.Save(snapshot); err != nil {
		log.Printf("Error saving bindings: %v", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

func (s *Store) indexLocked(id uuid.UUID) int {
	for i, b := range s.bindings {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(bindings []binding.Binding) []binding.Binding {
	out := make([]binding.Binding, len(bindings))
	for i, b := range bindings {
		out[i] = b.Clone()
	}
	return out
}

func equalLists(a, b []binding.Binding) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
