package hotkey

import (
	"log"

	"github.com/TanaroSch/appkeys/internal/binding"
	"github.com/google/uuid"
)

// Rebuild drops every registration and registers each binding that has a
// key code, so no registration of a deleted or edited binding survives.
// A failing binding stays inactive and does not stop the others; failures
// are returned keyed by binding id.
func (e *Engine) Rebuild(bindings []binding.Binding, actionFor func(binding.Binding) func()) map[uuid.UUID]error {
	e.UnregisterAll()

	failures := make(map[uuid.UUID]error)
	registered := 0
	for _, b := range bindings {
		if !b.HasHotkey() {
			continue
		}
		if err := e.Register(b, actionFor(b)); err != nil {
			log.Printf("Engine: hotkey %s for '%s' stays inactive: %v", b.DisplayString(), b.AppName(), err)
			failures[b.ID] = err
			continue
		}
		registered++
	}

	log.Printf("Engine: rebuild complete, %d registered, %d failed", registered, len(failures))
	return failures
}
