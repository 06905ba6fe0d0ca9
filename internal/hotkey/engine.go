// Package hotkey owns the table of active global hotkeys and turns OS
// key-press notifications into actions on the main run loop.
package hotkey

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/TanaroSch/appkeys/internal/binding"
	"github.com/google/uuid"
)

var (
	// ErrIncompleteBinding is returned when a binding without a key code is registered.
	ErrIncompleteBinding = errors.New("binding has no key code")
	// ErrModifierRequired is returned for a bare non-function key.
	ErrModifierRequired = errors.New("a modifier is required for this key")
	// ErrInvalidModifiers is returned for a mask with bits outside
	// Control, Option, Shift and Command.
	ErrInvalidModifiers = errors.New("modifier mask has unknown bits")
	// ErrRegistrationConflict is returned when the combination is already
	// claimed, by another binding of this engine or by the OS.
	ErrRegistrationConflict = errors.New("hotkey combination is already claimed")
	// ErrUnsupportedKey is returned by backends that cannot express a key code.
	ErrUnsupportedKey = errors.New("key is not supported by this hotkey backend")
	// ErrNoAction is returned when Register is called with a nil action.
	ErrNoAction = errors.New("hotkey action is required")
)

type registration struct {
	handle     Handle
	dispatchID uint32
	combo      binding.Combo
}

// Engine maps hotkey bindings to OS registrations.
//
// Register, Unregister and UnregisterAll are expected to be called from the
// main run loop. Key presses arrive from the backend on arbitrary goroutines;
// they only read the tables and hand the action to schedule.
type Engine struct {
	backend  Backend
	schedule func(func()) bool

	installOnce sync.Once
	installErr  error

	// writeMu serializes mutations so OS calls can be made without holding mu.
	writeMu        sync.Mutex
	nextDispatchID uint32

	mu      sync.RWMutex
	regs    map[uuid.UUID]registration
	actions map[uint32]func()
	combos  map[binding.Combo]uuid.UUID
}

// NewEngine creates an engine on top of backend. schedule must enqueue its
// argument on the main run loop without blocking and report whether it was
// accepted.
func NewEngine(backend Backend, schedule func(func()) bool) *Engine {
	return &Engine{
		backend:  backend,
		schedule: schedule,
		regs:     make(map[uuid.UUID]registration),
		actions:  make(map[uint32]func()),
		combos:   make(map[binding.Combo]uuid.UUID),
	}
}

// Register claims the binding's combination and binds action to it.
// A previous registration for the same binding id is released first.
// On error nothing new is registered.
func (e *Engine) Register(b binding.Binding, action func()) error {
	combo, ok := b.Combo()
	if !ok {
		return fmt.Errorf("%w: %s", ErrIncompleteBinding, b.AppName())
	}
	if action == nil {
		return ErrNoAction
	}
	if !combo.Modifiers.Valid() {
		return fmt.Errorf("%w: 0x%x", ErrInvalidModifiers, uint32(combo.Modifiers))
	}
	if combo.Modifiers == 0 && !binding.IsFunctionKey(combo.KeyCode) {
		return fmt.Errorf("%w: %s", ErrModifierRequired, combo)
	}
	if err := e.install(); err != nil {
		return err
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.unregisterLocked(b.ID)

	e.mu.RLock()
	holder, taken := e.combos[combo]
	e.mu.RUnlock()
	if taken {
		return fmt.Errorf("%w: %s is used by binding %s", ErrRegistrationConflict, combo, holder)
	}

	dispatchID := e.allocateDispatchID()
	handle, err := e.backend.Register(combo.KeyCode, combo.Modifiers, dispatchID)
	if err != nil {
		log.Printf("Engine: %s rejected %s for '%s': %v", e.backend.Name(), combo, b.AppName(), err)
		if errors.Is(err, ErrUnsupportedKey) || errors.Is(err, ErrRegistrationConflict) {
			return fmt.Errorf("register %s: %w", combo, err)
		}
		return fmt.Errorf("%w: %s: %w", ErrRegistrationConflict, combo, err)
	}

	e.mu.Lock()
	if _, dup := e.actions[dispatchID]; dup {
		invariantf("dispatch id %d allocated while still active", dispatchID)
	}
	e.regs[b.ID] = registration{handle: handle, dispatchID: dispatchID, combo: combo}
	e.actions[dispatchID] = action
	e.combos[combo] = b.ID
	e.mu.Unlock()

	log.Printf("Engine: registered %s for '%s' (dispatch id %d)", combo, b.AppName(), dispatchID)
	return nil
}

// Unregister releases the registration of b, if any.
func (e *Engine) Unregister(b binding.Binding) {
	e.UnregisterID(b.ID)
}

// UnregisterID releases the registration for id, if any.
func (e *Engine) UnregisterID(id uuid.UUID) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	e.unregisterLocked(id)
}

// UnregisterAll releases every registration.
func (e *Engine) UnregisterAll() {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.mu.Lock()
	regs := e.regs
	e.regs = make(map[uuid.UUID]registration)
	e.actions = make(map[uint32]func())
	e.combos = make(map[binding.Combo]uuid.UUID)
	e.mu.Unlock()

	if len(regs) > 0 {
		log.Printf("Engine: unregistering all %d hotkeys", len(regs))
	}
	for id, reg := range regs {
		e.release(id, reg)
	}
}

// Active reports whether the binding with id currently holds an OS registration.
func (e *Engine) Active(id uuid.UUID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.regs[id]
	return ok
}

// Count returns the number of active registrations.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.regs)
}

// unregisterLocked requires writeMu.
func (e *Engine) unregisterLocked(id uuid.UUID) {
	e.mu.Lock()
	reg, ok := e.regs[id]
	if ok {
		delete(e.regs, id)
		delete(e.actions, reg.dispatchID)
		delete(e.combos, reg.combo)
	}
	e.mu.Unlock()

	if ok {
		e.release(id, reg)
	}
}

func (e *Engine) release(id uuid.UUID, reg registration) {
	if err := e.backend.Unregister(reg.handle); err != nil {
		log.Printf("Engine: error unregistering %s (binding %s): %v", reg.combo, id, err)
		return
	}
	log.Printf("Engine: unregistered %s (dispatch id %d)", reg.combo, reg.dispatchID)
}

// allocateDispatchID requires writeMu. Zero is never used, and ids still
// bound to an action are skipped after wrap-around.
func (e *Engine) allocateDispatchID() uint32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for {
		e.nextDispatchID++
		if e.nextDispatchID == 0 {
			continue
		}
		if _, busy := e.actions[e.nextDispatchID]; !busy {
			return e.nextDispatchID
		}
	}
}

func (e *Engine) install() error {
	e.installOnce.Do(func() {
		e.installErr = e.backend.Install(e.dispatch)
		if e.installErr != nil {
			log.Printf("Engine: failed to install %s listener: %v", e.backend.Name(), e.installErr)
			return
		}
		log.Printf("Engine: installed %s listener", e.backend.Name())
	})
	return e.installErr
}

// dispatch runs on the backend's notification goroutine.
func (e *Engine) dispatch(dispatchID uint32) {
	e.mu.RLock()
	action := e.actions[dispatchID]
	e.mu.RUnlock()

	if action == nil {
		log.Printf("Engine: ignoring key press for unknown dispatch id %d", dispatchID)
		return
	}
	if !e.schedule(action) {
		log.Printf("Engine: run loop is not accepting work, dropped action for dispatch id %d", dispatchID)
	}
}
