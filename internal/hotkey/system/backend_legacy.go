// Package system implements the hotkey backend on top of the operating
// system's global shortcut facility via golang.design/x/hotkey.
package system

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/TanaroSch/appkeys/internal/binding"
	apphotkey "github.com/TanaroSch/appkeys/internal/hotkey"
	"golang.design/x/hotkey"
)

// ErrBackendNotAvailable is returned by SelectBackend when the session has
// no supported global shortcut facility.
var ErrBackendNotAvailable = errors.New("no global hotkey backend available for this session")

// LegacyBackend wraps golang.design/x/hotkey.
// It supports Windows, macOS, and X11 on Linux. It does NOT support Wayland.
type LegacyBackend struct {
	mu            sync.RWMutex
	listener      func(dispatchID uint32)
	displayServer DisplayServer
}

// NewLegacyBackend creates a new backend using golang.design/x/hotkey.
func NewLegacyBackend(ds DisplayServer) *LegacyBackend {
	return &LegacyBackend{displayServer: ds}
}

// Name returns the name of this backend.
func (b *LegacyBackend) Name() string {
	return "Legacy (golang.design/x/hotkey)"
}

// IsAvailable checks if this backend can be used on the current system.
func (b *LegacyBackend) IsAvailable() bool {
	switch b.displayServer {
	case DisplayServerWindows, DisplayServerMacOS, DisplayServerX11:
		return true
	case DisplayServerWayland:
		log.Println("Legacy backend: Not available on Wayland")
		return false
	default:
		log.Println("Legacy backend: Unknown display server, assuming unavailable")
		return false
	}
}

// Install sets the callback that receives the dispatch id of pressed hotkeys.
func (b *LegacyBackend) Install(listener func(dispatchID uint32)) error {
	if listener == nil {
		return errors.New("legacy backend: nil listener")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listener != nil {
		return errors.New("legacy backend: listener already installed")
	}
	b.listener = listener
	return nil
}

// Register claims keyCode+mods. On X11 the combination is also grabbed with
// the CapsLock/NumLock variants so it fires regardless of lock state.
func (b *LegacyBackend) Register(keyCode uint32, mods binding.Modifier, dispatchID uint32) (apphotkey.Handle, error) {
	label := binding.FormatCombo(keyCode, mods)

	key, err := nativeKey(keyCode)
	if err != nil {
		return nil, err
	}
	nativeMods, err := nativeModifiers(mods)
	if err != nil {
		return nil, fmt.Errorf("hotkey '%s': %w", label, err)
	}

	h := &legacyHotkey{
		label:      label,
		dispatchID: dispatchID,
		stopCh:     make(chan struct{}),
	}
	for i, variant := range expandModifiers(nativeMods) {
		hk := hotkey.New(variant, key)
		if err := hk.Register(); err != nil {
			if i == 0 {
				h.close()
				return nil, fmt.Errorf("failed to register hotkey '%s': %w", label, err)
			}
			log.Printf("Legacy backend: Lock-state variant %d of '%s' not registered: %v", i, label, err)
			continue
		}
		h.hotkeys = append(h.hotkeys, hk)
	}

	for _, hk := range h.hotkeys {
		h.startEventConverter(hk, b.notify)
	}
	log.Printf("Legacy backend: Successfully registered hotkey '%s' (%d variants)", label, len(h.hotkeys))
	return h, nil
}

// Unregister releases a handle returned by Register.
func (b *LegacyBackend) Unregister(handle apphotkey.Handle) error {
	h, ok := handle.(*legacyHotkey)
	if !ok || h == nil {
		return fmt.Errorf("legacy backend: unexpected handle %T", handle)
	}
	return h.close()
}

func (b *LegacyBackend) notify(dispatchID uint32) {
	b.mu.RLock()
	listener := b.listener
	b.mu.RUnlock()
	if listener != nil {
		listener(dispatchID)
	}
}

// legacyHotkey is the handle for one claimed combination and its
// lock-state variants.
type legacyHotkey struct {
	label      string
	dispatchID uint32
	hotkeys    []*hotkey.Hotkey
	stopCh     chan struct{}
	closeOnce  sync.Once
	closeErr   error
}

// startEventConverter forwards keydown events of hk as dispatch ids.
func (lh *legacyHotkey) startEventConverter(hk *hotkey.Hotkey, notify func(uint32)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("RECOVERED FROM PANIC IN LEGACY HOTKEY CONVERTER (%s): %v", lh.label, r)
			}
		}()

		for {
			select {
			case <-lh.stopCh:
				return
			case _, ok := <-hk.Keydown():
				if !ok {
					return
				}
				notify(lh.dispatchID)
			}
		}
	}()
}

func (lh *legacyHotkey) close() error {
	lh.closeOnce.Do(func() {
		close(lh.stopCh)
		var errs []error
		for _, hk := range lh.hotkeys {
			if err := hk.Unregister(); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			lh.closeErr = fmt.Errorf("failed to unregister hotkey '%s': %w", lh.label, errors.Join(errs...))
		}
	})
	return lh.closeErr
}

// SelectBackend chooses the backend for the current session:
//  1. Windows/macOS/X11: LegacyBackend
//  2. Wayland: none yet, the GlobalShortcuts portal is only detected
//  3. Unknown: none
func SelectBackend() (apphotkey.Backend, error) {
	ds := DetectDisplayServer()

	switch ds {
	case DisplayServerWindows, DisplayServerMacOS, DisplayServerX11:
		backend := NewLegacyBackend(ds)
		if backend.IsAvailable() {
			log.Printf("Selected backend: %s for %s", backend.Name(), ds)
			return backend, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrBackendNotAvailable, ds)

	case DisplayServerWayland:
		if HasPortalSupport() {
			log.Println("Wayland detected with a GlobalShortcuts portal, which is not supported yet")
		} else {
			log.Println("Wayland detected without portal support")
		}
		return nil, fmt.Errorf("%w: %s", ErrBackendNotAvailable, ds)

	default:
		return nil, fmt.Errorf("%w: %s", ErrBackendNotAvailable, ds)
	}
}
