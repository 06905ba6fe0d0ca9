package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/TanaroSch/appkeys/internal/binding"
	"github.com/TanaroSch/appkeys/internal/config"
	"github.com/TanaroSch/appkeys/internal/hotkey"
	"github.com/TanaroSch/appkeys/internal/runloop"
	"github.com/google/uuid"
)

type fakeBackend struct {
	mu       sync.Mutex
	listener func(uint32)
	claimed  map[binding.Combo]uint32
	foreign  map[binding.Combo]bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		claimed: make(map[binding.Combo]uint32),
		foreign: make(map[binding.Combo]bool),
	}
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Install(listener func(uint32)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener = listener
	return nil
}

func (f *fakeBackend) Register(keyCode uint32, mods binding.Modifier, dispatchID uint32) (hotkey.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := binding.Combo{KeyCode: keyCode, Modifiers: mods}
	if f.foreign[c] {
		return nil, fmt.Errorf("%s is held by another process", c)
	}
	f.claimed[c] = dispatchID
	return c, nil
}

func (f *fakeBackend) Unregister(h hotkey.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.claimed, h.(binding.Combo))
	return nil
}

func newTestApp(t *testing.T) (*Application, *fakeBackend, *[]string) {
	t.Helper()
	p := config.NewFilePersister(filepath.Join(t.TempDir(), config.BindingsFileName))
	fb := newFakeBackend()
	var activated []string
	a := &Application{
		settings:  config.DefaultSettings(),
		persister: p,
		store:     config.NewStore(p),
		loop:      runloop.New(),
		activate: func(appPath string) error {
			activated = append(activated, appPath)
			return nil
		},
		inactive: make(map[uuid.UUID]error),
	}
	a.engine = hotkey.NewEngine(fb, a.loop.Post)
	return a, fb, &activated
}

func keyCode(name string) uint32 {
	code, ok := binding.KeyCodeForName(name)
	if !ok {
		panic("unknown key " + name)
	}
	return code
}

func mustAdd(t *testing.T, a *Application, appPath string) binding.Binding {
	t.Helper()
	b, err := a.addApp(appPath)
	if err != nil {
		t.Fatalf("addApp(%q) error: %v", appPath, err)
	}
	return b
}

func TestSetHotkey(t *testing.T) {
	tests := []struct {
		name       string
		combo      string
		wantErr    bool
		wantActive bool
		wantBound  bool
	}{
		{name: "command letter", combo: "cmd+m", wantActive: true, wantBound: true},
		{name: "function key alone", combo: "f5", wantActive: true, wantBound: true},
		{name: "clear", combo: "", wantActive: false, wantBound: false},
		{name: "bare letter", combo: "m", wantErr: true},
		{name: "unknown key", combo: "cmd+foo", wantErr: true},
		{name: "unknown modifier", combo: "hyper+m", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, _ := newTestApp(t)
			b := mustAdd(t, a, "/Applications/Mail.app")

			got, err := a.setHotkey(b.ID, tt.combo)
			if (err != nil) != tt.wantErr {
				t.Fatalf("setHotkey(%q) error = %v, wantErr %v", tt.combo, err, tt.wantErr)
			}
			if tt.wantErr {
				stored, _ := a.store.Get(b.ID)
				if stored.HasHotkey() {
					t.Errorf("invalid combo %q was stored", tt.combo)
				}
				return
			}
			if got.HasHotkey() != tt.wantBound {
				t.Errorf("HasHotkey() = %v, want %v", got.HasHotkey(), tt.wantBound)
			}
			if a.engine.Active(b.ID) != tt.wantActive {
				t.Errorf("Active() = %v, want %v", a.engine.Active(b.ID), tt.wantActive)
			}

			reloaded, err := a.persister.Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if len(reloaded) != 1 || !reloaded[0].Equal(got) {
				t.Errorf("persisted %+v, want [%+v]", reloaded, got)
			}
		})
	}
}

func TestSetHotkeyEscapeKeepsBinding(t *testing.T) {
	a, _, _ := newTestApp(t)
	b := mustAdd(t, a, "/Applications/Mail.app")
	if _, err := a.setHotkey(b.ID, "cmd+m"); err != nil {
		t.Fatalf("setHotkey() error: %v", err)
	}

	_, err := a.setHotkey(b.ID, "esc")
	if !errors.Is(err, binding.ErrRecordingCanceled) {
		t.Fatalf("setHotkey(esc) error = %v, want ErrRecordingCanceled", err)
	}
	stored, _ := a.store.Get(b.ID)
	if c, ok := stored.Combo(); !ok || c.String() != "cmd+m" {
		t.Errorf("stored combo = %v, want cmd+m", c)
	}
	if !a.engine.Active(b.ID) {
		t.Error("canceled recording dropped the registration")
	}
}

func TestSetHotkeyRejectsComboOfOtherApp(t *testing.T) {
	a, _, _ := newTestApp(t)
	mail := mustAdd(t, a, "/Applications/Mail.app")
	notes := mustAdd(t, a, "/Applications/Notes.app")

	if _, err := a.setHotkey(mail.ID, "cmd+m"); err != nil {
		t.Fatalf("setHotkey(mail) error: %v", err)
	}
	_, err := a.setHotkey(notes.ID, "cmd+m")
	if !errors.Is(err, ErrComboInUse) {
		t.Fatalf("setHotkey(notes) error = %v, want ErrComboInUse", err)
	}
	if !strings.Contains(err.Error(), "Mail") {
		t.Errorf("error %q does not name the holder", err)
	}
	if stored, _ := a.store.Get(notes.ID); stored.HasHotkey() {
		t.Error("conflicting combo was stored")
	}

	// Re-assigning the same combo to its holder is not a conflict.
	if _, err := a.setHotkey(mail.ID, "cmd+m"); err != nil {
		t.Errorf("setHotkey(mail) again error: %v", err)
	}
}

func TestSetHotkeyOSRejectionIsSavedInactive(t *testing.T) {
	a, fb, _ := newTestApp(t)
	b := mustAdd(t, a, "/Applications/Mail.app")
	fb.foreign[binding.Combo{KeyCode: keyCode("a"), Modifiers: binding.Command}] = true

	got, err := a.setHotkey(b.ID, "cmd+a")
	if !errors.Is(err, hotkey.ErrRegistrationConflict) {
		t.Fatalf("setHotkey() error = %v, want ErrRegistrationConflict", err)
	}
	if !got.HasHotkey() {
		t.Error("rejected combo was not kept on the binding")
	}
	if stored, _ := a.store.Get(b.ID); !stored.HasHotkey() {
		t.Error("rejected combo was not saved")
	}
	if a.engine.Active(b.ID) {
		t.Error("binding is active after OS rejection")
	}
	if _, ok := a.inactive[b.ID]; !ok {
		t.Error("binding not marked inactive")
	}

	listing := formatListing(a.store.Sorted(), a.isActive)
	if !strings.Contains(listing, "(inactive)") {
		t.Errorf("listing %q does not mark the inactive binding", listing)
	}
}

func TestRemoveAppReleasesRegistration(t *testing.T) {
	a, fb, _ := newTestApp(t)
	b := mustAdd(t, a, "/Applications/Mail.app")
	if _, err := a.setHotkey(b.ID, "ctrl+alt+m"); err != nil {
		t.Fatalf("setHotkey() error: %v", err)
	}

	if err := a.removeApp(b.ID); err != nil {
		t.Fatalf("removeApp() error: %v", err)
	}
	if a.engine.Active(b.ID) {
		t.Error("removed binding is still active")
	}
	if len(fb.claimed) != 0 {
		t.Errorf("backend still holds %d claims", len(fb.claimed))
	}
	if _, ok := a.store.Get(b.ID); ok {
		t.Error("removed binding is still stored")
	}
}

func TestActionActivatesApp(t *testing.T) {
	a, _, activated := newTestApp(t)
	b := mustAdd(t, a, "/Applications/Mail.app")

	a.actionFor(b)()
	if len(*activated) != 1 || (*activated)[0] != b.AppPath {
		t.Errorf("activated %v, want [%s]", *activated, b.AppPath)
	}

	// A failing launch is reported, not propagated.
	a.activate = func(string) error { return errors.New("boom") }
	a.actionFor(b)()
}

func TestReloadRebuildsFromDisk(t *testing.T) {
	a, fb, _ := newTestApp(t)
	old := mustAdd(t, a, "/Applications/Mail.app")
	if _, err := a.setHotkey(old.ID, "cmd+m"); err != nil {
		t.Fatalf("setHotkey() error: %v", err)
	}

	// The file is replaced by an external editor.
	notes := binding.New("/Applications/Notes.app").WithHotkey(keyCode("n"), binding.Control|binding.Option)
	if err := config.NewFilePersister(a.persister.Path()).Save([]binding.Binding{notes}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	a.reload(false)

	if a.engine.Active(old.ID) {
		t.Error("binding deleted on disk is still active")
	}
	if !a.engine.Active(notes.ID) {
		t.Error("binding added on disk is not active")
	}
	if len(fb.claimed) != 1 {
		t.Errorf("backend holds %d claims, want 1", len(fb.claimed))
	}
	if !strings.Contains(a.lastBefore, "Mail") || !strings.Contains(a.lastAfter, "Notes") {
		t.Errorf("last change not recorded: before %q, after %q", a.lastBefore, a.lastAfter)
	}
}

func TestReloadIgnoresUnchangedFile(t *testing.T) {
	a, _, _ := newTestApp(t)
	b := mustAdd(t, a, "/Applications/Mail.app")
	if _, err := a.setHotkey(b.ID, "cmd+m"); err != nil {
		t.Fatalf("setHotkey() error: %v", err)
	}

	// Our own save triggers the watcher; nothing should change.
	a.reload(false)

	if !a.engine.Active(b.ID) {
		t.Error("binding lost its registration")
	}
	if a.lastBefore != "" || a.lastAfter != "" {
		t.Error("unchanged reload recorded a change")
	}
}

func TestWithoutBackendBindingsStillEditable(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.engine = nil
	b := mustAdd(t, a, "/Applications/Mail.app")

	got, err := a.setHotkey(b.ID, "cmd+m")
	if err != nil {
		t.Fatalf("setHotkey() error: %v", err)
	}
	if !got.HasHotkey() {
		t.Error("hotkey not stored")
	}
	if a.isActive(b.ID) {
		t.Error("binding reported active without a backend")
	}
	a.rebuild()
}

func TestSetNotifyOnLaunchSavesSettings(t *testing.T) {
	a, _, _ := newTestApp(t)
	path := filepath.Join(t.TempDir(), config.SettingsFileName)
	settings, err := config.LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	a.settings = settings

	if err := a.setNotifyOnLaunch(true); err != nil {
		t.Fatalf("setNotifyOnLaunch(true) error: %v", err)
	}
	reloaded, err := config.LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if !reloaded.NotifyOnLaunch {
		t.Error("NotifyOnLaunch not saved")
	}

	// Settings without a file cannot be saved; the switch still changes.
	a.settings = config.DefaultSettings()
	if err := a.setNotifyOnLaunch(true); err == nil {
		t.Error("setNotifyOnLaunch() without a settings file returned nil")
	}
	if !a.settings.NotifyOnLaunch {
		t.Error("NotifyOnLaunch not changed in memory")
	}
}

func TestFormatListing(t *testing.T) {
	mail := binding.New("/Applications/Mail.app").WithHotkey(keyCode("m"), binding.Command)
	notes := binding.New("/Applications/Notes.app").WithHotkey(keyCode("n"), binding.Control|binding.Option)
	safari := binding.New("/Applications/Safari.app")

	tests := []struct {
		name   string
		active func(uuid.UUID) bool
		want   string
	}{
		{
			name: "without state",
			want: "Mail: ⌘M\nNotes: ⌃⌥N\nSafari: Click to record\n",
		},
		{
			name:   "inactive marked",
			active: func(id uuid.UUID) bool { return id == mail.ID },
			want:   "Mail: ⌘M\nNotes: ⌃⌥N (inactive)\nSafari: Click to record\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatListing([]binding.Binding{mail, notes, safari}, tt.active)
			if got != tt.want {
				t.Errorf("formatListing() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := formatListing(nil, nil); got != "" {
		t.Errorf("formatListing(nil) = %q, want empty", got)
	}
}
