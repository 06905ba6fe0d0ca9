package binding

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Modifier is a bitmask over the modifier keys of a hotkey.
// The values match the Carbon modifier flags so persisted files stay
// compatible across platforms.
type Modifier uint32

const (
	Command Modifier = 0x0100
	Shift   Modifier = 0x0200
	Option  Modifier = 0x0800
	Control Modifier = 0x1000

	allModifiers = Command | Shift | Option | Control
)

// Has reports whether every bit of other is set in m.
func (m Modifier) Has(other Modifier) bool {
	return m&other == other
}

// Valid reports whether m only uses known modifier bits.
func (m Modifier) Valid() bool {
	return m&^allModifiers == 0
}

// Binding associates an application with an optional global hotkey.
type Binding struct {
	ID        uuid.UUID `json:"id"`
	AppPath   string    `json:"appPath"`
	KeyCode   *uint32   `json:"keyCode,omitempty"` // nil means no hotkey recorded yet
	Modifiers Modifier  `json:"modifiers"`
}

// New creates an unbound binding for appPath with a fresh identifier.
func New(appPath string) Binding {
	return Binding{
		ID:      uuid.New(),
		AppPath: appPath,
	}
}

// HasHotkey reports whether a key code has been recorded.
func (b Binding) HasHotkey() bool {
	return b.KeyCode != nil
}

// WithHotkey returns a copy of b bound to keyCode and mods.
func (b Binding) WithHotkey(keyCode uint32, mods Modifier) Binding {
	kc := keyCode
	b.KeyCode = &kc
	b.Modifiers = mods
	return b
}

// WithoutHotkey returns a copy of b with the hotkey cleared.
func (b Binding) WithoutHotkey() Binding {
	b.KeyCode = nil
	b.Modifiers = 0
	return b
}

// Clone returns a copy of b that shares no memory with it.
func (b Binding) Clone() Binding {
	if b.KeyCode != nil {
		kc := *b.KeyCode
		b.KeyCode = &kc
	}
	return b
}

// Equal compares two bindings field by field, dereferencing the key code.
func (b Binding) Equal(other Binding) bool {
	if b.ID != other.ID || b.AppPath != other.AppPath || b.Modifiers != other.Modifiers {
		return false
	}
	if b.KeyCode == nil || other.KeyCode == nil {
		return b.KeyCode == nil && other.KeyCode == nil
	}
	return *b.KeyCode == *other.KeyCode
}

// AppName returns the display name of the bound application.
func (b Binding) AppName() string {
	name := filepath.Base(b.AppPath)
	for _, ext := range []string{".app", ".exe", ".desktop", ".lnk"} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// DisplayString renders the hotkey with modifier symbols, e.g. "⌃⇧⌘A".
func (b Binding) DisplayString() string {
	if b.KeyCode == nil {
		return "Click to record"
	}
	return Symbols(*b.KeyCode, b.Modifiers)
}

// Symbols renders a key code and modifier mask in the ⌃⌥⇧⌘ notation.
func Symbols(keyCode uint32, mods Modifier) string {
	var sb strings.Builder
	if mods.Has(Control) {
		sb.WriteString("⌃")
	}
	if mods.Has(Option) {
		sb.WriteString("⌥")
	}
	if mods.Has(Shift) {
		sb.WriteString("⇧")
	}
	if mods.Has(Command) {
		sb.WriteString("⌘")
	}
	if label, ok := keyLabels[keyCode]; ok {
		sb.WriteString(label)
	}
	return sb.String()
}

// Combo identifies a (key code, modifier mask) pair.
type Combo struct {
	KeyCode   uint32
	Modifiers Modifier
}

// Combo returns the combination of b and whether one is set.
func (b Binding) Combo() (Combo, bool) {
	if b.KeyCode == nil {
		return Combo{}, false
	}
	return Combo{KeyCode: *b.KeyCode, Modifiers: b.Modifiers}, true
}

func (c Combo) String() string {
	return FormatCombo(c.KeyCode, c.Modifiers)
}
