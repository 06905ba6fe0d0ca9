package binding

// Key codes follow the macOS virtual key code space (kVK_*). Bindings are
// stored in this space on every platform and translated by the hotkey backend.

type keyInfo struct {
	code  uint32
	name  string // canonical lowercase name used in combo strings
	label string // short label used in symbol notation
}

var keyTable = []keyInfo{
	{0, "a", "A"}, {11, "b", "B"}, {8, "c", "C"}, {2, "d", "D"},
	{14, "e", "E"}, {3, "f", "F"}, {5, "g", "G"}, {4, "h", "H"},
	{34, "i", "I"}, {38, "j", "J"}, {40, "k", "K"}, {37, "l", "L"},
	{46, "m", "M"}, {45, "n", "N"}, {31, "o", "O"}, {35, "p", "P"},
	{12, "q", "Q"}, {15, "r", "R"}, {1, "s", "S"}, {17, "t", "T"},
	{32, "u", "U"}, {9, "v", "V"}, {13, "w", "W"}, {7, "x", "X"},
	{16, "y", "Y"}, {6, "z", "Z"},

	{29, "0", "0"}, {18, "1", "1"}, {19, "2", "2"}, {20, "3", "3"},
	{21, "4", "4"}, {23, "5", "5"}, {22, "6", "6"}, {26, "7", "7"},
	{28, "8", "8"}, {25, "9", "9"},

	{24, "=", "="}, {27, "-", "-"}, {30, "]", "]"}, {33, "[", "["},
	{39, "'", "'"}, {41, ";", ";"}, {42, "\\", "\\"}, {43, ",", ","},
	{44, "/", "/"}, {47, ".", "."}, {50, "`", "`"},

	{36, "return", "↩"}, {48, "tab", "⇥"}, {49, "space", "Space"},
	{51, "delete", "⌫"}, {53, "escape", "⎋"}, {117, "forwarddelete", "⌦"},
	{115, "home", "↖"}, {119, "end", "↘"}, {116, "pageup", "⇞"}, {121, "pagedown", "⇟"},
	{123, "left", "←"}, {124, "right", "→"}, {125, "down", "↓"}, {126, "up", "↑"},

	{122, "f1", "F1"}, {120, "f2", "F2"}, {99, "f3", "F3"}, {118, "f4", "F4"},
	{96, "f5", "F5"}, {97, "f6", "F6"}, {98, "f7", "F7"}, {100, "f8", "F8"},
	{101, "f9", "F9"}, {109, "f10", "F10"}, {103, "f11", "F11"}, {111, "f12", "F12"},
	{105, "f13", "F13"}, {107, "f14", "F14"}, {113, "f15", "F15"}, {106, "f16", "F16"},
	{64, "f17", "F17"}, {79, "f18", "F18"}, {80, "f19", "F19"}, {90, "f20", "F20"},
}

// KeyEscape is the key code that cancels recording; see ParseCombo.
const KeyEscape uint32 = 53

var (
	keyNames     = make(map[uint32]string, len(keyTable))
	keyLabels    = make(map[uint32]string, len(keyTable))
	codesByName  = make(map[string]uint32, len(keyTable))
	functionKeys = make(map[uint32]bool, 20)
)

func init() {
	for _, k := range keyTable {
		keyNames[k.code] = k.name
		keyLabels[k.code] = k.label
		codesByName[k.name] = k.code
		if len(k.name) > 1 && k.name[0] == 'f' && k.name[1] >= '0' && k.name[1] <= '9' {
			functionKeys[k.code] = true
		}
	}
	codesByName["enter"] = codesByName["return"]
	codesByName["esc"] = codesByName["escape"]
	codesByName["backspace"] = codesByName["delete"]
	codesByName["del"] = codesByName["forwarddelete"]
}

// KeyName returns the canonical name of keyCode, e.g. "a" or "f5".
func KeyName(keyCode uint32) (string, bool) {
	name, ok := keyNames[keyCode]
	return name, ok
}

// KeyCodeForName resolves a key name (case-sensitive, lowercase) to its code.
func KeyCodeForName(name string) (uint32, bool) {
	code, ok := codesByName[name]
	return code, ok
}

// IsFunctionKey reports whether keyCode is one of F1-F20, the only keys
// that may be bound without a modifier.
func IsFunctionKey(keyCode uint32) bool {
	return functionKeys[keyCode]
}
