package ui

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/ncruces/zenity"
)

// ErrDialogCanceled is returned when the user dismisses a dialog.
var ErrDialogCanceled = errors.New("dialog canceled")

// Dialogs shows the interactive prompts of the tray menu.
type Dialogs struct {
	appName string
}

// NewDialogs creates dialogs titled with appName.
func NewDialogs(appName string) *Dialogs {
	return &Dialogs{appName: appName}
}

func (d *Dialogs) title(s string) zenity.Option {
	return zenity.Title(d.appName + " - " + s)
}

func canceled(err error) error {
	if errors.Is(err, zenity.ErrCanceled) {
		return ErrDialogCanceled
	}
	return err
}

// PromptAppPath asks for the path of an application to bind. The entry
// is pre-filled from the clipboard when it holds an existing path.
func (d *Dialogs) PromptAppPath() (string, error) {
	path, err := zenity.Entry("Enter the full path of the application:",
		d.title("Add App"),
		zenity.EntryText(clipboardPathSuggestion()),
		zenity.DisallowEmpty(),
	)
	if err != nil {
		return "", canceled(err)
	}
	return strings.TrimSpace(path), nil
}

// PromptCombo asks for a hotkey combination such as "cmd+shift+a".
// An empty answer clears the hotkey; "esc" cancels.
func (d *Dialogs) PromptCombo(appName, current string) (string, error) {
	combo, err := zenity.Entry(
		fmt.Sprintf("Hotkey for '%s'\n(e.g. cmd+shift+a, ctrl+alt+t, f5; leave empty to clear, type esc to keep the current one):", appName),
		d.title("Edit Hotkey"),
		zenity.EntryText(current),
	)
	if err != nil {
		return "", canceled(err)
	}
	return strings.TrimSpace(combo), nil
}

// ChooseItem lets the user pick one of items and returns its index.
func (d *Dialogs) ChooseItem(action, prompt string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, ErrDialogCanceled
	}
	selected, err := zenity.List(prompt, items, d.title(action), zenity.Height(320))
	if err != nil {
		return -1, canceled(err)
	}
	for i, item := range items {
		if item == selected {
			return i, nil
		}
	}
	return -1, ErrDialogCanceled
}

// ConfirmRemove asks before removing the binding for appName.
func (d *Dialogs) ConfirmRemove(appName string) (bool, error) {
	err := zenity.Question(
		fmt.Sprintf("Remove '%s' and its hotkey?", appName),
		d.title("Confirm Removal"),
		zenity.WarningIcon,
		zenity.OKLabel("Remove"),
		zenity.CancelLabel("Cancel"),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ShowInfo displays text in an information box.
func (d *Dialogs) ShowInfo(title, text string) {
	if err := zenity.Info(text, d.title(title), zenity.InfoIcon); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		log.Printf("Error showing info dialog: %v", err)
	}
}

// ShowError displays an error box.
func (d *Dialogs) ShowError(title, text string) {
	if err := zenity.Error(text, d.title(title), zenity.ErrorIcon); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		log.Printf("Error showing error dialog: %v", err)
	}
}

func clipboardPathSuggestion() string {
	text, err := clipboard.ReadAll()
	if err != nil {
		return ""
	}
	return pathSuggestion(text)
}

// pathSuggestion returns text as a path when it names an existing file.
func pathSuggestion(text string) string {
	text = strings.Trim(strings.TrimSpace(text), `"'`)
	if text == "" || strings.ContainsAny(text, "\r\n") {
		return ""
	}
	if _, err := os.Stat(text); err != nil {
		return ""
	}
	return text
}
