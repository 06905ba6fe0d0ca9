// ==== internal/app/app.go ====
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/TanaroSch/appkeys/internal/binding"
	"github.com/TanaroSch/appkeys/internal/config"
	"github.com/TanaroSch/appkeys/internal/diffutil"
	"github.com/TanaroSch/appkeys/internal/hotkey"
	"github.com/TanaroSch/appkeys/internal/launcher"
	"github.com/TanaroSch/appkeys/internal/resources"
	"github.com/TanaroSch/appkeys/internal/runloop"
	"github.com/TanaroSch/appkeys/internal/ui"
	"github.com/google/uuid"
)

// AppName is used for window titles, notifications and the config directory.
const AppName = config.AppDirName

// ErrComboInUse is returned when another binding already uses a combination.
var ErrComboInUse = errors.New("hotkey is already assigned to another app")

// Application represents the main application
type Application struct {
	version   string
	settings  *config.Settings
	store     *config.Store
	persister *config.FilePersister
	engine    *hotkey.Engine // nil when the session has no hotkey backend
	loop      *runloop.Loop
	notifier  *ui.NotificationManager
	dialogs   *ui.Dialogs
	tray      *ui.SystrayManager
	watcher   *config.Watcher
	iconData  []byte
	activate  func(appPath string) error

	// inactive holds the registration error of bound bindings that have
	// no OS registration. Only touched on the loop.
	inactive map[uuid.UUID]error

	diffMu     sync.Mutex
	lastBefore string
	lastAfter  string

	cancel   context.CancelFunc
	quitOnce sync.Once
}

// New creates a new application instance. backend may be nil, in which
// case bindings can be edited but no hotkey is registered.
func New(settings *config.Settings, persister *config.FilePersister, backend hotkey.Backend, version string) *Application {
	a := &Application{
		version:   version,
		settings:  settings,
		persister: persister,
		store:     config.NewStore(persister),
		loop:      runloop.New(),
		dialogs:   ui.NewDialogs(AppName),
		activate:  launcher.ActivateOrLaunch,
		inactive:  make(map[uuid.UUID]error),
	}
	if backend != nil {
		a.engine = hotkey.NewEngine(backend, a.loop.Post)
	}

	var err error
	a.iconData, err = resources.GetIcon()
	if err != nil {
		log.Printf("Warning: Failed to load embedded icon: %v", err)
	}

	ui.InitGlobalNotifications(settings.UseNotifications, settings.NotifyOnLaunch, AppName, a.iconData)
	a.notifier = ui.GlobalNotifications()

	a.tray = ui.NewSystrayManager(AppName, version, a.iconData, ui.MenuCallbacks{
		OnShowHotkeys:    a.onShowHotkeys,
		OnAddApp:         a.onAddApp,
		OnEditHotkey:     a.onEditHotkey,
		OnRemoveApp:      a.onRemoveApp,
		OnViewLastChange: a.onViewLastChange,
		OnOpenConfig:     a.onOpenConfigFile,
		OnReloadConfig:   a.onReloadConfig,
		OnRestart:        a.onRestartApplication,
		OnQuit:           a.onQuit,

		OnToggleNotifyOnLaunch: a.onToggleNotifyOnLaunch,
	}, a.onTrayReady)
	a.tray.SetNotifyOnLaunch(settings.NotifyOnLaunch)

	return a
}

// Run starts the main loop and the tray. It blocks until the tray exits.
func (a *Application) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.loop.Run(ctx)

	if a.engine == nil {
		a.notify(ui.LevelWarn, "Hotkeys Unavailable", "Global hotkeys are not supported in this session. Apps can still be configured.")
	}
	a.loop.Post(a.rebuild)

	if a.settings.WatchConfigFile {
		w, err := config.NewWatcher(a.persister.Path(), config.DefaultDebounce, func() {
			a.loop.Post(func() { a.reload(false) })
		})
		if err != nil {
			log.Printf("Warning: Config file watching disabled: %v", err)
		} else {
			a.watcher = w
		}
	}

	a.tray.Run()
	a.shutdown()
}

func (a *Application) onTrayReady() {
	a.loop.Post(a.refreshStatus)
}

func (a *Application) shutdown() {
	a.releaseHotkeys()
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			log.Printf("Error closing config watcher: %v", err)
		}
	}
	if a.cancel != nil {
		a.cancel()
		<-a.loop.Done()
	}
	log.Println("Shutdown complete.")
}

// releaseHotkeys unregisters everything exactly once.
func (a *Application) releaseHotkeys() {
	a.quitOnce.Do(func() {
		if a.engine == nil {
			return
		}
		if err := a.loop.Do(a.engine.UnregisterAll); err != nil {
			// The loop is gone; nothing else can touch the engine now.
			a.engine.UnregisterAll()
		}
	})
}

// actionFor returns the hotkey action of b. It runs on the loop.
func (a *Application) actionFor(b binding.Binding) func() {
	appPath, name := b.AppPath, b.AppName()
	return func() {
		log.Printf("Hotkey pressed for '%s'", name)
		if err := a.activate(appPath); err != nil {
			log.Printf("Error activating '%s': %v", appPath, err)
			msg := fmt.Sprintf("Could not open '%s': %v", name, err)
			if errors.Is(err, launcher.ErrAppNotFound) {
				msg = fmt.Sprintf("'%s' no longer exists at %s.", name, appPath)
			}
			a.notify(ui.LevelWarn, "Could Not Open App", msg)
			return
		}
		if a.notifier != nil {
			a.notifier.ShowLaunchNotification(name)
		}
	}
}

// rebuild re-registers every bound binding. It runs on the loop.
func (a *Application) rebuild() {
	if a.engine == nil {
		a.refreshStatus()
		return
	}
	a.inactive = a.engine.Rebuild(a.store.All(), a.actionFor)
	a.refreshStatus()

	if len(a.inactive) > 0 {
		var names []string
		for id := range a.inactive {
			if b, ok := a.store.Get(id); ok {
				names = append(names, fmt.Sprintf("%s (%s)", b.AppName(), b.DisplayString()))
			}
		}
		sort.Strings(names)
		a.notify(ui.LevelWarn, "Hotkey Registration Issue",
			fmt.Sprintf("These hotkeys could not be registered: %s", strings.Join(names, ", ")))
	}
}

// setHotkey applies a combo typed by the user to the binding with id.
// An empty combo clears the hotkey. The binding is saved even when the OS
// rejects the combination; it then stays inactive. Runs on the loop.
func (a *Application) setHotkey(id uuid.UUID, combo string) (binding.Binding, error) {
	b, ok := a.store.Get(id)
	if !ok {
		return binding.Binding{}, fmt.Errorf("binding %s no longer exists", id)
	}

	if combo == "" {
		b = b.WithoutHotkey()
	} else {
		keyCode, mods, err := binding.ParseCombo(combo)
		if err != nil {
			return b, err
		}
		if err := binding.ValidateCombo(keyCode, mods); err != nil {
			return b, err
		}
		for _, other := range a.store.All() {
			if other.ID == id {
				continue
			}
			if c, ok := other.Combo(); ok && c.KeyCode == keyCode && c.Modifiers == mods {
				return b, fmt.Errorf("%w: %s is used by '%s'", ErrComboInUse, c, other.AppName())
			}
		}
		b = b.WithHotkey(keyCode, mods)
	}

	saveErr := a.store.Update(b)

	var regErr error
	if a.engine != nil {
		if b.HasHotkey() {
			regErr = a.engine.Register(b, a.actionFor(b))
		} else {
			a.engine.UnregisterID(b.ID)
		}
	}
	if regErr != nil {
		a.inactive[b.ID] = regErr
	} else {
		delete(a.inactive, b.ID)
	}
	a.refreshStatus()

	return b, errors.Join(saveErr, regErr)
}

// addApp stores a new unbound binding. Runs on the loop.
func (a *Application) addApp(appPath string) (binding.Binding, error) {
	b, err := a.store.Add(appPath)
	a.refreshStatus()
	return b, err
}

// removeApp drops the binding and its registration. Runs on the loop.
func (a *Application) removeApp(id uuid.UUID) error {
	if a.engine != nil {
		a.engine.UnregisterID(id)
	}
	delete(a.inactive, id)
	err := a.store.Remove(id)
	a.refreshStatus()
	return err
}

// reload re-reads the bindings file and rebuilds the registrations when
// it changed. forced rebuilds even if the file is unchanged. Runs on the loop.
func (a *Application) reload(forced bool) {
	before, after, changed, err := a.store.Reload()
	if err != nil {
		log.Printf("Error reloading bindings from '%s': %v", a.persister.Path(), err)
		a.notify(ui.LevelError, "Configuration Error", fmt.Sprintf("Failed to reload %s: %v", config.BindingsFileName, err))
		return
	}
	if !changed && !forced {
		return
	}

	if changed {
		oldListing, newListing := formatListing(before, nil), formatListing(after, nil)
		lines, summary := diffutil.GenerateDiffAndSummary(oldListing, newListing)
		log.Printf("Bindings file changed on disk.\n%s%s", summary, diffutil.FormatChanges(lines))

		a.diffMu.Lock()
		a.lastBefore, a.lastAfter = oldListing, newListing
		a.diffMu.Unlock()
		if a.tray != nil {
			a.tray.UpdateViewLastDiffStatus(true)
		}
	}

	a.rebuild()
	a.notify(ui.LevelInfo, "Configuration Reloaded", fmt.Sprintf("%d apps loaded, hotkeys refreshed.", len(after)))
}

func (a *Application) refreshStatus() {
	if a.tray == nil {
		return
	}
	bound := 0
	for _, b := range a.store.All() {
		if b.HasHotkey() {
			bound++
		}
	}
	active := 0
	if a.engine != nil {
		active = a.engine.Count()
	}
	a.tray.UpdateStatus(active, bound)
}

func (a *Application) notify(level ui.Level, title, message string) {
	if a.notifier == nil {
		log.Printf("[%s] %s: %s", level, title, message)
		return
	}
	a.notifier.ShowAdminNotification(level, title, message)
}

// isActive reports the registration state for listings. Runs on the loop.
func (a *Application) isActive(id uuid.UUID) bool {
	return a.engine != nil && a.engine.Active(id)
}

// formatListing renders one line per binding in display order. When
// active is non-nil, bound hotkeys without a registration are marked.
func formatListing(bindings []binding.Binding, active func(uuid.UUID) bool) string {
	var sb strings.Builder
	for _, b := range bindings {
		fmt.Fprintf(&sb, "%s: %s", b.AppName(), b.DisplayString())
		if active != nil && b.HasHotkey() && !active(b.ID) {
			sb.WriteString(" (inactive)")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Menu handlers ---
// They run on the tray goroutines: dialogs are shown here and the
// resulting mutations are executed on the loop.

func (a *Application) onShowHotkeys() {
	var listing string
	if err := a.loop.Do(func() {
		listing = formatListing(a.store.Sorted(), a.isActive)
	}); err != nil {
		return
	}
	if listing == "" {
		listing = "No apps configured yet. Use 'Add App...' to add one."
	}
	a.dialogs.ShowInfo("Hotkeys", listing)
}

func (a *Application) onAddApp() {
	appPath, err := a.dialogs.PromptAppPath()
	if err != nil {
		if !errors.Is(err, ui.ErrDialogCanceled) {
			log.Printf("Error getting app path via zenity: %v", err)
		}
		return
	}
	if _, err := os.Stat(appPath); err != nil {
		a.dialogs.ShowError("Add App", fmt.Sprintf("Application not found:\n%s", appPath))
		return
	}

	var b binding.Binding
	var addErr error
	if err := a.loop.Do(func() { b, addErr = a.addApp(appPath) }); err != nil {
		return
	}
	if addErr != nil {
		a.notify(ui.LevelError, "Save Error", fmt.Sprintf("'%s' was added but could not be saved: %v", b.AppName(), addErr))
	}
	a.editHotkey(b)
}

func (a *Application) onEditHotkey() {
	b, ok := a.chooseBinding("Edit Hotkey", "Select the app whose hotkey to change:")
	if !ok {
		return
	}
	a.editHotkey(b)
}

func (a *Application) editHotkey(b binding.Binding) {
	current := ""
	if c, ok := b.Combo(); ok {
		current = c.String()
	}

	for {
		combo, err := a.dialogs.PromptCombo(b.AppName(), current)
		if err != nil {
			if !errors.Is(err, ui.ErrDialogCanceled) {
				log.Printf("Error getting hotkey via zenity: %v", err)
			}
			return
		}

		var updated binding.Binding
		var setErr error
		if err := a.loop.Do(func() { updated, setErr = a.setHotkey(b.ID, combo) }); err != nil {
			return
		}

		switch {
		case errors.Is(setErr, binding.ErrRecordingCanceled):
			log.Printf("Recording for '%s' canceled.", b.AppName())
			return
		case setErr == nil:
			log.Printf("Hotkey for '%s' set to %s", updated.AppName(), updated.DisplayString())
			a.notify(ui.LevelInfo, "Hotkey Updated", fmt.Sprintf("%s: %s", updated.AppName(), updated.DisplayString()))
			return
		case errors.Is(setErr, hotkey.ErrRegistrationConflict), errors.Is(setErr, hotkey.ErrUnsupportedKey):
			a.notify(ui.LevelWarn, "Hotkey Inactive",
				fmt.Sprintf("%s was saved for '%s' but could not be registered: %v", updated.DisplayString(), updated.AppName(), setErr))
			return
		case errors.Is(setErr, config.ErrPersistence):
			a.notify(ui.LevelError, "Save Error", setErr.Error())
			return
		default:
			// Invalid input: show why and ask again.
			a.dialogs.ShowError("Edit Hotkey", setErr.Error())
			current = combo
		}
	}
}

func (a *Application) onRemoveApp() {
	b, ok := a.chooseBinding("Remove App", "Select the app to remove:")
	if !ok {
		return
	}
	confirmed, err := a.dialogs.ConfirmRemove(b.AppName())
	if err != nil {
		log.Printf("Error showing confirmation dialog: %v", err)
		return
	}
	if !confirmed {
		log.Printf("Removal of '%s' canceled by user.", b.AppName())
		return
	}

	var removeErr error
	if err := a.loop.Do(func() { removeErr = a.removeApp(b.ID) }); err != nil {
		return
	}
	if removeErr != nil {
		a.notify(ui.LevelError, "Save Error", removeErr.Error())
		return
	}
	a.notify(ui.LevelInfo, "App Removed", fmt.Sprintf("'%s' has been removed.", b.AppName()))
}

func (a *Application) chooseBinding(action, prompt string) (binding.Binding, bool) {
	var bindings []binding.Binding
	var items []string
	if err := a.loop.Do(func() {
		bindings = a.store.Sorted()
		if len(bindings) > 0 {
			items = strings.Split(strings.TrimSuffix(formatListing(bindings, a.isActive), "\n"), "\n")
		}
	}); err != nil {
		return binding.Binding{}, false
	}
	if len(bindings) == 0 {
		a.dialogs.ShowInfo(action, "No apps configured yet. Use 'Add App...' to add one.")
		return binding.Binding{}, false
	}

	idx, err := a.dialogs.ChooseItem(action, prompt, items)
	if err != nil {
		if !errors.Is(err, ui.ErrDialogCanceled) {
			log.Printf("Error getting selection via zenity list: %v", err)
		}
		return binding.Binding{}, false
	}
	return bindings[idx], true
}

func (a *Application) onViewLastChange() {
	a.diffMu.Lock()
	before, after := a.lastBefore, a.lastAfter
	a.diffMu.Unlock()
	if before == "" && after == "" {
		a.notify(ui.LevelInfo, "View Changes", "No reload has changed the hotkeys yet.")
		return
	}
	ui.ShowDiffViewer(before, after, 3)
}

func (a *Application) onOpenConfigFile() {
	path := a.persister.Path()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Write the current list so there is something to edit.
		var saveErr error
		_ = a.loop.Do(func() { saveErr = a.persister.Save(a.store.All()) })
		if saveErr != nil {
			a.notify(ui.LevelWarn, "Error Opening File", fmt.Sprintf("Could not create %s: %v", path, saveErr))
			return
		}
	}
	if err := launcher.OpenFile(path); err != nil {
		a.notify(ui.LevelWarn, "Error Opening File", fmt.Sprintf("Could not open config file '%s': %v", path, err))
	}
}

func (a *Application) onReloadConfig() {
	log.Println("Reloading configuration...")
	a.loop.Post(func() {
		a.reloadSettings()
		a.reload(true)
	})
}

// reloadSettings re-reads the settings file. Runs on the loop.
func (a *Application) reloadSettings() {
	s, err := config.LoadSettings(a.settings.GetSettingsPath())
	if err != nil {
		log.Printf("Warning: Failed to reload settings: %v", err)
		return
	}
	a.settings = s
	a.applySettings()
}

func (a *Application) applySettings() {
	if a.notifier != nil {
		a.notifier.SetPreferences(a.settings.UseNotifications, a.settings.NotifyOnLaunch)
	}
	if a.tray != nil {
		a.tray.SetNotifyOnLaunch(a.settings.NotifyOnLaunch)
	}
}

// setNotifyOnLaunch changes and saves the launch notification switch.
// Runs on the loop.
func (a *Application) setNotifyOnLaunch(enabled bool) error {
	a.settings.NotifyOnLaunch = enabled
	a.applySettings()
	if err := a.settings.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (a *Application) onToggleNotifyOnLaunch(enabled bool) {
	var saveErr error
	if err := a.loop.Do(func() { saveErr = a.setNotifyOnLaunch(enabled) }); err != nil {
		return
	}
	if saveErr != nil {
		a.notify(ui.LevelWarn, "Settings Not Saved", saveErr.Error())
	}
}

func (a *Application) onRestartApplication() {
	ui.RestartApplication(a.releaseHotkeys)
}

// onQuit is called when the quit menu item is clicked
func (a *Application) onQuit() {
	log.Println("Quit requested. Unregistering hotkeys.")
	a.releaseHotkeys()
}
