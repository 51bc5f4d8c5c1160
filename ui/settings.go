package ui

import (
	"fmt"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/validation"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/dixieflatline76/Realist/config"
	"github.com/dixieflatline76/Realist/util/log"
)

// apiKeyPattern matches an empty entry (removes the key) or a Google AI Studio key.
const apiKeyPattern = `^$|^AIza[0-9A-Za-z_\-]{35}$`

// settingsManager collects pending setting changes and applies them together.
type settingsManager struct {
	chgPrefsCallbacks map[string]func() error
	applyButton       *widget.Button
	window            fyne.Window
	onApplied         func()
}

func newSettingsManager(window fyne.Window, onApplied func()) *settingsManager {
	sm := &settingsManager{
		chgPrefsCallbacks: make(map[string]func() error),
		window:            window,
		onApplied:         onApplied,
	}
	sm.applyButton = widget.NewButton("Apply Changes", sm.apply)
	sm.applyButton.Importance = widget.HighImportance
	sm.applyButton.Disable()
	return sm
}

func (sm *settingsManager) apply() {
	sm.applyButton.Disable()
	var failed []error
	for name, callback := range sm.chgPrefsCallbacks {
		if err := callback(); err != nil {
			log.Printf("Failed to apply %s: %v", name, err)
			failed = append(failed, fmt.Errorf("%s: %w", name, err))
			continue
		}
		delete(sm.chgPrefsCallbacks, name)
	}
	if len(failed) > 0 {
		dialog.ShowError(failed[0], sm.window)
	}
	if sm.onApplied != nil {
		sm.onApplied()
	}
	sm.checkAndEnableApply()
}

func (sm *settingsManager) setChanged(name string, callback func() error) {
	sm.chgPrefsCallbacks[name] = callback
	sm.checkAndEnableApply()
}

func (sm *settingsManager) unsetChanged(name string) {
	delete(sm.chgPrefsCallbacks, name)
	sm.checkAndEnableApply()
}

func (sm *settingsManager) checkAndEnableApply() {
	if len(sm.chgPrefsCallbacks) > 0 {
		sm.applyButton.Enable()
	} else {
		sm.applyButton.Disable()
	}
}

// createSelectSetting adds a select row; apply runs with the chosen option.
func (sm *settingsManager) createSelectSetting(name, title, help string, options []string, initial string, apply func(string) error, header *fyne.Container) *widget.Select {
	sel := widget.NewSelect(options, nil)
	sel.SetSelected(initial)
	sel.OnChanged = func(s string) {
		if s == initial {
			sm.unsetChanged(name)
			return
		}
		sm.setChanged(name, func() error {
			if err := apply(s); err != nil {
				return err
			}
			initial = s
			return nil
		})
	}

	header.Add(NewSplitRow(CreateSettingTitleLabel(title), sel, 1.0/3))
	header.Add(CreateSettingDescriptionLabel(help))
	return sel
}

// createBoolSetting adds a check row; apply runs with the new value.
func (sm *settingsManager) createBoolSetting(name, title, help string, initial bool, apply func(bool) error, header *fyne.Container) *widget.Check {
	check := widget.NewCheck("", nil)
	check.SetChecked(initial)
	check.OnChanged = func(b bool) {
		if b == initial {
			sm.unsetChanged(name)
			return
		}
		sm.setChanged(name, func() error {
			if err := apply(b); err != nil {
				return err
			}
			initial = b
			return nil
		})
	}

	header.Add(NewSplitRow(CreateSettingTitleLabel(title), check, 1.0/3))
	header.Add(CreateSettingDescriptionLabel(help))
	return check
}

// createSecretSetting adds a password entry validated by validator. Invalid input is never
// applied.
func (sm *settingsManager) createSecretSetting(name, title, help, placeholder string, initial string, validator fyne.StringValidator, apply func(string) error, header *fyne.Container) *widget.Entry {
	entry := widget.NewPasswordEntry()
	entry.SetPlaceHolder(placeholder)
	entry.SetText(initial)
	entry.Validator = validator
	status := widget.NewLabel("")

	entry.OnChanged = func(s string) {
		if err := entry.Validate(); err != nil {
			status.SetText(err.Error())
			status.Importance = widget.DangerImportance
			status.Refresh()
			sm.unsetChanged(name)
			return
		}
		status.SetText(fmt.Sprintf("%s OK", title))
		status.Importance = widget.SuccessImportance
		status.Refresh()
		if s == initial {
			sm.unsetChanged(name)
			return
		}
		sm.setChanged(name, func() error {
			if err := apply(s); err != nil {
				return err
			}
			initial = s
			return nil
		})
	}

	header.Add(NewSplitRow(CreateSettingTitleLabel(title), entry, 1.0/3))
	header.Add(NewSplitRow(CreateSettingDescriptionLabel(help), status, 2.0/3))
	return entry
}

// createSettingsContent builds the settings form bound to cfg.
func createSettingsContent(cfg *config.AppConfig, sm *settingsManager) fyne.CanvasObject {
	header := container.NewVBox()

	header.Add(CreateSectionTitleLabel("Enhancement"))
	sm.createSecretSetting("api_key", "Gemini API Key", "Stored in your system keyring. Leave empty to remove it.",
		"AIza...", cfg.GetAPIKey(),
		validation.NewRegexp(apiKeyPattern, "Gemini API keys start with AIza and are 39 characters long"),
		cfg.SetAPIKey, header)

	models := config.Models
	if current := cfg.GetModel(); !slices.Contains(models, current) {
		models = append(slices.Clone(models), current)
	}
	sm.createSelectSetting("model", "Model", "The image model used for new enhancements. Takes effect after restart.",
		models, cfg.GetModel(), func(s string) error {
			cfg.SetModel(s)
			return nil
		}, header)

	header.Add(widget.NewSeparator())
	header.Add(CreateSectionTitleLabel("Application"))
	sm.createBoolSetting("update_check", "Check for Updates", "Look for a newer release when the application starts.",
		cfg.GetUpdateCheckEnabled(), func(b bool) error {
			cfg.SetUpdateCheckEnabled(b)
			return nil
		}, header)
	sm.createBoolSetting("api_server", "Local API", fmt.Sprintf("Serve the session on %s for scripts and plugins. Takes effect after restart.", config.DefaultAPIAddr),
		cfg.GetAPIServerEnabled(), func(b bool) error {
			cfg.SetAPIServerEnabled(b)
			return nil
		}, header)

	footer := container.NewVBox(widget.NewSeparator(), container.NewHBox(layout.NewSpacer(), sm.applyButton))
	return container.NewBorder(nil, footer, nil, nil, container.NewVScroll(header))
}

// ShowSettings opens the settings window.
func (ra *RealistApp) ShowSettings() {
	if ra.settingsWindow != nil {
		ra.settingsWindow.RequestFocus()
		return
	}
	w := ra.app.NewWindow(fmt.Sprintf("%s Settings", config.AppName))
	w.Resize(fyne.NewSize(720, 480))
	sm := newSettingsManager(w, func() {
		log.Print("Settings applied")
	})
	w.SetContent(createSettingsContent(ra.cfg, sm))
	w.SetOnClosed(func() { ra.settingsWindow = nil })
	ra.settingsWindow = w
	w.Show()
}
