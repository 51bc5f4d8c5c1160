package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dixieflatline76/Realist/config"
	"github.com/dixieflatline76/Realist/pkg/compare"
	"github.com/dixieflatline76/Realist/pkg/enhance"
	"github.com/dixieflatline76/Realist/pkg/grade"
	"github.com/dixieflatline76/Realist/pkg/imageio"
	"github.com/dixieflatline76/Realist/pkg/pointer"
	"github.com/dixieflatline76/Realist/pkg/session"
	"github.com/dixieflatline76/Realist/util"
	"github.com/dixieflatline76/Realist/util/log"
)

// RealistApp is the main window. It renders the session: the intro while nothing is
// loaded, the workspace afterwards.
type RealistApp struct {
	app            fyne.App
	window         fyne.Window
	settingsWindow fyne.Window
	cfg            *config.AppConfig
	session        *session.Session
	hub            *pointer.Hub
	surface        *pointer.Surface
	removeListener func()

	shown          session.State
	errorDismissed bool
	slider         *compare.Slider
	actions        actionBar

	previews   []grade.Preview
	previewSrc *imageio.Picture
	previewGen *util.SafeCounter

	update *util.CheckForUpdatesResult
}

// NewRealistApp creates the main window of a and binds it to sess.
func NewRealistApp(a fyne.App, cfg *config.AppConfig, sess *session.Session) *RealistApp {
	ra := &RealistApp{
		app:        a,
		cfg:        cfg,
		session:    sess,
		hub:        pointer.NewHub(),
		previewGen: util.NewSafeInt(),
	}

	ra.window = a.NewWindow(config.AppName)
	ra.window.Resize(fyne.NewSize(windowWidth, windowHeight))
	ra.surface = pointer.NewSurface(ra.hub, nil)
	ra.window.SetContent(ra.surface)
	ra.window.SetMainMenu(ra.createMainMenu())
	ra.window.SetOnDropped(ra.onDropped)
	ra.window.SetOnClosed(ra.close)
	ra.addShortcuts()

	ra.removeListener = sess.OnChange(func(st session.State) {
		fyne.Do(func() { ra.render(st) })
	})
	ra.render(sess.State())
	return ra
}

// Window returns the main window.
func (ra *RealistApp) Window() fyne.Window {
	return ra.window
}

// Run shows the window and runs the application until it quits.
func (ra *RealistApp) Run() {
	ra.window.ShowAndRun()
}

func (ra *RealistApp) close() {
	if ra.removeListener != nil {
		ra.removeListener()
		ra.removeListener = nil
	}
	if ra.slider != nil {
		ra.slider.Release()
		ra.slider = nil
	}
	if ra.settingsWindow != nil {
		ra.settingsWindow.Close()
	}
}

// render rebuilds the window content for st. The comparison slider lives across renders
// while a result exists so the divider keeps its position.
func (ra *RealistApp) render(st session.State) {
	prev := ra.shown
	ra.shown = st
	if prev.Status != st.Status || prev.Message != st.Message {
		ra.errorDismissed = false
	}
	ra.syncSlider(prev, st)
	if st.HasProcessed() {
		ra.ensurePreviews(st.Processed)
	} else {
		ra.previewSrc, ra.previews = nil, nil
	}

	ra.actions = actionBar{}
	var body fyne.CanvasObject
	if st.HasOriginal() {
		body = ra.createWorkspace(st)
	} else {
		body = ra.createIntro()
	}
	ra.surface.SetContent(container.NewBorder(ra.createHeader(), nil, nil, nil, body))
}

func (ra *RealistApp) syncSlider(prev, st session.State) {
	switch {
	case !st.HasProcessed():
		if ra.slider != nil {
			ra.slider.Release()
			ra.slider = nil
		}
		return
	case ra.slider == nil:
		ra.slider = compare.NewSlider(ra.hub, st.Processed.Image, st.Original.Image)
		ra.slider.BaseLabel = compare.EnhancedLabel(ra.session.Model())
	case prev.Processed != st.Processed || prev.Original != st.Original:
		ra.slider.SetImages(st.Processed.Image, st.Original.Image)
	case prev.Filter == st.Filter:
		return
	}
	f, _ := ra.session.Filters().Get(st.Filter)
	ra.slider.SetTransform(f.Transform())
}

func (ra *RealistApp) createHeader() fyne.CanvasObject {
	title := widget.NewLabelWithStyle(config.AppName, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	settings := widget.NewButtonWithIcon("", theme.SettingsIcon(), ra.ShowSettings)
	settings.Importance = widget.LowImportance

	row := container.NewHBox(title, layout.NewSpacer())
	if ra.update != nil && ra.update.UpdateAvailable {
		if link := newReleaseLink(ra.update); link != nil {
			row.Add(link)
		}
	}
	row.Add(settings)
	return container.NewVBox(row, widget.NewSeparator())
}

func (ra *RealistApp) createMainMenu() *fyne.MainMenu {
	open := fyne.NewMenuItem("Open Image...", ra.chooseImage)
	open.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}
	export := fyne.NewMenuItem("Export...", ra.export)
	export.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}
	startOver := fyne.NewMenuItem("Start Over", ra.session.Reset)
	settings := fyne.NewMenuItem("Settings...", ra.ShowSettings)

	return fyne.NewMainMenu(
		fyne.NewMenu("File", open, export, fyne.NewMenuItemSeparator(), startOver, fyne.NewMenuItemSeparator(), settings),
		fyne.NewMenu("Help", fyne.NewMenuItem("Check for Updates", func() {
			go ra.CheckForUpdates(context.Background(), true)
		})),
	)
}

func (ra *RealistApp) addShortcuts() {
	c := ra.window.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		ra.chooseImage()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		ra.export()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		ra.enhance(enhance.ModeStrict)
	})
}

// chooseImage opens the native picker and selects the chosen file.
func (ra *RealistApp) chooseImage() {
	ra.pickImage(ra.selectFile)
}

func (ra *RealistApp) selectFile(path string) {
	if err := ra.session.SelectFile(path); err != nil {
		log.Printf("Failed to open %s: %v", path, err)
		ra.showError(fmt.Errorf("could not open the image: %w", err))
	}
}

func (ra *RealistApp) onDropped(_ fyne.Position, uris []fyne.URI) {
	for _, u := range uris {
		if u.Scheme() == "file" && imageio.IsImageFile(u.Path()) {
			ra.selectFile(u.Path())
			return
		}
	}
	if len(uris) > 0 {
		ra.showError(errors.New("drop a PNG, JPEG, WebP, BMP or TIFF image"))
	}
}

// enhance starts a background enhancement in mode. Progress and failures arrive as
// session state.
func (ra *RealistApp) enhance(mode enhance.Mode) {
	if _, err := ra.session.Start(context.Background(), mode); err != nil {
		switch {
		case errors.Is(err, session.ErrBusy):
			log.Debugf("Enhancement already running")
		case errors.Is(err, session.ErrNoSource):
			ra.chooseImage()
		default:
			ra.showError(err)
		}
	}
}

func (ra *RealistApp) setFilter(id string) {
	if err := ra.session.SetFilter(id); err != nil {
		ra.showError(err)
	}
}

// exportTarget is a destination chosen in the save dialog.
type exportTarget interface {
	io.WriteCloser
	Name() string
}

// export asks for a destination and writes the graded result there.
func (ra *RealistApp) export() {
	if !ra.session.State().HasProcessed() {
		return
	}
	ra.saveFile(ra.session.ExportFileName(), func(w exportTarget) error {
		defer w.Close()
		if err := ra.session.Export(w); err != nil {
			return err
		}
		log.Printf("Exported %s", w.Name())
		return nil
	})
}

func (ra *RealistApp) showError(err error) {
	dialog.ShowError(err, ra.window)
}
