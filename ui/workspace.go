package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dixieflatline76/Realist/pkg/compare"
	"github.com/dixieflatline76/Realist/pkg/enhance"
	"github.com/dixieflatline76/Realist/pkg/session"
)

// actionBar holds the interactive widgets of the current render.
type actionBar struct {
	choose  *widget.Button
	enhance *widget.Button
	export  *widget.Button
	mode    *widget.Button
	filters map[string]*widget.Button
	errCard fyne.CanvasObject
	dismiss *widget.Button
	status  *widget.Label
}

func (ra *RealistApp) createWorkspace(st session.State) fyne.CanvasObject {
	bottom := container.NewVBox()
	if st.Status == session.StatusError && st.Message != "" && !ra.errorDismissed {
		ra.actions.errCard, ra.actions.dismiss = newErrorCard(st.Message, func() {
			ra.errorDismissed = true
			ra.render(ra.shown)
		})
		bottom.Add(ra.actions.errCard)
	}
	bottom.Add(ra.createActionBar(st))

	var controls fyne.CanvasObject
	if st.HasProcessed() {
		controls = ra.createControls(st)
	}
	return container.NewBorder(nil, bottom, nil, controls, ra.createViewer(st))
}

// createViewer shows the comparison slider once a result exists and the plain original
// before that, covered while a request runs.
func (ra *RealistApp) createViewer(st session.State) fyne.CanvasObject {
	var view fyne.CanvasObject
	if ra.slider != nil {
		view = ra.slider
	} else {
		img := canvas.NewImageFromImage(st.Original.Image)
		img.FillMode = canvas.ImageFillContain
		img.ScaleMode = canvas.ImageScaleSmooth
		view = img
	}
	if st.Status == session.StatusProcessing {
		view = container.NewStack(view, newProcessingOverlay(st.Message))
	}
	return container.NewPadded(compare.NewAspectContainer(compare.WideAspect, view))
}

func newProcessingOverlay(message string) fyne.CanvasObject {
	shade := canvas.NewRectangle(withAlpha(theme.Color(theme.ColorNameBackground), 0xb0))
	progress := widget.NewProgressBarInfinite()
	label := widget.NewLabelWithStyle(message, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	box := container.NewVBox(label, progress)
	return container.NewStack(shade, container.NewCenter(container.NewGridWrap(fyne.NewSize(320, box.MinSize().Height), box)))
}

func (ra *RealistApp) createActionBar(st session.State) fyne.CanvasObject {
	busy := st.Status == session.StatusProcessing

	choose := widget.NewButtonWithIcon("Choose Another", theme.FolderOpenIcon(), ra.chooseImage)
	ra.actions.choose = choose

	status := widget.NewLabel(ra.statusText(st))
	status.Importance = widget.LowImportance
	ra.actions.status = status

	var primary *widget.Button
	if st.HasProcessed() {
		primary = widget.NewButtonWithIcon("Export", theme.DownloadIcon(), ra.export)
		ra.actions.export = primary
	} else {
		primary = widget.NewButtonWithIcon("Enhance", theme.MediaPlayIcon(), func() {
			ra.enhance(enhance.ModeStrict)
		})
		ra.actions.enhance = primary
	}
	primary.Importance = widget.HighImportance
	if busy {
		primary.Disable()
	}

	return container.NewHBox(choose, status, layout.NewSpacer(), primary)
}

func (ra *RealistApp) statusText(st session.State) string {
	switch st.Status {
	case session.StatusProcessing:
		return st.Message
	case session.StatusSuccess:
		if p, err := ra.session.Prompts().For(st.Mode); err == nil {
			return p.Label
		}
	}
	w, h := st.Original.Size()
	return fmt.Sprintf("%d x %d px", w, h)
}
