package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// createIntro is the empty state: a drop zone with a button for the file picker. Drops
// are handled by the window, so the zone only has to look like one.
func (ra *RealistApp) createIntro() fyne.CanvasObject {
	frame := canvas.NewRectangle(color.Transparent)
	frame.StrokeColor = theme.Color(theme.ColorNamePrimary)
	frame.StrokeWidth = 2
	frame.CornerRadius = 2 * theme.InputRadiusSize()

	icon := canvas.NewImageFromResource(theme.FileImageIcon())
	icon.FillMode = canvas.ImageFillContain
	icon.SetMinSize(fyne.NewSquareSize(64))

	title := widget.NewLabelWithStyle(introTitle, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	hint := widget.NewLabelWithStyle(introHint, fyne.TextAlignCenter, fyne.TextStyle{})
	hint.Wrapping = fyne.TextWrapWord
	hint.Importance = widget.LowImportance

	choose := widget.NewButtonWithIcon("Choose Image", theme.FolderOpenIcon(), ra.chooseImage)
	choose.Importance = widget.HighImportance
	ra.actions.choose = choose

	body := container.NewVBox(icon, title, hint, container.NewCenter(choose))
	zone := container.NewStack(frame, container.NewPadded(container.NewCenter(body)))
	return container.NewCenter(container.NewGridWrap(fyne.NewSize(560, 340), zone))
}
