package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

func newWrappedLabel(desc string, importance widget.Importance, style fyne.TextStyle) *widget.Label {
	label := widget.NewLabel(desc)
	label.Wrapping = fyne.TextWrapWord
	label.Importance = importance
	label.TextStyle = style
	return label
}

// CreateSectionTitleLabel creates a label for a section title
func CreateSectionTitleLabel(desc string) *widget.Label {
	return newWrappedLabel(desc, widget.HighImportance, fyne.TextStyle{Bold: true})
}

// CreateSettingTitleLabel creates a label for a setting title
func CreateSettingTitleLabel(desc string) *widget.Label {
	return newWrappedLabel(desc, widget.MediumImportance, fyne.TextStyle{Bold: true})
}

// CreateSettingDescriptionLabel creates a label for a setting description
func CreateSettingDescriptionLabel(desc string) *widget.Label {
	return newWrappedLabel(desc, widget.LowImportance, fyne.TextStyle{Italic: true})
}

// newErrorCard shows message on a tinted card with a dismiss button.
func newErrorCard(message string, onDismiss func()) (fyne.CanvasObject, *widget.Button) {
	bg := canvas.NewRectangle(theme.Color(theme.ColorNameError))
	bg.CornerRadius = theme.InputRadiusSize()
	bg.FillColor = withAlpha(bg.FillColor, 0x30)

	text := newWrappedLabel(message, widget.DangerImportance, fyne.TextStyle{})
	icon := widget.NewIcon(theme.ErrorIcon())
	dismiss := widget.NewButtonWithIcon("", theme.CancelIcon(), onDismiss)
	dismiss.Importance = widget.LowImportance

	row := container.NewBorder(nil, nil, icon, dismiss, text)
	return container.NewStack(bg, container.NewPadded(row)), dismiss
}
