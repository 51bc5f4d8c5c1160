package ui

import (
	"context"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dixieflatline76/Realist/pkg/enhance"
	"github.com/dixieflatline76/Realist/pkg/grade"
	"github.com/dixieflatline76/Realist/pkg/imageio"
	"github.com/dixieflatline76/Realist/pkg/session"
	"github.com/dixieflatline76/Realist/util/log"
)

const controlsWidth = 260

// createControls is the side panel shown with a result: mode switch, grades and export.
func (ra *RealistApp) createControls(st session.State) fyne.CanvasObject {
	busy := st.Status == session.StatusProcessing
	box := container.NewVBox()

	box.Add(CreateSectionTitleLabel("Mode"))
	var mode *widget.Button
	if st.Mode == enhance.ModeProps {
		mode = widget.NewButtonWithIcon("Revert to Strict", theme.ContentUndoIcon(), func() {
			ra.enhance(enhance.ModeStrict)
		})
	} else {
		mode = widget.NewButtonWithIcon("Regenerate with Props", theme.ViewRefreshIcon(), func() {
			ra.enhance(enhance.ModeProps)
		})
	}
	if busy {
		mode.Disable()
	}
	ra.actions.mode = mode
	box.Add(mode)
	box.Add(CreateSettingDescriptionLabel(propsHint))

	box.Add(widget.NewSeparator())
	box.Add(CreateSectionTitleLabel("Color Grade"))
	box.Add(ra.createFilterGrid(st, busy))

	box.Add(widget.NewSeparator())
	box.Add(CreateSettingDescriptionLabel(exportHint))

	sizer := canvas.NewRectangle(color.Transparent)
	sizer.SetMinSize(fyne.NewSize(controlsWidth, 0))
	return container.NewStack(sizer, container.NewVScroll(box))
}

func (ra *RealistApp) createFilterGrid(st session.State, busy bool) fyne.CanvasObject {
	thumbs := make(map[string]image.Image, len(ra.previews))
	for _, p := range ra.previews {
		thumbs[p.Filter.ID] = p.Image
	}

	ra.actions.filters = make(map[string]*widget.Button)
	grid := container.NewGridWithColumns(2)
	for _, f := range ra.session.Filters().Filters() {
		btn := widget.NewButton(f.Name, func() { ra.setFilter(f.ID) })
		if f.ID == st.Filter {
			btn.Importance = widget.HighImportance
		}
		if busy {
			btn.Disable()
		}
		ra.actions.filters[f.ID] = btn
		grid.Add(container.NewVBox(newSwatch(thumbs[f.ID]), btn))
	}
	return grid
}

func newSwatch(img image.Image) fyne.CanvasObject {
	size := fyne.NewSquareSize(previewSize)
	if img == nil {
		placeholder := canvas.NewRectangle(theme.Color(theme.ColorNameInputBackground))
		placeholder.SetMinSize(size)
		return placeholder
	}
	thumb := canvas.NewImageFromImage(img)
	thumb.FillMode = canvas.ImageFillContain
	thumb.SetMinSize(size)
	return thumb
}

// ensurePreviews renders the filter swatches for pic in the background. Results for a
// picture that is no longer shown are dropped.
func (ra *RealistApp) ensurePreviews(pic *imageio.Picture) {
	if ra.previewSrc == pic {
		return
	}
	ra.previewSrc = pic
	ra.previews = nil
	gen := ra.previewGen.Increment()
	filters := ra.session.Filters().Filters()

	go func() {
		previews, err := grade.Previews(context.Background(), pic.Image, filters, 2*previewSize, 2*previewSize)
		if err != nil {
			log.Printf("Failed to render filter previews: %v", err)
			return
		}
		fyne.Do(func() {
			if ra.previewGen.Value() != gen || ra.previewSrc != pic {
				return
			}
			ra.previews = previews
			ra.render(ra.shown)
		})
	}()
}
