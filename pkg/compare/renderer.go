package compare

import (
	"image"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
)

const (
	dividerWidth = 2
	knobSize     = 32
	knobIconSize = 20
	tagPadding   = 12
	tagInset     = 6
	tagTextSize  = 11
)

var (
	dividerColor   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	knobStroke     = color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	lightTagFill   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xe6}
	lightTagText   = color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
	darkTagFill    = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xcc}
	darkTagText    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	emptyRasterImg = image.NewNRGBA(image.Rect(0, 0, 1, 1))
)

// tag is a fixed corner label.
type tag struct {
	bg   *canvas.Rectangle
	text *canvas.Text
}

func newTag(fill, ink color.Color) *tag {
	bg := canvas.NewRectangle(fill)
	bg.CornerRadius = 4
	text := canvas.NewText("", ink)
	text.TextSize = tagTextSize
	text.TextStyle = fyne.TextStyle{Bold: true}
	return &tag{bg: bg, text: text}
}

func (t *tag) setText(s string) {
	t.text.Text = strings.ToUpper(s)
	t.bg.Hidden = s == ""
	t.text.Hidden = s == ""
}

func (t *tag) size() fyne.Size {
	ts := t.text.MinSize()
	return fyne.NewSize(ts.Width+2*tagInset*1.5, ts.Height+tagInset)
}

func (t *tag) place(pos fyne.Position) {
	sz := t.size()
	t.bg.Move(pos)
	t.bg.Resize(sz)
	ts := t.text.MinSize()
	t.text.Move(pos.Add(fyne.NewPos((sz.Width-ts.Width)/2, (sz.Height-ts.Height)/2)))
	t.text.Resize(ts)
}

type sliderRenderer struct {
	slider *Slider

	base       *canvas.Raster
	overlay    *canvas.Raster
	divider    *canvas.Rectangle
	knob       *canvas.Circle
	knobIcon   *canvas.Image
	overlayTag *tag
	baseTag    *tag

	objects []fyne.CanvasObject
	version uint64
}

func newSliderRenderer(s *Slider) *sliderRenderer {
	s.tracker.Attach(s.hub)
	r := &sliderRenderer{slider: s, version: s.currentVersion()}

	r.base = canvas.NewRaster(func(w, h int) image.Image {
		return s.base.render(w, h)
	})
	r.overlay = canvas.NewRaster(r.overlayImage)

	r.divider = canvas.NewRectangle(dividerColor)
	r.knob = canvas.NewCircle(dividerColor)
	r.knob.StrokeColor = knobStroke
	r.knob.StrokeWidth = 1
	r.knobIcon = canvas.NewImageFromResource(theme.MoreHorizontalIcon())
	r.knobIcon.FillMode = canvas.ImageFillContain

	r.overlayTag = newTag(lightTagFill, lightTagText)
	r.baseTag = newTag(darkTagFill, darkTagText)

	r.objects = []fyne.CanvasObject{
		r.base,
		r.overlay,
		r.divider,
		r.knob,
		r.knobIcon,
		r.overlayTag.bg, r.overlayTag.text,
		r.baseTag.bg, r.baseTag.text,
	}
	r.syncLabels()
	return r
}

// overlayImage draws the overlay at the slider's full pixel width and hands back the
// left w pixels, so the clip reveals the image instead of squeezing it.
func (r *sliderRenderer) overlayImage(w, h int) image.Image {
	full := r.slider.overlayPixelWidth(h)
	if full <= 0 || w <= 0 || h <= 0 {
		return emptyRasterImg
	}
	img := r.slider.overlay.render(full, h)
	return img.SubImage(image.Rect(0, 0, min(w, full), h))
}

func (r *sliderRenderer) Layout(size fyne.Size) {
	r.slider.measure(size)

	split := size.Width * float32(r.slider.Split()/100)

	r.base.Move(fyne.NewPos(0, 0))
	r.base.Resize(size)

	r.overlay.Move(fyne.NewPos(0, 0))
	r.overlay.Resize(fyne.NewSize(split, size.Height))
	r.overlay.Hidden = split <= 0

	r.divider.Move(fyne.NewPos(split-dividerWidth/2, 0))
	r.divider.Resize(fyne.NewSize(dividerWidth, size.Height))

	knobPos := fyne.NewPos(split-knobSize/2, (size.Height-knobSize)/2)
	r.knob.Move(knobPos)
	r.knob.Resize(fyne.NewSize(knobSize, knobSize))
	iconOffset := float32(knobSize-knobIconSize) / 2
	r.knobIcon.Move(knobPos.Add(fyne.NewPos(iconOffset, iconOffset)))
	r.knobIcon.Resize(fyne.NewSize(knobIconSize, knobIconSize))

	r.overlayTag.place(fyne.NewPos(tagPadding, tagPadding))
	r.baseTag.place(fyne.NewPos(size.Width-r.baseTag.size().Width-tagPadding, tagPadding))
}

func (r *sliderRenderer) MinSize() fyne.Size {
	return fyne.NewSize(160, 90)
}

func (r *sliderRenderer) Refresh() {
	r.syncLabels()
	r.Layout(r.slider.Size())

	if v := r.slider.currentVersion(); v != r.version {
		r.version = v
		r.base.Refresh()
	}
	r.overlay.Refresh()
	canvas.Refresh(r.divider)
	canvas.Refresh(r.knob)
	canvas.Refresh(r.knobIcon)
}

func (r *sliderRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy runs when fyne discards the renderer. A later renderer subscribes again.
func (r *sliderRenderer) Destroy() {
	r.slider.Release()
}

func (r *sliderRenderer) syncLabels() {
	r.overlayTag.setText(r.slider.OverlayLabel)
	r.baseTag.setText(r.slider.BaseLabel)
	r.overlayTag.text.Refresh()
	r.baseTag.text.Refresh()
}
