//go:build !windows

package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"github.com/dixieflatline76/Realist/pkg/imageio"
)

type uriTarget struct {
	fyne.URIWriteCloser
}

func (t uriTarget) Name() string {
	return t.URI().Path()
}

// pickImage shows the file open dialog limited to supported images.
func (ra *RealistApp) pickImage(onPicked func(path string)) {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			ra.showError(err)
			return
		}
		if r == nil {
			return
		}
		path := r.URI().Path()
		r.Close()
		onPicked(path)
	}, ra.window)
	d.SetFilter(storage.NewExtensionFileFilter(imageio.Extensions))
	d.Show()
}

// saveFile shows the file save dialog proposing name and hands the destination to write.
func (ra *RealistApp) saveFile(name string, write func(exportTarget) error) {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			ra.showError(err)
			return
		}
		if w == nil {
			return
		}
		if err := write(uriTarget{w}); err != nil {
			ra.showError(err)
		}
	}, ra.window)
	d.SetFileName(name)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	d.Show()
}
