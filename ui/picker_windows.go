//go:build windows

package ui

import (
	"errors"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"github.com/dixieflatline76/Realist/pkg/imageio"
	"github.com/harry1453/go-common-file-dialog/cfd"
	"github.com/harry1453/go-common-file-dialog/cfdutil"
)

func imagePattern() string {
	patterns := make([]string, len(imageio.Extensions))
	for i, ext := range imageio.Extensions {
		patterns[i] = "*" + ext
	}
	return strings.Join(patterns, ";")
}

// pickImage shows the native Windows open dialog. The dialog blocks, so it runs off the
// UI goroutine.
func (ra *RealistApp) pickImage(onPicked func(path string)) {
	go func() {
		path, err := cfdutil.ShowOpenFileDialog(cfd.DialogConfig{
			Title: "Open Rendering",
			Role:  "RealistOpenImage",
			FileFilters: []cfd.FileFilter{
				{DisplayName: "Images", Pattern: imagePattern()},
			},
		})
		fyne.Do(func() {
			switch {
			case errors.Is(err, cfd.ErrorCancelled):
			case err != nil:
				ra.showError(err)
			default:
				onPicked(path)
			}
		})
	}()
}

// saveFile shows the native Windows save dialog proposing name.
func (ra *RealistApp) saveFile(name string, write func(exportTarget) error) {
	go func() {
		path, err := cfdutil.ShowSaveFileDialog(cfd.DialogConfig{
			Title:            "Export Enhanced Image",
			Role:             "RealistExport",
			FileName:         name,
			DefaultExtension: "png",
			FileFilters: []cfd.FileFilter{
				{DisplayName: "PNG image", Pattern: "*.png"},
			},
		})
		fyne.Do(func() {
			switch {
			case errors.Is(err, cfd.ErrorCancelled):
				return
			case err != nil:
				ra.showError(err)
				return
			}
			f, err := os.Create(path)
			if err != nil {
				ra.showError(err)
				return
			}
			if err := write(f); err != nil {
				ra.showError(err)
			}
		})
	}()
}
