package ui

import "time"

// Main window size on first start.
const (
	windowWidth  = 1180
	windowHeight = 860
)

// previewSize is the pixel edge of a filter swatch.
const previewSize = 96

// updateCheckTimeout bounds the release lookup on startup.
const updateCheckTimeout = 15 * time.Second

// updateLinkPrefix is the copy for the new release link in the header
const updateLinkPrefix = "Update to "

const (
	introTitle = "Turn renders into photographs"
	introHint  = "Drop an architectural rendering anywhere in this window or pick a file. PNG, JPEG, WebP, BMP and TIFF are supported."
	exportHint = "Export saves the enhanced image at full resolution with the selected color grade applied."
	propsHint  = "Props mode adds furniture, people and plants while keeping the architecture untouched."
)
