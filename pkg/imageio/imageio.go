// Package imageio moves pictures between bytes, data URLs, files and image.Image.
package imageio

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder
)

// MIME types a Picture can carry.
const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMEWebP = "image/webp"
	MIMEBMP  = "image/bmp"
	MIMETIFF = "image/tiff"
)

// MaxFileSize is the largest file ReadFile accepts.
const MaxFileSize = 32 << 20

// MaxPixels is the largest width times height Decode accepts.
const MaxPixels = 8192 * 8192

var (
	// ErrUnsupportedType is returned for content that is not a supported image.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrInvalidDataURL is returned for malformed data URLs.
	ErrInvalidDataURL = errors.New("invalid data URL")
	// ErrTooLarge is returned for files over MaxFileSize.
	ErrTooLarge = errors.New("image file too large")
	// ErrTooManyPixels is returned for images whose dimensions exceed MaxPixels.
	ErrTooManyPixels = errors.New("image dimensions too large")
)

var formatMIME = map[string]string{
	"png":  MIMEPNG,
	"jpeg": MIMEJPEG,
	"webp": MIMEWebP,
	"bmp":  MIMEBMP,
	"tiff": MIMETIFF,
}

// Picture is an encoded image together with its decoded form.
type Picture struct {
	Data     []byte
	MIMEType string
	Image    image.Image
}

// Size returns the pixel dimensions.
func (p *Picture) Size() (int, int) {
	if p == nil || p.Image == nil {
		return 0, 0
	}
	b := p.Image.Bounds()
	return b.Dx(), b.Dy()
}

// DataURL returns the picture as a base64 data URL.
func (p *Picture) DataURL() string {
	return ToDataURL(p.Data, p.MIMEType)
}

// Decode decodes data. contentType is a hint; the format is sniffed from the bytes and the
// sniffed type wins.
func Decode(data []byte, contentType string) (*Picture, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decoding image: %w", ErrUnsupportedType)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image (%s): %w", contentTypeOrSniff(contentType, data), errors.Join(ErrUnsupportedType, err))
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("decoding %dx%d image: %w", cfg.Width, cfg.Height, ErrTooManyPixels)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image (%s): %w", contentTypeOrSniff(contentType, data), errors.Join(ErrUnsupportedType, err))
	}
	mimeType, ok := formatMIME[format]
	if !ok {
		return nil, fmt.Errorf("decoding image format %q: %w", format, ErrUnsupportedType)
	}
	return &Picture{Data: data, MIMEType: mimeType, Image: img}, nil
}

// FromImage encodes img in the given type and wraps both forms in a Picture.
func FromImage(img image.Image, mimeType string) (*Picture, error) {
	data, err := Encode(img, mimeType)
	if err != nil {
		return nil, err
	}
	return &Picture{Data: data, MIMEType: mimeType, Image: img}, nil
}

// Encode encodes img as PNG or JPEG.
func Encode(img image.Image, mimeType string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch mimeType {
	case MIMEPNG:
		err = png.Encode(&buf, img)
	case MIMEJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	default:
		return nil, fmt.Errorf("encoding %s: %w", mimeType, ErrUnsupportedType)
	}

	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

// ToDataURL formats data as a base64 data URL.
func ToDataURL(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL splits a base64 data URL into its payload and MIME type.
func ParseDataURL(url string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURL)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing payload", ErrInvalidDataURL)
	}
	mimeType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return nil, "", fmt.Errorf("%w: payload is not base64", ErrInvalidDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return data, mimeType, nil
}

// FromDataURL decodes a base64 data URL.
func FromDataURL(url string) (*Picture, error) {
	data, mimeType, err := ParseDataURL(url)
	if err != nil {
		return nil, err
	}
	return Decode(data, mimeType)
}

// ReadFile reads and decodes an image file.
func ReadFile(path string) (*Picture, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), ErrTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return Decode(data, mime.TypeByExtension(strings.ToLower(filepath.Ext(path))))
}

// Extensions lists the file extensions Decode understands.
var Extensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tif", ".tiff"}

// IsImageFile reports whether path has an extension Decode understands.
func IsImageFile(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// Thumbnail crops img to the most interesting w x h region and scales it down.
func Thumbnail(img image.Image, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("thumbnail size %dx%d", w, h)
	}
	analyzer := smartcrop.NewAnalyzer(&resizer{resampler: imaging.Linear})
	crop, err := analyzer.FindBestCrop(img, w, h)
	if err != nil {
		return nil, fmt.Errorf("finding best crop: %w", err)
	}
	return imaging.Resize(imaging.Crop(img, crop), w, h, imaging.Lanczos), nil
}

func contentTypeOrSniff(contentType string, data []byte) string {
	if contentType != "" {
		return contentType
	}
	return http.DetectContentType(data)
}

type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}
