package compositor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/koios/mockup-renderer/pkg/models"
)

// Format is an export file format
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
)

// DefaultJPEGQuality is used by Encode for JPEG output
const DefaultJPEGQuality = 92

// ClipboardMIME is the only representation placed on the clipboard
const ClipboardMIME = "image/png"

// ErrNeedsOpaque is returned when a surface with transparent pixels is
// exported to a format without alpha
var ErrNeedsOpaque = errors.New("format does not support transparency")

// ParseFormat accepts png, jpg and jpeg in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Ext is the file extension without a dot
func (f Format) Ext() string { return string(f) }

// MIME is the media type of the format
func (f Format) MIME() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Encode writes img in format. JPEG output requires a fully opaque image.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		if err := imaging.Encode(w, img, imaging.PNG); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
		return nil
	case FormatJPEG:
		if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
			return ErrNeedsOpaque
		}
		if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(DefaultJPEGQuality)); err != nil {
			return fmt.Errorf("failed to encode jpeg: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// ClipboardItem is one typed clipboard representation
type ClipboardItem struct {
	MIME string
	Data []byte
}

// Clipboard encodes a render as the PNG clipboard representation
func Clipboard(result *models.RenderResult) (*ClipboardItem, error) {
	if result == nil || result.Image == nil {
		return nil, errors.New("nothing to copy")
	}
	var buf bytes.Buffer
	if err := Encode(&buf, result.Image, FormatPNG); err != nil {
		return nil, err
	}
	return &ClipboardItem{MIME: ClipboardMIME, Data: buf.Bytes()}, nil
}

// Filename is the download name for result in format
func Filename(result *models.RenderResult, format Format) string {
	return models.Filename(result.DeviceID, result.ColorName, format.Ext())
}
