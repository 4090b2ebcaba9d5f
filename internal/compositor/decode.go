package compositor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/koios/mockup-renderer/pkg/models"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	sourceScreenshot = "screenshot"
	sourceFrame      = "frame"
)

// decodeRaster decodes any registered raster format. EXIF orientation is
// applied so phone photos come out upright.
func decodeRaster(source string, data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &models.DecodeError{Source: source, Err: err}
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &models.DecodeError{Source: source, Err: fmt.Errorf("empty image %v", b)}
	}
	return img, nil
}

// IsSVG reports whether data looks like an SVG document
func IsSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	head = bytes.TrimSpace(head)
	return bytes.HasPrefix(head, []byte("<svg")) ||
		(bytes.HasPrefix(head, []byte("<?xml")) && bytes.Contains(head, []byte("<svg")))
}

// decodeFrame rasterizes an imported frame at exactly w×h. Raster frames are
// stretched with Lanczos resampling and SVG frames are mapped from their
// viewBox onto the target.
func decodeFrame(data []byte, w, h int) (image.Image, error) {
	if IsSVG(data) {
		return rasterizeSVG(data, w, h)
	}

	img, err := decodeRaster(sourceFrame, data)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() == w && b.Dy() == h {
		return img, nil
	}
	return imaging.Resize(img, w, h, imaging.Lanczos), nil
}

func rasterizeSVG(data []byte, w, h int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, &models.DecodeError{Source: sourceFrame, Err: err}
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, &models.DecodeError{Source: sourceFrame, Err: fmt.Errorf("svg has no viewBox")}
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return dst, nil
}

// FrameSize decodes an imported frame in full and reports its pixel size, so
// truncated files are caught before they are stored. SVG frames report their
// viewBox size.
func FrameSize(data []byte) (int, int, error) {
	if IsSVG(data) {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
		if err != nil {
			return 0, 0, &models.DecodeError{Source: sourceFrame, Err: err}
		}
		if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
			return 0, 0, &models.DecodeError{Source: sourceFrame, Err: fmt.Errorf("svg has no viewBox")}
		}
		return int(icon.ViewBox.W + 0.5), int(icon.ViewBox.H + 0.5), nil
	}

	img, err := decodeRaster(sourceFrame, data)
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}
