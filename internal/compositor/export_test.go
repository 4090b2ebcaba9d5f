package compositor

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/koios/mockup-renderer/pkg/models"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatPNG, false},
		{"png", FormatPNG, false},
		{".PNG", FormatPNG, false},
		{"jpg", FormatJPEG, false},
		{"jpeg", FormatJPEG, false},
		{"webp", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestEncode(t *testing.T) {
	d := loadDevice(t, "iphone-17")

	t.Run("png keeps transparency", func(t *testing.T) {
		res := render(t, generatedRequest(d, d.DefaultColor(), nil, models.Transparent(), 0.25))
		var buf bytes.Buffer
		if err := Encode(&buf, res.Image, FormatPNG); err != nil {
			t.Fatalf("Encode() error: %v", err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			t.Fatalf("png.Decode() error: %v", err)
		}
		if img.Bounds() != image.Rect(0, 0, 378, 730) {
			t.Errorf("bounds = %v", img.Bounds())
		}
		if _, _, _, a := img.At(5, 5).RGBA(); a != 0 {
			t.Errorf("padding alpha = %d, want 0", a)
		}
	})

	t.Run("jpeg rejects transparency", func(t *testing.T) {
		res := render(t, generatedRequest(d, d.DefaultColor(), nil, models.Transparent(), 0.25))
		var buf bytes.Buffer
		if err := Encode(&buf, res.Image, FormatJPEG); !errors.Is(err, ErrNeedsOpaque) {
			t.Errorf("Encode() error = %v, want ErrNeedsOpaque", err)
		}
	})

	t.Run("jpeg with opaque background", func(t *testing.T) {
		res := render(t, generatedRequest(d, d.DefaultColor(), nil, models.Opaque(white), 0.25))
		var buf bytes.Buffer
		if err := Encode(&buf, res.Image, FormatJPEG); err != nil {
			t.Fatalf("Encode() error: %v", err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte{0xff, 0xd8}) {
			t.Error("output is not a JPEG")
		}
	})
}

func TestClipboard(t *testing.T) {
	d := loadDevice(t, "iphone-air")
	res := render(t, generatedRequest(d, d.Colors[3], nil, models.Opaque(white), 0.25))

	item, err := Clipboard(res)
	if err != nil {
		t.Fatalf("Clipboard() error: %v", err)
	}
	if item.MIME != "image/png" {
		t.Errorf("MIME = %q, want image/png", item.MIME)
	}
	if !bytes.HasPrefix(item.Data, []byte("\x89PNG")) {
		t.Error("clipboard data is not a PNG")
	}

	if got := Filename(res, FormatPNG); got != "mockup-iphone-air-sky-blue.png" {
		t.Errorf("Filename() = %q", got)
	}

	if _, err := Clipboard(nil); err == nil {
		t.Error("Clipboard(nil) should fail")
	}
}
