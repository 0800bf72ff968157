package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// Kind is an image slot on an organisation profile.
type Kind string

const (
	KindLogo       Kind = "logo"
	KindCoverPhoto Kind = "cover_photo"
)

// JPEGQuality is the re-encode quality for every stored image.
const JPEGQuality = 85

// MaxPixels caps width*height before a full decode is attempted.
const MaxPixels = 40_000_000

type bounds struct {
	MinW, MinH int
	MaxW, MaxH int
}

var kindBounds = map[Kind]bounds{
	KindLogo:       {MinW: 100, MinH: 100, MaxW: 400, MaxH: 400},
	KindCoverPhoto: {MinW: 800, MinH: 400, MaxW: 1920, MaxH: 1080},
}

var allowedExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// Valid reports whether k is a known slot.
func (k Kind) Valid() bool {
	_, ok := kindBounds[k]
	return ok
}

// column is the org_profiles column holding the slot's object name.
func (k Kind) column() string {
	if k == KindLogo {
		return "org_logo_filename"
	}
	return "org_cover_photo_filename"
}

func allowedFile(filename string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}

// processImage decodes data, enforces the slot's minimum size, downscales to
// fit the maximum while keeping aspect, flattens transparency onto white and
// re-encodes as JPEG.
func processImage(data []byte, kind Kind) ([]byte, image.Point, error) {
	b, ok := kindBounds[kind]
	if !ok {
		return nil, image.Point{}, ErrUnknownKind
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, image.Point{}, ErrInvalidImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, image.Point{}, fmt.Errorf("%w: %dx%d exceeds %d pixels",
			ErrImageTooLarge, cfg.Width, cfg.Height, MaxPixels)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, image.Point{}, ErrInvalidImage
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w < b.MinW || h < b.MinH {
		return nil, image.Point{}, fmt.Errorf("%w: %s must be at least %dx%d pixels, got %dx%d",
			ErrImageTooSmall, kind, b.MinW, b.MinH, w, h)
	}

	tw, th := fitWithin(w, h, b.MaxW, b.MaxH)
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if tw == w && th == h {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, image.Point{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), image.Point{X: tw, Y: th}, nil
}

// fitWithin scales (w, h) down to fit (maxW, maxH) preserving aspect ratio.
// Images already inside the box are left alone.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	// Compare w/maxW against h/maxH without floats.
	if w*maxH >= h*maxW {
		nh := h * maxW / w
		if nh < 1 {
			nh = 1
		}
		return maxW, nh
	}
	nw := w * maxH / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxH
}
