package prescription

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
)

const (
	MaxUploadSize = 10 << 20
	MaxImageEdge  = 2000
	// MaxImagePixels bounds the decoded size of an upload. A small file can
	// declare huge dimensions.
	MaxImagePixels = 40_000_000

	webpQuality = 80
)

// Normalized is an upload ready for storage.
type Normalized struct {
	Body        []byte
	ContentType string
	Ext         string
}

// Normalize re-encodes images as WebP bounded to MaxImageEdge on the long
// side and passes PDFs through. Images declaring more than MaxImagePixels
// are refused before decoding. Anything else is rejected.
func Normalize(data []byte) (Normalized, error) {
	if len(data) > MaxUploadSize {
		return Normalized{}, httperr.ErrBusiness(httperr.CodeFileTooLarge)
	}

	mt := mimetype.Detect(data)
	switch {
	case mt.Is("application/pdf"):
		return Normalized{Body: data, ContentType: "application/pdf", Ext: "pdf"}, nil

	case mt.Is("image/jpeg"), mt.Is("image/png"), mt.Is("image/webp"):
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return Normalized{}, httperr.Wrap(httperr.CodeUnsupportedFileType, err)
		}
		if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
			return Normalized{}, httperr.ErrBusiness(httperr.CodeFileTooLarge)
		}

		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return Normalized{}, httperr.Wrap(httperr.CodeUnsupportedFileType, err)
		}

		var buf bytes.Buffer
		if err := webp.Encode(&buf, downscale(img, MaxImageEdge), &webp.Options{Quality: webpQuality}); err != nil {
			return Normalized{}, fmt.Errorf("encode webp: %w", err)
		}
		return Normalized{Body: buf.Bytes(), ContentType: "image/webp", Ext: "webp"}, nil
	}

	return Normalized{}, httperr.ErrBusiness(httperr.CodeUnsupportedFileType)
}

func downscale(src image.Image, edge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= edge && h <= edge {
		return src
	}

	if w >= h {
		h = h * edge / w
		w = edge
	} else {
		w = w * edge / h
		h = edge
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
