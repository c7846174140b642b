package staticmap

import (
	"image"
	"image/png"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/image/draw"
)

// Letter landscape at 300 DPI: 11 x 8.5 inches.
const (
	LetterWidthPx  = 3300
	LetterHeightPx = 2550
)

// ResizeLetter scales an image up to letter-landscape print resolution using
// Catmull-Rom interpolation.
func ResizeLetter(img image.Image) image.Image {
	return resize(img, LetterWidthPx, LetterHeightPx)
}

func resize(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// SavePNG writes an image to path as PNG.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "staticmap: create image file")
	}
	defer f.Close() //nolint:errcheck

	if err := png.Encode(f, img); err != nil {
		return eris.Wrap(err, "staticmap: encode png")
	}
	return nil
}
