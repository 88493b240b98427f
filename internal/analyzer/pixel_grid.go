package analyzer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
)

// PixelGrid is an immutable width x height raster of RGB triples. Alpha is discarded.
type PixelGrid struct {
	width, height int
	pix           []RGB // row-major
}

// NewPixelGrid builds a grid from row-major pixels. len(pixels) must equal width*height.
func NewPixelGrid(width, height int, pixels []RGB) (*PixelGrid, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidImage, width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d grid", ErrInvalidImage, len(pixels), width, height)
	}
	pix := make([]RGB, len(pixels))
	copy(pix, pixels)
	return &PixelGrid{width: width, height: height, pix: pix}, nil
}

// Width returns the number of columns
func (g *PixelGrid) Width() int { return g.width }

// Height returns the number of rows
func (g *PixelGrid) Height() int { return g.height }

// At returns the pixel at column x, row y
func (g *PixelGrid) At(x, y int) RGB {
	return g.pix[y*g.width+x]
}

func (g *PixelGrid) row(y int) []RGB {
	return g.pix[y*g.width : (y+1)*g.width]
}

// MaxPixels bounds the declared width*height Decode accepts
const MaxPixels = 40_000_000

// Decode decodes a single-frame JPEG into a PixelGrid
func Decode(raw []byte) (*PixelGrid, error) {
	if len(raw) == 0 {
		return nil, &DecodeError{Cause: fmt.Errorf("empty input")}
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{Cause: err}
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, &DecodeError{Cause: fmt.Errorf("image dimensions %dx%d exceed %d pixels", cfg.Width, cfg.Height, MaxPixels)}
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{Cause: err}
	}
	return FromImage(img), nil
}

// FromImage resolves any image.Image into 8-bit RGB. Channels are read
// unpremultiplied, so a translucent pixel keeps its straight color.
func FromImage(img image.Image) *PixelGrid {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return &PixelGrid{width: max(width, 0), height: max(height, 0)}
	}

	pix := make([]RGB, 0, width*height)
	switch src := img.(type) {
	case *image.YCbCr:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				yi := src.YOffset(x, y)
				ci := src.COffset(x, y)
				r, g, b := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
				pix = append(pix, RGB{r, g, b})
			}
		}
	case *image.Gray:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				v := src.GrayAt(x, y).Y
				pix = append(pix, RGB{v, v, v})
			}
		}
	case *image.NRGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := src.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				pix = append(pix, RGB{src.Pix[i], src.Pix[i+1], src.Pix[i+2]})
				i += 4
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				pix = append(pix, RGB{c.R, c.G, c.B})
			}
		}
	}

	return &PixelGrid{width: width, height: height, pix: pix}
}
