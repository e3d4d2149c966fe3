package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	_ "image/jpeg"
	_ "image/png"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// placeholderSize is the edge length of synthetic placeholder textures.
const placeholderSize = 4

// decode turns encoded bytes into pixels, clamped to the device's maximum
// texture edge. Oversized images are downscaled rather than rejected.
func decode(data []byte, maxEdge int) (image.Image, uint64, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("texture: decode: %w", err)
	}
	if maxEdge > 0 {
		img = clampToEdge(img, maxEdge)
	}
	return img, xxhash.Sum64(data), nil
}

func clampToEdge(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}
	scale := float64(maxEdge) / float64(w)
	if h > w {
		scale = float64(maxEdge) / float64(h)
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// imageSizeBytes estimates device memory for an uploaded texture (RGBA8).
func imageSizeBytes(img image.Image) uint64 {
	b := img.Bounds()
	return uint64(b.Dx()) * uint64(b.Dy()) * 4
}

// placeholderColor picks a recognizable but harmless solid color for each
// category. The normal-map color is the flat "up" normal so lighting stays
// sane when the real map never arrives.
func placeholderColor(cat Category) color.RGBA {
	switch cat {
	case CategoryNormal:
		return color.RGBA{128, 128, 255, 255}
	case CategoryHeight:
		return color.RGBA{128, 128, 128, 255}
	case CategoryRoughness:
		return color.RGBA{180, 180, 180, 255}
	case CategoryMetalness:
		return color.RGBA{0, 0, 0, 255}
	case CategoryEnvironment:
		return color.RGBA{4, 6, 20, 255}
	case CategorySurface:
		return color.RGBA{120, 110, 100, 255}
	default:
		return color.RGBA{200, 60, 200, 255}
	}
}

// synthesizePlaceholder builds the always-available solid-color stand-in.
// It is generated in process and cannot fail.
func synthesizePlaceholder(cat Category) image.Image {
	c := placeholderColor(cat)
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}
