package fileconv

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Raster page layout for text rendered to an image, in pixels.
const (
	rasterWidth      = 816
	rasterMargin     = 24
	rasterLineHeight = 16
	rasterMinHeight  = 200
	rasterMaxLines   = 2000
)

// renderText draws printable text in a fixed bitmap face, black on white,
// wrapping at the page width. The image grows to fit the text.
func renderText(text string) *image.RGBA {
	face := basicfont.Face7x13
	cols := (rasterWidth - 2*rasterMargin) / face.Advance

	var lines []string
	for _, para := range strings.Split(sanitizePrintable(text), "\n") {
		lines = append(lines, wrapColumns(para, cols)...)
	}
	if len(lines) > rasterMaxLines {
		lines = lines[:rasterMaxLines]
	}

	height := 2*rasterMargin + len(lines)*rasterLineHeight
	if height < rasterMinHeight {
		height = rasterMinHeight
	}
	img := image.NewRGBA(image.Rect(0, 0, rasterWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.NewUniform(color.Black), Face: face}
	for i, line := range lines {
		d.Dot = fixed.P(rasterMargin, rasterMargin+face.Ascent+i*rasterLineHeight)
		d.DrawString(line)
	}
	return img
}

// wrapColumns breaks s at word boundaries into lines of at most cols
// characters. Words longer than a line are split.
func wrapColumns(s string, cols int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		cur   string
	)
	for _, w := range words {
		for len(w) > cols {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			lines = append(lines, w[:cols])
			w = w[cols:]
		}
		switch {
		case cur == "":
			cur = w
		case len(cur)+1+len(w) <= cols:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
