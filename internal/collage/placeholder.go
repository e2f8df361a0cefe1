package collage

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/readstack/covergen/internal/goodreads"
)

var baseFont = mustParseFont()

func mustParseFont() *opentype.Font {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		// goregular.TTF is embedded in the binary; a parse failure is a
		// build defect, not a runtime condition.
		panic(err)
	}
	return f
}

func newFace(size float64) (font.Face, error) {
	face, err := opentype.NewFace(baseFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

func fill(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// drawPlaceholder renders a labeled stand-in tile for a book without a
// cover: a slightly darker background with the wrapped title and author.
func drawPlaceholder(dst *image.RGBA, cell image.Rectangle, book goodreads.Book, bg color.RGBA) {
	darker := color.RGBA{
		R: subFloor(bg.R, 30),
		G: subFloor(bg.G, 30),
		B: subFloor(bg.B, 30),
		A: 0xff,
	}
	fill(dst, cell, darker)

	// Light text on dark backgrounds, dark text on light ones.
	luminance := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	textColor := color.RGBA{R: 60, G: 60, B: 60, A: 0xff}
	if luminance <= 128 {
		textColor = color.RGBA{R: 200, G: 200, B: 200, A: 0xff}
	}

	cellW := cell.Dx()
	titleSize := max(12, cellW/10)
	authorSize := max(10, cellW/14)
	pad := cellW / 10

	titleFace, err := newFace(float64(titleSize))
	if err != nil {
		return
	}
	defer titleFace.Close()
	authorFace, err := newFace(float64(authorSize))
	if err != nil {
		return
	}
	defer authorFace.Close()

	maxTextWidth := cellW - 2*pad
	titleLines := wrapText(titleFace, book.Title, maxTextWidth)
	authorLines := wrapText(authorFace, book.Author, maxTextWidth)

	titleLineH := titleFace.Metrics().Height.Ceil()
	authorLineH := authorFace.Metrics().Height.Ceil()
	totalHeight := len(titleLines)*titleLineH + pad + len(authorLines)*authorLineH

	y := cell.Min.Y + (cell.Dy()-totalHeight)/2
	y = drawLines(dst, titleFace, titleLines, cell.Min.X+pad, y, textColor)
	y += pad
	drawLines(dst, authorFace, authorLines, cell.Min.X+pad, y, textColor)
}

// drawBannerText draws the collage title centered horizontally with its top
// edge at y.
func drawBannerText(dst *image.RGBA, text string, size, y, canvasWidth int, c color.RGBA) error {
	face, err := newFace(float64(size))
	if err != nil {
		return err
	}
	defer face.Close()

	textWidth := font.MeasureString(face, text).Ceil()
	x := (canvasWidth - textWidth) / 2

	drawLines(dst, face, []string{text}, x, y, c)
	return nil
}

// drawLines draws each line top-down starting at (x, y) and returns the y
// below the last line.
func drawLines(dst *image.RGBA, face font.Face, lines []string, x, y int, c color.RGBA) int {
	ascent := face.Metrics().Ascent.Ceil()
	lineH := face.Metrics().Height.Ceil()

	for _, line := range lines {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(c),
			Face: face,
			Dot:  fixed.P(x, y+ascent),
		}
		d.DrawString(line)
		y += lineH
	}
	return y
}

// wrapText greedily wraps text so each line fits in maxWidth. A single word
// wider than maxWidth gets its own line rather than being split.
func wrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}

func subFloor(v uint8, by uint8) uint8 {
	if v < by {
		return 0
	}
	return v - by
}
