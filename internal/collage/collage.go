package collage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/readstack/covergen/internal/goodreads"
)

// Standard book cover aspect ratio (width:height).
const coverAspectRatio = 2.0 / 3.0

// Item pairs a book with its cover bytes. Nil Cover means no cover was found
// and the book gets a labeled placeholder tile.
type Item struct {
	Book  goodreads.Book
	Cover []byte
}

// Generate renders the collage to outputPath (.jpg/.jpeg saves JPEG, anything
// else PNG). Covers are scaled to fill their cell and center-cropped.
// Returns the books whose cover bytes exist but failed to decode; those are
// rendered as placeholders rather than aborting the render.
func Generate(items []Item, cfg Config, outputPath string) ([]goodreads.Book, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no books provided")
	}

	bg, err := ParseHexColor(cfg.Background)
	if err != nil {
		return nil, err
	}

	numRows := (len(items) + cfg.Columns - 1) / cfg.Columns

	availableWidth := cfg.Width - 2*cfg.Margin - (cfg.Columns-1)*cfg.Padding
	coverWidth := availableWidth / cfg.Columns
	coverHeight := int(float64(coverWidth) / coverAspectRatio)

	titleSpace := 0
	if cfg.Title != "" {
		titleSpace = cfg.TitleSize + cfg.Margin
	}

	totalHeight := cfg.Height
	if totalHeight == 0 {
		gridHeight := numRows*coverHeight + (numRows-1)*cfg.Padding
		totalHeight = gridHeight + 2*cfg.Margin + titleSpace
	}

	canvas := image.NewRGBA(image.Rect(0, 0, cfg.Width, totalHeight))
	fill(canvas, canvas.Bounds(), bg)

	gridStartY := cfg.Margin
	if cfg.Title != "" && cfg.TitlePosition == "top" {
		gridStartY = cfg.Margin + titleSpace
	}

	var failedToLoad []goodreads.Book
	for idx, item := range items {
		row := idx / cfg.Columns
		col := idx % cfg.Columns

		x := cfg.Margin + col*(coverWidth+cfg.Padding)
		y := gridStartY + row*(coverHeight+cfg.Padding)
		cell := image.Rect(x, y, x+coverWidth, y+coverHeight)

		if item.Cover != nil {
			img, _, err := image.Decode(bytes.NewReader(item.Cover))
			if err == nil {
				drawCover(canvas, cell, img)
				continue
			}
			slog.Warn("Cached cover failed to decode, rendering placeholder",
				"title", item.Book.Title, "error", err)
			failedToLoad = append(failedToLoad, item.Book)
		}

		drawPlaceholder(canvas, cell, item.Book, bg)
	}

	if cfg.Title != "" {
		titleColor, err := ParseHexColor(cfg.TitleColor)
		if err != nil {
			return failedToLoad, err
		}
		titleY := cfg.Margin
		if cfg.TitlePosition != "top" {
			titleY = totalHeight - cfg.Margin - cfg.TitleSize
		}
		if err := drawBannerText(canvas, cfg.Title, cfg.TitleSize, titleY, cfg.Width, titleColor); err != nil {
			return failedToLoad, err
		}
	}

	if err := save(canvas, outputPath); err != nil {
		return failedToLoad, err
	}
	return failedToLoad, nil
}

// drawCover scales img to fill cell exactly, cropping the overflow around the
// center so every tile has the same footprint.
func drawCover(dst *image.RGBA, cell image.Rectangle, img image.Image) {
	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()
	if srcW == 0 || srcH == 0 {
		return
	}

	cellW := cell.Dx()
	cellH := cell.Dy()
	srcRatio := float64(srcW) / float64(srcH)
	cellRatio := float64(cellW) / float64(cellH)

	// Pick the source window with the cell's aspect ratio, centered.
	src := img.Bounds()
	if srcRatio > cellRatio {
		cropW := int(float64(srcH) * cellRatio)
		offset := (srcW - cropW) / 2
		src.Min.X += offset
		src.Max.X = src.Min.X + cropW
	} else {
		cropH := int(float64(srcW) / cellRatio)
		offset := (srcH - cropH) / 2
		src.Min.Y += offset
		src.Max.Y = src.Min.Y + cropH
	}

	xdraw.CatmullRom.Scale(dst, cell, img, src, xdraw.Src, nil)
}

func save(img image.Image, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode collage: %w", err)
	}
	return nil
}
