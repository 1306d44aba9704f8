package main

import (
	"bytes"
	"image/color"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Global font source shared by the renderer and placeholder images
var globalFontSource *text.GoTextFaceSource

// InitGraphics initializes the global font source for text rendering
func InitGraphics() error {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return err
	}
	globalFontSource = s
	return nil
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// truncateText shortens s to fit roughly width pixels at 10px per character
func truncateText(s string, width int) string {
	maxChars := (width - 20) / 10
	if maxChars < 4 || len(s) <= maxChars {
		return s
	}
	return s[:maxChars-3] + "..."
}

// CreateErrorImage creates a placeholder for a slide that could not be loaded
func CreateErrorImage(width, height int, slidePath, errorMsg string) *ebiten.Image {
	if width <= 0 || height <= 0 {
		width, height = 400, 300
	}

	img := ebiten.NewImage(width, height)
	img.Fill(color.RGBA{120, 30, 30, 255})

	w, h := float64(width), float64(height)
	border := color.RGBA{255, 255, 255, 255}
	DrawFilledRect(img, 0, 0, w, 3, border)
	DrawFilledRect(img, 0, h-3, w, 3, border)
	DrawFilledRect(img, 0, 0, 3, h, border)
	DrawFilledRect(img, w-3, 0, 3, h, border)

	if globalFontSource == nil {
		return img
	}

	f := &text.GoTextFace{Source: globalFontSource, Size: 20}
	white := color.RGBA{255, 255, 255, 255}
	DrawText(img, "SLIDE UNAVAILABLE", f, 10, 30, white)
	DrawText(img, truncateText("File: "+path.Base(slidePath), width), f, 10, 60, white)
	DrawText(img, truncateText("Reason: "+errorMsg, width), f, 10, 90, white)
	return img
}
