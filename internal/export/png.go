// Package export draws Ball Sort boards as PNG images.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/vovakirdan/ballsort/internal/core"
	"github.com/vovakirdan/ballsort/internal/games/ballsort"
)

// ErrEmptyBoard is returned for a board without slots.
var ErrEmptyBoard = errors.New("export: board has no slots")

const (
	captionHeight = 30.0
	fontSize      = 14.0
	wallWidth     = 2.0
)

var (
	backgroundColor = color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}
	wallColor       = color.RGBA{R: 0x8a, G: 0x8a, B: 0x9a, A: 0xff}
	selectedColor   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	textColor       = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
)

// Picture is what gets drawn.
type Picture struct {
	Board *ballsort.Board
	Moves int
	// Selected outlines one slot. ballsort.NoSlot draws none.
	Selected int
}

// Render draws the picture with the geometry of layout. The layout's slot
// count and capacity are taken from the board.
func Render(p Picture, layout ballsort.Layout) (image.Image, error) {
	if p.Board == nil || p.Board.SlotCount() == 0 {
		return nil, ErrEmptyBoard
	}
	layout.SlotCount = p.Board.SlotCount()
	layout.MaxBalls = p.Board.MaxBalls()

	width := int(layout.Width() + layout.Margin)
	height := int(layout.Top + layout.Height() + captionHeight + layout.Margin)

	dc := gg.NewContext(width, height)
	dc.SetColor(backgroundColor)
	dc.Clear()

	radius := min(layout.SlotWidth, layout.BallHeight)/2 - wallWidth
	top := layout.Top
	floor := layout.Top + layout.Height()

	for i, slot := range p.Board.Slots() {
		x0 := layout.Margin + float64(i)*layout.SlotWidth + wallWidth
		x1 := x0 + layout.SlotWidth - 2*wallWidth

		dc.SetLineWidth(wallWidth)
		dc.SetColor(wallColor)
		if i == p.Selected {
			dc.SetColor(selectedColor)
		}
		dc.MoveTo(x0, top)
		dc.LineTo(x0, floor)
		dc.LineTo(x1, floor)
		dc.LineTo(x1, top)
		dc.Stroke()

		for j, c := range slot {
			center := layout.BallCenter(i, j)
			dc.DrawCircle(center.X, center.Y, radius)
			dc.SetHexColor(core.BallHex(int(c)))
			dc.Fill()
		}
	}

	face, err := captionFace()
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(fmt.Sprintf("Moves: %d", p.Moves), layout.Margin, floor+captionHeight/2, 0, 0.5)

	return dc.Image(), nil
}

// WritePNG renders the picture and encodes it to w.
func WritePNG(w io.Writer, p Picture, layout ballsort.Layout) error {
	img, err := Render(p, layout)
	if err != nil {
		return err
	}
	return gg.NewContextForImage(img).EncodePNG(w)
}

// SavePNG renders the picture into the file at path.
func SavePNG(path string, p Picture, layout ballsort.Layout) error {
	img, err := Render(p, layout)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("export: cannot write %s: %w", path, err)
	}
	return nil
}

func captionFace() (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("export: cannot parse font: %w", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
