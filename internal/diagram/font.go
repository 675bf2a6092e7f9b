package diagram

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hailam/rotorchess/internal/board"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var parseBold = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(gobold.TTF)
})

func newFace(size float64) (font.Face, error) {
	f, err := parseBold()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// drawCentered writes s with its cap height centered on (cx, cy).
func drawCentered(img *image.RGBA, face font.Face, col color.Color, s string, cx, cy float64) {
	d := font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face}
	w := d.MeasureString(s)
	capHeight := face.Metrics().CapHeight
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6(cx*64) - w/2,
		Y: fixed.Int26_6(cy*64) + capHeight/2,
	}
	d.DrawString(s)
}

// drawLabels writes the piece letters on their discs and the coordinates
// in the margin.
func drawLabels(img *image.RGBA, pos *board.Position, opts Options, l layout) error {
	pieces, err := newFace(l.sq * 0.5)
	if err != nil {
		return err
	}
	defer pieces.Close()

	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.PieceAt(sq)
		if pc == board.NoPiece {
			continue
		}
		col := blackFill
		if pc.Color() == board.Black {
			col = whiteFill
		}
		cx, cy := l.center(sq)
		drawCentered(img, pieces, col, string(pc.Type().Letter()), cx, cy)
	}

	if !opts.Coordinates {
		return nil
	}
	coords, err := newFace(math.Max(8, l.sq*0.3))
	if err != nil {
		return err
	}
	defer coords.Close()

	for i := range 8 {
		file, rank := board.NewSquare(i, 0), board.NewSquare(0, i)
		x, _ := l.center(file)
		drawCentered(img, coords, blackFill, string(rune('a'+i)), x, 8*l.sq+l.margin/2)
		_, y := l.center(rank)
		drawCentered(img, coords, blackFill, string(rune('1'+i)), l.margin/2, y)
	}
	return nil
}
