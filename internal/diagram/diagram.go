// Package diagram draws positions as raster images. The board, the piece
// discs and the best-move arrow are laid out as SVG and rasterized with
// oksvg; the piece letters and coordinates are drawn with the Go Bold font.
package diagram

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/hailam/rotorchess/internal/board"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Options control the look of a diagram.
type Options struct {
	SquareSize  int
	Flip        bool       // Black at the bottom
	Coordinates bool       // file letters and rank numbers in a margin
	Arrow       board.Move // drawn from origin to destination when set

	Light, Dark color.RGBA
	ArrowColor  color.RGBA
}

// DefaultOptions returns a 48 pixel board with coordinates.
func DefaultOptions() Options {
	return Options{
		SquareSize:  48,
		Coordinates: true,
		Light:       color.RGBA{0xee, 0xee, 0xd2, 0xff},
		Dark:        color.RGBA{0x76, 0x96, 0x56, 0xff},
		ArrowColor:  color.RGBA{0xd0, 0x30, 0x30, 0xff},
	}
}

var (
	whiteFill = color.RGBA{0xff, 0xff, 0xff, 0xff}
	blackFill = color.RGBA{0x20, 0x20, 0x20, 0xff}
)

// layout maps board squares to pixels.
type layout struct {
	sq     float64
	margin float64
	flip   bool
}

func (l layout) size() int {
	return int(8*l.sq + l.margin)
}

// origin returns the top-left corner of sq.
func (l layout) origin(sq board.Square) (x, y float64) {
	col, row := sq.File(), 7-sq.Rank()
	if l.flip {
		col, row = 7-col, 7-row
	}
	return l.margin + float64(col)*l.sq, float64(row) * l.sq
}

func (l layout) center(sq board.Square) (x, y float64) {
	x, y = l.origin(sq)
	return x + l.sq/2, y + l.sq/2
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Render draws pos.
func Render(pos *board.Position, opts Options) (image.Image, error) {
	if opts.SquareSize <= 0 {
		return nil, fmt.Errorf("diagram: square size %d", opts.SquareSize)
	}
	l := layout{sq: float64(opts.SquareSize), flip: opts.Flip}
	if opts.Coordinates {
		l.margin = l.sq / 2
	}
	size := l.size()

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if err := rasterize(img, boardSVG(pos, opts, l)); err != nil {
		return nil, err
	}
	if err := drawLabels(img, pos, opts, l); err != nil {
		return nil, err
	}
	return img, nil
}

// WritePNG renders pos and encodes it as PNG.
func WritePNG(w io.Writer, pos *board.Position, opts Options) error {
	img, err := Render(pos, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func rasterize(img *image.RGBA, svg string) error {
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return fmt.Errorf("diagram: parse board svg: %w", err)
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return nil
}

// boardSVG lays out squares, piece discs and the arrow in image pixels.
func boardSVG(pos *board.Position, opts Options, l layout) string {
	size := l.size()
	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, size, size, size, size)
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%d" height="%d" fill="#ffffff"/>`, size, size)

	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := l.origin(sq)
		fill := opts.Dark
		if (sq.File()+sq.Rank())%2 == 1 {
			fill = opts.Light
		}
		fmt.Fprintf(&b, `<rect x="%g" y="%g" width="%g" height="%g" fill="%s"/>`, x, y, l.sq, l.sq, hex(fill))
	}

	r := l.sq * 0.4
	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.PieceAt(sq)
		if pc == board.NoPiece {
			continue
		}
		fill, stroke := whiteFill, blackFill
		if pc.Color() == board.Black {
			fill, stroke = blackFill, whiteFill
		}
		cx, cy := l.center(sq)
		fmt.Fprintf(&b, `<circle cx="%g" cy="%g" r="%g" fill="%s" stroke="%s" stroke-width="%g"/>`,
			cx, cy, r, hex(fill), hex(stroke), l.sq/24)
	}

	if opts.Arrow != board.NoMove {
		writeArrow(&b, opts, l)
	}
	b.WriteString(`</svg>`)
	return b.String()
}

// writeArrow draws a shaft between the square centers and a triangular head
// that ends on the destination center.
func writeArrow(b *bytes.Buffer, opts Options, l layout) {
	x1, y1 := l.center(opts.Arrow.From())
	x2, y2 := l.center(opts.Arrow.To())
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length
	head := l.sq * 0.45
	half := l.sq * 0.22
	bx, by := x2-ux*head, y2-uy*head
	col := hex(opts.ArrowColor)

	fmt.Fprintf(b, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="%g"/>`,
		x1, y1, bx, by, col, l.sq*0.14)
	fmt.Fprintf(b, `<polygon points="%g,%g %g,%g %g,%g" fill="%s"/>`,
		x2, y2, bx-uy*half, by+ux*half, bx+uy*half, by-ux*half, col)
}
