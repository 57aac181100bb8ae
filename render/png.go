package render

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"strconv"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/chessconf/core/tree"
)

const (
	cellWidth  = 90
	cellHeight = 70
	shapeSize  = 24
)

func rgbaColor(c tree.Color) color.RGBA {
	switch c {
	case tree.ColorGreen:
		return color.RGBA{R: 60, G: 170, B: 70, A: 255}
	case tree.ColorRed:
		return color.RGBA{R: 200, G: 60, B: 60, A: 255}
	default:
		return color.RGBA{R: 180, G: 180, B: 180, A: 255}
	}
}

// PNG rasterizes nodes as shapes (square/triangle/circle) in their
// display color, arranged in a grid by ply_index (column) and insertion
// order within that ply (row). fontPath, if non-empty, loads a TTF via
// golang/freetype for node-id labels; otherwise labels are drawn with
// golang.org/x/image/font/basicfont's builtin bitmap face, so rendering
// never depends on an external asset being present.
func PNG(nodes []tree.NodePayload, fontPath string) (image.Image, error) {
	maxPly, rowOf := layout(nodes)

	width := (maxPly + 2) * cellWidth
	height := 2 * cellHeight
	for _, r := range rowOf {
		if h := (r + 2) * cellHeight; h > height {
			height = h
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	var face font.Face = basicfont.Face7x13
	var ctx *freetype.Context
	if fontPath != "" {
		data, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, errors.Wrapf(err, "read font %s", fontPath)
		}
		ttf, err := truetype.Parse(data)
		if err != nil {
			return nil, errors.Wrapf(err, "parse font %s", fontPath)
		}
		ctx = freetype.NewContext()
		ctx.SetDPI(72)
		ctx.SetFont(ttf)
		ctx.SetFontSize(11)
		ctx.SetClip(img.Bounds())
		ctx.SetDst(img)
		ctx.SetSrc(image.NewUniform(color.Black))
	}

	for i, n := range nodes {
		cx := (n.PlyFromS0+1)*cellWidth + cellWidth/2
		cy := (rowOf[i]+1)*cellHeight + cellHeight/2
		col := rgbaColor(n.Color)
		drawShape(img, n.Shape, cx, cy, col)

		label := n.ID + " " + strconv.Itoa(n.ConfidencePercent)
		if ctx != nil {
			pt := freetype.Pt(cx-shapeSize, cy+shapeSize+12)
			if _, err := ctx.DrawString(label, pt); err != nil {
				return nil, errors.Wrapf(err, "draw label for %s", n.ID)
			}
			continue
		}
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.Black),
			Face: face,
			Dot:  fixed.P(cx-shapeSize, cy+shapeSize+12),
		}
		d.DrawString(label)
	}

	return img, nil
}

// layout assigns each node a row within its ply column: the first node
// at a given ply gets row 0, the second row 1, and so on, so siblings
// never overlap when drawn.
func layout(nodes []tree.NodePayload) (maxPly int, rowOf []int) {
	nextRow := make(map[int]int)
	rowOf = make([]int, len(nodes))
	for i, n := range nodes {
		rowOf[i] = nextRow[n.PlyFromS0]
		nextRow[n.PlyFromS0]++
		if n.PlyFromS0 > maxPly {
			maxPly = n.PlyFromS0
		}
	}
	return maxPly, rowOf
}

func drawShape(img draw.Image, shape tree.Shape, cx, cy int, col color.Color) {
	switch shape {
	case tree.ShapeSquare:
		drawSquare(img, cx, cy, col)
	case tree.ShapeTriangle:
		drawTriangle(img, cx, cy, col)
	default:
		drawCircle(img, cx, cy, col)
	}
}

func drawSquare(img draw.Image, cx, cy int, col color.Color) {
	half := shapeSize / 2
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			img.Set(x, y, col)
		}
	}
}

func drawCircle(img draw.Image, cx, cy int, col color.Color) {
	r := shapeSize / 2
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				img.Set(cx+x, cy+y, col)
			}
		}
	}
}

func drawTriangle(img draw.Image, cx, cy int, col color.Color) {
	half := shapeSize / 2
	for y := -half; y <= half; y++ {
		rowHalfWidth := half * (y + half) / shapeSize
		for x := -rowHalfWidth; x <= rowHalfWidth; x++ {
			img.Set(cx+x, cy+y, col)
		}
	}
}
