package viz

import (
	"math"
	"strings"

	"github.com/san-kum/vehiclelab/internal/physics"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel at (x, y). The canvas is (Width*2) x (Height*4)
// sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawMarker draws a small cross centred on (x, y).
func (c *Canvas) DrawMarker(x, y int) {
	c.Set(x, y)
	c.Set(x-1, y)
	c.Set(x+1, y)
	c.Set(x, y-1)
	c.Set(x, y+1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps the ground plane (x, z) onto canvas sub-pixels, viewed
// from above with +z pointing up the screen.
type Viewport struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// minSpan keeps a stationary body from filling the whole canvas.
const minSpan = 10.0

// FitViewport returns a square-ish viewport holding every point with a
// margin.
func FitViewport(points []physics.Vec3) Viewport {
	if len(points) == 0 {
		return Viewport{MinX: -minSpan / 2, MaxX: minSpan / 2, MinZ: -minSpan / 2, MaxZ: minSpan / 2}
	}
	v := Viewport{MinX: math.Inf(1), MaxX: math.Inf(-1), MinZ: math.Inf(1), MaxZ: math.Inf(-1)}
	for _, p := range points {
		if !physics.IsFinite(p) {
			continue
		}
		v.MinX = math.Min(v.MinX, p[0])
		v.MaxX = math.Max(v.MaxX, p[0])
		v.MinZ = math.Min(v.MinZ, p[2])
		v.MaxZ = math.Max(v.MaxZ, p[2])
	}
	if math.IsInf(v.MinX, 1) {
		return FitViewport(nil)
	}
	span := math.Max(math.Max(v.MaxX-v.MinX, v.MaxZ-v.MinZ), minSpan) * 1.1
	cx, cz := (v.MinX+v.MaxX)/2, (v.MinZ+v.MaxZ)/2
	return Viewport{MinX: cx - span/2, MaxX: cx + span/2, MinZ: cz - span/2, MaxZ: cz + span/2}
}

// Project returns the sub-pixel coordinates of p on c.
func (v Viewport) Project(c *Canvas, p physics.Vec3) (int, int) {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	x := (p[0] - v.MinX) / (v.MaxX - v.MinX) * w
	y := h - (p[2]-v.MinZ)/(v.MaxZ-v.MinZ)*h
	return int(math.Round(x)), int(math.Round(y))
}
