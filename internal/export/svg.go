// Package export renders stored runs to image formats.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/vehiclelab/internal/sim"
)

// Stroke colors cycled over bodies in id order.
var palette = []string{"#00ff88", "#00ccff", "#ff00ff", "#ffcc00", "#ff4444", "#8888ff"}

type point struct{ X, Y float64 }

type bounds struct {
	minX, maxX, minY, maxY float64
}

func (b bounds) project(p point, width, height int) (float64, float64) {
	x := (p.X - b.minX) / (b.maxX - b.minX) * float64(width)
	y := float64(height) - (p.Y-b.minY)/(b.maxY-b.minY)*float64(height)
	return x, y
}

func fit(paths [][]point) bounds {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, path := range paths {
		for _, p := range path {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				continue
			}
			b.minX, b.maxX = math.Min(b.minX, p.X), math.Max(b.maxX, p.X)
			b.minY, b.maxY = math.Min(b.minY, p.Y), math.Max(b.maxY, p.Y)
		}
	}
	if math.IsInf(b.minX, 1) {
		return bounds{-1, 1, -1, 1}
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

// View selects the plane a trajectory is projected onto.
type View int

const (
	// TopDown plots x against z.
	TopDown View = iota
	// Side plots x against height.
	Side
)

// TrajectorySVG writes one path per body of res, viewed from above or
// from the side.
func TrajectorySVG(w io.Writer, res *sim.Result, view View, width, height int) error {
	ids := res.Series.BodyIDs()
	paths := make([][]point, len(ids))
	for i, id := range ids {
		samples := res.Series[id]
		path := make([]point, len(samples))
		for j, s := range samples {
			y := s.Position[2]
			if view == Side {
				y = s.Position[1]
			}
			path[j] = point{s.Position[0], y}
		}
		paths[i] = path
	}
	b := fit(paths)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, path := range paths {
		if len(path) == 0 {
			continue
		}
		color := palette[i%len(palette)]
		fmt.Fprintf(&sb, `<path id=%q fill="none" stroke="%s" stroke-width="1.5" d="`, ids[i], color)
		for j, p := range path {
			x, y := b.project(p, width, height)
			if j == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")

		x, y := b.project(path[len(path)-1], width, height)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n", x, y, color)
		fmt.Fprintf(&sb, "<text x=\"%.1f\" y=\"%.1f\" fill=\"%s\" font-size=\"10\">%s</text>\n", x+5, y-5, color, ids[i])
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
