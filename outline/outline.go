// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package outline connects a group of projected points into a closed path by
// visiting them in angular order around their centroid.
//
// The result is not a convex hull. Point sets that are not star-shaped around
// the centroid can produce self-intersecting outlines.

package outline

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
)

type Outline struct {
	Centroid r2.Point

	// NOTE: Indices into the input points, sorted by ascending angle around Centroid.
	// Equal angles keep their input order.
	Order  []int
	Points []r2.Point
}

// Centroid returns the arithmetic mean of points, or the zero point if there are none.
func Centroid(points []r2.Point) r2.Point {
	if len(points) == 0 {
		return r2.Point{}
	}
	var sum r2.Point
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}

// New builds the outline of points.
func New(points []r2.Point) *Outline {
	n := len(points)
	o := &Outline{
		Centroid: Centroid(points),
		Order:    make([]int, n),
		Points:   make([]r2.Point, n),
	}

	angles := make([]float64, n)
	for i, p := range points {
		d := p.Sub(o.Centroid)
		angles[i] = math.Atan2(d.Y, d.X)
		o.Order[i] = i
	}
	slices.SortStableFunc(o.Order, func(a, b int) int {
		return cmp.Compare(angles[a], angles[b])
	})
	for i, idx := range o.Order {
		o.Points[i] = points[idx]
	}

	return o
}

func (o *Outline) Len() int {
	return len(o.Points)
}

// Path returns SVG path data visiting every point once and closing back to the
// first, in whole pixels. An empty outline has no path.
func (o *Outline) Path() string {
	if len(o.Points) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, p := range o.Points {
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString(" L")
		}
		x, y := Pixel(p)
		sb.WriteString(strconv.Itoa(x))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(y))
	}
	sb.WriteString("Z")
	return sb.String()
}

// Pixel rounds p to the nearest whole pixel.
func Pixel(p r2.Point) (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}
