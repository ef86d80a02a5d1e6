// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package projection maps longitude/latitude pairs onto a bounded drawing surface
// by min-max normalization over the visible point set.

package projection

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Bounds is the extent of a point set, X is longitude and Y is latitude in degrees.
type Bounds struct {
	rect r2.Rect
}

// EmptyBounds returns bounds containing no points.
func EmptyBounds() Bounds {
	return Bounds{rect: r2.EmptyRect()}
}

// BoundsFromPoints returns the smallest bounds containing every (lon, lat) point.
func BoundsFromPoints(points ...r2.Point) Bounds {
	b := EmptyBounds()
	for _, p := range points {
		b = b.Add(p.X, p.Y)
	}
	return b
}

// Add returns b expanded to contain (lon, lat).
func (b Bounds) Add(lon, lat float64) Bounds {
	return Bounds{rect: b.rect.AddPoint(r2.Point{X: lon, Y: lat})}
}

func (b Bounds) IsEmpty() bool {
	return b.rect.IsEmpty()
}

// Lon returns the longitude interval.
func (b Bounds) Lon() r1.Interval {
	return b.rect.X
}

// Lat returns the latitude interval.
func (b Bounds) Lat() r1.Interval {
	return b.rect.Y
}

// Projector maps (lon, lat) into [0, width] x [0, height] with latitude growing upward.
type Projector struct {
	bounds Bounds
	width  float64
	height float64
}

func NewProjector(bounds Bounds, width, height float64) Projector {
	return Projector{bounds: bounds, width: width, height: height}
}

func (p Projector) Bounds() Bounds {
	return p.bounds
}

func (p Projector) Width() float64 {
	return p.width
}

func (p Projector) Height() float64 {
	return p.height
}

// Project returns the drawing position of (lon, lat).
// An axis whose span is zero, or bounds that are empty, place the point on the
// midpoint of that axis.
func (p Projector) Project(lon, lat float64) r2.Point {
	return r2.Point{
		X: scale(lon, p.bounds.Lon(), p.width),
		Y: p.height - scale(lat, p.bounds.Lat(), p.height),
	}
}

func scale(v float64, iv r1.Interval, extent float64) float64 {
	span := iv.Length()
	if span <= 0 {
		return extent / 2
	}
	return (v - iv.Lo) / span * extent
}
