// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package antennamap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"

	"github.com/2dChan/antennamap/outline"
	"github.com/2dChan/antennamap/projection"
	svg "github.com/ajstarks/svgo"
	"github.com/golang/geo/r2"
)

const (
	maskedColor = "purple"

	markerRadius       = 4
	maskedMarkerRadius = 6
	labelOffset        = 6
	mapCornerRadius    = 8

	legendInset     = 10
	legendRowHeight = 25
	legendRowsTop   = 20
	legendClipID    = "legendClip"

	titleOffset = 20

	outlineAttrs = `fill="none"`
)

// Render returns the SVG document of the selected groups.
//
// Gradient definitions are emitted for every group in groups so their ids do not
// depend on the selection. Projection bounds cover the selected antennas only.
// Render is deterministic: equal inputs give byte-identical documents.
func Render(groups []Group, selected Selection, setters ...RenderOption) (string, error) {
	opts := defaultRenderOptions()
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return "", err
		}
	}
	if err := opts.validate(); err != nil {
		return "", err
	}

	visible := selected.Visible(groups)
	proj := NewProjector(visible, opts)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(opts.Width, opts.Height, 0, 0, opts.Width, opts.Height)

	writeDefs(canvas, groups, opts)
	canvas.Rect(0, 0, opts.Width, opts.Height, `fill="white"`)

	canvas.Translate(opts.LegendWidth+opts.Margin, opts.Margin)
	canvas.Roundrect(0, 0, opts.MapWidth(), opts.MapHeight(), mapCornerRadius, mapCornerRadius,
		`fill="#f1f1f1"`)
	for _, g := range visible {
		writeGroup(canvas, g, proj, opts)
	}
	writeLegend(canvas, visible, opts)
	writeTitle(canvas, opts)
	canvas.Gend()

	canvas.End()
	return buf.String(), nil
}

// NewProjector returns the projector for the map area of opts bounded by the
// antennas of groups.
func NewProjector(groups []Group, opts RenderOptions) projection.Projector {
	b := projection.EmptyBounds()
	for _, g := range groups {
		for _, a := range g.Antennas {
			b = b.Add(a.Position.Longitude, a.Position.Latitude)
		}
	}
	return projection.NewProjector(b, float64(opts.MapWidth()), float64(opts.MapHeight()))
}

// ProjectGroup returns the drawing positions of the group's antennas in member order.
func ProjectGroup(g Group, proj projection.Projector) []r2.Point {
	points := make([]r2.Point, len(g.Antennas))
	for i, a := range g.Antennas {
		points[i] = proj.Project(a.Position.Longitude, a.Position.Latitude)
	}
	return points
}

func writeDefs(canvas *svg.SVG, groups []Group, opts RenderOptions) {
	canvas.Def()
	for _, g := range groups {
		canvas.RadialGradient(html.EscapeString(g.GradientID()), 50, 50, 50, 50, 50, []svg.Offcolor{
			{Offset: 0, Color: g.Color, Opacity: 1},
			{Offset: 100, Color: g.Color, Opacity: 0.5},
		})
	}
	canvas.ClipPath(`id="` + legendClipID + `"`)
	canvas.Rect(0, 0, opts.LegendWidth, opts.MapHeight())
	canvas.ClipEnd()
	canvas.Style("text/css", styleSheet(opts)...)
	canvas.DefEnd()
}

func styleSheet(opts RenderOptions) []string {
	return []string{
		"@keyframes blink {",
		"  0% { opacity: 1; }",
		"  50% { opacity: 0.5; }",
		"  100% { opacity: 1; }",
		"}",
		".masked-antenna { animation: blink 1s linear infinite; }",
		".antenna-marker { cursor: pointer; transition: opacity 0.15s; }",
		".antenna-marker:hover { opacity: 0.8; }",
		".antenna-label { pointer-events: none; user-select: none; }",
		fmt.Sprintf(".legend-container { height: %dpx; overflow-y: auto; overflow-x: hidden; background-color: white; }",
			opts.MapHeight()),
		".legend-container::-webkit-scrollbar { width: 6px; }",
		".legend-container::-webkit-scrollbar-track { background: #f1f1f1; }",
		".legend-container::-webkit-scrollbar-thumb { background-color: #888; border-radius: 3px; }",
		"text { font-family: ui-sans-serif, system-ui, sans-serif; }",
	}
}

func writeGroup(canvas *svg.SVG, g Group, proj projection.Projector, opts RenderOptions) {
	canvas.Group(`class="antenna-group"`, `data-group="`+html.EscapeString(g.ID)+`"`)

	points := ProjectGroup(g, proj)
	if opts.Connections && len(points) > 0 {
		o := outline.New(points)
		canvas.Path(o.Path(), outlineAttrs,
			`stroke="`+g.Color+`"`,
			`stroke-width="1.5"`,
			`opacity="0.6"`,
			`stroke-linejoin="round"`)
	}

	gradient := "url(#" + html.EscapeString(g.GradientID()) + ")"
	for i, a := range g.Antennas {
		x, y := outline.Pixel(points[i])
		fill, stroke, r, class := gradient, g.Color, markerRadius, "antenna-marker"
		if a.Masked {
			fill, stroke, r, class = maskedColor, maskedColor, maskedMarkerRadius, "antenna-marker masked-antenna"
		}
		canvas.Circle(x, y, r,
			`fill="`+fill+`"`,
			`stroke="`+stroke+`"`,
			`stroke-width="1"`,
			`class="`+class+`"`,
			`data-event="`+ClickEventName+`"`,
			`data-antenna="`+html.EscapeString(clickPayload(a))+`"`)
		canvas.Text(x+labelOffset, y, a.ID, `font-size="8"`, `fill="#000000"`, `class="antenna-label"`)
	}

	canvas.Gend()
}

// clickPayload returns the JSON form of a. Records holding non-finite numbers
// cannot be encoded and fall back to their id.
func clickPayload(a Antenna) string {
	b, err := json.Marshal(a)
	if err != nil {
		b, _ = json.Marshal(struct {
			ID string `json:"id"`
		}{a.ID})
	}
	return string(b)
}

func writeLegend(canvas *svg.SVG, visible []Group, opts RenderOptions) {
	canvas.Group(fmt.Sprintf(`transform="translate(%d,0)"`, -opts.LegendWidth),
		`class="legend-container"`,
		`clip-path="url(#`+legendClipID+`)"`)
	canvas.Rect(0, 0, opts.LegendWidth, opts.MapHeight(), `fill="white"`)
	canvas.Text(legendInset, legendRowsTop, "Legend", `font-size="14"`, `font-weight="bold"`, `fill="#000000"`)

	for i, g := range visible {
		canvas.Translate(legendInset, legendRowY(i))
		canvas.Circle(0, 0, markerRadius, `fill="`+g.Color+`"`)
		canvas.Text(legendInset, 4, fmt.Sprintf("%s (%d)", g.ID, g.Len()), `font-size="12"`, `fill="#000000"`)
		canvas.Gend()
	}

	canvas.Translate(legendInset, legendRowY(len(visible)))
	canvas.Circle(0, 0, maskedMarkerRadius, `fill="`+maskedColor+`"`, `class="masked-antenna"`)
	canvas.Text(legendInset, 4, "Masked Antenna", `font-size="12"`, `fill="#000000"`)
	canvas.Gend()

	canvas.Gend()
}

func legendRowY(i int) int {
	return (i+1)*legendRowHeight + legendRowsTop
}

func writeTitle(canvas *svg.SVG, opts RenderOptions) {
	if opts.Title == "" {
		return
	}
	canvas.Text(opts.MapWidth()/2, -titleOffset, opts.Title,
		`text-anchor="middle"`, `font-size="16"`, `font-weight="bold"`, `fill="#000000"`)
}
