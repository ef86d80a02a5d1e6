// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package antennamap

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/2dChan/antennamap/utils"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/google/go-cmp/cmp"
)

// RenderOptions

func TestRenderOptions(t *testing.T) {
	tests := []struct {
		name    string
		opt     RenderOption
		wantErr bool
	}{
		{"size positive", WithSize(800, 400), false},
		{"size zero width", WithSize(0, 400), true},
		{"size negative height", WithSize(800, -1), true},
		{"legend zero", WithLegendWidth(0), false},
		{"legend negative", WithLegendWidth(-1), true},
		{"margin zero", WithMargin(0), false},
		{"margin negative", WithMargin(-5), true},
		{"title empty", WithTitle(""), false},
		{"connections off", WithConnections(false), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultRenderOptions()
			err := tt.opt(&opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("option error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRender_NoRoomForMap(t *testing.T) {
	_, err := Render(nil, Selection{}, WithSize(200, 100), WithMargin(60))
	if err == nil {
		t.Errorf("Render(..., WithSize(200, 100), WithMargin(60)) error = nil, want non-nil")
	}
}

func TestRenderOptions_MapArea(t *testing.T) {
	opts := defaultRenderOptions()
	if got, want := opts.MapWidth(), 770; got != want {
		t.Errorf("opts.MapWidth() = %v, want %v", got, want)
	}
	if got, want := opts.MapHeight(), 520; got != want {
		t.Errorf("opts.MapHeight() = %v, want %v", got, want)
	}
}

// Render

func TestRender_Determinism(t *testing.T) {
	groups := randomGroups(5, 20)
	sel := SelectAll(groups).Toggle(groups[2].ID)

	a := mustRender(t, groups, sel)
	b := mustRender(t, groups, sel)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Render(...) not deterministic (-first +second):\n%s", diff)
	}
}

func TestRender_WellFormed(t *testing.T) {
	groups := randomGroups(3, 10)
	doc := parseDocument(t, mustRender(t, groups, SelectAll(groups)))
	if doc.XMLName.Local != "svg" {
		t.Errorf("root element = %q, want svg", doc.XMLName.Local)
	}
	if got, want := doc.attr("viewBox"), "0 0 1000 600"; got != want {
		t.Errorf("viewBox = %q, want %q", got, want)
	}
}

func TestRender_Scenario(t *testing.T) {
	groups := scenarioGroups()

	doc := parseDocument(t, mustRender(t, groups, SelectAll(groups)))
	if got := len(doc.findAll("radialGradient")); got != 2 {
		t.Errorf("radialGradient count = %v, want 2", got)
	}
	if got := len(markers(doc)); got != 3 {
		t.Errorf("marker count = %v, want 3", got)
	}
	legend := legendTexts(doc)
	for _, want := range []string{"S10A (2)", "S10B (1)", "Masked Antenna"} {
		if !contains(legend, want) {
			t.Errorf("legend %q missing %q", legend, want)
		}
	}

	b := doc.group("S10B")
	if b == nil {
		t.Fatalf("group S10B not rendered")
	}
	paths := b.findAll("path")
	if len(paths) != 1 {
		t.Fatalf("S10B path count = %v, want 1", len(paths))
	}
	if got, want := paths[0].attr("d"), "M770,520Z"; got != want {
		t.Errorf("S10B path = %q, want %q", got, want)
	}
}

func TestRender_SelectionKeepsGradients(t *testing.T) {
	groups := scenarioGroups()
	all := parseDocument(t, mustRender(t, groups, SelectAll(groups)))
	one := parseDocument(t, mustRender(t, groups, NewSelection("S10B")))

	ids := func(n *node) []string {
		var out []string
		for _, g := range n.findAll("radialGradient") {
			out = append(out, g.attr("id"))
		}
		return out
	}
	if diff := cmp.Diff(ids(all), ids(one)); diff != "" {
		t.Errorf("gradient ids changed with selection (-all +one):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"S10AGradient", "S10BGradient"}, ids(one)); diff != "" {
		t.Errorf("gradient ids mismatch (-want +got):\n%s", diff)
	}

	if one.group("S10A") != nil {
		t.Errorf("group S10A rendered while not selected")
	}
	if got := len(markers(one)); got != 1 {
		t.Errorf("marker count = %v, want 1", got)
	}
	if contains(legendTexts(one), "S10A (2)") {
		t.Errorf("legend lists unselected group S10A")
	}
}

func TestRender_SingleGroupCollapsesToMidpoint(t *testing.T) {
	groups := scenarioGroups()
	doc := parseDocument(t, mustRender(t, groups, NewSelection("S10B")))

	paths := doc.group("S10B").findAll("path")
	if len(paths) != 1 {
		t.Fatalf("S10B path count = %v, want 1", len(paths))
	}
	if got, want := paths[0].attr("d"), "M385,260Z"; got != want {
		t.Errorf("S10B path = %q, want %q", got, want)
	}
	m := markers(doc)[0]
	if m.attr("cx") != "385" || m.attr("cy") != "260" {
		t.Errorf("marker at (%s, %s), want (385, 260)", m.attr("cx"), m.attr("cy"))
	}
}

func TestRender_EmptySelection(t *testing.T) {
	groups := scenarioGroups()
	doc := parseDocument(t, mustRender(t, groups, Selection{}))

	if got := len(doc.findAll("radialGradient")); got != 2 {
		t.Errorf("radialGradient count = %v, want 2", got)
	}
	if got := len(markers(doc)); got != 0 {
		t.Errorf("marker count = %v, want 0", got)
	}
	if got := len(doc.findAll("path")); got != 0 {
		t.Errorf("path count = %v, want 0", got)
	}
	if !contains(legendTexts(doc), "Masked Antenna") {
		t.Errorf("legend missing masked antenna entry")
	}
}

func TestRender_Masked(t *testing.T) {
	groups := scenarioGroups()
	groups[0].Antennas[1].Masked = true
	doc := parseDocument(t, mustRender(t, groups, SelectAll(groups)))

	a := doc.group("S10A")
	circles := a.findAll("circle")
	if len(circles) != 2 {
		t.Fatalf("S10A marker count = %v, want 2", len(circles))
	}
	plain, masked := circles[0], circles[1]

	if got, want := plain.attr("fill"), "url(#S10AGradient)"; got != want {
		t.Errorf("unmasked fill = %q, want %q", got, want)
	}
	if got, want := plain.attr("stroke"), groups[0].Color; got != want {
		t.Errorf("unmasked stroke = %q, want %q", got, want)
	}
	if strings.Contains(plain.attr("class"), "masked-antenna") {
		t.Errorf("unmasked class = %q, want no masked-antenna", plain.attr("class"))
	}

	if masked.attr("fill") != maskedColor || masked.attr("stroke") != maskedColor {
		t.Errorf("masked fill/stroke = %q/%q, want %q", masked.attr("fill"), masked.attr("stroke"), maskedColor)
	}
	if !strings.Contains(masked.attr("class"), "masked-antenna") {
		t.Errorf("masked class = %q, want masked-antenna", masked.attr("class"))
	}
	mr, _ := strconv.Atoi(masked.attr("r"))
	pr, _ := strconv.Atoi(plain.attr("r"))
	if mr <= pr {
		t.Errorf("masked r = %v, want larger than %v", mr, pr)
	}

	style := doc.findAll("style")
	if len(style) != 1 || !strings.Contains(style[0].Text, "animation: blink 1s linear infinite") {
		t.Errorf("style missing blink animation for masked antennas")
	}
}

func TestRender_ClickPayload(t *testing.T) {
	groups := scenarioGroups()
	groups[0].Antennas[0].Smartbox = `sb"<01>`
	doc := parseDocument(t, mustRender(t, groups, SelectAll(groups)))

	var got []Antenna
	for _, m := range markers(doc) {
		var a Antenna
		if err := json.Unmarshal([]byte(m.attr("data-antenna")), &a); err != nil {
			t.Fatalf("json.Unmarshal(data-antenna) error = %v, want nil", err)
		}
		got = append(got, a)
	}
	var want []Antenna
	for _, g := range groups {
		want = append(want, g.Antennas...)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("click payloads mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_NonFinitePayloadFallsBackToID(t *testing.T) {
	groups := scenarioGroups()
	groups[1].Antennas[0].Delay = math.NaN()
	doc := parseDocument(t, mustRender(t, groups, NewSelection("S10B")))

	if got, want := markers(doc)[0].attr("data-antenna"), `{"id":"S10B1"}`; got != want {
		t.Errorf("data-antenna = %q, want %q", got, want)
	}
}

func TestRender_Connections(t *testing.T) {
	groups := scenarioGroups()
	doc := parseDocument(t, mustRender(t, groups, SelectAll(groups), WithConnections(false)))
	if got := len(doc.findAll("path")); got != 0 {
		t.Errorf("path count = %v, want 0", got)
	}
	if got := len(markers(doc)); got != 3 {
		t.Errorf("marker count = %v, want 3", got)
	}
}

func TestRender_Title(t *testing.T) {
	groups := scenarioGroups()
	doc := parseDocument(t, mustRender(t, groups, SelectAll(groups), WithTitle("Station S10-3")))
	if !contains(doc.texts(), "Station S10-3") {
		t.Errorf("title not rendered")
	}
}

func TestProjectGroup_InBounds(t *testing.T) {
	groups := randomGroups(4, 50)
	opts := defaultRenderOptions()
	proj := NewProjector(groups, opts)
	w, h := float64(opts.MapWidth()), float64(opts.MapHeight())

	for _, g := range groups {
		for i, p := range ProjectGroup(g, proj) {
			if p.X < 0 || p.X > w || p.Y < 0 || p.Y > h {
				t.Errorf("ProjectGroup(%s)[%d] = %v, want within [0 %v]x[0 %v]", g.ID, i, p, w, h)
			}
		}
	}
}

// Benchmarks

func BenchmarkRender(b *testing.B) {
	sizes := []int{1e+2, 1e+3, 1e+4}
	for _, n := range sizes {
		b.Run(fmt.Sprintf("N%d", n), func(b *testing.B) {
			groups := randomGroups(16, n/16)
			sel := SelectAll(groups)

			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				if _, err := Render(groups, sel); err != nil {
					b.Fatalf("Render(...) error = %v, want nil", err)
				}
			}
		})
	}
}

// Helpers

func mustRender(t *testing.T, groups []Group, sel Selection, opts ...RenderOption) string {
	t.Helper()
	doc, err := Render(groups, sel, opts...)
	if err != nil {
		t.Fatalf("Render(...) error = %v, want nil", err)
	}
	return doc
}

func scenarioGroups() []Group {
	return []Group{
		{
			ID:    "S10A",
			Color: ColorFor(0).String(),
			Antennas: []Antenna{
				{ID: "S10A1", Position: Position{Latitude: -26.82, Longitude: 116.76}, Smartbox: "sb01", TPM: "tpm01"},
				{ID: "S10A2", Position: Position{Latitude: -26.83, Longitude: 116.77}, Smartbox: "sb01", TPM: "tpm01"},
			},
		},
		{
			ID:    "S10B",
			Color: ColorFor(1).String(),
			Antennas: []Antenna{
				{ID: "S10B1", Position: Position{Latitude: -26.84, Longitude: 116.78}, Smartbox: "sb02", TPM: "tpm02"},
			},
		},
	}
}

func randomGroups(numGroups, perGroup int) []Group {
	center := s2.LatLngFromDegrees(-26.82, 116.76)
	positions := utils.GenerateRandomPositions(numGroups*perGroup, 0, center, s1.Degree/100)
	groups := make([]Group, numGroups)
	for i := range groups {
		groups[i] = Group{ID: fmt.Sprintf("G%03d", i), Color: ColorFor(i).String()}
		for j := range perGroup {
			ll := positions[i*perGroup+j]
			groups[i].Antennas = append(groups[i].Antennas, Antenna{
				ID:       fmt.Sprintf("G%03d-%d", i, j),
				Position: Position{Latitude: ll.Lat.Degrees(), Longitude: ll.Lng.Degrees()},
				Masked:   j%7 == 0,
			})
		}
	}
	return groups
}

type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []*node    `xml:",any"`
	Text    string     `xml:",chardata"`
}

func parseDocument(t *testing.T, doc string) *node {
	t.Helper()
	var root node
	if err := xml.Unmarshal([]byte(doc), &root); err != nil {
		t.Fatalf("xml.Unmarshal(document) error = %v, want nil", err)
	}
	return &root
}

func (n *node) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (n *node) findAll(name string) []*node {
	var out []*node
	for _, c := range n.Nodes {
		if c.XMLName.Local == name {
			out = append(out, c)
		}
		out = append(out, c.findAll(name)...)
	}
	return out
}

func (n *node) group(id string) *node {
	for _, g := range n.findAll("g") {
		if g.attr("class") == "antenna-group" && g.attr("data-group") == id {
			return g
		}
	}
	return nil
}

func (n *node) texts() []string {
	var out []string
	for _, t := range n.findAll("text") {
		out = append(out, strings.TrimSpace(t.Text))
	}
	return out
}

func markers(n *node) []*node {
	var out []*node
	for _, c := range n.findAll("circle") {
		if c.attr("data-event") == ClickEventName {
			out = append(out, c)
		}
	}
	return out
}

func legendTexts(n *node) []string {
	for _, g := range n.findAll("g") {
		if g.attr("class") == "legend-container" {
			return g.texts()
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
