// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package antennamap renders groups of station antennas as a self-contained SVG map.

package antennamap

import (
	"strconv"

	"github.com/golang/geo/s2"
)

// ClickEventName tags the click payload attached to every antenna marker.
const ClickEventName = "antenna-click"

type Position struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// LocationOffset is the local east/north/up offset of an antenna. It is carried
// through unchanged and never used for rendering.
type LocationOffset struct {
	East  float64 `json:"east" yaml:"east"`
	North float64 `json:"north" yaml:"north"`
	Up    float64 `json:"up" yaml:"up"`
}

// Antenna is one antenna record of a station configuration.
type Antenna struct {
	ID             string         `json:"id" yaml:"id"`
	Position       Position       `json:"position" yaml:"position"`
	LocationOffset LocationOffset `json:"location_offset" yaml:"location_offset"`
	EEP            int            `json:"eep" yaml:"eep"`
	Smartbox       string         `json:"smartbox" yaml:"smartbox"`
	SmartboxPort   int            `json:"smartbox_port" yaml:"smartbox_port"`
	TPM            string         `json:"tpm" yaml:"tpm"`
	TPMFibreInput  int            `json:"tpm_fibre_input" yaml:"tpm_fibre_input"`
	TPMXChannel    int            `json:"tpm_x_channel" yaml:"tpm_x_channel"`
	TPMYChannel    int            `json:"tpm_y_channel" yaml:"tpm_y_channel"`
	Delay          float64        `json:"delay" yaml:"delay"`
	Masked         bool           `json:"masked" yaml:"masked"`
}

// LatLng returns the antenna position as an S2 LatLng.
func (a Antenna) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(a.Position.Latitude, a.Position.Longitude)
}

// Detail is a single labelled value of an antenna inspection view.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Details returns the inspection fields of the antenna in display order.
func (a Antenna) Details() []Detail {
	return []Detail{
		{"Latitude", formatFloat(a.Position.Latitude)},
		{"Longitude", formatFloat(a.Position.Longitude)},
		{"Smartbox", a.Smartbox},
		{"Smartbox Port", strconv.Itoa(a.SmartboxPort)},
		{"TPM", a.TPM},
		{"EEP", strconv.Itoa(a.EEP)},
		{"Delay", formatFloat(a.Delay)},
		{"TPM Fibre Input", strconv.Itoa(a.TPMFibreInput)},
		{"TPM X Channel", strconv.Itoa(a.TPMXChannel)},
		{"TPM Y Channel", strconv.Itoa(a.TPMYChannel)},
	}
}

// Group is a set of antennas sharing a grouping key and a colour.
type Group struct {
	ID       string
	Color    string
	Antennas []Antenna
}

// Len returns the number of antennas in the group.
func (g Group) Len() int {
	return len(g.Antennas)
}

// GradientID returns the id of the group's radial gradient definition.
func (g Group) GradientID() string {
	return g.ID + "Gradient"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
