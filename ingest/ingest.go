// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package ingest reads station configuration files into validated antenna records
// and partitions them into groups.

package ingest

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/2dChan/antennamap"
	"gopkg.in/yaml.v3"
)

// DefaultStation is chosen when a file holds several stations and none was requested.
const DefaultStation = "s10-3"

var (
	ErrNoPlatform       = errors.New("ingest: missing platform.stations")
	ErrStationNotFound  = errors.New("ingest: station not found")
	ErrAmbiguousStation = errors.New("ingest: several stations present, choose one")
	ErrMissingField     = errors.New("ingest: missing required field")
	ErrInvalidField     = errors.New("ingest: invalid field")
	ErrInvalidPosition  = errors.New("ingest: invalid position")
	ErrDuplicateAntenna = errors.New("ingest: duplicate antenna id")
)

// Station is the antenna list of one station, in file order.
type Station struct {
	Name     string
	Antennas []antennamap.Antenna
}

type Options struct {
	Station string
}

type Option func(*Options) error

// WithStation selects the station to read.
func WithStation(name string) Option {
	return func(o *Options) error {
		if name == "" {
			return errors.New("WithStation: name must not be empty")
		}
		o.Station = name
		return nil
	}
}

// Load reads the station file at path.
func Load(path string, setters ...Option) (*Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, setters...)
}

// Parse reads a station file of the form
//
//	platform:
//	  stations:
//	    <station>:
//	      antennas:
//	        <id>: {position: {latitude, longitude}, location_offset: {...}, eep, ...}
func Parse(r io.Reader, setters ...Option) (*Station, error) {
	var opts Options
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}

	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoPlatform
		}
		return nil, fmt.Errorf("ingest: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, ErrNoPlatform
	}

	stations := lookup(lookup(doc.Content[0], "platform"), "stations")
	if stations == nil || stations.Kind != yaml.MappingNode || len(stations.Content) == 0 {
		return nil, ErrNoPlatform
	}

	name, station, err := pickStation(stations, opts.Station)
	if err != nil {
		return nil, err
	}

	antennas, err := decodeAntennas(lookup(station, "antennas"))
	if err != nil {
		return nil, fmt.Errorf("station %q: %w", name, err)
	}
	return &Station{Name: name, Antennas: antennas}, nil
}

func pickStation(stations *yaml.Node, want string) (string, *yaml.Node, error) {
	names := make([]string, 0, len(stations.Content)/2)
	for i := 0; i+1 < len(stations.Content); i += 2 {
		names = append(names, stations.Content[i].Value)
	}

	if want == "" {
		switch {
		case len(names) == 1:
			want = names[0]
		case slices.Contains(names, DefaultStation):
			want = DefaultStation
		default:
			return "", nil, fmt.Errorf("%w: %s", ErrAmbiguousStation, strings.Join(names, ", "))
		}
	}

	node := lookup(stations, want)
	if node == nil {
		return "", nil, fmt.Errorf("%w: %q (have %s)", ErrStationNotFound, want, strings.Join(names, ", "))
	}
	return want, node, nil
}

// NOTE: Pointers distinguish absent fields from zero values.
type rawAntenna struct {
	Position *struct {
		Latitude  *float64 `yaml:"latitude"`
		Longitude *float64 `yaml:"longitude"`
	} `yaml:"position"`
	LocationOffset antennamap.LocationOffset `yaml:"location_offset"`
	EEP            int                       `yaml:"eep"`
	Smartbox       string                    `yaml:"smartbox"`
	SmartboxPort   int                       `yaml:"smartbox_port"`
	TPM            string                    `yaml:"tpm"`
	TPMFibreInput  int                       `yaml:"tpm_fibre_input"`
	TPMXChannel    int                       `yaml:"tpm_x_channel"`
	TPMYChannel    int                       `yaml:"tpm_y_channel"`
	Delay          float64                   `yaml:"delay"`
	Masked         bool                      `yaml:"masked"`
}

func decodeAntennas(node *yaml.Node) ([]antennamap.Antenna, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: antennas", ErrMissingField)
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: antennas must be a mapping", ErrInvalidField)
	}

	antennas := make([]antennamap.Antenna, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		id := node.Content[i].Value
		if seen[id] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAntenna, id)
		}
		seen[id] = true

		a, err := decodeAntenna(id, node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("antenna %q: %w", id, err)
		}
		antennas = append(antennas, a)
	}
	return antennas, nil
}

func decodeAntenna(id string, node *yaml.Node) (antennamap.Antenna, error) {
	var raw rawAntenna
	if err := node.Decode(&raw); err != nil {
		return antennamap.Antenna{}, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	if raw.Position == nil {
		return antennamap.Antenna{}, fmt.Errorf("%w: position", ErrMissingField)
	}
	if raw.Position.Latitude == nil {
		return antennamap.Antenna{}, fmt.Errorf("%w: position.latitude", ErrMissingField)
	}
	if raw.Position.Longitude == nil {
		return antennamap.Antenna{}, fmt.Errorf("%w: position.longitude", ErrMissingField)
	}

	a := antennamap.Antenna{
		ID: id,
		Position: antennamap.Position{
			Latitude:  *raw.Position.Latitude,
			Longitude: *raw.Position.Longitude,
		},
		LocationOffset: raw.LocationOffset,
		EEP:            raw.EEP,
		Smartbox:       raw.Smartbox,
		SmartboxPort:   raw.SmartboxPort,
		TPM:            raw.TPM,
		TPMFibreInput:  raw.TPMFibreInput,
		TPMXChannel:    raw.TPMXChannel,
		TPMYChannel:    raw.TPMYChannel,
		Delay:          raw.Delay,
		Masked:         raw.Masked,
	}
	if err := Validate(a); err != nil {
		return antennamap.Antenna{}, err
	}
	return a, nil
}

// Validate reports whether a can be rendered: every real-valued field is finite
// and the position is a valid latitude/longitude.
func Validate(a antennamap.Antenna) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"position.latitude", a.Position.Latitude},
		{"position.longitude", a.Position.Longitude},
		{"location_offset.east", a.LocationOffset.East},
		{"location_offset.north", a.LocationOffset.North},
		{"location_offset.up", a.LocationOffset.Up},
		{"delay", a.Delay},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidField, f.name, f.v)
		}
	}
	if !a.LatLng().IsValid() {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidPosition, a.Position.Latitude, a.Position.Longitude)
	}
	return nil
}

// lookup returns the value of key in mapping node n, or nil.
func lookup(n *yaml.Node, key string) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			v := n.Content[i+1]
			if v.Kind == yaml.AliasNode {
				v = v.Alias
			}
			return v
		}
	}
	return nil
}
