// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package antennamap

import (
	"errors"
	"fmt"
)

const (
	defaultWidth       = 1000
	defaultHeight      = 600
	defaultLegendWidth = 150
	defaultMargin      = 40
	defaultTitle       = "Antenna Positions Grouped by ID"
)

type RenderOptions struct {
	Width       int
	Height      int
	LegendWidth int
	Margin      int
	Title       string
	Connections bool
}

type RenderOption func(*RenderOptions) error

func defaultRenderOptions() RenderOptions {
	return RenderOptions{
		Width:       defaultWidth,
		Height:      defaultHeight,
		LegendWidth: defaultLegendWidth,
		Margin:      defaultMargin,
		Title:       defaultTitle,
		Connections: true,
	}
}

// WithSize sets the canvas size in pixels.
func WithSize(width, height int) RenderOption {
	return func(o *RenderOptions) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("WithSize: size %dx%d must be positive", width, height)
		}
		o.Width, o.Height = width, height
		return nil
	}
}

func WithLegendWidth(width int) RenderOption {
	return func(o *RenderOptions) error {
		if width < 0 {
			return fmt.Errorf("WithLegendWidth: width %d must be non-negative", width)
		}
		o.LegendWidth = width
		return nil
	}
}

// WithMargin sets the margin kept on every side of the map area.
func WithMargin(margin int) RenderOption {
	return func(o *RenderOptions) error {
		if margin < 0 {
			return fmt.Errorf("WithMargin: margin %d must be non-negative", margin)
		}
		o.Margin = margin
		return nil
	}
}

func WithTitle(title string) RenderOption {
	return func(o *RenderOptions) error {
		o.Title = title
		return nil
	}
}

// WithConnections controls whether group outlines are drawn.
func WithConnections(show bool) RenderOption {
	return func(o *RenderOptions) error {
		o.Connections = show
		return nil
	}
}

// MapWidth returns the width of the drawing area.
func (o RenderOptions) MapWidth() int {
	return o.Width - 2*o.Margin - o.LegendWidth
}

// MapHeight returns the height of the drawing area.
func (o RenderOptions) MapHeight() int {
	return o.Height - 2*o.Margin
}

func (o RenderOptions) validate() error {
	if o.MapWidth() <= 0 || o.MapHeight() <= 0 {
		return errors.New("antennamap: margins and legend leave no room for the map")
	}
	return nil
}
