// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package export writes rendered map documents as SVG files or rasterized images.

package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/chromedp/chromedp"
)

// DefaultFilename is the name offered for a downloaded map.
const DefaultFilename = "antenna_map.svg"

const jpegQuality = 90

type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

var ErrUnsupportedFormat = errors.New("export: unsupported format")

// ParseFormat accepts svg, png, jpg and jpeg in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%w %q (want svg, png, jpg)", ErrUnsupportedFormat, s)
}

// Filename returns DefaultFilename with the extension of f.
func (f Format) Filename() string {
	base := strings.TrimSuffix(DefaultFilename, ".svg")
	switch f {
	case FormatPNG:
		return base + ".png"
	case FormatJPEG:
		return base + ".jpg"
	}
	return DefaultFilename
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	}
	return "image/svg+xml"
}

// WriteSVG writes doc to w unchanged.
func WriteSVG(w io.Writer, doc string) error {
	_, err := io.WriteString(w, doc)
	return err
}

// SaveSVG writes doc to the file at path unchanged.
func SaveSVG(path, doc string) error {
	return os.WriteFile(path, []byte(doc), 0o644)
}

// DataURI returns doc as a base64 data URI.
func DataURI(doc string) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(doc))
}

// Rasterize renders doc in headless Chrome and returns the image bytes in format.
func Rasterize(ctx context.Context, doc string, format Format, opts ...chromedp.ExecAllocatorOption) ([]byte, error) {
	if format != FormatPNG && format != FormatJPEG {
		return nil, fmt.Errorf("%w %q for rasterization", ErrUnsupportedFormat, format)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Headless)
	allocOpts = append(allocOpts, opts...)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var shot []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(DataURI(doc)),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
		chromedp.Screenshot(`svg`, &shot, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("export: chromedp: %w", err)
	}
	if len(shot) == 0 {
		return nil, errors.New("export: empty screenshot")
	}

	if format == FormatPNG {
		return shot, nil
	}
	return pngToJPEG(shot)
}

func pngToJPEG(b []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("export: decode screenshot: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("export: encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Write writes doc to w in format. Nothing is written if rasterization fails.
func Write(ctx context.Context, w io.Writer, doc string, format Format, opts ...chromedp.ExecAllocatorOption) error {
	if format == FormatSVG {
		return WriteSVG(w, doc)
	}
	b, err := Rasterize(ctx, doc, format, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
