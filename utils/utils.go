// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package utils provides utility functions for generating antenna positions for maps and tests.

package utils

import (
	"math/rand"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// GenerateRandomPositions generates cnt random positions within radius of center
// in both latitude and longitude.
// The seed parameter ensures reproducibility.
func GenerateRandomPositions(cnt int, seed int64, center s2.LatLng, radius s1.Angle) []s2.LatLng {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	positions := make([]s2.LatLng, cnt)

	for i := range cnt {
		positions[i] = s2.LatLng{
			Lat: center.Lat + s1.Angle(random.Float64()*2-1)*radius,
			Lng: center.Lng + s1.Angle(random.Float64()*2-1)*radius,
		}.Normalized()
	}

	return positions
}
