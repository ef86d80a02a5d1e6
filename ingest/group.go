// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package ingest

import (
	"github.com/2dChan/antennamap"
)

// DefaultPrefixLen is the number of leading id characters shared by a group.
const DefaultPrefixLen = 4

// GroupKey returns the first n characters of id, or id itself when shorter.
func GroupKey(id string, n int) string {
	r := []rune(id)
	if n < 0 || n >= len(r) {
		return id
	}
	return string(r[:n])
}

// GroupByPrefix partitions antennas by the first n characters of their id.
// Groups appear in the order their first member appears and are coloured by that
// position.
func GroupByPrefix(antennas []antennamap.Antenna, n int) []antennamap.Group {
	index := make(map[string]int)
	var groups []antennamap.Group
	for _, a := range antennas {
		key := GroupKey(a.ID, n)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, antennamap.Group{
				ID:    key,
				Color: antennamap.ColorFor(i).String(),
			})
		}
		groups[i].Antennas = append(groups[i].Antennas, a)
	}
	return groups
}
