// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package antennamap

import (
	"slices"
)

// Selection is an immutable set of group ids chosen for display.
// The zero value selects nothing.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns a selection containing ids.
func NewSelection(ids ...string) Selection {
	s := Selection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// SelectAll returns a selection containing every group.
func SelectAll(groups []Group) Selection {
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	return NewSelection(ids...)
}

func (s Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in ascending order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Toggle returns a copy of s with id added if absent or removed if present.
func (s Selection) Toggle(id string) Selection {
	ids := make([]string, 0, len(s.ids)+1)
	for cur := range s.ids {
		if cur != id {
			ids = append(ids, cur)
		}
	}
	if !s.Has(id) {
		ids = append(ids, id)
	}
	return NewSelection(ids...)
}

// Visible returns the selected groups in list order.
func (s Selection) Visible(groups []Group) []Group {
	visible := make([]Group, 0, len(groups))
	for _, g := range groups {
		if s.Has(g.ID) {
			visible = append(visible, g)
		}
	}
	return visible
}
