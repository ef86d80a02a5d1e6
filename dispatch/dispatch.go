// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package dispatch carries antenna click events from a rendered map to subscribers.
//
// Every marker of a rendered document carries a data-event attribute naming
// EventName and a data-antenna attribute holding the JSON record. A host page
// forwards clicks as Event values; Bus fans them out without blocking.

package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/2dChan/antennamap"
)

const EventName = antennamap.ClickEventName

var (
	ErrUnknownEvent = errors.New("dispatch: unknown event")
	ErrEmptyPayload = errors.New("dispatch: event without antenna id")
)

// Event is one click on an antenna marker.
type Event struct {
	Name    string             `json:"event"`
	Antenna antennamap.Antenna `json:"antenna"`
}

// NewClick returns the click event of a.
func NewClick(a antennamap.Antenna) Event {
	return Event{Name: EventName, Antenna: a}
}

// Decode parses a JSON event sent by a host page.
func Decode(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("dispatch: %w", err)
	}
	if ev.Name != EventName {
		return Event{}, fmt.Errorf("%w %q", ErrUnknownEvent, ev.Name)
	}
	if ev.Antenna.ID == "" {
		return Event{}, ErrEmptyPayload
	}
	return ev, nil
}

// Bus fans events out to subscribers. It is safe for concurrent use.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	next   int
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe returns a channel receiving published events and a function that
// cancels the subscription and closes the channel. Events that arrive while the
// channel buffer is full are dropped for that subscriber.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers ev to every subscriber with room for it and returns how many
// received it.
func (b *Bus) Publish(ev Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, ch := range b.subs {
		select {
		case ch <- ev:
			n++
		default:
		}
	}
	return n
}

// Close closes every subscriber channel. Later Publish calls reach nobody.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
