package events

import "github.com/calram/skirmish/internal/model"

// Bus is the notification boundary. Services emit domain events strictly
// after a mutation commits; emission is fire-and-forget and never rolls a
// mutation back.
type Bus interface {
	Emit(event model.Event)
}

// NopBus discards all events. Useful for tests that don't assert on emission.
type NopBus struct{}

// Emit discards the event
func (NopBus) Emit(model.Event) {}

var _ Bus = NopBus{}
