package plan

import "github.com/user/stream-auto-editor/events"

// Criteria selects which events become clips.
type Criteria struct {
	// Players holds the accepted killer identifiers. An empty set accepts nothing.
	Players map[string]struct{}
	// MaxDistance is the largest accepted camera distance.
	MaxDistance float64
	// RequireVisible demands that both the killer and the caster saw the kill.
	RequireVisible bool
}

// NewCriteria builds Criteria accepting the given killers.
func NewCriteria(players []string, maxDistance float64, requireVisible bool) Criteria {
	set := make(map[string]struct{}, len(players))
	for _, p := range players {
		set[p] = struct{}{}
	}
	return Criteria{Players: set, MaxDistance: maxDistance, RequireVisible: requireVisible}
}

// Accepts reports whether ev passes the criteria.
func (c Criteria) Accepts(ev events.Event) bool {
	if c.RequireVisible && !(ev.KillerInView && ev.InView) {
		return false
	}
	if !(ev.CameraDistance <= c.MaxDistance) {
		return false
	}
	_, ok := c.Players[ev.Killer]
	return ok
}

// Filter returns the events accepted by c, in their original order.
func Filter(evs []events.Event, c Criteria) []events.Event {
	var out []events.Event
	for _, ev := range evs {
		if c.Accepts(ev) {
			out = append(out, ev)
		}
	}
	return out
}
