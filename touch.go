package main

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"

	"slideview/internal/slideshow"
)

// touchSample is one contact as reported for the current frame
type touchSample struct {
	ID   ebiten.TouchID
	X, Y int
}

func currentTouches() []touchSample {
	ids := ebiten.AppendTouchIDs(nil)
	samples := make([]touchSample, 0, len(ids))
	for _, id := range ids {
		x, y := ebiten.TouchPosition(id)
		samples = append(samples, touchSample{ID: id, X: x, Y: y})
	}
	return samples
}

// touchTracker diffs per-frame touch snapshots into start, move and end
// events for the gesture interpreter
type touchTracker struct {
	last map[ebiten.TouchID]slideshow.Point
}

func newTouchTracker() *touchTracker {
	return &touchTracker{last: make(map[ebiten.TouchID]slideshow.Point)}
}

// points returns the tracked contacts ordered by touch ID
func (t *touchTracker) points() []slideshow.Point {
	ids := make([]ebiten.TouchID, 0, len(t.last))
	for id := range t.last {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	pts := make([]slideshow.Point, len(ids))
	for i, id := range ids {
		pts[i] = t.last[id]
	}
	return pts
}

// update consumes one frame of samples. Ended contacts are reported first,
// then movement, then new contacts.
func (t *touchTracker) update(samples []touchSample) []slideshow.TouchEvent {
	var events []slideshow.TouchEvent

	current := make(map[ebiten.TouchID]slideshow.Point, len(samples))
	for _, s := range samples {
		current[s.ID] = slideshow.Point{X: float64(s.X), Y: float64(s.Y)}
	}

	var ended []ebiten.TouchID
	for id := range t.last {
		if _, ok := current[id]; !ok {
			ended = append(ended, id)
		}
	}
	slices.Sort(ended)
	for _, id := range ended {
		p := t.last[id]
		delete(t.last, id)
		events = append(events, slideshow.TouchEvent{
			Phase:   slideshow.TouchEnd,
			Touches: t.points(),
			Changed: []slideshow.Point{p},
		})
	}

	moved := false
	var started []slideshow.Point
	for _, s := range samples {
		p := current[s.ID]
		old, tracked := t.last[s.ID]
		if !tracked {
			started = append(started, p)
			continue
		}
		if old != p {
			t.last[s.ID] = p
			moved = true
		}
	}
	if moved {
		events = append(events, slideshow.TouchEvent{Phase: slideshow.TouchMove, Touches: t.points()})
	}

	if len(started) > 0 {
		for _, s := range samples {
			if _, tracked := t.last[s.ID]; !tracked {
				t.last[s.ID] = current[s.ID]
			}
		}
		events = append(events, slideshow.TouchEvent{
			Phase:   slideshow.TouchStart,
			Touches: t.points(),
			Changed: started,
		})
	}
	return events
}

// reset forgets all contacts; used when a session opens or closes
func (t *touchTracker) reset() {
	clear(t.last)
}
