package main

import (
	"reflect"
	"testing"

	"slideview/internal/slideshow"
)

func pt(x, y float64) slideshow.Point { return slideshow.Point{X: x, Y: y} }

func TestTouchTracker(t *testing.T) {
	type frameCheck struct {
		samples []touchSample
		phases  []slideshow.TouchPhase
	}

	tests := []struct {
		name   string
		frames []frameCheck
	}{
		{
			name: "tap",
			frames: []frameCheck{
				{[]touchSample{{ID: 1, X: 10, Y: 10}}, []slideshow.TouchPhase{slideshow.TouchStart}},
				{[]touchSample{{ID: 1, X: 10, Y: 10}}, nil},
				{nil, []slideshow.TouchPhase{slideshow.TouchEnd}},
			},
		},
		{
			name: "swipe",
			frames: []frameCheck{
				{[]touchSample{{ID: 1, X: 300, Y: 100}}, []slideshow.TouchPhase{slideshow.TouchStart}},
				{[]touchSample{{ID: 1, X: 200, Y: 100}}, []slideshow.TouchPhase{slideshow.TouchMove}},
				{[]touchSample{{ID: 1, X: 100, Y: 100}}, []slideshow.TouchPhase{slideshow.TouchMove}},
				{nil, []slideshow.TouchPhase{slideshow.TouchEnd}},
			},
		},
		{
			name: "second finger joins while first moves",
			frames: []frameCheck{
				{[]touchSample{{ID: 1, X: 0, Y: 0}}, []slideshow.TouchPhase{slideshow.TouchStart}},
				{
					[]touchSample{{ID: 1, X: 5, Y: 0}, {ID: 2, X: 50, Y: 50}},
					[]slideshow.TouchPhase{slideshow.TouchMove, slideshow.TouchStart},
				},
			},
		},
		{
			name: "one finger lifts and another lands",
			frames: []frameCheck{
				{[]touchSample{{ID: 1, X: 0, Y: 0}}, []slideshow.TouchPhase{slideshow.TouchStart}},
				{
					[]touchSample{{ID: 2, X: 9, Y: 9}},
					[]slideshow.TouchPhase{slideshow.TouchEnd, slideshow.TouchStart},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := newTouchTracker()
			for i, f := range tt.frames {
				events := tracker.update(f.samples)
				var phases []slideshow.TouchPhase
				for _, ev := range events {
					phases = append(phases, ev.Phase)
				}
				if !reflect.DeepEqual(phases, f.phases) {
					t.Errorf("frame %d phases = %v, want %v", i, phases, f.phases)
				}
			}
		})
	}
}

func TestTouchTrackerPinchPayloads(t *testing.T) {
	tracker := newTouchTracker()

	events := tracker.update([]touchSample{{ID: 2, X: 200, Y: 0}, {ID: 1, X: 100, Y: 0}})
	if len(events) != 1 {
		t.Fatalf("expected one start event, got %d", len(events))
	}
	start := events[0]
	if want := []slideshow.Point{pt(100, 0), pt(200, 0)}; !reflect.DeepEqual(start.Touches, want) {
		t.Errorf("start touches = %v, want %v (ordered by ID)", start.Touches, want)
	}
	if len(start.Changed) != 2 {
		t.Errorf("start changed = %v, want both contacts", start.Changed)
	}

	events = tracker.update([]touchSample{{ID: 1, X: 50, Y: 0}, {ID: 2, X: 250, Y: 0}})
	if len(events) != 1 || events[0].Phase != slideshow.TouchMove {
		t.Fatalf("expected one move event, got %+v", events)
	}
	if want := []slideshow.Point{pt(50, 0), pt(250, 0)}; !reflect.DeepEqual(events[0].Touches, want) {
		t.Errorf("move touches = %v, want %v", events[0].Touches, want)
	}

	events = tracker.update([]touchSample{{ID: 2, X: 250, Y: 0}})
	if len(events) != 1 || events[0].Phase != slideshow.TouchEnd {
		t.Fatalf("expected one end event, got %+v", events)
	}
	end := events[0]
	if want := []slideshow.Point{pt(250, 0)}; !reflect.DeepEqual(end.Touches, want) {
		t.Errorf("end touches = %v, want remaining contact %v", end.Touches, want)
	}
	if want := []slideshow.Point{pt(50, 0)}; !reflect.DeepEqual(end.Changed, want) {
		t.Errorf("end changed = %v, want lifted contact %v", end.Changed, want)
	}
}

func TestTouchTrackerReset(t *testing.T) {
	tracker := newTouchTracker()
	tracker.update([]touchSample{{ID: 1, X: 1, Y: 1}})
	tracker.reset()

	if pts := tracker.points(); len(pts) != 0 {
		t.Fatalf("expected no contacts after reset, got %v", pts)
	}
	events := tracker.update([]touchSample{{ID: 1, X: 1, Y: 1}})
	if len(events) != 1 || events[0].Phase != slideshow.TouchStart {
		t.Errorf("expected contact to start again after reset, got %+v", events)
	}
}
