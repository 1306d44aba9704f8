package slideshow

import "math"

// Gesture thresholds and pinch limits
const (
	SwipeThreshold = 50.0 // minimum horizontal travel for a swipe, in pixels
	PanThreshold   = 1.0  // per-move delta that turns a one-finger drag into a pan
	MinPinchScale  = 0.5
	MaxPinchScale  = 3.0
)

// Point is a touch position in screen pixels
type Point struct {
	X, Y float64
}

// TouchPhase is the kind of a touch event
type TouchPhase int

const (
	TouchStart TouchPhase = iota
	TouchMove
	TouchEnd
)

// TouchEvent is one raw touch event on the slide surface. Touches holds the
// contacts still on the surface; Changed holds the contacts this event is about.
type TouchEvent struct {
	Phase   TouchPhase
	Touches []Point
	Changed []Point
}

// IntentKind classifies an interpreted gesture
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentZoom
	IntentPan
	IntentSwipeLeft
	IntentSwipeRight
)

func (k IntentKind) String() string {
	switch k {
	case IntentZoom:
		return "zoom"
	case IntentPan:
		return "pan"
	case IntentSwipeLeft:
		return "swipe-left"
	case IntentSwipeRight:
		return "swipe-right"
	default:
		return "none"
	}
}

// Intent is what a touch sequence means to the viewer
type Intent struct {
	Kind   IntentKind
	Scale  float64 // IntentZoom
	DX, DY float64 // IntentPan, incremental
}

// GestureInterpreter turns raw touch sequences into pan, pinch-zoom and
// swipe intents. One interpreter belongs to one viewer session.
type GestureInterpreter struct {
	pinching        bool
	panning         bool
	initialDistance float64
	baseScale       float64
	origin          Point
	lastPan         Point
	tracking        bool
}

// Handle consumes one event. scale is the current zoom; one-finger drags
// only classify as pans while scale > 1.
func (g *GestureInterpreter) Handle(ev TouchEvent, scale float64) Intent {
	switch ev.Phase {
	case TouchStart:
		return g.start(ev, scale)
	case TouchMove:
		return g.move(ev, scale)
	case TouchEnd:
		return g.end(ev)
	}
	return Intent{}
}

// Reset drops any in-progress gesture
func (g *GestureInterpreter) Reset() {
	*g = GestureInterpreter{}
}

// Pinching reports whether a two-finger gesture is in progress
func (g *GestureInterpreter) Pinching() bool {
	return g.pinching
}

func (g *GestureInterpreter) start(ev TouchEvent, scale float64) Intent {
	switch len(ev.Touches) {
	case 2:
		g.pinching = true
		g.initialDistance = distance(ev.Touches[0], ev.Touches[1])
		g.baseScale = scale
	case 1:
		if g.pinching {
			break
		}
		g.origin = ev.Touches[0]
		g.lastPan = ev.Touches[0]
		g.panning = false
		g.tracking = true
	}
	return Intent{}
}

func (g *GestureInterpreter) move(ev TouchEvent, scale float64) Intent {
	if len(ev.Touches) == 2 && g.pinching {
		if g.initialDistance <= 0 {
			return Intent{}
		}
		d := distance(ev.Touches[0], ev.Touches[1])
		next := clamp(g.baseScale*(d/g.initialDistance), MinPinchScale, MaxPinchScale)
		return Intent{Kind: IntentZoom, Scale: next}
	}

	if len(ev.Touches) != 1 || g.pinching || !g.tracking {
		return Intent{}
	}

	p := ev.Touches[0]
	dx := p.X - g.lastPan.X
	dy := p.Y - g.lastPan.Y
	g.lastPan = p

	if scale <= 1 {
		return Intent{}
	}
	if g.panning || math.Abs(dx) > PanThreshold || math.Abs(dy) > PanThreshold {
		g.panning = true
		return Intent{Kind: IntentPan, DX: dx, DY: dy}
	}
	return Intent{}
}

func (g *GestureInterpreter) end(ev TouchEvent) Intent {
	intent := Intent{}
	if len(ev.Changed) == 1 && g.tracking && !g.pinching && !g.panning {
		dx := ev.Changed[0].X - g.origin.X
		dy := ev.Changed[0].Y - g.origin.Y
		if math.Abs(dx) >= SwipeThreshold && math.Abs(dx) > math.Abs(dy) {
			if dx < 0 {
				intent = Intent{Kind: IntentSwipeLeft}
			} else {
				intent = Intent{Kind: IntentSwipeRight}
			}
		}
	}

	// A pinch stays a pinch until every finger is lifted
	if len(ev.Touches) == 0 {
		g.Reset()
	} else {
		g.tracking = false
	}
	return intent
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
