package slideshow

import (
	"math"
	"time"
)

// RandomTransition is the sentinel transition name that selects a random
// catalog entry on every slide change.
const RandomTransition = "random"

// TransitionDuration is the length of every enter/exit animation
const TransitionDuration = 600 * time.Millisecond

// Prop identifies one animatable property of a keyframe
type Prop int

const (
	PropOpacity    Prop = iota
	PropX               // pixels
	PropXPercent        // percent of the frame width
	PropY               // pixels
	PropYPercent        // percent of the frame height
	PropZ               // pixels toward the viewer
	PropScale
	PropScaleY
	PropRotate  // degrees
	PropRotateX // degrees
	PropRotateY // degrees
	PropSkewX   // degrees
	PropOriginX // 0 = left edge, 1 = right edge
	PropBlur    // pixels
	PropBrightness
	PropGlow       // drop shadow radius in pixels
	PropClipTop    // inset percent
	PropClipRight  // inset percent
	PropClipBottom // inset percent
	PropClipLeft   // inset percent
	PropClipCircle // radius percent
)

var propDefaults = map[Prop]float64{
	PropOpacity:    1,
	PropScale:      1,
	PropScaleY:     1,
	PropOriginX:    0.5,
	PropBrightness: 1,
	PropClipCircle: 100,
}

// Keyframe holds the properties set on one animation endpoint. Properties
// that are not set take their identity value.
type Keyframe map[Prop]float64

// Get returns the value of p, or its identity value when unset
func (k Keyframe) Get(p Prop) float64 {
	if v, ok := k[p]; ok {
		return v
	}
	return propDefaults[p]
}

// Has reports whether p is explicitly set
func (k Keyframe) Has(p Prop) bool {
	_, ok := k[p]
	return ok
}

// HasInsetClip reports whether any inset clip edge is set
func (k Keyframe) HasInsetClip() bool {
	return k.Has(PropClipTop) || k.Has(PropClipRight) || k.Has(PropClipBottom) || k.Has(PropClipLeft)
}

// Interpolate blends a toward b by t in [0, 1]. The result carries every
// property set on either side.
func Interpolate(a, b Keyframe, t float64) Keyframe {
	out := make(Keyframe, len(a)+len(b))
	for p := range a {
		out[p] = lerp(a.Get(p), b.Get(p), t)
	}
	for p := range b {
		if _, done := out[p]; !done {
			out[p] = lerp(a.Get(p), b.Get(p), t)
		}
	}
	return out
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}

// Easing selects the timing curve of a transition
type Easing int

const (
	EaseInOut Easing = iota
	EaseSpring
)

// Ease maps linear progress t in [0, 1] onto the easing curve
func (e Easing) Ease(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	switch e {
	case EaseSpring:
		// Damped oscillation that overshoots once, like a bouncy spring
		return 1 - math.Exp(-6*t)*math.Cos(3*math.Pi*t)
	default:
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - math.Pow(-2*t+2, 2)/2
	}
}

// TransitionSpec is a named enter/exit animation
type TransitionSpec struct {
	Name    string
	Group   string
	Initial Keyframe
	Animate Keyframe
	Exit    Keyframe
	Easing  Easing
}

// Enter returns the entering slide's keyframe at linear progress t
func (s TransitionSpec) Enter(t float64) Keyframe {
	return Interpolate(s.Initial, s.Animate, s.Easing.Ease(t))
}

// Leave returns the exiting slide's keyframe at linear progress t
func (s TransitionSpec) Leave(t float64) Keyframe {
	return Interpolate(s.Animate, s.Exit, s.Easing.Ease(t))
}

// Progress converts elapsed time into linear progress in [0, 1]
func Progress(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= TransitionDuration {
		return 1
	}
	return float64(elapsed) / float64(TransitionDuration)
}

var transitionCatalog = []TransitionSpec{
	// Subtle
	{Name: "fade", Group: "Subtle",
		Initial: Keyframe{PropOpacity: 0}, Animate: Keyframe{PropOpacity: 1}, Exit: Keyframe{PropOpacity: 0}},
	{Name: "crossfade", Group: "Subtle",
		Initial: Keyframe{PropOpacity: 0, PropScale: 1.05}, Animate: Keyframe{PropOpacity: 1, PropScale: 1}, Exit: Keyframe{PropOpacity: 0, PropScale: 0.95}},
	{Name: "smooth-blur", Group: "Subtle",
		Initial: Keyframe{PropOpacity: 0, PropBlur: 10}, Animate: Keyframe{PropOpacity: 1, PropBlur: 0}, Exit: Keyframe{PropOpacity: 0, PropBlur: 10}},

	// Push
	{Name: "push-right", Group: "Push",
		Initial: Keyframe{PropXPercent: 100}, Animate: Keyframe{PropXPercent: 0}, Exit: Keyframe{PropXPercent: -100}},
	{Name: "push-left", Group: "Push",
		Initial: Keyframe{PropXPercent: -100}, Animate: Keyframe{PropXPercent: 0}, Exit: Keyframe{PropXPercent: 100}},
	{Name: "push-up", Group: "Push",
		Initial: Keyframe{PropYPercent: 100}, Animate: Keyframe{PropYPercent: 0}, Exit: Keyframe{PropYPercent: -100}},
	{Name: "push-down", Group: "Push",
		Initial: Keyframe{PropYPercent: -100}, Animate: Keyframe{PropYPercent: 0}, Exit: Keyframe{PropYPercent: 100}},

	// Zoom
	{Name: "zoom-in", Group: "Zoom",
		Initial: Keyframe{PropScale: 0.5, PropOpacity: 0}, Animate: Keyframe{PropScale: 1, PropOpacity: 1}, Exit: Keyframe{PropScale: 1.5, PropOpacity: 0}},
	{Name: "zoom-out", Group: "Zoom",
		Initial: Keyframe{PropScale: 1.5, PropOpacity: 0}, Animate: Keyframe{PropScale: 1, PropOpacity: 1}, Exit: Keyframe{PropScale: 0.5, PropOpacity: 0}},
	{Name: "pop-up", Group: "Zoom",
		Initial: Keyframe{PropScale: 0.8, PropY: 50, PropOpacity: 0}, Animate: Keyframe{PropScale: 1, PropY: 0, PropOpacity: 1}, Exit: Keyframe{PropScale: 1.1, PropY: -20, PropOpacity: 0}},

	// 3D
	{Name: "flip-x", Group: "3D",
		Initial: Keyframe{PropRotateX: 90, PropOpacity: 0}, Animate: Keyframe{PropRotateX: 0, PropOpacity: 1}, Exit: Keyframe{PropRotateX: -90, PropOpacity: 0}},
	{Name: "flip-y", Group: "3D",
		Initial: Keyframe{PropRotateY: 90, PropOpacity: 0}, Animate: Keyframe{PropRotateY: 0, PropOpacity: 1}, Exit: Keyframe{PropRotateY: -90, PropOpacity: 0}},
	{Name: "cube-turn", Group: "3D",
		Initial: Keyframe{PropRotateY: 45, PropXPercent: 50, PropOpacity: 0}, Animate: Keyframe{PropRotateY: 0, PropXPercent: 0, PropOpacity: 1}, Exit: Keyframe{PropRotateY: -45, PropXPercent: -50, PropOpacity: 0}},
	{Name: "3d-lift", Group: "3D",
		Initial: Keyframe{PropRotateX: -15, PropZ: -200, PropOpacity: 0}, Animate: Keyframe{PropRotateX: 0, PropZ: 0, PropOpacity: 1}, Exit: Keyframe{PropRotateX: 15, PropZ: -200, PropOpacity: 0}},

	// Wipes
	{Name: "wipe-right", Group: "Wipes",
		Initial: Keyframe{PropClipRight: 100}, Animate: Keyframe{PropClipRight: 0}, Exit: Keyframe{PropClipLeft: 100}},
	{Name: "wipe-vertical", Group: "Wipes",
		Initial: Keyframe{PropClipTop: 100}, Animate: Keyframe{PropClipTop: 0}, Exit: Keyframe{PropClipBottom: 100}},
	{Name: "circle-reveal", Group: "Wipes",
		Initial: Keyframe{PropClipCircle: 0}, Animate: Keyframe{PropClipCircle: 100}, Exit: Keyframe{PropClipCircle: 0}},

	// Dynamic
	{Name: "bounce-drop", Group: "Dynamic", Easing: EaseSpring,
		Initial: Keyframe{PropY: -500}, Animate: Keyframe{PropY: 0}, Exit: Keyframe{PropY: 500}},
	{Name: "tilt-shift", Group: "Dynamic",
		Initial: Keyframe{PropRotate: -5, PropScale: 0.9, PropOpacity: 0}, Animate: Keyframe{PropRotate: 0, PropScale: 1, PropOpacity: 1}, Exit: Keyframe{PropRotate: 5, PropScale: 1.1, PropOpacity: 0}},
	{Name: "swing-in", Group: "Dynamic",
		Initial: Keyframe{PropRotateY: -90, PropOriginX: 0}, Animate: Keyframe{PropRotateY: 0}, Exit: Keyframe{PropRotateY: 90, PropOriginX: 1}},

	// Sci-Fi
	{Name: "glitch-fade", Group: "Sci-Fi",
		Initial: Keyframe{PropSkewX: 20, PropOpacity: 0}, Animate: Keyframe{PropSkewX: 0, PropOpacity: 1}, Exit: Keyframe{PropSkewX: -20, PropOpacity: 0}},
	{Name: "scan-reveal", Group: "Sci-Fi",
		Initial: Keyframe{PropY: -20, PropOpacity: 0, PropBrightness: 2}, Animate: Keyframe{PropY: 0, PropOpacity: 1, PropBrightness: 1}, Exit: Keyframe{PropY: 20, PropOpacity: 0}},
	{Name: "shutter", Group: "Sci-Fi",
		Initial: Keyframe{PropScaleY: 0, PropOpacity: 0}, Animate: Keyframe{PropScaleY: 1, PropOpacity: 1}, Exit: Keyframe{PropScaleY: 0, PropOpacity: 0}},
	{Name: "data-stream", Group: "Sci-Fi",
		Initial: Keyframe{PropX: 100, PropOpacity: 0}, Animate: Keyframe{PropX: 0, PropOpacity: 1}, Exit: Keyframe{PropX: -100, PropOpacity: 0}},

	// Creative
	{Name: "door-open", Group: "Creative",
		Initial: Keyframe{PropRotateY: 90, PropOriginX: 0, PropOpacity: 0}, Animate: Keyframe{PropRotateY: 0, PropOpacity: 1}, Exit: Keyframe{PropRotateY: -90, PropOriginX: 1, PropOpacity: 0}},
	{Name: "spiral", Group: "Creative",
		Initial: Keyframe{PropRotate: 180, PropScale: 0, PropOpacity: 0}, Animate: Keyframe{PropRotate: 0, PropScale: 1, PropOpacity: 1}, Exit: Keyframe{PropRotate: -180, PropScale: 0, PropOpacity: 0}},
	{Name: "slide-and-skew", Group: "Creative",
		Initial: Keyframe{PropXPercent: 100, PropSkewX: -10}, Animate: Keyframe{PropXPercent: 0, PropSkewX: 0}, Exit: Keyframe{PropXPercent: -100, PropSkewX: 10}},
	{Name: "float-and-glow", Group: "Creative",
		Initial: Keyframe{PropY: 20, PropGlow: 0, PropOpacity: 0}, Animate: Keyframe{PropY: 0, PropGlow: 10, PropOpacity: 1}, Exit: Keyframe{PropY: -20, PropOpacity: 0}},
}

// Transitions returns the transition catalog without the random sentinel
func Transitions() []TransitionSpec {
	out := make([]TransitionSpec, len(transitionCatalog))
	copy(out, transitionCatalog)
	return out
}

// TransitionNames returns the selectable transition names, random first
func TransitionNames() []string {
	names := make([]string, 0, len(transitionCatalog)+1)
	names = append(names, RandomTransition)
	for _, t := range transitionCatalog {
		names = append(names, t.Name)
	}
	return names
}

// LookupTransition finds a catalog entry by name. The random sentinel is not
// a catalog entry.
func LookupTransition(name string) (TransitionSpec, bool) {
	for _, t := range transitionCatalog {
		if t.Name == name {
			return t, true
		}
	}
	return TransitionSpec{}, false
}

// IsValidTransition reports whether name is a catalog entry or the random sentinel
func IsValidTransition(name string) bool {
	if name == RandomTransition {
		return true
	}
	_, ok := LookupTransition(name)
	return ok
}
