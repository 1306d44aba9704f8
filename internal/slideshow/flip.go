package slideshow

import "time"

// FlipDuration is how long one half-turn of a Flip takes
const FlipDuration = 500 * time.Millisecond

// Flip is a two-faced card that always turns the same way. The rotation only
// ever grows by 180 degrees per turn; the visible face is derived from it.
type Flip struct {
	rotation int
	turnedAt time.Time
}

// Turn starts another half-turn. Turns requested mid-animation are ignored.
func (f *Flip) Turn(now time.Time) bool {
	if f.rotation > 0 && now.Sub(f.turnedAt) < FlipDuration {
		return false
	}
	f.rotation += 180
	f.turnedAt = now
	return true
}

// Rotation returns the accumulated rotation in degrees
func (f *Flip) Rotation() int {
	return f.rotation
}

// ShowingBack reports whether the back face is the resting face
func (f *Flip) ShowingBack() bool {
	return (f.rotation/180)%2 == 1
}

// Angle returns the displayed rotation at now, easing from the previous
// resting angle to the current one.
func (f *Flip) Angle(now time.Time) float64 {
	if f.rotation == 0 {
		return 0
	}
	t := float64(now.Sub(f.turnedAt)) / float64(FlipDuration)
	if t >= 1 {
		return float64(f.rotation)
	}
	if t < 0 {
		t = 0
	}
	return float64(f.rotation-180) + 180*EaseInOut.Ease(t)
}
