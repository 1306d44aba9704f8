package slideshow

import "time"

// DefaultSlideInterval is the autoplay interval in seconds for a fresh viewer
const DefaultSlideInterval = 10

// SlideIntervals lists the selectable autoplay intervals in seconds
var SlideIntervals = []int{5, 8, 10, 15, 20, 30, 45, 60}

// IsValidInterval reports whether seconds is one of SlideIntervals
func IsValidInterval(seconds int) bool {
	for _, s := range SlideIntervals {
		if s == seconds {
			return true
		}
	}
	return false
}

// playbackTimer is a repeating deadline driven by Tick. Arming replaces the
// previous deadline, so at most one timer is ever live.
type playbackTimer struct {
	deadline   time.Time
	interval   time.Duration
	live       bool
	generation uint64
}

// arm (re)starts the timer so it first fires one interval after now
func (t *playbackTimer) arm(now time.Time, interval time.Duration) {
	t.interval = interval
	t.deadline = now.Add(interval)
	t.live = true
	t.generation++
}

func (t *playbackTimer) cancel() {
	t.live = false
	t.deadline = time.Time{}
}

// fire reports whether the timer is due at now and, if so, schedules the
// next deadline. Missed periods fire one at a time on subsequent calls.
func (t *playbackTimer) fire(now time.Time) bool {
	if !t.live || now.Before(t.deadline) {
		return false
	}
	t.deadline = t.deadline.Add(t.interval)
	return true
}
