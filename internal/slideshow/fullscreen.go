package slideshow

import (
	"errors"
	"sync"
)

// ErrFullscreenBusy is returned when another viewer session holds fullscreen
var ErrFullscreenBusy = errors.New("fullscreen is held by another viewer")

// Fullscreen is the window-level fullscreen facility. Requests may fail or
// be ignored, so callers read the real state back with IsFullscreen.
type Fullscreen interface {
	SetFullscreen(on bool) error
	IsFullscreen() bool
}

// screenOwner tracks which session holds the process-wide fullscreen surface
type screenOwner struct {
	mu    sync.Mutex
	owner string
}

var fullscreenOwner screenOwner

func (o *screenOwner) acquire(session string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.owner != "" && o.owner != session {
		return false
	}
	o.owner = session
	return true
}

func (o *screenOwner) release(session string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.owner == session {
		o.owner = ""
	}
}

func (o *screenOwner) holder() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.owner
}
