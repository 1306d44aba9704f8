// Package slideshow implements the presentation viewer: slide resolution,
// navigation, autoplay, zoom and pan, touch gestures, transition selection
// and fullscreen tracking for one open presentation at a time.
package slideshow

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"slideview/internal/document"
	"slideview/internal/prefs"
)

// Zoom limits and defaults
const (
	MinZoom        = 0.1
	MaxZoom        = 3.0
	ZoomStep       = 0.1
	DefaultZoom    = 1.0
	FullscreenZoom = 1.5 // opening zoom when the viewer can go fullscreen
)

var (
	// ErrInvalidInterval is returned for intervals outside SlideIntervals
	ErrInvalidInterval = errors.New("invalid slide interval")
	// ErrUnknownTransition is returned for names outside the transition catalog
	ErrUnknownTransition = errors.New("unknown transition")
)

// OpenConfig describes the presentation to show
type OpenConfig struct {
	Title          string
	ImageDirectory string
	SlideCount     int
	FileExtension  string // default "webp"
	PDFURL         string // optional, enables download and print

	// InitialZoom overrides the context default when > 0
	InitialZoom float64
}

// ViewerState is a snapshot of one viewer session
type ViewerState struct {
	Open            bool
	SessionID       string
	Title           string
	Slides          SlideSet
	PDFURL          string
	Index           int
	Presenting      bool
	Playing         bool
	Scale           float64
	PanX, PanY      float64
	Fullscreen      bool
	Transition      string
	IntervalSeconds int
}

// timerKey is the set of values whose change restarts the autoplay timer
type timerKey struct {
	playing    bool
	presenting bool
	count      int
	interval   int
}

// Controller owns the ViewerState of the open presentation. All operations
// are serialized by an internal mutex, so input handlers and the autoplay
// tick may call it from any goroutine.
type Controller struct {
	mu sync.Mutex

	state      ViewerState
	fullscreen Fullscreen
	autoFull   bool
	prefs      *prefs.Store
	now        func() time.Time
	newID      func() string

	timer    playbackTimer
	armedKey timerKey
	gestures GestureInterpreter
	selector *TransitionSelector
}

// Option configures a Controller
type Option func(*Controller)

// WithFullscreen sets the fullscreen backend. Without one the viewer never
// goes fullscreen.
func WithFullscreen(fs Fullscreen) Option {
	return func(c *Controller) {
		c.fullscreen = fs
	}
}

// WithFullscreenOnOpen controls whether Open requests fullscreen (default true)
func WithFullscreenOnOpen(enabled bool) Option {
	return func(c *Controller) {
		c.autoFull = enabled
	}
}

// WithPreferences shares transition and interval choices through store
func WithPreferences(store *prefs.Store) Option {
	return func(c *Controller) {
		c.prefs = store
	}
}

// WithClock replaces time.Now for arming the autoplay timer
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithRand sets the random source for transition picks
func WithRand(r Rand) Option {
	return func(c *Controller) {
		c.selector = NewTransitionSelector(r)
	}
}

// WithSessionIDs replaces the session ID generator
func WithSessionIDs(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

// NewController creates a closed viewer
func NewController(opts ...Option) *Controller {
	c := &Controller{
		autoFull: true,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.selector == nil {
		c.selector = NewTransitionSelector(nil)
	}
	c.state = c.closedState()
	return c
}

func (c *Controller) closedState() ViewerState {
	transition, interval := RandomTransition, DefaultSlideInterval
	if c.prefs != nil {
		p := c.prefs.Get()
		if IsValidTransition(p.Transition) {
			transition = p.Transition
		}
		if IsValidInterval(p.IntervalSeconds) {
			interval = p.IntervalSeconds
		}
	}
	return ViewerState{
		Scale:           DefaultZoom,
		Transition:      transition,
		IntervalSeconds: interval,
	}
}

// Open starts a new session for cfg, replacing any open one
func (c *Controller) Open(cfg OpenConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Open {
		c.teardownLocked()
	}

	title := cfg.Title
	if title == "" {
		title = DefaultTitle
	}

	st := c.closedState()
	st.Open = true
	st.SessionID = c.newID()
	st.Title = title
	st.Slides = NewSlideSet(cfg.ImageDirectory, cfg.SlideCount, cfg.FileExtension)
	st.PDFURL = cfg.PDFURL
	st.Scale = c.openingZoom(cfg.InitialZoom)
	c.state = st

	c.timer.cancel()
	c.armedKey = timerKey{}
	c.gestures.Reset()
	c.selector.Reset()
	c.selector.Select(0, st.Transition)

	if c.fullscreen != nil {
		c.state.Fullscreen = c.fullscreen.IsFullscreen()
		if c.state.Fullscreen {
			fullscreenOwner.acquire(st.SessionID)
		} else if c.autoFull {
			if err := c.setFullscreenLocked(true); err != nil {
				log.Printf("Warning: fullscreen request on open failed: %v", err)
			}
		}
	}

	log.Printf("Opened presentation %q (%d slides) session %s", title, st.Slides.Len(), st.SessionID)
}

func (c *Controller) openingZoom(requested float64) float64 {
	if requested > 0 {
		return clamp(requested, MinZoom, MaxZoom)
	}
	if c.fullscreen != nil && c.autoFull {
		return FullscreenZoom
	}
	return DefaultZoom
}

// Close ends the session: the autoplay timer and gesture state are dropped
// and fullscreen is exited if this session holds it.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Open {
		return
	}
	c.teardownLocked()
	c.state = c.closedState()
}

func (c *Controller) teardownLocked() {
	c.timer.cancel()
	c.armedKey = timerKey{}
	c.gestures.Reset()

	session := c.state.SessionID
	if c.fullscreen != nil && c.fullscreen.IsFullscreen() && fullscreenOwner.holder() == session {
		if err := c.fullscreen.SetFullscreen(false); err != nil {
			log.Printf("Warning: failed to exit fullscreen: %v", err)
		}
	}
	fullscreenOwner.release(session)
}

// State returns a snapshot of the viewer state
func (c *Controller) State() ViewerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentImageSrc returns the asset path of the current slide, or "" for the
// empty state.
func (c *Controller) CurrentImageSrc() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Open {
		return ""
	}
	return c.state.Slides.Path(c.state.Index)
}

// ActiveTransition returns the transition chosen for the current slide
func (c *Controller) ActiveTransition() TransitionSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selector.Active()
}

// RenderKey identifies what is on screen; a new key starts a transition
func (c *Controller) RenderKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("%d-%s", c.state.Index, c.selector.Active().Name)
}

// Navigation

// GoToSlide moves to n clamped to the slide range
func (c *Controller) GoToSlide(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Open || c.state.Slides.Len() == 0 {
		return
	}
	c.setIndexLocked(c.state.Slides.Clamp(n))
}

// GoToFirst moves to the first slide
func (c *Controller) GoToFirst() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.canGoPrevLocked() {
		c.setIndexLocked(0)
	}
}

// GoToPrev moves back one slide
func (c *Controller) GoToPrev() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.canGoPrevLocked() {
		c.setIndexLocked(c.state.Index - 1)
	}
}

// GoToNext moves forward one slide
func (c *Controller) GoToNext() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.canGoNextLocked() {
		c.setIndexLocked(c.state.Index + 1)
	}
}

// GoToLast moves to the last slide
func (c *Controller) GoToLast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.canGoNextLocked() {
		c.setIndexLocked(c.state.Slides.Len() - 1)
	}
}

// CanGoPrev reports whether first/prev are enabled
func (c *Controller) CanGoPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canGoPrevLocked()
}

// CanGoNext reports whether next/last are enabled
func (c *Controller) CanGoNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canGoNextLocked()
}

func (c *Controller) canGoPrevLocked() bool {
	return c.state.Open && c.state.Index > 0
}

func (c *Controller) canGoNextLocked() bool {
	return c.state.Open && c.state.Index < c.state.Slides.Len()-1
}

func (c *Controller) setIndexLocked(idx int) {
	c.state.Index = idx
	c.state.PanX, c.state.PanY = 0, 0
	c.selector.Select(idx, c.state.Transition)
}

// Presentation mode

// StartPresentation enters presenting mode from the first slide with
// autoplay running.
func (c *Controller) StartPresentation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Open {
		return
	}
	c.state.Presenting = true
	c.state.Playing = true
	c.setIndexLocked(0)
	c.syncTimerLocked()
}

// StopPresentation leaves presenting mode and keeps the current slide
func (c *Controller) StopPresentation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Presenting = false
	c.state.Playing = false
	c.syncTimerLocked()
}

// TogglePlayPause pauses or resumes autoplay while presenting
func (c *Controller) TogglePlayPause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Presenting {
		return
	}
	c.state.Playing = !c.state.Playing
	c.syncTimerLocked()
}

// Tick drives autoplay. It returns true when the timer fired at now.
func (c *Controller) Tick(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.timer.fire(now) {
		return false
	}
	if c.state.Index >= c.state.Slides.Len()-1 {
		c.state.Playing = false
		c.syncTimerLocked()
		return true
	}
	c.setIndexLocked(c.state.Index + 1)
	return true
}

// TimerLive reports whether an autoplay timer is armed
func (c *Controller) TimerLive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer.live
}

// TimerGeneration counts how many times the autoplay timer has been armed
func (c *Controller) TimerGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer.generation
}

// syncTimerLocked restarts or cancels the timer when any of playing,
// presenting, slide count or interval differs from the armed values.
func (c *Controller) syncTimerLocked() {
	key := timerKey{
		playing:    c.state.Playing,
		presenting: c.state.Presenting,
		count:      c.state.Slides.Len(),
		interval:   c.state.IntervalSeconds,
	}
	if key == c.armedKey && (c.timer.live || !c.shouldRunLocked()) {
		return
	}
	c.armedKey = key
	if c.shouldRunLocked() {
		c.timer.arm(c.now(), time.Duration(c.state.IntervalSeconds)*time.Second)
	} else {
		c.timer.cancel()
	}
}

func (c *Controller) shouldRunLocked() bool {
	return c.state.Open && c.state.Playing && c.state.Presenting && c.state.Slides.Len() > 0
}

// Zoom and pan

// SetZoom stores scale clamped to [MinZoom, MaxZoom]. NaN is ignored.
func (c *Controller) SetZoom(scale float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setZoomLocked(scale)
}

// ZoomIn raises the zoom by one step
func (c *Controller) ZoomIn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setZoomLocked(roundZoom(c.state.Scale + ZoomStep))
}

// ZoomOut lowers the zoom by one step
func (c *Controller) ZoomOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setZoomLocked(roundZoom(c.state.Scale - ZoomStep))
}

// ZoomReset returns to 100%
func (c *Controller) ZoomReset() {
	c.SetZoom(DefaultZoom)
}

func (c *Controller) setZoomLocked(scale float64) {
	if math.IsNaN(scale) {
		return
	}
	c.state.Scale = clamp(scale, MinZoom, MaxZoom)
	if c.state.Scale <= 1 {
		c.state.PanX, c.state.PanY = 0, 0
	}
}

func roundZoom(v float64) float64 {
	return math.Round(v*100) / 100
}

// PanBy moves the viewport by an incremental delta while zoomed in
func (c *Controller) PanBy(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Scale <= 1 {
		return
	}
	c.state.PanX += dx
	c.state.PanY += dy
}

// Touch

// HandleTouch interprets ev and applies the resulting intent. Swipes toward
// a missing slide are dropped and reported as IntentNone.
func (c *Controller) HandleTouch(ev TouchEvent) Intent {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Open {
		return Intent{}
	}

	intent := c.gestures.Handle(ev, c.state.Scale)
	switch intent.Kind {
	case IntentZoom:
		c.setZoomLocked(intent.Scale)
	case IntentPan:
		if c.state.Scale > 1 {
			c.state.PanX += intent.DX
			c.state.PanY += intent.DY
		}
	case IntentSwipeLeft:
		if !c.canGoNextLocked() {
			return Intent{}
		}
		c.setIndexLocked(c.state.Index + 1)
	case IntentSwipeRight:
		if !c.canGoPrevLocked() {
			return Intent{}
		}
		c.setIndexLocked(c.state.Index - 1)
	}
	return intent
}

// Pinching reports whether a pinch gesture is in progress
func (c *Controller) Pinching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gestures.Pinching()
}

// Interval and transition

// SetSlideInterval selects the autoplay interval in seconds
func (c *Controller) SetSlideInterval(seconds int) error {
	if !IsValidInterval(seconds) {
		return fmt.Errorf("%w: %ds", ErrInvalidInterval, seconds)
	}
	c.mu.Lock()
	c.state.IntervalSeconds = seconds
	c.syncTimerLocked()
	p := c.preferencesLocked()
	c.mu.Unlock()

	c.publish(p)
	return nil
}

// CycleSlideInterval selects the next interval, wrapping to the shortest
func (c *Controller) CycleSlideInterval() int {
	c.mu.Lock()
	next := SlideIntervals[0]
	for i, s := range SlideIntervals {
		if s == c.state.IntervalSeconds && i+1 < len(SlideIntervals) {
			next = SlideIntervals[i+1]
		}
	}
	c.mu.Unlock()

	_ = c.SetSlideInterval(next)
	return next
}

// SetTransitionType selects a catalog transition or RandomTransition
func (c *Controller) SetTransitionType(name string) error {
	if !IsValidTransition(name) {
		return fmt.Errorf("%w: %q", ErrUnknownTransition, name)
	}
	c.mu.Lock()
	c.state.Transition = name
	c.selector.Select(c.state.Index, name)
	p := c.preferencesLocked()
	c.mu.Unlock()

	c.publish(p)
	return nil
}

// CycleTransition selects the next transition name, random first
func (c *Controller) CycleTransition() string {
	names := TransitionNames()
	c.mu.Lock()
	next := names[0]
	for i, n := range names {
		if n == c.state.Transition && i+1 < len(names) {
			next = names[i+1]
		}
	}
	c.mu.Unlock()

	_ = c.SetTransitionType(next)
	return next
}

func (c *Controller) preferencesLocked() prefs.Preferences {
	return prefs.Preferences{
		Transition:      c.state.Transition,
		IntervalSeconds: c.state.IntervalSeconds,
	}
}

func (c *Controller) publish(p prefs.Preferences) {
	if c.prefs != nil {
		c.prefs.Set(p)
	}
}

// Fullscreen

// ToggleFullscreen asks the backend to enter or leave fullscreen. Failures
// are logged and returned; the stored flag is read back from the backend.
func (c *Controller) ToggleFullscreen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fullscreen == nil {
		return nil
	}
	err := c.setFullscreenLocked(!c.fullscreen.IsFullscreen())
	if err != nil {
		log.Printf("Warning: fullscreen toggle failed: %v", err)
	}
	return err
}

// FullscreenChanged is the observer path for fullscreen changes made outside
// the controller, e.g. by the window manager.
func (c *Controller) FullscreenChanged(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyFullscreenLocked(active)
}

func (c *Controller) setFullscreenLocked(on bool) error {
	session := c.state.SessionID
	if on && !fullscreenOwner.acquire(session) {
		return ErrFullscreenBusy
	}
	// Only the holder may leave fullscreen
	if holder := fullscreenOwner.holder(); !on && holder != "" && holder != session {
		return ErrFullscreenBusy
	}
	err := c.fullscreen.SetFullscreen(on)
	c.applyFullscreenLocked(c.fullscreen.IsFullscreen())
	if err != nil {
		return fmt.Errorf("set fullscreen %t: %w", on, err)
	}
	return nil
}

func (c *Controller) applyFullscreenLocked(active bool) {
	c.state.Fullscreen = active
	if active {
		fullscreenOwner.acquire(c.state.SessionID)
	} else {
		fullscreenOwner.release(c.state.SessionID)
	}
}

// Documents

// CanDownload reports whether a PDF is linked to the open presentation
func (c *Controller) CanDownload() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Open && c.state.PDFURL != ""
}

// CanPrint reports whether the print action is enabled
func (c *Controller) CanPrint() bool {
	return c.CanDownload()
}

// DocumentFilename is the name a downloaded PDF is saved under
func (c *Controller) DocumentFilename() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Open {
		return ""
	}
	return document.DownloadFilename(c.state.Title)
}
