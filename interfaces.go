package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"slideview/internal/slideshow"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// slideLayer is one slide image drawn with a transition keyframe applied.
// An exiting layer is drawn below the entering one.
type slideLayer struct {
	Image    *ebiten.Image
	Keyframe slideshow.Keyframe
}

// RenderState provides read-only access to game state for the renderer
type RenderState interface {
	Viewer() slideshow.ViewerState
	Layers(now time.Time) []slideLayer

	// UI state
	IsShowingHelp() bool
	IsShowingInfo() bool
	InfoCard() *slideshow.Flip
	IsInPageInputMode() bool
	GetPageInputBuffer() string
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time
	CanDownload() bool
	CanPrint() bool

	// Display data
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()
	CloseViewer()

	// Display toggles
	ToggleHelp()
	ToggleInfo()
	FlipInfo()
	ToggleFullscreen()

	// Page input
	EnterPageInputMode()
	ExitPageInputMode()
	ProcessPageInput()
	UpdatePageInputBuffer(buffer string)

	// Navigation
	GoToFirst()
	GoToPrev()
	GoToNext()
	GoToLast()

	// Presentation
	TogglePresentation()
	TogglePlayPause()
	CycleSlideInterval()
	CycleTransition()

	// Zoom and pan
	ZoomIn()
	ZoomOut()
	ZoomReset()
	PanByDelta(deltaX, deltaY float64)

	// Document
	Download()
	Print()

	ShowOverlayMessage(message string)
}

// InputState provides read-only access to input-related state
type InputState interface {
	IsInPageInputMode() bool
	GetPageInputBuffer() string
	IsZoomed() bool // drag pans instead of clicking through
}
