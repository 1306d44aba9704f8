package main

import (
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	WheelSensitivity float64 `json:"wheel_sensitivity"`
	DoubleClickTime  int     `json:"double_click_time"` // milliseconds
	DragThreshold    int     `json:"drag_threshold"`    // pixels
	EnableMouse      bool    `json:"enable_mouse"`
	WheelInverted    bool    `json:"wheel_inverted"`
	EnableDragPan    bool    `json:"enable_drag_pan"`
	DragSensitivity  float64 `json:"drag_sensitivity"`
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1.0,
		DoubleClickTime:  300,
		DragThreshold:    5,
		EnableMouse:      true,
		EnableDragPan:    true,
		DragSensitivity:  1.0,
	}
}

var mouseButtons = map[string]ebiten.MouseButton{
	"LeftClick":   ebiten.MouseButtonLeft,
	"RightClick":  ebiten.MouseButtonRight,
	"MiddleClick": ebiten.MouseButtonMiddle,
	"Back":        ebiten.MouseButton3,
	"Forward":     ebiten.MouseButton4,
}

// MouseCombination represents a button press, double click, or wheel step
// with an exact set of modifiers
type MouseCombination struct {
	Button        ebiten.MouseButton
	IsWheel       bool
	WheelDeltaX   float64
	WheelDeltaY   float64
	IsDoubleClick bool
	Mods          modifierState
}

// parseMouseString parses "Shift+LeftClick", "DoubleLeftClick" or "WheelUp"
func parseMouseString(mouseStr string) (MouseCombination, bool) {
	parts := strings.Split(mouseStr, "+")
	name := parts[len(parts)-1]

	var c MouseCombination
	switch {
	case strings.HasPrefix(name, "Wheel"):
		c.IsWheel = true
		switch name {
		case "WheelUp":
			c.WheelDeltaY = 1
		case "WheelDown":
			c.WheelDeltaY = -1
		case "WheelLeft":
			c.WheelDeltaX = -1
		case "WheelRight":
			c.WheelDeltaX = 1
		default:
			return c, false
		}
	case strings.HasPrefix(name, "Double"):
		button, ok := mouseButtons[strings.TrimPrefix(name, "Double")]
		if !ok {
			return c, false
		}
		c.IsDoubleClick = true
		c.Button = button
	default:
		button, ok := mouseButtons[name]
		if !ok {
			return c, false
		}
		c.Button = button
	}

	mods, ok := parseModifiers(parts[:len(parts)-1])
	if !ok {
		return c, false
	}
	c.Mods = mods
	return c, true
}

// wheelMatches reports whether a wheel delta moves in the combination's direction
func (c MouseCombination) wheelMatches(wheelX, wheelY float64) bool {
	if c.WheelDeltaX != 0 {
		return c.WheelDeltaX*wheelX > 0
	}
	return c.WheelDeltaY*wheelY > 0
}

// clickTracker recognizes double clicks from a stream of press times
type clickTracker struct {
	last   time.Time
	button ebiten.MouseButton
	count  int
}

// press records a press and reports whether it completes a double click
func (t *clickTracker) press(button ebiten.MouseButton, now time.Time, window time.Duration) bool {
	if t.count == 1 && t.button == button && now.Sub(t.last) <= window {
		t.count = 0
		t.last = now
		return true
	}
	t.count = 1
	t.button = button
	t.last = now
	return false
}

// MousebindingManager resolves configured mouse bindings each frame
type MousebindingManager struct {
	mousebindings map[string][]string
	combos        map[string][]MouseCombination
	settings      MouseSettings
	clicks        clickTracker

	// per-frame snapshot
	mods        modifierState
	wheelX      float64
	wheelY      float64
	pressed     map[ebiten.MouseButton]bool
	doubleClick map[ebiten.MouseButton]bool
}

// NewMousebindingManager creates a new MousebindingManager
func NewMousebindingManager(mousebindings map[string][]string, settings MouseSettings) *MousebindingManager {
	mm := &MousebindingManager{settings: settings}
	mm.UpdateMousebindings(mousebindings)
	return mm
}

// BeginFrame snapshots wheel, button, and modifier state. Double clicks are
// tracked here once per frame so every binding sees the same answer.
func (mm *MousebindingManager) BeginFrame(now time.Time) {
	mm.mods = currentModifiers()
	mm.wheelX, mm.wheelY = ebiten.Wheel()
	if mm.settings.WheelInverted {
		mm.wheelY = -mm.wheelY
	}
	mm.wheelX *= mm.settings.WheelSensitivity
	mm.wheelY *= mm.settings.WheelSensitivity

	mm.pressed = make(map[ebiten.MouseButton]bool)
	mm.doubleClick = make(map[ebiten.MouseButton]bool)
	window := time.Duration(mm.settings.DoubleClickTime) * time.Millisecond
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			mm.pressed[b] = true
			mm.doubleClick[b] = mm.clicks.press(b, now, window)
		}
	}
}

func (mm *MousebindingManager) triggered(c MouseCombination) bool {
	if !mm.settings.EnableMouse || c.Mods != mm.mods {
		return false
	}
	switch {
	case c.IsWheel:
		return c.wheelMatches(mm.wheelX, mm.wheelY)
	case c.IsDoubleClick:
		return mm.doubleClick[c.Button]
	default:
		return mm.pressed[c.Button]
	}
}

// CheckAction checks if any mouse binding for the given action fired this frame
func (mm *MousebindingManager) CheckAction(action string) bool {
	for _, c := range mm.combos[action] {
		if mm.triggered(c) {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (mm *MousebindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !mm.CheckAction(action) {
		return false
	}
	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// UpdateMousebindings replaces the bindings and re-parses them
func (mm *MousebindingManager) UpdateMousebindings(mousebindings map[string][]string) {
	mm.mousebindings = mousebindings
	mm.combos = make(map[string][]MouseCombination, len(mousebindings))
	for action, inputs := range mousebindings {
		for _, in := range inputs {
			if c, ok := parseMouseString(in); ok {
				mm.combos[action] = append(mm.combos[action], c)
			}
		}
	}
}

// Settings returns the current mouse settings
func (mm *MousebindingManager) Settings() MouseSettings {
	return mm.settings
}
