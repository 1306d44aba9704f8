package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// maxPageInputDigits bounds the slide number buffer
const maxPageInputDigits = 4

// dragState follows a left-button drag used to pan a zoomed slide
type dragState struct {
	active bool
	moved  bool
	lastX  int
	lastY  int
	startX int
	startY int
}

// InputHandler turns keyboard and mouse input into InputActions
type InputHandler struct {
	inputActions        InputActions
	inputState          InputState
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	drag                dragState
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(inputActions InputActions, inputState InputState, km *KeybindingManager, mm *MousebindingManager) *InputHandler {
	return &InputHandler{
		inputActions:        inputActions,
		inputState:          inputState,
		keybindingManager:   km,
		mousebindingManager: mm,
	}
}

// HandleInput processes all input for the current frame.
// Returns true if any input was processed.
func (h *InputHandler) HandleInput(now time.Time) bool {
	if h.inputState.IsInPageInputMode() {
		return h.handlePageInputMode()
	}

	h.mousebindingManager.BeginFrame(now)
	processed := h.handleDragPan()

	for _, action := range actionDefinitions {
		if h.keybindingManager.ExecuteAction(action.Name, h.inputActions, h.inputState) {
			processed = true
			continue
		}
		if h.suppressClick(action.Name) {
			continue
		}
		if h.mousebindingManager.ExecuteAction(action.Name, h.inputActions, h.inputState) {
			processed = true
		}
	}
	return processed
}

// suppressClick keeps plain left clicks from navigating while the left
// button is used for drag panning
func (h *InputHandler) suppressClick(action string) bool {
	if !h.inputState.IsZoomed() || !h.mousebindingManager.Settings().EnableDragPan {
		return false
	}
	for _, in := range h.mousebindingManager.mousebindings[action] {
		if in == "LeftClick" {
			return true
		}
	}
	return false
}

func (h *InputHandler) handleDragPan() bool {
	settings := h.mousebindingManager.Settings()
	if !settings.EnableMouse || !settings.EnableDragPan || !h.inputState.IsZoomed() {
		h.drag = dragState{}
		return false
	}

	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		h.drag = dragState{active: true, lastX: x, lastY: y, startX: x, startY: y}
		return false
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		h.drag = dragState{}
		return false
	case !h.drag.active || !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		return false
	}

	if !h.drag.moved {
		dx, dy := x-h.drag.startX, y-h.drag.startY
		if dx*dx+dy*dy < settings.DragThreshold*settings.DragThreshold {
			return false
		}
		h.drag.moved = true
	}

	dx := float64(x-h.drag.lastX) * settings.DragSensitivity
	dy := float64(y-h.drag.lastY) * settings.DragSensitivity
	h.drag.lastX, h.drag.lastY = x, y
	if dx == 0 && dy == 0 {
		return false
	}
	h.inputActions.PanByDelta(dx, dy)
	return true
}

func (h *InputHandler) handlePageInputMode() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		h.inputActions.ExitPageInputMode()
		return true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		h.inputActions.ProcessPageInput()
		h.inputActions.ExitPageInputMode()
		return true
	}

	buffer := h.inputState.GetPageInputBuffer()
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if len(buffer) > 0 {
			h.inputActions.UpdatePageInputBuffer(buffer[:len(buffer)-1])
		}
		return true
	}

	var digit string
	if digit = checkDigitKeys(ebiten.Key0, ebiten.Key9); digit == "" {
		digit = checkDigitKeys(ebiten.KeyNumpad0, ebiten.KeyNumpad9)
	}
	if digit != "" && len(buffer) < maxPageInputDigits {
		h.inputActions.UpdatePageInputBuffer(buffer + digit)
		return true
	}
	return false
}

func checkDigitKeys(startKey, endKey ebiten.Key) string {
	for key := startKey; key <= endKey; key++ {
		if inpututil.IsKeyJustPressed(key) {
			return string(rune('0' + (key - startKey)))
		}
	}
	return ""
}

// parsePageInput converts a 1-based slide number buffer into a slide index
func parsePageInput(buffer string, total int) (int, error) {
	if buffer == "" {
		return 0, fmt.Errorf("no slide number entered")
	}
	n, err := strconv.Atoi(buffer)
	if err != nil {
		return 0, fmt.Errorf("invalid slide number %q", buffer)
	}
	if n < 1 || n > total {
		return 0, fmt.Errorf("slide %d out of range (1-%d)", n, total)
	}
	return n - 1, nil
}
