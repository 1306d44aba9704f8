package main

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// recordingActions records the InputActions calls it receives
type recordingActions struct {
	calls []string
	panX  float64
	panY  float64
}

func (r *recordingActions) record(name string) { r.calls = append(r.calls, name) }

func (r *recordingActions) Exit()                        { r.record("Exit") }
func (r *recordingActions) CloseViewer()                 { r.record("CloseViewer") }
func (r *recordingActions) ToggleHelp()                  { r.record("ToggleHelp") }
func (r *recordingActions) ToggleInfo()                  { r.record("ToggleInfo") }
func (r *recordingActions) FlipInfo()                    { r.record("FlipInfo") }
func (r *recordingActions) ToggleFullscreen()            { r.record("ToggleFullscreen") }
func (r *recordingActions) EnterPageInputMode()          { r.record("EnterPageInputMode") }
func (r *recordingActions) ExitPageInputMode()           { r.record("ExitPageInputMode") }
func (r *recordingActions) ProcessPageInput()            { r.record("ProcessPageInput") }
func (r *recordingActions) UpdatePageInputBuffer(string) { r.record("UpdatePageInputBuffer") }
func (r *recordingActions) GoToFirst()                   { r.record("GoToFirst") }
func (r *recordingActions) GoToPrev()                    { r.record("GoToPrev") }
func (r *recordingActions) GoToNext()                    { r.record("GoToNext") }
func (r *recordingActions) GoToLast()                    { r.record("GoToLast") }
func (r *recordingActions) TogglePresentation()          { r.record("TogglePresentation") }
func (r *recordingActions) TogglePlayPause()             { r.record("TogglePlayPause") }
func (r *recordingActions) CycleSlideInterval()          { r.record("CycleSlideInterval") }
func (r *recordingActions) CycleTransition()             { r.record("CycleTransition") }
func (r *recordingActions) ZoomIn()                      { r.record("ZoomIn") }
func (r *recordingActions) ZoomOut()                     { r.record("ZoomOut") }
func (r *recordingActions) ZoomReset()                   { r.record("ZoomReset") }
func (r *recordingActions) Download()                    { r.record("Download") }
func (r *recordingActions) Print()                       { r.record("Print") }
func (r *recordingActions) ShowOverlayMessage(string)    { r.record("ShowOverlayMessage") }
func (r *recordingActions) PanByDelta(deltaX, deltaY float64) {
	r.record("PanByDelta")
	r.panX += deltaX
	r.panY += deltaY
}

type stubInputState struct {
	pageInput bool
	zoomed    bool
}

func (s stubInputState) IsInPageInputMode() bool    { return s.pageInput }
func (s stubInputState) GetPageInputBuffer() string { return "" }
func (s stubInputState) IsZoomed() bool             { return s.zoomed }

func TestActionDefinitionsAreExecutable(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range actionDefinitions {
		t.Run(def.Name, func(t *testing.T) {
			if seen[def.Name] {
				t.Fatalf("duplicate action %q", def.Name)
			}
			seen[def.Name] = true
			if def.Description == "" {
				t.Errorf("action %q has no description", def.Name)
			}

			actions := &recordingActions{}
			if !globalActionExecutor.ExecuteAction(def.Name, actions, stubInputState{}) {
				t.Fatalf("action %q is not handled by the executor", def.Name)
			}
			if len(actions.calls) != 1 {
				t.Errorf("action %q made %d calls, want 1: %v", def.Name, len(actions.calls), actions.calls)
			}
		})
	}
}

func TestExecuteAction(t *testing.T) {
	tests := []struct {
		action string
		want   string
	}{
		{"next", "GoToNext"},
		{"previous", "GoToPrev"},
		{"first", "GoToFirst"},
		{"last", "GoToLast"},
		{"present", "TogglePresentation"},
		{"play_pause", "TogglePlayPause"},
		{"close", "CloseViewer"},
		{"print", "Print"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			actions := &recordingActions{}
			globalActionExecutor.ExecuteAction(tt.action, actions, stubInputState{})
			if len(actions.calls) != 1 || actions.calls[0] != tt.want {
				t.Errorf("ExecuteAction(%q) calls = %v, want [%s]", tt.action, actions.calls, tt.want)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		if globalActionExecutor.ExecuteAction("toggle_book_mode", &recordingActions{}, stubInputState{}) {
			t.Error("unknown action reported as handled")
		}
	})

	t.Run("pan directions", func(t *testing.T) {
		actions := &recordingActions{}
		globalActionExecutor.ExecuteAction("pan_up", actions, stubInputState{})
		globalActionExecutor.ExecuteAction("pan_left", actions, stubInputState{})
		if actions.panX != panStep || actions.panY != panStep {
			t.Errorf("pan = (%v, %v), want (%v, %v)", actions.panX, actions.panY, panStep, panStep)
		}
	})

	t.Run("page input only enters once", func(t *testing.T) {
		actions := &recordingActions{}
		globalActionExecutor.ExecuteAction("page_input", actions, stubInputState{pageInput: true})
		if len(actions.calls) != 0 {
			t.Errorf("expected no calls while already in page input mode, got %v", actions.calls)
		}
	})
}

func TestParseKeyString(t *testing.T) {
	mapping := getKeyMapping()
	tests := []struct {
		input string
		valid bool
		key   ebiten.Key
		mods  modifierState
	}{
		{"KeyA", true, ebiten.KeyA, modifierState{}},
		{"Key7", true, ebiten.Key7, modifierState{}},
		{"Numpad3", true, ebiten.KeyNumpad3, modifierState{}},
		{"Shift+Slash", true, ebiten.KeySlash, modifierState{Shift: true}},
		{"ctrl+KeyS", true, ebiten.KeyS, modifierState{Ctrl: true}},
		{"Ctrl+Alt+End", true, ebiten.KeyEnd, modifierState{Ctrl: true, Alt: true}},
		{"Super+KeyS", false, 0, modifierState{}},
		{"KeyAA", false, 0, modifierState{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := parseKeyString(tt.input, mapping)
			if ok != tt.valid {
				t.Fatalf("parseKeyString(%q) ok = %t, want %t", tt.input, ok, tt.valid)
			}
			if ok && (c.Key != tt.key || c.Mods != tt.mods) {
				t.Errorf("parseKeyString(%q) = %+v, want key %v mods %+v", tt.input, c, tt.key, tt.mods)
			}
		})
	}
}

func TestParseMouseString(t *testing.T) {
	tests := []struct {
		input  string
		valid  bool
		expect MouseCombination
	}{
		{"LeftClick", true, MouseCombination{Button: ebiten.MouseButtonLeft}},
		{"DoubleLeftClick", true, MouseCombination{Button: ebiten.MouseButtonLeft, IsDoubleClick: true}},
		{"Ctrl+WheelUp", true, MouseCombination{IsWheel: true, WheelDeltaY: 1, Mods: modifierState{Ctrl: true}}},
		{"WheelRight", true, MouseCombination{IsWheel: true, WheelDeltaX: 1}},
		{"Shift+MiddleClick", true, MouseCombination{Button: ebiten.MouseButtonMiddle, Mods: modifierState{Shift: true}}},
		{"DoubleWheelUp", false, MouseCombination{}},
		{"Meta+LeftClick", false, MouseCombination{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := parseMouseString(tt.input)
			if ok != tt.valid {
				t.Fatalf("parseMouseString(%q) ok = %t, want %t", tt.input, ok, tt.valid)
			}
			if ok && c != tt.expect {
				t.Errorf("parseMouseString(%q) = %+v, want %+v", tt.input, c, tt.expect)
			}
		})
	}
}

func TestWheelMatches(t *testing.T) {
	up, _ := parseMouseString("WheelUp")
	down, _ := parseMouseString("WheelDown")
	left, _ := parseMouseString("WheelLeft")

	if !up.wheelMatches(0, 1.5) || up.wheelMatches(0, -1) || up.wheelMatches(0, 0) {
		t.Error("WheelUp matching is wrong")
	}
	if !down.wheelMatches(0, -0.2) || down.wheelMatches(0, 0.2) {
		t.Error("WheelDown matching is wrong")
	}
	if !left.wheelMatches(-1, 0) || left.wheelMatches(0, -1) {
		t.Error("WheelLeft matching is wrong")
	}
}

func TestClickTracker(t *testing.T) {
	base := time.Unix(1000, 0)
	window := 300 * time.Millisecond

	tests := []struct {
		name    string
		presses []time.Duration
		buttons []ebiten.MouseButton
		want    []bool
	}{
		{
			name:    "double click within window",
			presses: []time.Duration{0, 200 * time.Millisecond},
			buttons: []ebiten.MouseButton{ebiten.MouseButtonLeft, ebiten.MouseButtonLeft},
			want:    []bool{false, true},
		},
		{
			name:    "too slow",
			presses: []time.Duration{0, 400 * time.Millisecond},
			buttons: []ebiten.MouseButton{ebiten.MouseButtonLeft, ebiten.MouseButtonLeft},
			want:    []bool{false, false},
		},
		{
			name:    "different buttons",
			presses: []time.Duration{0, 100 * time.Millisecond},
			buttons: []ebiten.MouseButton{ebiten.MouseButtonLeft, ebiten.MouseButtonRight},
			want:    []bool{false, false},
		},
		{
			name:    "triple click is one double",
			presses: []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond},
			buttons: []ebiten.MouseButton{ebiten.MouseButtonLeft, ebiten.MouseButtonLeft, ebiten.MouseButtonLeft},
			want:    []bool{false, true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tracker clickTracker
			for i, d := range tt.presses {
				if got := tracker.press(tt.buttons[i], base.Add(d), window); got != tt.want[i] {
					t.Errorf("press %d = %t, want %t", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestParsePageInput(t *testing.T) {
	tests := []struct {
		buffer    string
		total     int
		wantIndex int
		wantErr   bool
	}{
		{"1", 10, 0, false},
		{"10", 10, 9, false},
		{"0", 10, 0, true},
		{"11", 10, 0, true},
		{"", 10, 0, true},
		{"3", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.buffer, func(t *testing.T) {
			idx, err := parsePageInput(tt.buffer, tt.total)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePageInput(%q, %d) error = %v, wantErr %t", tt.buffer, tt.total, err, tt.wantErr)
			}
			if !tt.wantErr && idx != tt.wantIndex {
				t.Errorf("parsePageInput(%q, %d) = %d, want %d", tt.buffer, tt.total, idx, tt.wantIndex)
			}
		})
	}
}
