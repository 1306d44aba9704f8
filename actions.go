package main

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions lists every bindable action in the order input is checked
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"KeyQ"}, []string{}, "Quit application"},
	{"close", []string{"Escape"}, []string{}, "Stop presenting, leave fullscreen, then close"},
	{"help", []string{"Shift+Slash"}, []string{"Alt+RightClick"}, "Show/hide help"},
	{"info", []string{"KeyI"}, []string{}, "Show/hide info card"},
	{"flip_info", []string{"Tab"}, []string{}, "Turn the info card over"},

	// Navigation
	{"first", []string{"Home"}, []string{}, "First slide"},
	{"previous", []string{"ArrowLeft", "PageUp", "Backspace"}, []string{"RightClick", "WheelUp"}, "Previous slide"},
	{"next", []string{"ArrowRight", "PageDown", "Space"}, []string{"LeftClick", "WheelDown"}, "Next slide"},
	{"last", []string{"End"}, []string{}, "Last slide"},
	{"page_input", []string{"KeyG"}, []string{"Ctrl+LeftClick"}, "Go to slide (enter slide number)"},

	// Presentation
	{"present", []string{"KeyP"}, []string{"MiddleClick"}, "Start/stop presentation from slide 1"},
	{"play_pause", []string{"KeyK"}, []string{}, "Pause/resume autoplay while presenting"},
	{"cycle_interval", []string{"KeyD"}, []string{}, "Next autoplay interval"},
	{"cycle_transition", []string{"KeyT"}, []string{}, "Next transition effect"},
	{"fullscreen", []string{"Enter", "KeyF"}, []string{"Alt+LeftClick"}, "Toggle fullscreen"},

	// Zoom and pan
	{"zoom_in", []string{"Equal", "Shift+Equal"}, []string{"Ctrl+WheelUp"}, "Zoom in"},
	{"zoom_out", []string{"Minus"}, []string{"Ctrl+WheelDown"}, "Zoom out"},
	{"zoom_reset", []string{"Key0"}, []string{"Shift+MiddleClick"}, "Reset to 100% zoom"},
	{"pan_up", []string{"Shift+ArrowUp"}, []string{}, "Pan up"},
	{"pan_down", []string{"Shift+ArrowDown"}, []string{}, "Pan down"},
	{"pan_left", []string{"Shift+ArrowLeft"}, []string{}, "Pan left"},
	{"pan_right", []string{"Shift+ArrowRight"}, []string{}, "Pan right"},

	// Document
	{"download", []string{"Ctrl+KeyS"}, []string{}, "Download the PDF"},
	{"print", []string{"Ctrl+KeyP"}, []string{}, "Print the PDF"},
}

func lookupAction(name string) (ActionDefinition, bool) {
	for _, a := range actionDefinitions {
		if a.Name == name {
			return a, true
		}
	}
	return ActionDefinition{}, false
}

// ActionExecutor maps action names onto InputActions for both the keyboard
// and the mouse binding managers
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction runs action and reports whether it was recognized
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	switch action {
	case "exit":
		inputActions.Exit()
	case "close":
		inputActions.CloseViewer()
	case "help":
		inputActions.ToggleHelp()
	case "info":
		inputActions.ToggleInfo()
	case "flip_info":
		inputActions.FlipInfo()

	case "first":
		inputActions.GoToFirst()
	case "previous":
		inputActions.GoToPrev()
	case "next":
		inputActions.GoToNext()
	case "last":
		inputActions.GoToLast()
	case "page_input":
		if !inputState.IsInPageInputMode() {
			inputActions.EnterPageInputMode()
		}

	case "present":
		inputActions.TogglePresentation()
	case "play_pause":
		inputActions.TogglePlayPause()
	case "cycle_interval":
		inputActions.CycleSlideInterval()
	case "cycle_transition":
		inputActions.CycleTransition()
	case "fullscreen":
		inputActions.ToggleFullscreen()

	case "zoom_in":
		inputActions.ZoomIn()
	case "zoom_out":
		inputActions.ZoomOut()
	case "zoom_reset":
		inputActions.ZoomReset()
	case "pan_up":
		inputActions.PanByDelta(0, panStep)
	case "pan_down":
		inputActions.PanByDelta(0, -panStep)
	case "pan_left":
		inputActions.PanByDelta(panStep, 0)
	case "pan_right":
		inputActions.PanByDelta(-panStep, 0)

	case "download":
		inputActions.Download()
	case "print":
		inputActions.Print()

	default:
		return false
	}

	return true
}

// panStep is the keyboard pan distance in pixels
const panStep = 50.0

// globalActionExecutor is shared by the keyboard and mouse binding managers
var globalActionExecutor = NewActionExecutor()

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = append([]string(nil), action.Keys...)
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = append([]string(nil), action.MouseActions...)
	}
	return mousebindings
}
