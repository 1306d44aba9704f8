package main

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// getKeyMapping returns a mapping from string keys to Ebiten keys
func getKeyMapping() map[string]ebiten.Key {
	m := map[string]ebiten.Key{
		"Space":      ebiten.KeySpace,
		"Backspace":  ebiten.KeyBackspace,
		"Enter":      ebiten.KeyEnter,
		"Escape":     ebiten.KeyEscape,
		"Tab":        ebiten.KeyTab,
		"Home":       ebiten.KeyHome,
		"End":        ebiten.KeyEnd,
		"PageUp":     ebiten.KeyPageUp,
		"PageDown":   ebiten.KeyPageDown,
		"ArrowUp":    ebiten.KeyArrowUp,
		"ArrowDown":  ebiten.KeyArrowDown,
		"ArrowLeft":  ebiten.KeyArrowLeft,
		"ArrowRight": ebiten.KeyArrowRight,
		"F11":        ebiten.KeyF11,

		"Comma":     ebiten.KeyComma,
		"Period":    ebiten.KeyPeriod,
		"Slash":     ebiten.KeySlash,
		"Semicolon": ebiten.KeySemicolon,
		"Quote":     ebiten.KeyQuote,
		"Minus":     ebiten.KeyMinus,
		"Equal":     ebiten.KeyEqual,

		"NumpadAdd":      ebiten.KeyNumpadAdd,
		"NumpadSubtract": ebiten.KeyNumpadSubtract,
		"NumpadEnter":    ebiten.KeyNumpadEnter,
	}
	for i := 0; i < 26; i++ {
		m["Key"+string(rune('A'+i))] = ebiten.KeyA + ebiten.Key(i)
	}
	for i := 0; i < 10; i++ {
		d := string(rune('0' + i))
		m["Key"+d] = ebiten.Key0 + ebiten.Key(i)
		m["Numpad"+d] = ebiten.KeyNumpad0 + ebiten.Key(i)
	}
	return m
}

// modifierState is the set of modifier keys held during a frame
type modifierState struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

func currentModifiers() modifierState {
	return modifierState{
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
	}
}

// parseModifiers applies the modifier prefixes of a "Shift+Ctrl+X" string
func parseModifiers(parts []string) (modifierState, bool) {
	var m modifierState
	for _, p := range parts {
		switch strings.ToLower(p) {
		case "shift":
			m.Shift = true
		case "ctrl":
			m.Ctrl = true
		case "alt":
			m.Alt = true
		default:
			return m, false
		}
	}
	return m, true
}

// KeyCombination represents a key with an exact set of modifiers
type KeyCombination struct {
	Key  ebiten.Key
	Mods modifierState
}

// parseKeyString parses a key string like "Shift+KeyB" into a KeyCombination
func parseKeyString(keyStr string, keyMapping map[string]ebiten.Key) (KeyCombination, bool) {
	parts := strings.Split(keyStr, "+")
	key, exists := keyMapping[parts[len(parts)-1]]
	if !exists {
		return KeyCombination{}, false
	}
	mods, ok := parseModifiers(parts[:len(parts)-1])
	if !ok {
		return KeyCombination{}, false
	}
	return KeyCombination{Key: key, Mods: mods}, true
}

// KeybindingManager resolves configured keybindings against the keyboard
type KeybindingManager struct {
	keybindings map[string][]string
	combos      map[string][]KeyCombination
}

// NewKeybindingManager creates a new KeybindingManager
func NewKeybindingManager(keybindings map[string][]string) *KeybindingManager {
	km := &KeybindingManager{}
	km.UpdateKeybindings(keybindings)
	return km
}

// CheckAction checks if any keybinding for the given action was just pressed
func (km *KeybindingManager) CheckAction(action string) bool {
	combos, exists := km.combos[action]
	if !exists {
		return false
	}
	mods := currentModifiers()
	for _, c := range combos {
		if c.Mods == mods && inpututil.IsKeyJustPressed(c.Key) {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (km *KeybindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !km.CheckAction(action) {
		return false
	}
	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// KeysFor returns the key strings bound to action
func (km *KeybindingManager) KeysFor(action string) []string {
	return km.keybindings[action]
}

// UpdateKeybindings replaces the bindings and re-parses them
func (km *KeybindingManager) UpdateKeybindings(keybindings map[string][]string) {
	mapping := getKeyMapping()
	km.keybindings = keybindings
	km.combos = make(map[string][]KeyCombination, len(keybindings))
	for action, keys := range keybindings {
		for _, k := range keys {
			if c, ok := parseKeyString(k, mapping); ok {
				km.combos[action] = append(km.combos[action], c)
			}
		}
	}
}
