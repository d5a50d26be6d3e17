package input

import (
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// IsPositiveJustPressed returns a boolean value indicating whether the generic positive input is just pressed.
// This is used to dismiss messages with the keyboard, mouse, touch or a gamepad.
func IsPositiveJustPressed() bool {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		return true
	}
	if len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		return true
	}
	for _, g := range ebiten.AppendGamepadIDs(nil) {
		if ebiten.IsStandardGamepadLayoutAvailable(g) {
			if inpututil.IsStandardGamepadButtonJustPressed(g, ebiten.StandardGamepadButtonRightBottom) {
				return true
			}
		} else if inpututil.IsGamepadButtonJustPressed(g, ebiten.GamepadButton0) {
			return true
		}
	}
	return false
}

// IsNegativeJustPressed returns a boolean value indicating whether the generic negative input is just pressed.
func IsNegativeJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

func IsSkipJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter)
}

// BuildingJustSelected returns the building whose number key was just pressed.
func BuildingJustSelected() (gametypes.Building, bool) {
	keys := []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3}
	for i, key := range keys {
		if inpututil.IsKeyJustPressed(key) || inpututil.IsKeyJustPressed(ebiten.KeyNumpad1+ebiten.Key(i)) {
			return gametypes.Buildings[i], true
		}
	}
	return 0, false
}

// ClickJustPressed returns the cursor position when the button was just pressed.
func ClickJustPressed(button ebiten.MouseButton) (x, y int, ok bool) {
	if !inpututil.IsMouseButtonJustPressed(button) {
		return 0, 0, false
	}
	x, y = ebiten.CursorPosition()
	return x, y, true
}

func CursorPosition() (x, y int) {
	return ebiten.CursorPosition()
}
