package scenes

import (
	"github.com/cbodonnell/epochwars/client/input"
	"github.com/cbodonnell/epochwars/client/objects"
	"github.com/hajimehoshi/ebiten/v2"
)

// ErrorScene shows a message until the player dismisses it.
type ErrorScene struct {
	*BaseScene

	dismissed bool
}

var _ Scene = &ErrorScene{}

func NewErrorScene(msg string) (*ErrorScene, error) {
	return &ErrorScene{
		BaseScene: NewBaseScene(objects.NewTextOverlayObject("overlay-error", msg+"\n\nPress any key to exit")),
	}, nil
}

func (s *ErrorScene) Update() error {
	if input.IsPositiveJustPressed() || input.IsNegativeJustPressed() {
		s.dismissed = true
	}
	return s.BaseScene.Update()
}

func (s *ErrorScene) Draw(screen *ebiten.Image) {
	screen.Fill(objects.ColorBackground)
	s.BaseScene.Draw(screen)
}

// Dismissed reports whether the player has acknowledged the error.
func (s *ErrorScene) Dismissed() bool {
	return s.dismissed
}
