package fonts

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const dpi = 72

var (
	// MPlusTitleFont is used for headings and full screen messages.
	MPlusTitleFont font.Face
	// TTFNormalFont is used for message bodies.
	TTFNormalFont font.Face
	// TTFSmallFont is used for the side panel.
	TTFSmallFont font.Face
)

// Load parses the embedded fonts. It must be called before anything is drawn.
func Load() error {
	tt, err := opentype.Parse(fonts.MPlus1pRegular_ttf)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	MPlusTitleFont, err = opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    28,
		DPI:     dpi,
		Hinting: font.HintingVertical,
	})
	if err != nil {
		return fmt.Errorf("failed to create font face: %v", err)
	}

	ttfFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	TTFNormalFont = truetype.NewFace(ttfFont, &truetype.Options{
		Size:    20,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	TTFSmallFont = truetype.NewFace(ttfFont, &truetype.Options{
		Size:    16,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})

	return nil
}
