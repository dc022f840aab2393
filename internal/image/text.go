package imagepkg

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// CaptionDrop moves caption text below the point it is centred on.
const CaptionDrop = 70

var fallbackFont *opentype.Font

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("parse embedded font: %v", err))
	}
	fallbackFont = f
}

// LoadFont parses the font at path. An empty path selects the embedded Go
// Regular font; an unreadable or invalid file logs a warning and selects it too.
func LoadFont(path string, logger *log.Logger) *opentype.Font {
	if path == "" {
		return fallbackFont
	}
	if logger == nil {
		logger = log.Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		logger.Printf("font %s unavailable, using default font: %v", path, err)
		return fallbackFont
	}
	f, err := opentype.Parse(b)
	if err != nil {
		logger.Printf("font %s unavailable, using default font: %v", path, err)
		return fallbackFont
	}
	return f
}

// TextStamper draws short labels with one face.
type TextStamper struct {
	face font.Face
}

// NewTextStamper builds a stamper for f at size pixels. A nil f uses the
// default font.
func NewTextStamper(f *opentype.Font, size float64) (*TextStamper, error) {
	if f == nil {
		f = fallbackFont
	}
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", size)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return &TextStamper{face: face}, nil
}

// Layout returns the ink box text will occupy when centred on center, and the
// baseline origin to draw it from. The box is horizontally centred on
// center.X and its top sits at center.Y - height/2 + CaptionDrop.
func (s *TextStamper) Layout(text string, center image.Point) (box image.Rectangle, dot fixed.Point26_6) {
	b, _ := font.BoundString(s.face, text)
	minX, minY := b.Min.X.Floor(), b.Min.Y.Floor()
	w, h := b.Max.X.Ceil()-minX, b.Max.Y.Ceil()-minY
	x := center.X - w/2
	y := center.Y - h/2 + CaptionDrop
	box = image.Rect(x, y, x+w, y+h)
	dot = fixed.P(x-minX, y-minY)
	return box, dot
}

// Stamp draws text onto dst in place.
func (s *TextStamper) Stamp(dst draw.Image, text string, center image.Point, col color.Color) {
	if text == "" {
		return
	}
	_, dot := s.Layout(text, center)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: s.face,
		Dot:  dot,
	}
	d.DrawString(text)
}
