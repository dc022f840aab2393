package compose

import (
	"fmt"
	"strings"

	"github.com/youruser/iconscreen/internal/catalog"
)

// Captioner chooses the label drawn under an icon. An empty string means no
// label.
type Captioner interface {
	Caption(e catalog.Entry) string
}

// NoCaption draws nothing.
type NoCaption struct{}

func (NoCaption) Caption(catalog.Entry) string { return "" }

// LiteralCaption draws the same text under every icon.
type LiteralCaption string

func (c LiteralCaption) Caption(catalog.Entry) string { return string(c) }

// FirstWordCaption draws the first whitespace-separated word of the title.
type FirstWordCaption struct{}

func (FirstWordCaption) Caption(e catalog.Entry) string {
	words := strings.Fields(e.Title)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

// Caption modes accepted by ParseCaptioner.
const (
	CaptionNone    = "none"
	CaptionLiteral = "literal"
	CaptionTitle   = "title"
)

// ParseCaptioner maps a mode name to a Captioner. literal uses text.
func ParseCaptioner(mode, text string) (Captioner, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", CaptionNone:
		return NoCaption{}, nil
	case CaptionLiteral:
		return LiteralCaption(text), nil
	case CaptionTitle:
		return FirstWordCaption{}, nil
	default:
		return nil, fmt.Errorf("unknown caption mode %q", mode)
	}
}
