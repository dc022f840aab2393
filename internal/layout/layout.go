// Package layout derives the icon grid for a background image and places
// items on it.
package layout

import "image"

// Reference is the home screen the default layout was measured on.
var Reference = Config{
	Background:   image.Pt(1170, 2532),
	IconSize:     image.Pt(180, 180),
	Origin:       image.Pt(90, 231),
	Step:         image.Pt(270, 294),
	Columns:      4,
	CornerRadius: 25,
	FontSize:     40,
}

// Config holds the grid geometry for one background size.
type Config struct {
	Background   image.Point
	IconSize     image.Point
	Origin       image.Point
	Step         image.Point
	Columns      int
	CornerRadius int
	FontSize     float64
}

// Scale derives the layout for a background of the given size. Width-based
// values use w/ref.W and height-based values use h/ref.H; results are
// truncated. The corner radius is not scaled and the font size follows the
// width factor.
func (c Config) Scale(size image.Point) Config {
	wf := float64(size.X) / float64(c.Background.X)
	hf := float64(size.Y) / float64(c.Background.Y)
	return Config{
		Background:   size,
		IconSize:     image.Pt(int(float64(c.IconSize.X)*wf), int(float64(c.IconSize.Y)*hf)),
		Origin:       image.Pt(int(float64(c.Origin.X)*wf), int(float64(c.Origin.Y)*hf)),
		Step:         image.Pt(int(float64(c.Step.X)*wf), int(float64(c.Step.Y)*hf)),
		Columns:      c.Columns,
		CornerRadius: c.CornerRadius,
		FontSize:     c.FontSize * wf,
	}
}

// ForBackground scales the reference layout to size.
func ForBackground(size image.Point) Config {
	return Reference.Scale(size)
}

// Position returns the top-left pixel of item index on the grid.
func (c Config) Position(index int) image.Point {
	return Position(index, c.Origin, c.Step, c.Columns)
}

// Box returns the rectangle an icon at index occupies.
func (c Config) Box(index int) image.Rectangle {
	p := c.Position(index)
	return image.Rectangle{Min: p, Max: p.Add(c.IconSize)}
}

// Position places items row-major, columns per row. Positions past the
// canvas are returned unchanged.
func Position(index int, origin, step image.Point, columns int) image.Point {
	if columns < 1 {
		columns = 1
	}
	return image.Pt(
		origin.X+(index%columns)*step.X,
		origin.Y+(index/columns)*step.Y,
	)
}
