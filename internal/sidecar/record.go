package sidecar

import "image"

// Record describes one icon placed on a composite image. Coordinates are
// [x0, y0, x1, y1] in background pixels.
type Record struct {
	Title           string `json:"title"`
	Icon            string `json:"icon"`
	Description     string `json:"description"`
	Coordinates     [4]int `json:"coordinates"`
	BackgroundImage string `json:"background_image"`
}

// Box returns the record's bounding box as a rectangle.
func (r Record) Box() image.Rectangle {
	return image.Rect(r.Coordinates[0], r.Coordinates[1], r.Coordinates[2], r.Coordinates[3])
}

// BoxCoordinates flattens a rectangle into the sidecar coordinate form.
func BoxCoordinates(r image.Rectangle) [4]int {
	return [4]int{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}
}
