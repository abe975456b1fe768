package renderer

import "image"

// Tile is a rectangular region of the image rendered as one unit of work.
// Determinism comes from the per-pixel samplers, so tiles carry no state of
// their own beyond their bounds.
type Tile struct {
	ID     int
	Bounds image.Rectangle
}

// NewTileGrid covers the image with tiles of at most tileSize on a side.
// Edge tiles shrink to fit.
func NewTileGrid(width, height, tileSize int) []Tile {
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]Tile, 0, tilesX*tilesY)
	id := 0
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0 := tx * tileSize
			y0 := ty * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)
			tiles = append(tiles, Tile{ID: id, Bounds: image.Rect(x0, y0, x1, y1)})
			id++
		}
	}
	return tiles
}
