// Package grid places rectangles on a fixed-size cell grid.
//
// The dashboard is a grid of Bounds.Cols columns by Bounds.Rows rows. Every
// widget occupies a [Rect] measured in whole cells. When a new widget is added
// the package finds a spot for it with [FindPlacement]:
//
//	pos := grid.FindPlacement(existing, grid.Size{W: 4, H: 5}, grid.DefaultBounds)
//
// # Algorithm
//
// FindPlacement builds a Rows×Cols occupancy matrix, marks every cell covered
// by an existing rectangle (cells outside the grid are clipped), then scans
// candidate top-left corners in row-major order and returns the first one
// whose whole footprint is free. This is first-fit, not best-fit: the result
// is the top-left-most free space.
//
// If nothing fits, the widget is appended below everything else at
// (0, max(y+h)). The grid is allowed to overflow vertically rather than fail.
//
// FindPlacement is pure. Identical inputs always produce identical outputs.
package grid
