package grid

// Default grid dimensions used when a caller does not supply its own.
const (
	DefaultCols = 24
	DefaultRows = 16
)

// DefaultBounds is a DefaultCols×DefaultRows grid.
var DefaultBounds = Bounds{Cols: DefaultCols, Rows: DefaultRows}

// Point is a top-left cell coordinate, zero-based.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width and height in cells.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Bounds are the grid dimensions in cells.
type Bounds struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// Rect is a rectangle of cells with its top-left corner at (X, Y).
type Rect struct {
	X, Y, W, H int
}

// Bottom returns the first row below the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

// Right returns the first column right of the rectangle.
func (r Rect) Right() int { return r.X + r.W }

// Contains reports whether cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Overlaps reports whether a and b share at least one cell.
// Empty rectangles never overlap anything.
func Overlaps(a, b Rect) bool {
	if a.W <= 0 || a.H <= 0 || b.W <= 0 || b.H <= 0 {
		return false
	}
	return a.X < b.Right() && b.X < a.Right() && a.Y < b.Bottom() && b.Y < a.Bottom()
}

// Occupancy is a Rows×Cols matrix of occupied cells.
type Occupancy [][]bool

// NewOccupancy marks every in-bounds cell covered by rects.
// Parts of a rectangle outside the grid are ignored.
func NewOccupancy(rects []Rect, b Bounds) Occupancy {
	occ := make(Occupancy, max(b.Rows, 0))
	for row := range occ {
		occ[row] = make([]bool, max(b.Cols, 0))
	}
	for _, r := range rects {
		for row := max(r.Y, 0); row < r.Bottom() && row < b.Rows; row++ {
			for col := max(r.X, 0); col < r.Right() && col < b.Cols; col++ {
				occ[row][col] = true
			}
		}
	}
	return occ
}

// Free reports whether the w×h footprint at (x, y) is entirely unoccupied.
// The footprint must lie within the matrix.
func (o Occupancy) Free(x, y, w, h int) bool {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if o[row][col] {
				return false
			}
		}
	}
	return true
}

// FindPlacement returns the first row-major position where a widget of the
// given size fits without overlapping existing. If no in-bounds position is
// free it returns (0, maxY) with maxY the lowest bottom edge of existing.
func FindPlacement(existing []Rect, size Size, b Bounds) Point {
	occ := NewOccupancy(existing, b)

	for y := 0; y <= b.Rows-size.H; y++ {
		for x := 0; x <= b.Cols-size.W; x++ {
			if occ.Free(x, y, size.W, size.H) {
				return Point{X: x, Y: y}
			}
		}
	}

	maxY := 0
	for _, r := range existing {
		maxY = max(maxY, r.Bottom())
	}
	return Point{X: 0, Y: maxY}
}
