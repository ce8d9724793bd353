package grid

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrIndexOutOfBounds  = errors.New("index out of bounds")
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
)

type Point struct {
	X, Y int
}

func (point Point) String() string {
	return fmt.Sprintf("(%d, %d)", point.X, point.Y)
}

// Grid is a fixed-size arena of width*height values, addressable by (x, y)
// or by the flattened index x + y*width.
type Grid[T any] struct {
	width, height int
	values        []T

	// Adjacent in-bounds indexes of every cell, built once in New
	neighbors [][]int
}

func New[T any](width, height int) (*Grid[T], error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "%dx%d", width, height)
	}

	grid := &Grid[T]{
		width:     width,
		height:    height,
		values:    make([]T, width*height),
		neighbors: make([][]int, width*height),
	}

	for idx := range grid.neighbors {
		x, y := idx%width, idx/width
		adjacent := make([]int, 0, 8)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if grid.Contains(x+dx, y+dy) {
					adjacent = append(adjacent, (x+dx)+(y+dy)*width)
				}
			}
		}

		grid.neighbors[idx] = adjacent
	}

	return grid, nil
}

func (grid *Grid[T]) Width() int {
	return grid.width
}

func (grid *Grid[T]) Height() int {
	return grid.height
}

func (grid *Grid[T]) Size() int {
	return len(grid.values)
}

func (grid *Grid[T]) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < grid.width && y < grid.height
}

// Index converts a coordinate to its flattened index
func (grid *Grid[T]) Index(x, y int) (int, error) {
	if !grid.Contains(x, y) {
		return 0, errors.Wrapf(ErrIndexOutOfBounds, "(%d, %d) on %dx%d grid", x, y, grid.width, grid.height)
	}
	return x + y*grid.width, nil
}

// Point converts a flattened index back to its coordinate. idx must be
// within [0, Size()).
func (grid *Grid[T]) Point(idx int) Point {
	return Point{X: idx % grid.width, Y: idx / grid.width}
}

func (grid *Grid[T]) Get(x, y int) (T, error) {
	idx, err := grid.Index(x, y)
	if err != nil {
		var zero T
		return zero, err
	}
	return grid.values[idx], nil
}

func (grid *Grid[T]) Set(x, y int, value T) error {
	idx, err := grid.Index(x, y)
	if err != nil {
		return err
	}
	grid.values[idx] = value
	return nil
}

// At and SetAt address cells by flattened index, for callers which already
// hold a validated index.
func (grid *Grid[T]) At(idx int) T {
	return grid.values[idx]
}

func (grid *Grid[T]) SetAt(idx int, value T) {
	grid.values[idx] = value
}

// Neighbors returns the in-bounds cells adjacent to (x, y), never including
// (x, y) itself
func (grid *Grid[T]) Neighbors(x, y int) ([]Point, error) {
	idx, err := grid.Index(x, y)
	if err != nil {
		return nil, err
	}

	adjacent := grid.neighbors[idx]
	points := make([]Point, len(adjacent))
	for i, neighborIdx := range adjacent {
		points[i] = grid.Point(neighborIdx)
	}
	return points, nil
}

// NeighborIndexes returns the shared neighbor table entry for idx. Callers
// must not modify it.
func (grid *Grid[T]) NeighborIndexes(idx int) []int {
	return grid.neighbors[idx]
}
