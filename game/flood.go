package game

import (
	"github.com/gammazero/deque"
	"github.com/they4kman/termsweep/util/collections"
)

// Visitor is called once per cell reached, and reports whether the flood
// should continue through that cell's neighbors
type Visitor func(idx int) (expand bool)
type NeighborGetter func(idx int) []int

// flood walks outward from start with an explicit queue. Cells are marked
// visited when queued, so each is visited at most once.
func flood(start int, visit Visitor, getNeighbors NeighborGetter) {
	var queue deque.Deque
	visited := collections.NewSet[int]()

	enqueue := func(idx int) {
		if visited.Contains(idx) {
			return
		}
		visited.Add(idx)

		if visit(idx) {
			queue.PushBack(idx)
		}
	}

	enqueue(start)
	for queue.Len() > 0 {
		idx := queue.PopFront().(int)
		for _, neighbor := range getNeighbors(idx) {
			enqueue(neighbor)
		}
	}
}

// cascadeEmpty reveals the safe cell at start and, while it keeps finding
// zero cells, every hidden cell around them. Flags stop the flood.
func (board *Board) cascadeEmpty(start int) {
	flood(
		start,
		func(idx int) bool {
			cell := board.truth.At(idx)
			if cell.Mine || board.visibility.At(idx).State != Hidden {
				return false
			}

			board.show(idx)
			return cell.NumMines == 0
		},
		board.truth.NeighborIndexes,
	)
}
