package random

import (
	"github.com/they4kman/termsweep/game"
	"github.com/they4kman/termsweep/grid"
)

// Director reveals hidden cells in a shuffled order, fixed at Init
type Director struct {
	board *game.Board
	order []grid.Point
}

func (director *Director) Init(board *game.Board) {
	director.board = board
	director.order = make([]grid.Point, 0, board.NumCells())

	for y := 0; y < board.Height(); y++ {
		for x := 0; x < board.Width(); x++ {
			director.order = append(director.order, grid.Point{X: x, Y: y})
		}
	}

	board.Rand().Shuffle(len(director.order), func(i, j int) {
		director.order[i], director.order[j] = director.order[j], director.order[i]
	})
}

func (director *Director) Act() (game.Action, bool) {
	for len(director.order) > 0 {
		point := director.order[0]

		vis, err := director.board.VisibilityAt(point.X, point.Y)
		if err == nil && vis.State == game.Hidden {
			return game.Action{X: point.X, Y: point.Y, Type: game.ActionReveal}, true
		}

		// Revealed or flagged cells never become hidden again under this
		// director, so they can be dropped for good
		director.order = director.order[1:]
	}
	return game.Action{}, false
}

func (director *Director) End() {
	director.board = nil
	director.order = nil
}
