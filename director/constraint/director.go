package constraint

import (
	"fmt"

	"github.com/they4kman/termsweep/director/random"
	"github.com/they4kman/termsweep/game"
	"github.com/they4kman/termsweep/grid"
	"github.com/they4kman/termsweep/util/collections"
)

// Director plays the moves a single revealed number proves safe or mined,
// and guesses at random when no number proves anything
type Director struct {
	board  *game.Board
	random random.Director

	// Revealed cells with no hidden neighbors left; they can never yield
	// another observation
	exhausted collections.Set[grid.Point]
}

// Observation is what one revealed number says about its hidden neighbors:
// numMines of cells are mines
type Observation struct {
	origin   grid.Point
	numMines int
	cells    []grid.Point
}

func (observation Observation) String() string {
	return fmt.Sprintf("Obs[%v, %d ε %v]", observation.origin, observation.numMines, observation.cells)
}

func (director *Director) Init(board *game.Board) {
	director.board = board
	director.random.Init(board)
	director.exhausted = collections.NewSet[grid.Point]()
}

func (director *Director) Act() (game.Action, bool) {
	if action, ok := director.actDeliberate(); ok {
		return action, true
	}
	return director.random.Act()
}

func (director *Director) actDeliberate() (game.Action, bool) {
	for y := 0; y < director.board.Height(); y++ {
		for x := 0; x < director.board.Width(); x++ {
			origin := grid.Point{X: x, Y: y}
			if director.exhausted.Contains(origin) {
				continue
			}

			observation, ok := director.observe(origin)
			if !ok {
				continue
			}
			if len(observation.cells) == 0 {
				director.exhausted.Add(origin)
				continue
			}

			target := observation.cells[0]
			switch observation.numMines {
			case len(observation.cells):
				return game.Action{X: target.X, Y: target.Y, Type: game.ActionMark}, true
			case 0:
				return game.Action{X: target.X, Y: target.Y, Type: game.ActionReveal}, true
			}
		}
	}
	return game.Action{}, false
}

// observe reads the revealed number at origin, discounting flagged
// neighbors. ok is false when origin is not a revealed number.
func (director *Director) observe(origin grid.Point) (observation Observation, ok bool) {
	vis, err := director.board.VisibilityAt(origin.X, origin.Y)
	if err != nil || vis.State != game.Revealed || vis.Cell.Mine {
		return observation, false
	}

	neighbors, err := director.board.NeighborsOf(origin.X, origin.Y)
	if err != nil {
		return observation, false
	}

	observation.origin = origin
	observation.numMines = int(vis.Cell.NumMines)

	for _, neighbor := range neighbors {
		neighborVis, _ := director.board.VisibilityAt(neighbor.X, neighbor.Y)
		switch neighborVis.State {
		case game.Flagged:
			observation.numMines--
		case game.Hidden:
			observation.cells = append(observation.cells, neighbor)
		}
	}

	return observation, true
}

func (director *Director) End() {
	director.random.End()
	director.board = nil
	director.exhausted = nil
}
