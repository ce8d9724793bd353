package game

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/they4kman/termsweep/grid"
	"github.com/they4kman/termsweep/util/collections"
)

// Board owns one game: the truth layer (mines and counts) and the
// visibility layer (what the player sees), indexed by the same flattened
// coordinate.
type Board struct {
	truth      *grid.Grid[Cell]
	visibility *grid.Grid[Visibility]

	mines  collections.Set[int]
	seeded bool
	steps  int

	seed int64
	rand *rand.Rand
}

type BoardOption func(*Board)

// WithSeed makes mine placement reproducible
func WithSeed(seed int64) BoardOption {
	return func(board *Board) {
		board.seed = seed
		board.rand = rand.New(rand.NewSource(seed))
	}
}

func NewBoard(width, height int, opts ...BoardOption) (*Board, error) {
	truth, err := grid.New[Cell](width, height)
	if err != nil {
		return nil, err
	}
	visibility, err := grid.New[Visibility](width, height)
	if err != nil {
		return nil, err
	}

	board := &Board{
		truth:      truth,
		visibility: visibility,
		mines:      collections.NewSet[int](),
	}

	for _, opt := range opts {
		opt(board)
	}
	if board.rand == nil {
		WithSeed(time.Now().UnixNano())(board)
	}

	return board, nil
}

func (board *Board) Width() int {
	return board.truth.Width()
}

func (board *Board) Height() int {
	return board.truth.Height()
}

func (board *Board) NumCells() int {
	return board.truth.Size()
}

func (board *Board) MineCount() int {
	return board.mines.Len()
}

func (board *Board) FlagCount() int {
	flags := 0
	for idx := 0; idx < board.visibility.Size(); idx++ {
		if board.visibility.At(idx).State == Flagged {
			flags++
		}
	}
	return flags
}

func (board *Board) Seeded() bool {
	return board.seeded
}

// Steps is the number of actions which changed the board
func (board *Board) Steps() int {
	return board.steps
}

func (board *Board) Rand() *rand.Rand {
	return board.rand
}

func (board *Board) VisibilityAt(x, y int) (Visibility, error) {
	return board.visibility.Get(x, y)
}

func (board *Board) NeighborsOf(x, y int) ([]grid.Point, error) {
	return board.truth.Neighbors(x, y)
}

// Seed places mineCount mines on distinct cells, every subset of cells being
// equally likely, and computes the neighbor counts.
func (board *Board) Seed(mineCount int) error {
	if board.seeded {
		return ErrAlreadySeeded
	}

	numCells := board.NumCells()
	if mineCount < 0 || mineCount >= numCells {
		return errors.Wrapf(ErrInvalidMineCount, "%d mines on %d cells", mineCount, numCells)
	}

	// Partial Fisher-Yates: the first mineCount entries end up a uniform
	// sample without replacement
	cellIndexes := make([]int, numCells)
	for i := range cellIndexes {
		cellIndexes[i] = i
	}
	for i := 0; i < mineCount; i++ {
		j := i + board.rand.Intn(numCells-i)
		cellIndexes[i], cellIndexes[j] = cellIndexes[j], cellIndexes[i]
	}

	return board.SeedMines(cellIndexes[:mineCount])
}

// SeedMines places mines on exactly the given flattened indexes
func (board *Board) SeedMines(indexes []int) error {
	if board.seeded {
		return ErrAlreadySeeded
	}

	numCells := board.NumCells()
	if len(indexes) >= numCells {
		return errors.Wrapf(ErrInvalidMineCount, "%d mines on %d cells", len(indexes), numCells)
	}

	mines := collections.NewSet[int]()
	for _, idx := range indexes {
		if idx < 0 || idx >= numCells {
			return errors.Wrapf(grid.ErrIndexOutOfBounds, "mine index %d on %d cells", idx, numCells)
		}
		if mines.Contains(idx) {
			return errors.Wrapf(ErrInvalidMineCount, "duplicate mine index %d", idx)
		}
		mines.Add(idx)
	}

	for _, idx := range indexes {
		board.truth.SetAt(idx, Cell{Mine: true})

		for _, neighbor := range board.truth.NeighborIndexes(idx) {
			cell := board.truth.At(neighbor)
			if !cell.Mine {
				cell.NumMines++
				board.truth.SetAt(neighbor, cell)
			}
		}
	}

	board.mines = mines
	board.seeded = true
	return nil
}

// playableIndex validates a coordinate for a mutating action
func (board *Board) playableIndex(x, y int) (int, error) {
	idx, err := board.truth.Index(x, y)
	if err != nil {
		return 0, err
	}
	if !board.seeded {
		return 0, ErrNotSeeded
	}
	if board.Status().IsTerminal() {
		return 0, ErrGameOver
	}
	return idx, nil
}

// Mark toggles a flag on a hidden cell. Revealed cells are left untouched.
func (board *Board) Mark(x, y int) (Visibility, error) {
	idx, err := board.playableIndex(x, y)
	if err != nil {
		return Visibility{}, err
	}

	vis := board.visibility.At(idx)
	switch vis.State {
	case Hidden:
		vis.State = Flagged
	case Flagged:
		vis.State = Hidden
	default:
		return vis, nil
	}

	board.visibility.SetAt(idx, vis)
	board.steps++
	return vis, nil
}

// Reveal uncovers a hidden cell. A zero cell floods its region; a mine ends
// the game. Flagged and already revealed cells are left untouched.
func (board *Board) Reveal(x, y int) (Visibility, error) {
	idx, err := board.playableIndex(x, y)
	if err != nil {
		return Visibility{}, err
	}

	if board.visibility.At(idx).State != Hidden {
		return board.visibility.At(idx), nil
	}

	board.reveal(idx)
	board.steps++
	return board.visibility.At(idx), nil
}

// Chord reveals every hidden neighbor of a revealed number once the player
// has flagged as many neighbors as the number says
func (board *Board) Chord(x, y int) (Visibility, error) {
	idx, err := board.playableIndex(x, y)
	if err != nil {
		return Visibility{}, err
	}

	vis := board.visibility.At(idx)
	if vis.State != Revealed || vis.Cell.NumMines == 0 {
		return vis, nil
	}

	numFlaggedNeighbors := 0
	var hiddenNeighbors []int
	for _, neighbor := range board.truth.NeighborIndexes(idx) {
		switch board.visibility.At(neighbor).State {
		case Flagged:
			numFlaggedNeighbors++
		case Hidden:
			hiddenNeighbors = append(hiddenNeighbors, neighbor)
		}
	}

	if numFlaggedNeighbors != int(vis.Cell.NumMines) || len(hiddenNeighbors) == 0 {
		return vis, nil
	}

	for _, neighbor := range hiddenNeighbors {
		// An earlier neighbor's flood may already have uncovered this one
		if board.visibility.At(neighbor).State != Hidden {
			continue
		}
		if exploded := board.reveal(neighbor); exploded {
			break
		}
	}

	board.steps++
	return board.visibility.At(idx), nil
}

// reveal uncovers the hidden cell at idx, reporting whether it was a mine
func (board *Board) reveal(idx int) (exploded bool) {
	if board.truth.At(idx).Mine {
		board.lose(idx)
		return true
	}

	board.cascadeEmpty(idx)
	return false
}

func (board *Board) show(idx int) {
	board.visibility.SetAt(idx, Visibility{State: Revealed, Cell: board.truth.At(idx)})
}

// lose exposes every mine, marking the one at idx as the one stepped on
func (board *Board) lose(idx int) {
	for mineIdx := range board.mines {
		board.show(mineIdx)
	}

	vis := board.visibility.At(idx)
	vis.Exploded = true
	board.visibility.SetAt(idx, vis)
}

// Status is computed from the two layers. The game is won once every mine is
// flagged or every safe cell is revealed, whichever comes first.
func (board *Board) Status() Outcome {
	if !board.seeded {
		return InProgress
	}

	allMinesFlagged := board.mines.Len() > 0
	allSafeRevealed := true

	for idx := 0; idx < board.visibility.Size(); idx++ {
		vis := board.visibility.At(idx)

		if vis.Exploded {
			return LostOnMine
		}

		if board.mines.Contains(idx) {
			if vis.State != Flagged {
				allMinesFlagged = false
			}
		} else if vis.State != Revealed {
			allSafeRevealed = false
		}
	}

	if allMinesFlagged || allSafeRevealed {
		return Won
	}
	return InProgress
}

// Render returns one display symbol per cell, rows from top to bottom
func (board *Board) Render() [][]Symbol {
	rows := make([][]Symbol, board.Height())
	for y := range rows {
		row := make([]Symbol, board.Width())
		for x := range row {
			vis, _ := board.visibility.Get(x, y)
			row[x] = vis.Symbol()
		}
		rows[y] = row
	}
	return rows
}
