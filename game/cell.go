package game

import "fmt"

// Cell is the truth layer: either a mine, or a safe cell with the number of
// mines around it. Fixed once the board is seeded.
type Cell struct {
	Mine     bool
	NumMines uint8
}

func (cell Cell) String() string {
	if cell.Mine {
		return "Mine"
	}
	return fmt.Sprintf("Empty(%d)", cell.NumMines)
}

// Visibility is the player-facing state of a cell. Cell is only meaningful
// once State is Revealed.
type Visibility struct {
	State    CellState
	Cell     Cell
	Exploded bool
}

func (vis Visibility) String() string {
	if vis.State == Revealed {
		if vis.Exploded {
			return "Revealed(exploded)"
		}
		return fmt.Sprintf("Revealed(%v)", vis.Cell)
	}
	return vis.State.String()
}

func (vis Visibility) Symbol() Symbol {
	switch vis.State {
	case Flagged:
		return SymbolFlag
	case Revealed:
		switch {
		case vis.Exploded:
			return SymbolExploded
		case vis.Cell.Mine:
			return SymbolMine
		default:
			return numberSymbols[vis.Cell.NumMines]
		}
	default:
		return SymbolHidden
	}
}

func (vis Visibility) serialize(cell Cell) string {
	switch {
	case cell.Mine:
		switch {
		case vis.Exploded:
			return "*"
		case vis.State == Flagged:
			return "F"
		case vis.State == Revealed:
			return "X"
		default:
			return "O"
		}
	case vis.State == Flagged:
		return "f"
	case vis.State == Revealed:
		return "."
	default:
		return "#"
	}
}

// deserializeCell decodes one snapshot character into whether it holds a
// mine and the visibility it was saved with
func deserializeCell(c rune) (isMine bool, vis Visibility, ok bool) {
	switch c {
	case '*':
		return true, Visibility{State: Revealed, Cell: Cell{Mine: true}, Exploded: true}, true
	case 'F':
		return true, Visibility{State: Flagged}, true
	case 'X':
		return true, Visibility{State: Revealed, Cell: Cell{Mine: true}}, true
	case 'O':
		return true, Visibility{State: Hidden}, true
	case 'f':
		return false, Visibility{State: Flagged}, true
	case '.':
		// Cell is filled in from the truth layer once mines are placed
		return false, Visibility{State: Revealed}, true
	case '#':
		return false, Visibility{State: Hidden}, true
	default:
		return false, Visibility{}, false
	}
}
