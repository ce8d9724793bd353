package game

// CellState is what the player currently sees of a cell
type CellState int

const (
	Hidden CellState = iota
	Flagged
	Revealed
)

func (state CellState) String() string {
	switch state {
	case Hidden:
		return "hidden"
	case Flagged:
		return "flagged"
	case Revealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// Outcome of a game, derived from the board on demand
type Outcome int

const (
	InProgress Outcome = iota
	Won
	LostOnMine
	// Aborted is never reported by the board; the game loop assigns it when
	// the player quits.
	Aborted
)

func (outcome Outcome) String() string {
	switch outcome {
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case LostOnMine:
		return "lost"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

func (outcome Outcome) IsTerminal() bool {
	return outcome != InProgress
}

// Symbol is the display character of a single cell
type Symbol rune

const (
	SymbolHidden   Symbol = '.'
	SymbolFlag     Symbol = '*'
	SymbolEmpty    Symbol = '/'
	SymbolMine     Symbol = 'X'
	SymbolExploded Symbol = '@'
)

var numberSymbols = [...]Symbol{SymbolEmpty, '1', '2', '3', '4', '5', '6', '7', '8'}
