package game

import "fmt"

type ActionType int

const (
	ActionReveal ActionType = iota
	ActionMark
	ActionChord
)

func (actionType ActionType) String() string {
	switch actionType {
	case ActionReveal:
		return "reveal"
	case ActionMark:
		return "mark"
	case ActionChord:
		return "chord"
	default:
		return "unknown"
	}
}

// Action is a single player move, in 0-based board coordinates
type Action struct {
	X, Y int
	Type ActionType
}

func (action Action) String() string {
	return fmt.Sprintf("%v(%d, %d)", action.Type, action.X, action.Y)
}

// Apply performs action on the board, returning the target cell's new state
func (board *Board) Apply(action Action) (Visibility, error) {
	switch action.Type {
	case ActionMark:
		return board.Mark(action.X, action.Y)
	case ActionChord:
		return board.Chord(action.X, action.Y)
	default:
		return board.Reveal(action.X, action.Y)
	}
}

// Director plays the game in place of the player
type Director interface {
	/**
	 * Initialize the director with a seeded board
	 */
	Init(*Board)

	/**
	 * Choose the next action, or report that no action is left
	 */
	Act() (Action, bool)

	/**
	 * Stop acting
	 */
	End()
}
