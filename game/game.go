package game

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/termsweep/grid"
)

type GameConfig struct {
	Width, Height int
	// Number of mines to seed; negative asks the player
	NumMines int

	// Zero picks a seed from the clock
	Seed int64

	// Snapshot to load board configuration from
	Snapshot *BoardSnapshot
	// Whether to set all cells as hidden when loading the Snapshot
	LoadSnapshotFresh bool

	Director Director

	Log logrus.FieldLogger
}

func NewGameConfig() GameConfig {
	return GameConfig{
		Width:             9,
		Height:            9,
		NumMines:          -1,
		Director:          nil,
		Snapshot:          nil,
		LoadSnapshotFresh: true,
	}
}

func (config GameConfig) createBoard() (*Board, error) {
	if config.Snapshot != nil {
		return config.Snapshot.CreateBoard(config.LoadSnapshotFresh)
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewBoard(config.Width, config.Height, WithSeed(seed))
}

func (config GameConfig) logger() logrus.FieldLogger {
	if config.Log != nil {
		return config.Log
	}
	discard := logrus.New()
	discard.Out = io.Discard
	return discard
}

var errEndOfInput = errors.New("end of input")

// session is one run of the text game over a pair of streams
type session struct {
	config GameConfig
	board  *Board
	input  *bufio.Scanner
	out    io.Writer
	log    logrus.FieldLogger
}

// Run plays a single game, reading commands from in and printing the board
// to out after every action. Commands take 1-based coordinates:
//
//	x y free     reveal a cell
//	x y mine     flag or unflag a cell
//	x y chord    reveal around a satisfied number
//	quit         give up
func Run(config GameConfig, in io.Reader, out io.Writer) (Outcome, error) {
	board, err := config.createBoard()
	if err != nil {
		return InProgress, err
	}

	s := &session{
		config: config,
		board:  board,
		input:  bufio.NewScanner(in),
		out:    out,
		log:    config.logger(),
	}

	outcome, err := s.play()
	if err != nil {
		return outcome, err
	}

	s.printOutcome(outcome)

	if snapshot, err := board.Snapshot().Serialize(); err == nil {
		s.log.WithField("outcome", outcome).Debugf("final board:\n%s", snapshot)
	}

	return outcome, nil
}

func (s *session) play() (Outcome, error) {
	if !s.board.Seeded() {
		if err := s.seed(); err != nil {
			if errors.Is(err, errEndOfInput) {
				return Aborted, nil
			}
			return InProgress, err
		}
	}

	s.log.WithFields(logrus.Fields{
		"width":  s.board.Width(),
		"height": s.board.Height(),
		"mines":  s.board.MineCount(),
	}).Info("game started")

	if s.config.Director != nil {
		s.config.Director.Init(s.board)
		defer s.config.Director.End()
	}

	s.printBoard()

	for !s.board.Status().IsTerminal() {
		action, ok, err := s.nextAction()
		if err != nil {
			if errors.Is(err, errEndOfInput) {
				return Aborted, nil
			}
			return InProgress, err
		}
		if !ok {
			return Aborted, nil
		}

		vis, err := s.board.Apply(action)
		if err != nil {
			if errors.Is(err, grid.ErrIndexOutOfBounds) {
				fmt.Fprintf(s.out, "Coordinates must be between 1 and %d (x), 1 and %d (y).\n", s.board.Width(), s.board.Height())
				continue
			}
			return InProgress, err
		}

		s.log.WithFields(logrus.Fields{
			"action": action.Type,
			"x":      action.X,
			"y":      action.Y,
			"cell":   vis,
			"steps":  s.board.Steps(),
		}).Debug("applied action")

		s.printBoard()
	}

	return s.board.Status(), nil
}

// seed asks for a mine count until the board accepts one, unless the config
// already names it
func (s *session) seed() error {
	if s.config.NumMines >= 0 {
		return s.board.Seed(s.config.NumMines)
	}

	for {
		fmt.Fprintf(s.out, "How many mines do you want on the field? (0-%d)\n", s.board.NumCells()-1)

		line, err := s.readLine()
		if err != nil {
			return err
		}

		numMines, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(s.out, "%q is not a number.\n", line)
			continue
		}

		if err := s.board.Seed(numMines); err != nil {
			if errors.Is(err, ErrInvalidMineCount) {
				fmt.Fprintf(s.out, "Cannot place %d mines on this field.\n", numMines)
				continue
			}
			return err
		}
		return nil
	}
}

// nextAction asks the director, or else the player. ok is false once the
// player quits or the director gives up.
func (s *session) nextAction() (action Action, ok bool, err error) {
	if s.config.Director != nil {
		action, ok = s.config.Director.Act()
		return action, ok, nil
	}

	for {
		fmt.Fprintln(s.out, "Set/unset a mine mark, claim a cell as free, or chord a number (x y mine|free|chord, or quit):")

		line, err := s.readLine()
		if err != nil {
			return Action{}, false, err
		}

		action, quit, err := parseCommand(line)
		if err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		if quit {
			return Action{}, false, nil
		}
		return action, true, nil
	}
}

func (s *session) readLine() (string, error) {
	for s.input.Scan() {
		if line := strings.TrimSpace(s.input.Text()); line != "" {
			return line, nil
		}
	}
	if err := s.input.Err(); err != nil {
		return "", errors.Wrap(err, "reading input")
	}
	return "", errEndOfInput
}

var commandTypes = map[string]ActionType{
	"free":   ActionReveal,
	"reveal": ActionReveal,
	"r":      ActionReveal,
	"mine":   ActionMark,
	"mark":   ActionMark,
	"flag":   ActionMark,
	"m":      ActionMark,
	"chord":  ActionChord,
	"c":      ActionChord,
}

// parseCommand reads "x y op" with 1-based coordinates, or a quit command
func parseCommand(line string) (action Action, quit bool, err error) {
	fields := strings.Fields(strings.ToLower(line))

	if len(fields) == 1 && (fields[0] == "quit" || fields[0] == "exit" || fields[0] == "q") {
		return Action{}, true, nil
	}
	if len(fields) == 3 && fields[2] == "exit" {
		return Action{}, true, nil
	}
	if len(fields) != 3 {
		return Action{}, false, errors.Errorf("expected \"x y mine|free|chord\", got %q", line)
	}

	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return Action{}, false, errors.Errorf("invalid x coordinate %q", fields[0])
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return Action{}, false, errors.Errorf("invalid y coordinate %q", fields[1])
	}

	actionType, isValid := commandTypes[fields[2]]
	if !isValid {
		return Action{}, false, errors.Errorf("unknown command %q", fields[2])
	}

	return Action{X: x - 1, Y: y - 1, Type: actionType}, false, nil
}

func (s *session) printBoard() {
	fmt.Fprint(s.out, FormatBoard(s.board.Render()))
}

func (s *session) printOutcome(outcome Outcome) {
	switch outcome {
	case Aborted:
		fmt.Fprintln(s.out, "You left the game before finishing it!")
	case LostOnMine:
		fmt.Fprintln(s.out, "You stepped on a mine and failed!")
	case Won:
		fmt.Fprintf(s.out, "Congratulations! You cleared the field in %d steps!\n", s.board.Steps())
	}
}

// FormatBoard lays out rendered rows as text, with a column header and row
// numbers matching the 1-based command coordinates
func FormatBoard(rows [][]Symbol) string {
	if len(rows) == 0 {
		return ""
	}

	labelWidth := len(strconv.Itoa(len(rows)))
	width := len(rows[0])
	separator := strings.Repeat("-", labelWidth) + "|" + strings.Repeat("-", width) + "|\n"

	var builder strings.Builder

	builder.WriteString(strings.Repeat(" ", labelWidth))
	builder.WriteByte('|')
	for x := 0; x < width; x++ {
		builder.WriteString(strconv.Itoa((x + 1) % 10))
	}
	builder.WriteString("|\n")
	builder.WriteString(separator)

	for y, row := range rows {
		fmt.Fprintf(&builder, "%*d|", labelWidth, y+1)
		for _, symbol := range row {
			builder.WriteRune(rune(symbol))
		}
		builder.WriteString("|\n")
	}
	builder.WriteString(separator)

	return builder.String()
}
