package game

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// BoardSnapshot is a YAML description of a board, one character per cell:
//
//	O hidden mine    F flagged mine    X revealed mine    * exploded mine
//	# hidden cell    f flagged cell    . revealed cell
type BoardSnapshot struct {
	Seed            int64  `yaml:"seed"`
	SerializedBoard string `yaml:"board,flow"`
}

func (snapshot *BoardSnapshot) Serialize() (string, error) {
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		return "", errors.Wrap(err, "serializing snapshot")
	}
	return string(out), nil
}

func LoadSnapshot(in string) (*BoardSnapshot, error) {
	var snapshot BoardSnapshot
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, errors.Wrap(err, "parsing snapshot")
	}
	return &snapshot, nil
}

func (board *Board) Snapshot() *BoardSnapshot {
	var boardBuilder strings.Builder

	for y := 0; y < board.Height(); y++ {
		if y > 0 {
			boardBuilder.WriteByte('\n')
		}
		for x := 0; x < board.Width(); x++ {
			idx := x + y*board.Width()
			boardBuilder.WriteString(board.visibility.At(idx).serialize(board.truth.At(idx)))
		}
	}

	return &BoardSnapshot{
		Seed:            board.seed,
		SerializedBoard: boardBuilder.String(),
	}
}

// CreateBoard builds a seeded board with the snapshot's mines. With fresh
// set, every cell starts hidden; otherwise flags and revealed cells are
// restored as saved.
func (snapshot *BoardSnapshot) CreateBoard(fresh bool) (*Board, error) {
	rows := strings.Split(strings.TrimSpace(snapshot.SerializedBoard), "\n")
	for y := range rows {
		rows[y] = strings.TrimSpace(rows[y])
	}

	height := len(rows)
	width := len(rows[0])
	if width == 0 {
		return nil, errors.Wrap(ErrInvalidSnapshot, "empty board")
	}

	var mines []int
	visibilities := make([]Visibility, 0, width*height)

	for y, row := range rows {
		if len(row) != width {
			return nil, errors.Wrapf(ErrInvalidSnapshot, "row %d has %d cells, expected %d", y+1, len(row), width)
		}

		for x, c := range row {
			isMine, vis, ok := deserializeCell(c)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidSnapshot, "unknown cell %q at (%d, %d)", c, x, y)
			}
			if isMine {
				mines = append(mines, x+y*width)
			}
			visibilities = append(visibilities, vis)
		}
	}

	board, err := NewBoard(width, height, WithSeed(snapshot.Seed))
	if err != nil {
		return nil, err
	}
	if err := board.SeedMines(mines); err != nil {
		return nil, errors.Wrap(err, "placing snapshot mines")
	}

	if !fresh {
		for idx, vis := range visibilities {
			if vis.State == Revealed {
				vis.Cell = board.truth.At(idx)
			}
			board.visibility.SetAt(idx, vis)
		}
	}

	return board, nil
}
