package game

import "github.com/pkg/errors"

var (
	ErrInvalidMineCount = errors.New("invalid mine count")
	ErrAlreadySeeded    = errors.New("board already seeded")
	ErrNotSeeded        = errors.New("board not seeded")
	ErrGameOver         = errors.New("game is over")
	ErrInvalidSnapshot  = errors.New("invalid board snapshot")
)
