package game

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/they4kman/termsweep/grid"
)

// boardFromLayout builds a seeded board from snapshot characters, keeping
// any flags and revealed cells in the layout
func boardFromLayout(t *testing.T, layout string) *Board {
	t.Helper()

	board, err := (&BoardSnapshot{SerializedBoard: layout}).CreateBoard(false)
	if err != nil {
		t.Fatalf("invalid layout: %v", err)
	}
	return board
}

func mustState(t *testing.T, board *Board, x, y int) CellState {
	t.Helper()

	vis, err := board.VisibilityAt(x, y)
	if err != nil {
		t.Fatal(err)
	}
	return vis.State
}

func TestSeedPlacesMinesAndCounts(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		for _, mineCount := range []int{0, 1, 10, 40, 80} {
			board, err := NewBoard(9, 9, WithSeed(seed))
			if err != nil {
				t.Fatal(err)
			}
			if err := board.Seed(mineCount); err != nil {
				t.Fatalf("Seed(%d): %v", mineCount, err)
			}

			mines := 0
			for idx := 0; idx < board.NumCells(); idx++ {
				cell := board.truth.At(idx)
				if cell.Mine {
					mines++
					continue
				}

				adjacent := 0
				for _, neighbor := range board.truth.NeighborIndexes(idx) {
					if board.truth.At(neighbor).Mine {
						adjacent++
					}
				}
				if int(cell.NumMines) != adjacent {
					t.Fatalf("seed %d: cell %d counts %d mines, has %d", seed, idx, cell.NumMines, adjacent)
				}
			}

			if mines != mineCount || board.MineCount() != mineCount {
				t.Fatalf("seed %d: expected %d mines, found %d", seed, mineCount, mines)
			}
		}
	}
}

func TestSeedIsUniform(t *testing.T) {
	hits := make([]int, 4)
	for seed := int64(1); seed <= 4000; seed++ {
		board, _ := NewBoard(2, 2, WithSeed(seed))
		if err := board.Seed(1); err != nil {
			t.Fatal(err)
		}
		for idx := range board.mines {
			hits[idx]++
		}
	}

	for idx, n := range hits {
		if n < 850 || n > 1150 {
			t.Errorf("cell %d held the mine %d times out of 4000", idx, n)
		}
	}
}

func TestSeedRejectsInvalidCounts(t *testing.T) {
	for _, mineCount := range []int{-1, 81, 100} {
		board, _ := NewBoard(9, 9, WithSeed(1))

		if err := board.Seed(mineCount); !errors.Is(err, ErrInvalidMineCount) {
			t.Errorf("Seed(%d): expected ErrInvalidMineCount, got %v", mineCount, err)
		}
		if board.Seeded() {
			t.Errorf("Seed(%d) left the board seeded", mineCount)
		}
		if _, err := board.Reveal(0, 0); !errors.Is(err, ErrNotSeeded) {
			t.Errorf("Reveal on unseeded board: expected ErrNotSeeded, got %v", err)
		}
	}
}

func TestSeedOnlyOnce(t *testing.T) {
	board, _ := NewBoard(4, 4, WithSeed(7))
	if err := board.Seed(3); err != nil {
		t.Fatal(err)
	}
	if err := board.Seed(3); !errors.Is(err, ErrAlreadySeeded) {
		t.Fatalf("expected ErrAlreadySeeded, got %v", err)
	}
	if err := board.SeedMines([]int{0}); !errors.Is(err, ErrAlreadySeeded) {
		t.Fatalf("expected ErrAlreadySeeded, got %v", err)
	}
}

func TestSeedMinesValidation(t *testing.T) {
	board, _ := NewBoard(3, 3)

	if err := board.SeedMines([]int{1, 9}); !errors.Is(err, grid.ErrIndexOutOfBounds) {
		t.Errorf("expected ErrIndexOutOfBounds, got %v", err)
	}
	if err := board.SeedMines([]int{2, 2}); !errors.Is(err, ErrInvalidMineCount) {
		t.Errorf("expected ErrInvalidMineCount, got %v", err)
	}
	if board.Seeded() {
		t.Fatal("rejected mine sets must leave the board unseeded")
	}
}

func TestRevealIsIdempotent(t *testing.T) {
	board := boardFromLayout(t, "O#O#\n####\n####\n###O")

	first, err := board.Reveal(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if first.State != Revealed || first.Cell.NumMines != 2 {
		t.Fatalf("expected Revealed(2), got %v", first)
	}

	before := board.Snapshot().SerializedBoard
	second, err := board.Reveal(1, 0)
	if err != nil {
		t.Fatal(err)
	}

	if second != first {
		t.Fatalf("second reveal returned %v, first %v", second, first)
	}
	if after := board.Snapshot().SerializedBoard; after != before {
		t.Fatalf("second reveal changed the board:\n%s\n->\n%s", before, after)
	}
	if board.Steps() != 1 {
		t.Fatalf("expected 1 step, got %d", board.Steps())
	}
}

// expectedRegion is a straightforward recursive flood fill used to check
// the queue-based one
func expectedRegion(board *Board, idx int, region map[int]bool) {
	if region[idx] || board.truth.At(idx).Mine || board.visibility.At(idx).State != Hidden {
		return
	}
	region[idx] = true
	if board.truth.At(idx).NumMines == 0 {
		for _, neighbor := range board.truth.NeighborIndexes(idx) {
			expectedRegion(board, neighbor, region)
		}
	}
}

func TestFloodRevealsMaximalRegion(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		board, _ := NewBoard(16, 12, WithSeed(seed))
		if err := board.Seed(20); err != nil {
			t.Fatal(err)
		}

		// Start from the first zero cell
		start := -1
		for idx := 0; idx < board.NumCells(); idx++ {
			if cell := board.truth.At(idx); !cell.Mine && cell.NumMines == 0 {
				start = idx
				break
			}
		}
		if start < 0 {
			continue
		}

		region := make(map[int]bool)
		expectedRegion(board, start, region)

		point := board.truth.Point(start)
		if _, err := board.Reveal(point.X, point.Y); err != nil {
			t.Fatal(err)
		}

		for idx := 0; idx < board.NumCells(); idx++ {
			revealed := board.visibility.At(idx).State == Revealed
			if revealed != region[idx] {
				t.Fatalf("seed %d: cell %d revealed=%v, expected %v", seed, idx, revealed, region[idx])
			}
		}
	}
}

func TestFloodEmptyBoard(t *testing.T) {
	board, _ := NewBoard(30, 16, WithSeed(3))
	if err := board.Seed(0); err != nil {
		t.Fatal(err)
	}

	if status := board.Status(); status != InProgress {
		t.Fatalf("fresh empty board should be in progress, got %v", status)
	}

	if _, err := board.Reveal(12, 7); err != nil {
		t.Fatal(err)
	}

	for idx := 0; idx < board.NumCells(); idx++ {
		if vis := board.visibility.At(idx); vis.State != Revealed || vis.Symbol() != SymbolEmpty {
			t.Fatalf("cell %d not cleared: %v", idx, vis)
		}
	}
	if status := board.Status(); status != Won {
		t.Fatalf("expected Won, got %v", status)
	}
}

func TestFloodStopsAtFlags(t *testing.T) {
	board := boardFromLayout(t, "##f#O")

	if _, err := board.Reveal(0, 0); err != nil {
		t.Fatal(err)
	}

	expected := []CellState{Revealed, Revealed, Flagged, Hidden, Hidden}
	for x, state := range expected {
		if got := mustState(t, board, x, 0); got != state {
			t.Errorf("cell %d: expected %v, got %v", x, state, got)
		}
	}

	// Flagged cells are not revealed directly either
	if vis, err := board.Reveal(2, 0); err != nil || vis.State != Flagged {
		t.Fatalf("expected flagged cell to stay flagged, got %v, %v", vis, err)
	}
}

func TestMarkToggles(t *testing.T) {
	board := boardFromLayout(t, "O##\n###\n###")

	vis, err := board.Mark(2, 2)
	if err != nil || vis.State != Flagged {
		t.Fatalf("expected Flagged, got %v, %v", vis, err)
	}
	vis, err = board.Mark(2, 2)
	if err != nil || vis.State != Hidden {
		t.Fatalf("expected Hidden, got %v, %v", vis, err)
	}
	if board.Steps() != 2 {
		t.Fatalf("expected 2 steps, got %d", board.Steps())
	}

	if _, err := board.Reveal(1, 0); err != nil {
		t.Fatal(err)
	}
	vis, err = board.Mark(1, 0)
	if err != nil || vis.State != Revealed {
		t.Fatalf("marking a revealed cell should be a no-op, got %v, %v", vis, err)
	}
	if board.Steps() != 3 {
		t.Fatalf("no-op mark should not count as a step, got %d steps", board.Steps())
	}
}

func TestWinByFlagging(t *testing.T) {
	board, _ := NewBoard(2, 2, WithSeed(11))
	if err := board.Seed(1); err != nil {
		t.Fatal(err)
	}

	var mine grid.Point
	for idx := range board.mines {
		mine = board.truth.Point(idx)
	}

	if _, err := board.Mark(mine.X, mine.Y); err != nil {
		t.Fatal(err)
	}
	if status := board.Status(); status != Won {
		t.Fatalf("expected Won, got %v", status)
	}

	hidden := 0
	for idx := 0; idx < board.NumCells(); idx++ {
		if board.visibility.At(idx).State == Hidden {
			hidden++
		}
	}
	if hidden != 3 {
		t.Fatalf("expected the 3 safe cells to stay hidden, got %d", hidden)
	}
}

func TestWrongFlagsDoNotBlockFlagWin(t *testing.T) {
	board := boardFromLayout(t, "O##\n###\n###")

	if _, err := board.Mark(2, 2); err != nil {
		t.Fatal(err)
	}
	if status := board.Status(); status != InProgress {
		t.Fatalf("expected InProgress, got %v", status)
	}
	if _, err := board.Mark(0, 0); err != nil {
		t.Fatal(err)
	}
	if status := board.Status(); status != Won {
		t.Fatalf("expected Won, got %v", status)
	}
}

func TestLoseOnMine(t *testing.T) {
	board, _ := NewBoard(2, 2)
	if err := board.SeedMines([]int{0}); err != nil {
		t.Fatal(err)
	}

	vis, err := board.Reveal(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !vis.Exploded {
		t.Fatalf("expected exploded mine, got %v", vis)
	}
	if status := board.Status(); status != LostOnMine {
		t.Fatalf("expected LostOnMine, got %v", status)
	}

	rows := board.Render()
	expected := [][]Symbol{
		{SymbolExploded, SymbolHidden},
		{SymbolHidden, SymbolHidden},
	}
	for y := range expected {
		for x := range expected[y] {
			if rows[y][x] != expected[y][x] {
				t.Fatalf("render mismatch at (%d, %d): %q != %q", x, y, rows[y][x], expected[y][x])
			}
		}
	}

	// Terminal: nothing else can change
	if _, err := board.Reveal(1, 1); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if _, err := board.Mark(1, 1); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}

func TestLoseExposesEveryMine(t *testing.T) {
	board := boardFromLayout(t, "O##\n###\n#FO")

	if _, err := board.Reveal(2, 2); err != nil {
		t.Fatal(err)
	}

	rows := board.Render()
	if rows[2][2] != SymbolExploded || rows[0][0] != SymbolMine || rows[2][1] != SymbolMine {
		t.Fatalf("expected all mines shown, got %q", FormatBoard(rows))
	}
}

func TestOutOfBoundsMutatesNothing(t *testing.T) {
	board, _ := NewBoard(9, 9, WithSeed(5))
	if err := board.Seed(10); err != nil {
		t.Fatal(err)
	}
	before := board.Snapshot().SerializedBoard

	for _, point := range []grid.Point{{X: 9, Y: 0}, {X: 0, Y: 9}, {X: -1, Y: 3}} {
		if _, err := board.Reveal(point.X, point.Y); !errors.Is(err, grid.ErrIndexOutOfBounds) {
			t.Errorf("Reveal%v: expected ErrIndexOutOfBounds, got %v", point, err)
		}
		if _, err := board.Mark(point.X, point.Y); !errors.Is(err, grid.ErrIndexOutOfBounds) {
			t.Errorf("Mark%v: expected ErrIndexOutOfBounds, got %v", point, err)
		}
		if _, err := board.Chord(point.X, point.Y); !errors.Is(err, grid.ErrIndexOutOfBounds) {
			t.Errorf("Chord%v: expected ErrIndexOutOfBounds, got %v", point, err)
		}
	}

	if after := board.Snapshot().SerializedBoard; after != before || board.Steps() != 0 {
		t.Fatal("out-of-bounds actions changed the board")
	}
}

func TestChord(t *testing.T) {
	board := boardFromLayout(t, "O#O#\n####\n####\n###O")

	if _, err := board.Reveal(1, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := board.Mark(0, 0); err != nil {
		t.Fatal(err)
	}

	// Not enough flags yet
	if _, err := board.Chord(1, 0); err != nil {
		t.Fatal(err)
	}
	if mustState(t, board, 1, 1) != Hidden || board.Steps() != 2 {
		t.Fatal("chord without enough flags should be a no-op")
	}

	if _, err := board.Mark(2, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := board.Chord(1, 0); err != nil {
		t.Fatal(err)
	}

	for _, point := range []grid.Point{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}} {
		if state := mustState(t, board, point.X, point.Y); state != Revealed {
			t.Errorf("%v: expected Revealed, got %v", point, state)
		}
	}
	if status := board.Status(); status != InProgress {
		t.Fatalf("expected InProgress, got %v", status)
	}
	if board.Steps() != 4 {
		t.Fatalf("expected 4 steps, got %d", board.Steps())
	}
}

func TestChordOnWrongFlagLoses(t *testing.T) {
	board := boardFromLayout(t, "O#O#\n####\n####\n###O")

	for _, action := range []Action{
		{X: 1, Y: 0, Type: ActionReveal},
		{X: 0, Y: 0, Type: ActionMark},
		{X: 1, Y: 1, Type: ActionMark},
		{X: 1, Y: 0, Type: ActionChord},
	} {
		if _, err := board.Apply(action); err != nil {
			t.Fatalf("%v: %v", action, err)
		}
	}

	if status := board.Status(); status != LostOnMine {
		t.Fatalf("expected LostOnMine, got %v", status)
	}
}
