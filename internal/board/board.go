package board

import (
	"errors"
	"fmt"
)

// GoalTile is the winning tile. It never carries a redirect.
const GoalTile = 100

// Define errors
var (
	ErrInvalidTile     = errors.New("tile is outside the board")
	ErrSelfRedirect    = errors.New("tile cannot redirect to itself")
	ErrGoalRedirect    = errors.New("goal tile cannot have a redirect")
	ErrInvalidTarget   = errors.New("redirect target is outside the board")
	ErrInvalidDice     = errors.New("dice value must be between 1 and 6")
	ErrInvalidPosition = errors.New("position must be between 0 and 100")
	ErrAlreadyWon      = errors.New("team has already reached the goal")
)

// Effect describes what a redirect does to a team that lands on it
type Effect string

const (
	// EffectSnake redirects to a lower tile
	EffectSnake Effect = "Snake"

	// EffectLadder redirects to a higher tile
	EffectLadder Effect = "Ladder"
)

// Redirect is a single snake or ladder entry
type Redirect struct {
	// Target is the tile the redirect leads to
	Target int

	// Effect distinguishes snakes from ladders for announcement text
	Effect Effect
}

// Board is an immutable tile topology. A tile has at most one outgoing
// redirect, and redirects are never chained: the target tile is final for
// the roll that landed there, even if it has its own entry.
type Board struct {
	redirects map[int]Redirect
	snakes    int
	ladders   int
}

// New builds a board from a tile -> redirect target mapping
func New(tiles map[int]int) (*Board, error) {
	b := &Board{
		redirects: make(map[int]Redirect, len(tiles)),
	}

	for tile, target := range tiles {
		if tile < 1 || tile > GoalTile {
			return nil, fmt.Errorf("tile %d: %w", tile, ErrInvalidTile)
		}

		if tile == GoalTile {
			return nil, ErrGoalRedirect
		}

		if target < 1 || target > GoalTile {
			return nil, fmt.Errorf("tile %d -> %d: %w", tile, target, ErrInvalidTarget)
		}

		if target == tile {
			return nil, fmt.Errorf("tile %d: %w", tile, ErrSelfRedirect)
		}

		effect := EffectLadder
		if target < tile {
			effect = EffectSnake
			b.snakes++
		} else {
			b.ladders++
		}

		b.redirects[tile] = Redirect{
			Target: target,
			Effect: effect,
		}
	}

	return b, nil
}

// Resolve looks up the redirect for a tile, if any
func (b *Board) Resolve(tile int) (Redirect, bool) {
	redirect, ok := b.redirects[tile]
	return redirect, ok
}

// SnakeCount returns the number of snakes on the board
func (b *Board) SnakeCount() int {
	return b.snakes
}

// LadderCount returns the number of ladders on the board
func (b *Board) LadderCount() int {
	return b.ladders
}
