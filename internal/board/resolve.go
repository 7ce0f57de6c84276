package board

// RollResult describes the outcome of applying a dice value to a position
type RollResult struct {
	// OldPosition is the tile the team rolled from
	OldPosition int

	// DiceRoll is the dice value applied
	DiceRoll int

	// Landed is the tile reached by the dice before any redirect, capped at the goal
	Landed int

	// NewPosition is the final tile after any redirect
	NewPosition int

	// Redirected indicates a snake or ladder was applied
	Redirected bool

	// Effect is the redirect kind, empty when Redirected is false
	Effect Effect

	// Won indicates the roll reached the goal tile
	Won bool
}

// ResolveRoll computes a team's new position for a dice value. Overshooting
// the goal caps at 100, and landing exactly on the goal skips the topology
// lookup entirely.
func (b *Board) ResolveRoll(oldPosition, dice int) (*RollResult, error) {
	if oldPosition < 0 || oldPosition > GoalTile {
		return nil, ErrInvalidPosition
	}

	if oldPosition == GoalTile {
		return nil, ErrAlreadyWon
	}

	if dice < 1 || dice > 6 {
		return nil, ErrInvalidDice
	}

	landed := oldPosition + dice
	if landed > GoalTile {
		landed = GoalTile
	}

	result := &RollResult{
		OldPosition: oldPosition,
		DiceRoll:    dice,
		Landed:      landed,
		NewPosition: landed,
	}

	if landed == GoalTile {
		result.Won = true
		return result, nil
	}

	if redirect, ok := b.Resolve(landed); ok {
		result.NewPosition = redirect.Target
		result.Redirected = true
		result.Effect = redirect.Effect
	}

	return result, nil
}
