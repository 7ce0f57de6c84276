package board

// StandardTiles returns the classic 100-tile snakes and ladders topology
func StandardTiles() map[int]int {
	return map[int]int{
		// Ladders
		1:  38,
		4:  14,
		9:  31,
		21: 42,
		28: 84,
		36: 44,
		51: 67,
		71: 91,
		80: 100,

		// Snakes
		16: 6,
		47: 26,
		49: 11,
		56: 53,
		62: 19,
		64: 60,
		87: 24,
		93: 73,
		95: 75,
		98: 78,
	}
}

// Standard returns a board built from StandardTiles
func Standard() *Board {
	b, err := New(StandardTiles())
	if err != nil {
		// The standard topology is a compile-time constant; an error here
		// means the table itself is broken.
		panic(err)
	}
	return b
}
