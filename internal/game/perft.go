package game

// Perft counts the number of leaf nodes at the given depth.
// This is the standard way to verify move generation correctness.
// The game is returned to its original state.
func Perft(g *Game, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := g.LegalMoves(g.turn)
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		if _, err := g.Apply(m.From, m.To); err != nil {
			continue
		}
		nodes += Perft(g, depth-1)
		if _, err := g.Undo(); err != nil {
			panic(err) // Apply just recorded this turn
		}
	}
	return nodes
}

// Divide returns the perft count below each legal move, keyed by "e2e4".
func Divide(g *Game, depth int) map[string]int64 {
	out := make(map[string]int64)
	if depth < 1 {
		return out
	}
	for _, m := range g.LegalMoves(g.turn) {
		if _, err := g.Apply(m.From, m.To); err != nil {
			continue
		}
		out[m.String()] = Perft(g, depth-1)
		if _, err := g.Undo(); err != nil {
			panic(err)
		}
	}
	return out
}
