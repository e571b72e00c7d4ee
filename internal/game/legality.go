package game

import (
	"slices"

	"github.com/hailam/chessrules/internal/board"
)

// Direction tables shared by the variants.
var (
	diagonals   = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	orthogonals = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	allLines    = append(slices.Clone(diagonals), orthogonals...)
	knightJumps = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = allLines
)

// trial speculatively moves p to sq, evicting whatever enemy stands there,
// evaluates probe and then restores the mover's square and moved flag and
// the victim's square, set slot and board slot. Restoration runs on every
// exit path, including a panicking probe.
func (g *Game) trial(p Piece, sq board.Square, probe func() bool) bool {
	st := p.state()
	from, moved := st.square, st.moved

	victim := g.pieceAt(sq)
	slot := -1
	if victim != nil {
		slot = g.evict(victim)
	}
	g.shift(p, sq)

	defer func() {
		g.shift(p, from)
		st.moved = moved
		if victim != nil {
			g.restore(victim, sq, slot)
		}
	}()

	return probe()
}

// safeAfter reports whether p's own king would be out of check after p
// moved to sq. Uses the full check oracle, not the attack shapes alone.
func (g *Game) safeAfter(p Piece, sq board.Square) bool {
	return g.trial(p, sq, func() bool {
		return !g.Check(p.Color())
	})
}

// positionTest is the legality oracle for a single destination. An ally on
// sq excludes it without probing; an empty square or an enemy is probed.
func positionTest(g *Game, p Piece, sq board.Square) bool {
	if occupant := g.pieceAt(sq); occupant != nil && occupant.Color() == p.Color() {
		return false
	}
	return g.safeAfter(p, sq)
}

// stepTest runs positionTest on each on-board offset from p.
func stepTest(g *Game, p Piece, offsets [][2]int) []board.Square {
	var moves []board.Square
	for _, d := range offsets {
		sq, ok := p.Square().Offset(d[0], d[1])
		if ok && positionTest(g, p, sq) {
			moves = append(moves, sq)
		}
	}
	return moves
}

// lineTest walks the ray (dx, dy) from p. Every square is passed through
// positionTest; the first occupied square is tested (so it can be captured)
// and ends the ray.
func lineTest(g *Game, p Piece, dx, dy int) []board.Square {
	var moves []board.Square
	sq, ok := p.Square().Offset(dx, dy)
	for ok {
		if positionTest(g, p, sq) {
			moves = append(moves, sq)
		}
		if g.board.Occupied(sq) {
			break
		}
		sq, ok = sq.Offset(dx, dy)
	}
	return moves
}

// linesTest is lineTest over several directions.
func linesTest(g *Game, p Piece, dirs [][2]int) []board.Square {
	var moves []board.Square
	for _, d := range dirs {
		moves = append(moves, lineTest(g, p, d[0], d[1])...)
	}
	return moves
}

// clearBetween reports whether every square strictly between from and to is
// empty. from and to must share a row, a column or a diagonal.
func clearBetween(g *Game, from, to board.Square) bool {
	dx, dy := to.X()-from.X(), to.Y()-from.Y()
	n := max(abs(dx), abs(dy))
	sx, sy := sign(dx), sign(dy)
	for i := 1; i < n; i++ {
		sq := board.SquareAt(from.X()+sx*i, from.Y()+sy*i)
		if g.board.Occupied(sq) {
			return false
		}
	}
	return true
}

// straightAttack is the rook attack shape: same row or column, clear path.
func straightAttack(g *Game, from, to board.Square) bool {
	dx, dy := to.X()-from.X(), to.Y()-from.Y()
	if (dx == 0) == (dy == 0) {
		return false
	}
	return clearBetween(g, from, to)
}

// diagonalAttack is the bishop attack shape: equal deltas, clear path.
func diagonalAttack(g *Game, from, to board.Square) bool {
	dx, dy := to.X()-from.X(), to.Y()-from.Y()
	if dx == 0 || abs(dx) != abs(dy) {
		return false
	}
	return clearBetween(g, from, to)
}

// sortSquares orders moves by board index so results are reproducible.
func sortSquares(moves []board.Square) []board.Square {
	slices.Sort(moves)
	return moves
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
