package game

import "github.com/hailam/chessrules/internal/board"

// King steps to any adjacent square and may castle with an unmoved rook.
type King struct {
	pieceState
}

// PossibleMoves implements Piece.
func (k *King) PossibleMoves(g *Game) []board.Square {
	if !k.onBoard {
		return nil
	}
	moves := stepTest(g, k, kingSteps)
	moves = append(moves, k.castling(g)...)
	return sortSquares(moves)
}

// CheckEnemy implements Piece: any Chebyshev-adjacent square.
func (k *King) CheckEnemy(_ *Game, sq board.Square) bool {
	if !k.onBoard || !sq.IsValid() {
		return false
	}
	dx, dy := abs(sq.X()-k.square.X()), abs(sq.Y()-k.square.Y())
	return dx+dy <= 2 && (dx == 1 || dy == 1)
}

// castling returns the king's destination for every rook it may castle with.
//
// The king must be unmoved and not in check. A partner rook is unmoved, on
// the king's row, 3 or 4 columns away. The two squares the king crosses must
// be empty and safe to stand on; for a rook 4 columns away the square next to
// the rook must also be empty. The destination is two columns toward the rook.
func (k *King) castling(g *Game) []board.Square {
	if k.moved || g.Check(k.color) {
		return nil
	}

	var moves []board.Square
	for _, rook := range g.sets[k.color].snapshot() {
		if rook.Kind() != board.Rook || rook.HasMoved() || rook.Square().Y() != k.square.Y() {
			continue
		}
		diff := rook.Square().X() - k.square.X()
		dist := abs(diff)
		if dist != 3 && dist != 4 {
			continue
		}
		dir := sign(diff)

		if dist == 4 {
			if far, _ := k.square.Offset(3*dir, 0); g.board.Occupied(far) {
				continue
			}
		}
		if k.transitSafe(g, dir) {
			dest, _ := k.square.Offset(2*dir, 0)
			moves = append(moves, dest)
		}
	}
	return moves
}

// transitSafe tests the two squares the king crosses toward dir.
func (k *King) transitSafe(g *Game, dir int) bool {
	for step := 1; step <= 2; step++ {
		sq, ok := k.square.Offset(step*dir, 0)
		if !ok || g.board.Occupied(sq) || !g.safeAfter(k, sq) {
			return false
		}
	}
	return true
}

// castlingRook finds the rook the king on from castles with when it lands
// on to, and the square that rook moves to.
func (g *Game) castlingRook(from, to board.Square) (Piece, board.Square, bool) {
	dir := sign(to.X() - from.X())
	rookTo, _ := from.Offset(dir, 0)
	for sq, ok := to.Offset(dir, 0); ok; sq, ok = sq.Offset(dir, 0) {
		p := g.pieceAt(sq)
		if p == nil {
			continue
		}
		if p.Kind() == board.Rook && p.Color() == g.pieceAt(from).Color() && !p.HasMoved() {
			return p, rookTo, true
		}
		break
	}
	return nil, board.NoSquare, false
}
