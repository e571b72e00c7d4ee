package game

import "github.com/hailam/chessrules/internal/board"

// Knight jumps to the eight L-shaped offsets; nothing blocks it.
type Knight struct {
	pieceState
}

// PossibleMoves implements Piece.
func (n *Knight) PossibleMoves(g *Game) []board.Square {
	if !n.onBoard {
		return nil
	}
	return sortSquares(stepTest(g, n, knightJumps))
}

// CheckEnemy implements Piece.
func (n *Knight) CheckEnemy(_ *Game, sq board.Square) bool {
	if !n.onBoard || !sq.IsValid() {
		return false
	}
	dx, dy := abs(sq.X()-n.square.X()), abs(sq.Y()-n.square.Y())
	return dx+dy == 3 && dx != 0 && dy != 0
}

// Bishop slides along diagonals.
type Bishop struct {
	pieceState
}

// PossibleMoves implements Piece.
func (b *Bishop) PossibleMoves(g *Game) []board.Square {
	if !b.onBoard {
		return nil
	}
	return sortSquares(linesTest(g, b, diagonals))
}

// CheckEnemy implements Piece.
func (b *Bishop) CheckEnemy(g *Game, sq board.Square) bool {
	if !b.onBoard || !sq.IsValid() {
		return false
	}
	return diagonalAttack(g, b.square, sq)
}

// Rook slides along rows and columns.
type Rook struct {
	pieceState
}

// PossibleMoves implements Piece.
func (r *Rook) PossibleMoves(g *Game) []board.Square {
	if !r.onBoard {
		return nil
	}
	return sortSquares(linesTest(g, r, orthogonals))
}

// CheckEnemy implements Piece.
func (r *Rook) CheckEnemy(g *Game, sq board.Square) bool {
	if !r.onBoard || !sq.IsValid() {
		return false
	}
	return straightAttack(g, r.square, sq)
}

// Queen combines the bishop and rook.
type Queen struct {
	pieceState
}

// PossibleMoves implements Piece.
func (q *Queen) PossibleMoves(g *Game) []board.Square {
	if !q.onBoard {
		return nil
	}
	return sortSquares(linesTest(g, q, allLines))
}

// CheckEnemy implements Piece.
func (q *Queen) CheckEnemy(g *Game, sq board.Square) bool {
	if !q.onBoard || !sq.IsValid() {
		return false
	}
	return diagonalAttack(g, q.square, sq) || straightAttack(g, q.square, sq)
}
