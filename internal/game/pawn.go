package game

import "github.com/hailam/chessrules/internal/board"

// Pawn moves one row forward, two from an unmoved pawn, and captures one
// row forward diagonally. White advances toward row 1, Black toward row 8.
// There is no en passant and no promotion.
type Pawn struct {
	pieceState
	dir int
}

// Direction returns the row delta of a forward step (-1 or +1).
func (p *Pawn) Direction() int {
	return p.dir
}

// PossibleMoves implements Piece.
func (p *Pawn) PossibleMoves(g *Game) []board.Square {
	if !p.onBoard {
		return nil
	}
	var moves []board.Square

	// Pushes only land on empty squares; the double push also needs the
	// skipped square empty.
	if one, ok := p.square.Offset(0, p.dir); ok && !g.board.Occupied(one) {
		if g.safeAfter(p, one) {
			moves = append(moves, one)
		}
		if two, ok := one.Offset(0, p.dir); ok && !p.moved && !g.board.Occupied(two) {
			if g.safeAfter(p, two) {
				moves = append(moves, two)
			}
		}
	}

	// Diagonals only with an enemy to take.
	for _, dx := range []int{-1, 1} {
		sq, ok := p.square.Offset(dx, p.dir)
		if !ok {
			continue
		}
		if victim := g.pieceAt(sq); victim != nil && victim.Color() != p.color && g.safeAfter(p, sq) {
			moves = append(moves, sq)
		}
	}

	return sortSquares(moves)
}

// CheckEnemy implements Piece: only the two forward diagonals are attacked.
func (p *Pawn) CheckEnemy(_ *Game, sq board.Square) bool {
	if !p.onBoard || !sq.IsValid() {
		return false
	}
	dx, dy := sq.X()-p.square.X(), sq.Y()-p.square.Y()
	return dy == p.dir && abs(dx) == 1
}
