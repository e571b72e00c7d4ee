package game

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/hailam/chessrules/internal/board"
)

// LegalMoves returns every legal move of side, grouped by piece in set order.
// PriorMoved reflects each piece's current flag.
func (g *Game) LegalMoves(side board.Color) []Move {
	if !validColor(side) {
		return nil
	}
	var moves []Move
	for _, p := range g.sets[side].snapshot() {
		for _, to := range p.PossibleMoves(g) {
			moves = append(moves, NewMove(p, to))
		}
	}
	return moves
}

// Apply plays a full turn for the side to move: the piece on from goes to
// to, taking any enemy there, and a two-column king move brings its rook
// across. The turn record is appended to history and the turn passes.
func (g *Game) Apply(from, to board.Square) (Turn, error) {
	p := g.pieceAt(from)
	if p == nil {
		return nil, errors.Wrapf(ErrPieceNotOnBoard, "no piece on %s", from)
	}
	if p.Color() != g.turn {
		return nil, errors.Wrapf(ErrNotYourTurn, "%s to move, not %s", g.turn, p.Color())
	}
	if !slices.Contains(p.PossibleMoves(g), to) {
		return nil, errors.Wrapf(ErrIllegalMove, "%s to %s", p, to)
	}

	victim := g.pieceAt(to)
	if victim != nil && victim.Kind() == board.King {
		return nil, errors.Wrapf(ErrIllegalMove, "%s cannot take %s", p, victim)
	}

	var turn Turn
	if p.Kind() == board.King && abs(to.X()-from.X()) == 2 {
		rook, rookTo, ok := g.castlingRook(from, to)
		if !ok {
			return nil, errors.Wrapf(ErrIllegalMove, "%s has no rook to castle with", p)
		}
		turn = Turn{NewMove(p, to), NewMove(rook, rookTo)}
		g.shift(p, to)
		g.shift(rook, rookTo)
	} else {
		if victim != nil {
			turn = append(turn, NewMove(victim, board.NoSquare))
			g.evict(victim)
		}
		turn = append(turn, NewMove(p, to))
		g.shift(p, to)
	}

	g.history = append(g.history, turn)
	g.ReverseTurn()
	return turn.clone(), nil
}

// ApplyUCI plays a move written as two squares, e.g. "e2e4".
func (g *Game) ApplyUCI(s string) (Turn, error) {
	if len(s) != 4 {
		return nil, errors.Wrapf(ErrIllegalMove, "move %q", s)
	}
	from, err := board.ParseSquare(s[:2])
	if err != nil {
		return nil, err
	}
	to, err := board.ParseSquare(s[2:])
	if err != nil {
		return nil, err
	}
	return g.Apply(from, to)
}

// Undo takes back the last recorded turn, restoring squares, captured
// pieces and moved flags, and hands the move back.
func (g *Game) Undo() (Turn, error) {
	turn, err := g.MostRecentMoves()
	if err != nil {
		return nil, err
	}

	// Replay the reversal on a scratch board first so a bad record is
	// rejected before anything changes.
	scratch := g.board
	for i := len(turn) - 1; i >= 0; i-- {
		m := turn[i]
		p := g.pieces[m.Piece]
		switch {
		case p == nil:
			return nil, errors.Wrapf(ErrInvalidTurn, "unknown piece %d", m.Piece)
		case !m.From.IsValid() || m.To > board.NoSquare:
			return nil, errors.Wrapf(ErrInvalidCoordinate, "undo %s", m)
		case m.IsCapture() && g.owns(p):
			return nil, errors.Wrapf(ErrPieceOnBoard, "undo %s", m)
		case !m.IsCapture() && (!g.owns(p) || scratch.At(m.To) != p.ID()):
			return nil, errors.Wrapf(ErrPieceNotOnBoard, "undo %s", m)
		}
		if !m.IsCapture() {
			scratch.Remove(m.To)
		}
		if scratch.Occupied(m.From) {
			return nil, errors.Wrapf(ErrSquareOccupied, "undo %s", m)
		}
		scratch.Place(p.ID(), m.From)
	}

	for i := len(turn) - 1; i >= 0; i-- {
		m := turn[i]
		p := g.pieces[m.Piece]
		if m.IsCapture() {
			g.restore(p, m.From, -1)
		} else {
			g.shift(p, m.From)
		}
		p.state().moved = m.PriorMoved
	}

	g.history = g.history[:len(g.history)-1]
	g.ReverseTurn()
	return turn, nil
}
