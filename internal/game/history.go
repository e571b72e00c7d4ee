package game

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/hailam/chessrules/internal/board"
)

// Move records one piece's displacement. To is board.NoSquare when the piece
// left the board (a captured piece). PriorMoved is the piece's moved flag
// before the displacement, so an undo can restore it.
type Move struct {
	From       board.Square  `json:"from"`
	To         board.Square  `json:"to"`
	Piece      board.PieceID `json:"piece"`
	PriorMoved bool          `json:"prior_moved"`
}

// NewMove records p going from its current square to to.
func NewMove(p Piece, to board.Square) Move {
	return Move{
		From:       p.Square(),
		To:         to,
		Piece:      p.ID(),
		PriorMoved: p.HasMoved(),
	}
}

// IsCapture returns true if the move takes the piece off the board.
func (m Move) IsCapture() bool {
	return m.To == board.NoSquare
}

// String returns e.g. "e2e4", or "xe5" for a piece taken off e5.
func (m Move) String() string {
	if m.IsCapture() {
		return "x" + m.From.String()
	}
	return m.From.String() + m.To.String()
}

// Turn is one side's ply: 1 to 3 moves. A quiet move holds one entry, a
// capture holds the victim leaving followed by the mover, and castling holds
// the king then the rook.
type Turn []Move

const maxTurnMoves = 3

func (t Turn) validate() error {
	if len(t) == 0 || len(t) > maxTurnMoves {
		return errors.Wrapf(ErrInvalidTurn, "got %d moves", len(t))
	}
	return nil
}

func (t Turn) clone() Turn {
	out := make(Turn, len(t))
	copy(out, t)
	return out
}

// String joins the moves with spaces.
func (t Turn) String() string {
	parts := make([]string, len(t))
	for i, m := range t {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// UpdateHistory appends a turn record.
func (g *Game) UpdateHistory(t Turn) error {
	if err := t.validate(); err != nil {
		return err
	}
	g.history = append(g.history, t.clone())
	return nil
}

// MostRecentMoves returns the last turn record.
func (g *Game) MostRecentMoves() (Turn, error) {
	if len(g.history) == 0 {
		return nil, ErrEmptyHistory
	}
	return g.history[len(g.history)-1].clone(), nil
}

// RemoveMostRecentMoves pops and returns the last turn record.
func (g *Game) RemoveMostRecentMoves() (Turn, error) {
	t, err := g.MostRecentMoves()
	if err != nil {
		return nil, err
	}
	g.history = g.history[:len(g.history)-1]
	return t, nil
}

// History returns a copy of every turn record, oldest first.
func (g *Game) History() []Turn {
	out := make([]Turn, len(g.history))
	for i, t := range g.history {
		out[i] = t.clone()
	}
	return out
}

// Ply returns the number of recorded turns.
func (g *Game) Ply() int {
	return len(g.history)
}
