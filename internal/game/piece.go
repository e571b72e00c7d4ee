package game

import (
	"fmt"

	"github.com/hailam/chessrules/internal/board"
)

// Piece is one of the six chess piece variants. The set of implementations is
// closed: *Pawn, *Knight, *Bishop, *Rook, *Queen and *King.
//
// Pieces are mutable entities. Games track them by ID, never by comparing
// fields, so a piece keeps its identity while it moves.
type Piece interface {
	ID() board.PieceID
	Kind() board.PieceType
	Color() board.Color
	Square() board.Square
	OnBoard() bool
	HasMoved() bool

	// PossibleMoves returns the squares this piece may legally move to,
	// sorted by index. Moves that would leave the mover's king in check are
	// excluded. The game is left exactly as it was found.
	PossibleMoves(g *Game) []board.Square

	// CheckEnemy reports whether this piece attacks sq in one move, ignoring
	// the safety of its own king. It never mutates the game.
	CheckEnemy(g *Game, sq board.Square) bool

	state() *pieceState
}

// pieceState holds the fields shared by every variant.
type pieceState struct {
	id      board.PieceID
	kind    board.PieceType
	color   board.Color
	square  board.Square
	onBoard bool
	moved   bool
}

func (s *pieceState) ID() board.PieceID { return s.id }
func (s *pieceState) Kind() board.PieceType { return s.kind }
func (s *pieceState) Color() board.Color { return s.color }
func (s *pieceState) Square() board.Square { return s.square }
func (s *pieceState) OnBoard() bool { return s.onBoard }
func (s *pieceState) HasMoved() bool { return s.moved }
func (s *pieceState) state() *pieceState { return s }

// String returns e.g. "white knight on g1".
func (s *pieceState) String() string {
	if !s.onBoard {
		return fmt.Sprintf("%s %s (off board)", s.color, s.kind)
	}
	return fmt.Sprintf("%s %s on %s", s.color, s.kind, s.square)
}

// New creates an off-board piece with no coordinates.
func New(kind board.PieceType, c board.Color) Piece {
	return NewWithState(kind, c, board.NoSquare, false, false)
}

// NewAt creates an unmoved piece standing on sq. It joins a game through
// NewGameFrom or Game.PlaceNew.
func NewAt(kind board.PieceType, c board.Color, sq board.Square) Piece {
	return NewWithState(kind, c, sq, true, false)
}

// NewWithState creates a piece with every field given explicitly.
// It returns nil for an unknown kind.
func NewWithState(kind board.PieceType, c board.Color, sq board.Square, onBoard, moved bool) Piece {
	s := pieceState{
		kind:    kind,
		color:   c,
		square:  sq,
		onBoard: onBoard,
		moved:   moved,
	}
	switch kind {
	case board.Pawn:
		p := &Pawn{pieceState: s, dir: 1}
		if c == board.White {
			p.dir = -1
		}
		return p
	case board.Knight:
		return &Knight{pieceState: s}
	case board.Bishop:
		return &Bishop{pieceState: s}
	case board.Rook:
		return &Rook{pieceState: s}
	case board.Queen:
		return &Queen{pieceState: s}
	case board.King:
		return &King{pieceState: s}
	}
	return nil
}

// pieceSet is the ordered collection of one colour's on-board pieces.
// Membership is by ID.
type pieceSet []Piece

func (s pieceSet) indexOf(id board.PieceID) int {
	for i, p := range s {
		if p.ID() == id {
			return i
		}
	}
	return -1
}

// remove deletes p and returns the slot it occupied, or -1.
func (s *pieceSet) remove(p Piece) int {
	i := s.indexOf(p.ID())
	if i < 0 {
		return -1
	}
	*s = append((*s)[:i], (*s)[i+1:]...)
	return i
}

// insert puts p back at slot i; a negative or out-of-range slot appends.
func (s *pieceSet) insert(i int, p Piece) {
	if i < 0 || i >= len(*s) {
		*s = append(*s, p)
		return
	}
	*s = append(*s, nil)
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = p
}

// snapshot returns a copy safe to iterate while probes mutate the original.
func (s pieceSet) snapshot() []Piece {
	out := make([]Piece, len(s))
	copy(out, s)
	return out
}
