// Package game implements the chess rules engine: the piece variants, the
// speculative legality probe and the game that ties board, piece sets,
// history and termination queries together.
//
// A Game is not safe for concurrent use. Legality queries temporarily mutate
// the game and restore it before returning.
package game

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/hailam/chessrules/internal/board"
)

// Game owns the board, both colours' on-board piece sets, the king
// references, the side to move, the draw flag and the turn history.
type Game struct {
	board   board.Board
	pieces  map[board.PieceID]Piece // every piece the game has seen, on or off board
	sets    [2]pieceSet
	kings   [2]board.PieceID
	turn    board.Color
	drawn   bool
	history []Turn
	nextID  board.PieceID
}

// backRow is the standard arrangement of the first row, by column.
var backRow = [8]board.PieceType{
	board.Rook, board.Knight, board.Bishop, board.Queen,
	board.King, board.Bishop, board.Knight, board.Rook,
}

// homeRows returns the back row and pawn row of c in the standard setup.
func homeRows(c board.Color) (first, second int) {
	if c == board.White {
		return 8, 7
	}
	return 1, 2
}

// NewGame creates a game in the standard starting arrangement, White to move.
func NewGame() *Game {
	var pieces []Piece
	for _, c := range []board.Color{board.White, board.Black} {
		first, second := homeRows(c)
		for x := 1; x <= 8; x++ {
			pieces = append(pieces, NewAt(backRow[x-1], c, board.SquareAt(x, first)))
		}
		for x := 1; x <= 8; x++ {
			pieces = append(pieces, NewAt(board.Pawn, c, board.SquareAt(x, second)))
		}
	}

	g, err := NewGameFrom(Setup{Pieces: pieces, Turn: board.White})
	if err != nil {
		panic(err) // the standard arrangement is always valid
	}
	return g
}

// Setup describes an arbitrary game for NewGameFrom.
type Setup struct {
	// Pieces are the on-board pieces of both colours. Each must be flagged
	// on board and carry a valid square.
	Pieces []Piece
	// Captured are off-board pieces that History may refer to.
	Captured []Piece
	Turn     board.Color
	Drawn    bool
	History  []Turn
}

// NewGameFrom creates a game from an explicit setup. Every violated
// invariant is reported, each wrapping ErrInvalidPosition.
func NewGameFrom(s Setup) (*Game, error) {
	g := &Game{
		pieces: make(map[board.PieceID]Piece),
		turn:   s.Turn,
		drawn:  s.Drawn,
	}

	var errs *multierror.Error
	fail := func(format string, args ...any) {
		errs = multierror.Append(errs, errors.Wrapf(ErrInvalidPosition, format, args...))
	}

	if s.Turn != board.White && s.Turn != board.Black {
		fail("turn %d is not a side", s.Turn)
	}

	for _, p := range s.Pieces {
		if p == nil {
			fail("nil piece")
			continue
		}
		st := p.state()
		switch {
		case !st.onBoard:
			fail("%s is flagged off board", p)
			continue
		case !st.square.IsValid():
			fail("%s has no square", p)
			continue
		case st.color != board.White && st.color != board.Black:
			fail("%s has no colour", p)
			continue
		}
		if other := g.pieceAt(st.square); other != nil {
			fail("%s and %s share a square", other, p)
			continue
		}
		if err := g.register(p); err != nil {
			fail("%s: %v", p, err)
			continue
		}
		if st.kind == board.King {
			if g.kings[st.color] != board.NoPiece {
				fail("%s has more than one king", st.color)
				continue
			}
			g.kings[st.color] = st.id
		}
		g.board.Place(st.id, st.square)
		g.sets[st.color] = append(g.sets[st.color], p)
	}

	for _, c := range []board.Color{board.White, board.Black} {
		if g.kings[c] == board.NoPiece {
			fail("%s has no king", c)
		}
	}

	for _, p := range s.Captured {
		if p == nil {
			fail("nil captured piece")
			continue
		}
		st := p.state()
		switch {
		case st.onBoard:
			fail("captured %s is flagged on board", p)
			continue
		case !validColor(st.color):
			fail("captured %s has no colour", p)
			continue
		case st.kind == board.King:
			fail("captured %s cannot leave the board", p)
			continue
		}
		st.square = board.NoSquare
		if err := g.register(p); err != nil {
			fail("%s: %v", p, err)
		}
	}

	for i, t := range s.History {
		if err := t.validate(); err != nil {
			fail("history entry %d: %v", i, err)
			continue
		}
		g.history = append(g.history, t.clone())
	}

	if errs.ErrorOrNil() != nil {
		errs.ErrorFormat = joinErrors
		return nil, errs
	}
	return g, nil
}

// register records p in the piece registry, assigning it an ID if it has
// none. A piece that already carries an ID keeps it.
func (g *Game) register(p Piece) error {
	st := p.state()
	if st.id == board.NoPiece {
		g.nextID++
		st.id = g.nextID
	}
	if known, ok := g.pieces[st.id]; ok {
		if known != p {
			return errors.Wrapf(ErrForeignPiece, "id %d already used by %s", st.id, known)
		}
		return nil
	}
	g.pieces[st.id] = p
	if st.id > g.nextID {
		g.nextID = st.id
	}
	return nil
}

// pieceAt returns the piece on sq, or nil.
func (g *Game) pieceAt(sq board.Square) Piece {
	if !sq.IsValid() {
		return nil
	}
	id := g.board.At(sq)
	if id == board.NoPiece {
		return nil
	}
	return g.pieces[id]
}

// PieceAt returns the piece standing on sq, or nil.
func (g *Game) PieceAt(sq board.Square) Piece {
	return g.pieceAt(sq)
}

// Piece returns the piece with the given ID, on or off the board.
func (g *Game) Piece(id board.PieceID) Piece {
	return g.pieces[id]
}

// Pieces returns the on-board pieces of c.
func (g *Game) Pieces(c board.Color) []Piece {
	if !validColor(c) {
		return nil
	}
	return g.sets[c].snapshot()
}

// King returns the king of c.
func (g *Game) King(c board.Color) Piece {
	if !validColor(c) {
		return nil
	}
	return g.pieces[g.kings[c]]
}

// Board returns a copy of the occupancy grid.
func (g *Game) Board() board.Board {
	return g.board
}

// Turn returns the side to move.
func (g *Game) Turn() board.Color {
	return g.turn
}

// ReverseTurn hands the move to the other side. The engine never flips the
// turn on its own.
func (g *Game) ReverseTurn() {
	g.turn = g.turn.Other()
}

// Drawn returns the externally set draw flag.
func (g *Game) Drawn() bool {
	return g.drawn
}

// SetDrawn sets the draw flag.
func (g *Game) SetDrawn(d bool) {
	g.drawn = d
}

// owns reports whether p is currently in this game's set for its colour.
func (g *Game) owns(p Piece) bool {
	st := p.state()
	if !validColor(st.color) || g.pieces[st.id] != p {
		return false
	}
	return g.sets[st.color].indexOf(st.id) >= 0
}

// Move relocates an on-board piece to an empty square and marks it moved.
// Captures go through Remove first.
func (g *Game) Move(p Piece, sq board.Square) error {
	if p == nil || !g.owns(p) {
		return errors.Wrapf(ErrPieceNotOnBoard, "move %v", p)
	}
	if !sq.IsValid() {
		return errors.Wrapf(ErrInvalidCoordinate, "move %s", p)
	}
	if other := g.pieceAt(sq); other != nil {
		return errors.Wrapf(ErrSquareOccupied, "move %s to %s held by %s", p, sq, other)
	}
	g.shift(p, sq)
	return nil
}

// Remove takes an on-board piece off the board and out of its set.
// Kings cannot be removed.
func (g *Game) Remove(p Piece) error {
	if p == nil || !g.owns(p) {
		return errors.Wrapf(ErrPieceNotOnBoard, "remove %v", p)
	}
	if p.Kind() == board.King {
		return errors.Wrapf(ErrKingRequired, "remove %s", p)
	}
	g.evict(p)
	return nil
}

// PlaceFromOffBoard puts an off-board piece onto the empty square sq and
// back into its colour's set. New pieces are registered with the game.
func (g *Game) PlaceFromOffBoard(p Piece, sq board.Square) error {
	if p == nil {
		return errors.Wrap(ErrPieceNotOnBoard, "place nil piece")
	}
	st := p.state()
	if !validColor(st.color) {
		return errors.Wrapf(ErrInvalidPosition, "place %s", p)
	}
	if g.owns(p) {
		return errors.Wrapf(ErrPieceOnBoard, "place %s", p)
	}
	if !sq.IsValid() {
		return errors.Wrapf(ErrInvalidCoordinate, "place %s %s", st.color, st.kind)
	}
	if other := g.pieceAt(sq); other != nil {
		return errors.Wrapf(ErrSquareOccupied, "place %s %s on %s held by %s", st.color, st.kind, sq, other)
	}
	if st.kind == board.King && g.kings[st.color] != st.id {
		return errors.Wrapf(ErrKingRequired, "%s already has a king", st.color)
	}
	if err := g.register(p); err != nil {
		return err
	}
	g.restore(p, sq, -1)
	return nil
}

// PlaceNew places a freshly created piece at the square it was built with.
func (g *Game) PlaceNew(p Piece) error {
	if p == nil {
		return errors.Wrap(ErrPieceNotOnBoard, "place nil piece")
	}
	return g.PlaceFromOffBoard(p, p.Square())
}

// shift is the unchecked move primitive shared by real moves and probes.
func (g *Game) shift(p Piece, sq board.Square) {
	st := p.state()
	g.board.Move(st.square, sq)
	st.square = sq
	st.moved = true
}

// evict is the unchecked removal primitive. It returns the set slot p held.
func (g *Game) evict(p Piece) int {
	st := p.state()
	g.board.Remove(st.square)
	slot := g.sets[st.color].remove(p)
	st.square = board.NoSquare
	st.onBoard = false
	return slot
}

// restore is the unchecked placement primitive; slot -1 appends to the set.
func (g *Game) restore(p Piece, sq board.Square, slot int) {
	st := p.state()
	g.board.Place(st.id, sq)
	st.square = sq
	st.onBoard = true
	g.sets[st.color].insert(slot, p)
}

func validColor(c board.Color) bool {
	return c == board.White || c == board.Black
}
