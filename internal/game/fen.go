package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/hailam/chessrules/internal/board"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN builds a game from a FEN string. Only the placement field is
// required; side to move defaults to White. The en passant and clock fields
// are accepted and ignored.
//
// A piece counts as unmoved when it stands on its starting square. When the
// castling field is present, a missing right marks the corresponding rook as
// moved, and a side with no rights at all has its king marked moved.
func ParseFEN(fen string) (*Game, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return nil, errors.Wrap(ErrInvalidFEN, "empty string")
	}

	// Parse piece placement (field 0)
	pieces, err := parsePiecePlacement(parts[0])
	if err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	turn := board.White
	if len(parts) > 1 {
		switch parts[1] {
		case "w":
		case "b":
			turn = board.Black
		default:
			return nil, errors.Wrapf(ErrInvalidFEN, "side to move %q", parts[1])
		}
	}

	// Parse castling rights (field 2)
	if len(parts) > 2 {
		if err := applyCastlingRights(pieces, parts[2]); err != nil {
			return nil, err
		}
	}

	g, err := NewGameFrom(Setup{Pieces: pieces, Turn: turn})
	if err != nil {
		merr := multierror.Append(errors.Wrap(ErrInvalidFEN, "position rejected"), err)
		merr.ErrorFormat = joinErrors
		return nil, merr
	}
	return g, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
// FEN lists rank 8 first, which is internal row 1.
func parsePiecePlacement(placement string) ([]Piece, error) {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return nil, errors.Wrapf(ErrInvalidFEN, "need 8 ranks, got %d", len(rows))
	}

	var pieces []Piece
	for i, rowStr := range rows {
		y := i + 1
		x := 1

		for j := 0; j < len(rowStr); j++ {
			c := rowStr[j]
			if x > 8 {
				return nil, errors.Wrapf(ErrInvalidFEN, "too many squares in rank %d", 9-y)
			}

			if c >= '1' && c <= '8' {
				// Skip empty squares
				x += int(c - '0')
				continue
			}

			kind, color, ok := board.PieceFromChar(c)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidFEN, "invalid piece character %q", c)
			}
			sq := board.SquareAt(x, y)
			pieces = append(pieces, NewWithState(kind, color, sq, true, !onStartSquare(kind, color, sq)))
			x++
		}

		if x != 9 {
			return nil, errors.Wrapf(ErrInvalidFEN, "invalid number of squares in rank %d: got %d", 9-y, x-1)
		}
	}

	return pieces, nil
}

// onStartSquare reports whether sq is a starting square for the piece.
func onStartSquare(kind board.PieceType, c board.Color, sq board.Square) bool {
	first, second := homeRows(c)
	if kind == board.Pawn {
		return sq.Y() == second
	}
	return sq.Y() == first && backRow[sq.X()-1] == kind
}

// castlingCorners maps each castling character to its colour and rook column.
var castlingCorners = map[byte]struct {
	color board.Color
	rookX int
}{
	'K': {board.White, 8},
	'Q': {board.White, 1},
	'k': {board.Black, 8},
	'q': {board.Black, 1},
}

// applyCastlingRights marks kings and rooks moved where the castling field
// withholds the right.
func applyCastlingRights(pieces []Piece, castling string) error {
	granted := make(map[byte]bool)
	if castling != "-" {
		for i := 0; i < len(castling); i++ {
			if _, ok := castlingCorners[castling[i]]; !ok {
				return errors.Wrapf(ErrInvalidFEN, "invalid castling character %q", castling[i])
			}
			granted[castling[i]] = true
		}
	}

	at := make(map[board.Square]Piece, len(pieces))
	for _, p := range pieces {
		at[p.Square()] = p
	}

	for ch, corner := range castlingCorners {
		if granted[ch] {
			continue
		}
		first, _ := homeRows(corner.color)
		if rook := at[board.SquareAt(corner.rookX, first)]; rook != nil && rook.Kind() == board.Rook && rook.Color() == corner.color {
			rook.state().moved = true
		}
	}

	for _, c := range []board.Color{board.White, board.Black} {
		kingSide, queenSide := byte('K'), byte('Q')
		if c == board.Black {
			kingSide, queenSide = 'k', 'q'
		}
		if granted[kingSide] || granted[queenSide] {
			continue
		}
		first, _ := homeRows(c)
		if king := at[board.SquareAt(5, first)]; king != nil && king.Kind() == board.King && king.Color() == c {
			king.state().moved = true
		}
	}

	return nil
}

// castlingRights derives the FEN castling field from the moved flags.
func (g *Game) castlingRights() string {
	var sb strings.Builder
	for _, ch := range []byte{'K', 'Q', 'k', 'q'} {
		corner := castlingCorners[ch]
		first, _ := homeRows(corner.color)
		king := g.pieceAt(board.SquareAt(5, first))
		rook := g.pieceAt(board.SquareAt(corner.rookX, first))
		if king == nil || king.Kind() != board.King || king.Color() != corner.color || king.HasMoved() {
			continue
		}
		if rook == nil || rook.Kind() != board.Rook || rook.Color() != corner.color || rook.HasMoved() {
			continue
		}
		sb.WriteByte(ch)
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// FEN returns the FEN representation of the game. En passant is always "-"
// and the half-move clock always 0.
func (g *Game) FEN() string {
	var sb strings.Builder

	// Piece placement
	for y := 1; y <= 8; y++ {
		empty := 0
		for x := 1; x <= 8; x++ {
			p := g.pieceAt(board.SquareAt(x, y))
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(p.Kind().Symbol(p.Color()))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if y < 8 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if g.turn == board.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	// Castling rights
	sb.WriteByte(' ')
	sb.WriteString(g.castlingRights())

	// En passant, half-move clock and full-move number
	sb.WriteString(" - 0 ")
	sb.WriteString(strconv.Itoa(1 + len(g.history)/2))

	return sb.String()
}

// String returns a visual representation of the game.
func (g *Game) String() string {
	s := "\n"
	for y := 1; y <= 8; y++ {
		s += fmt.Sprintf("%d  ", 9-y)
		for x := 1; x <= 8; x++ {
			p := g.pieceAt(board.SquareAt(x, y))
			if p == nil {
				s += ". "
			} else {
				s += string(p.Kind().Symbol(p.Color())) + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", g.turn)
	s += fmt.Sprintf("Castling: %s\n", g.castlingRights())
	s += fmt.Sprintf("Drawn: %t\n", g.drawn)
	s += fmt.Sprintf("Ply: %d\n", len(g.history))
	return s
}
