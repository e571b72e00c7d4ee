// Package board implements the square coordinates, colours and piece kinds of
// the rules engine, plus the 64-slot occupancy grid.
package board

import (
	"fmt"

	"github.com/pkg/errors"
)

// Square represents a square on the chess board as its linear index (0-63).
// The coordinates are 1-based: index = 8*(y-1) + (x-1). Row y=1 is the 8th
// rank in algebraic notation and row y=8 is the 1st, so A8=0, H8=7, A1=56, H1=63.
type Square uint8

// Square constants for all 64 squares, in index order.
const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	NoSquare Square = 64
)

// NewSquare returns the square at (x, y), both in [1, 8].
func NewSquare(x, y int) (Square, error) {
	if !InBounds(x, y) {
		return NoSquare, errors.Wrapf(ErrInvalidCoordinate, "(%d, %d)", x, y)
	}
	return SquareAt(x, y), nil
}

// SquareAt returns the square at (x, y) without bounds checking.
// Callers must test InBounds first.
func SquareAt(x, y int) Square {
	return Square(8*(y-1) + (x - 1))
}

// InBounds reports whether (x, y) lies on the board.
func InBounds(x, y int) bool {
	return x >= 1 && x <= 8 && y >= 1 && y <= 8
}

// X returns the column (1-8, where 1=a).
func (sq Square) X() int {
	return int(sq)&7 + 1
}

// Y returns the internal row (1-8). Row 1 is algebraic rank 8.
func (sq Square) Y() int {
	return int(sq)>>3 + 1
}

// Index returns the linear board index.
func (sq Square) Index() int {
	return int(sq)
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Offset returns the square dx columns and dy rows away, and whether it is on the board.
func (sq Square) Offset(dx, dy int) (Square, bool) {
	x, y := sq.X()+dx, sq.Y()+dy
	if !sq.IsValid() || !InBounds(x, y) {
		return NoSquare, false
	}
	return SquareAt(x, y), true
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+sq.X()-1, 9-sq.Y())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, errors.Wrapf(ErrInvalidCoordinate, "square %q", s)
	}

	x := int(s[0]-'a') + 1
	rank := int(s[1]-'1') + 1

	if !InBounds(x, rank) {
		return NoSquare, errors.Wrapf(ErrInvalidCoordinate, "square %q", s)
	}

	return SquareAt(x, 9-rank), nil
}

// MarshalText encodes the square in algebraic notation.
func (sq Square) MarshalText() ([]byte, error) {
	return []byte(sq.String()), nil
}

// UnmarshalText decodes algebraic notation; "-" decodes to NoSquare.
func (sq *Square) UnmarshalText(text []byte) error {
	if string(text) == "-" {
		*sq = NoSquare
		return nil
	}
	parsed, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*sq = parsed
	return nil
}
