package game

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/hailam/chessrules/internal/board"
)

// Precondition failures reported by the mutation primitives. A call that
// returns one of these has not changed the game.
var (
	ErrInvalidCoordinate = board.ErrInvalidCoordinate
	ErrSquareOccupied    = errors.New("square occupied")
	ErrPieceNotOnBoard   = errors.New("piece not on board")
	ErrPieceOnBoard      = errors.New("piece already on board")
	ErrForeignPiece      = errors.New("piece belongs to another game")
	ErrKingRequired      = errors.New("each side needs exactly one king")
	ErrEmptyHistory      = errors.New("empty history")
	ErrInvalidTurn       = errors.New("turn record must hold 1 to 3 moves")
	ErrIllegalMove       = errors.New("illegal move")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrInvalidPosition   = errors.New("invalid position")
	ErrInvalidFEN        = errors.New("invalid FEN")
)

// joinErrors formats a multierror on one line.
func joinErrors(es []error) string {
	parts := make([]string, len(es))
	for i, err := range es {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}
