package game

import "github.com/hailam/chessrules/internal/board"

// SquareAttacked reports whether any on-board piece of colour by attacks sq.
// It consults only the attack shapes (CheckEnemy) and never probes, so it is
// safe to call from inside a probe.
func (g *Game) SquareAttacked(sq board.Square, by board.Color) bool {
	if !validColor(by) {
		return false
	}
	for _, p := range g.sets[by] {
		if p.CheckEnemy(g, sq) {
			return true
		}
	}
	return false
}

// Check reports whether side's king is attacked by the opposing set.
func (g *Game) Check(side board.Color) bool {
	king := g.King(side)
	if king == nil || !king.OnBoard() {
		return false
	}
	return g.SquareAttacked(king.Square(), side.Other())
}

// HaveLegalMove reports whether any piece of side has a legal move.
func (g *Game) HaveLegalMove(side board.Color) bool {
	if !validColor(side) {
		return false
	}
	for _, p := range g.sets[side].snapshot() {
		if len(p.PossibleMoves(g)) > 0 {
			return true
		}
	}
	return false
}

// Checkmate reports whether side is in check with no legal move.
func (g *Game) Checkmate(side board.Color) bool {
	return !g.HaveLegalMove(side) && g.Check(side)
}

// Stalemate reports whether side is not in check but has no legal move.
func (g *Game) Stalemate(side board.Color) bool {
	return !g.HaveLegalMove(side) && !g.Check(side)
}

// HasEnded reports whether either side is mated, the side to move is
// stalemated, or the game was declared drawn.
func (g *Game) HasEnded() bool {
	return g.Checkmate(board.White) || g.Checkmate(board.Black) || g.Stalemate(g.turn) || g.drawn
}

// Status classifies the state of a game.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	Draw
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

// Outcome is the result of a game. Winner is NoColor unless Status is Checkmate.
type Outcome struct {
	Status Status
	Winner board.Color
}

// String returns e.g. "checkmate, white wins".
func (o Outcome) String() string {
	if o.Status == Checkmate {
		return o.Status.String() + ", " + o.Winner.String() + " wins"
	}
	return o.Status.String()
}

// Outcome evaluates the game in the same order as HasEnded.
func (g *Game) Outcome() Outcome {
	switch {
	case g.Checkmate(board.White):
		return Outcome{Status: Checkmate, Winner: board.Black}
	case g.Checkmate(board.Black):
		return Outcome{Status: Checkmate, Winner: board.White}
	case g.Stalemate(g.turn):
		return Outcome{Status: Stalemate, Winner: board.NoColor}
	case g.drawn:
		return Outcome{Status: Draw, Winner: board.NoColor}
	}
	return Outcome{Status: Ongoing, Winner: board.NoColor}
}
