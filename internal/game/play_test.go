package game

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessrules/internal/board"
)

func playMoves(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		_, err := g.ApplyUCI(mv)
		require.NoError(t, err, mv)
	}
}

func TestApplyQuietMove(t *testing.T) {
	g := NewGame()
	pawn := g.PieceAt(board.E2)

	turn, err := g.ApplyUCI("e2e4")
	require.NoError(t, err)
	require.Len(t, turn, 1)
	assert.Equal(t, Move{From: board.E2, To: board.E4, Piece: pawn.ID(), PriorMoved: false}, turn[0])
	assert.Equal(t, "e2e4", turn.String())

	assert.Same(t, pawn, g.PieceAt(board.E4))
	assert.True(t, pawn.HasMoved())
	assert.Equal(t, board.Black, g.Turn())
	assert.Equal(t, 1, g.Ply())
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1", g.FEN())
	requireConsistent(t, g)
}

func TestApplyCaptureAndUndo(t *testing.T) {
	g := NewGame()
	playMoves(t, g, "e2e4", "d7d5")
	before := g.Snapshot()
	victim := g.PieceAt(board.D5)
	mover := g.PieceAt(board.E4)

	turn, err := g.ApplyUCI("e4d5")
	require.NoError(t, err)
	require.Len(t, turn, 2)
	assert.True(t, turn[0].IsCapture())
	assert.Equal(t, victim.ID(), turn[0].Piece)
	assert.Equal(t, board.D5, turn[0].From)
	assert.Equal(t, mover.ID(), turn[1].Piece)
	assert.Equal(t, "xd5 e4d5", turn.String())

	assert.False(t, victim.OnBoard())
	assert.Len(t, g.Pieces(board.Black), 15)
	assert.Same(t, victim, g.Piece(victim.ID()))
	requireConsistent(t, g)

	undone, err := g.Undo()
	require.NoError(t, err)
	assert.Equal(t, turn, undone)
	assert.Same(t, victim, g.PieceAt(board.D5))
	assert.Same(t, mover, g.PieceAt(board.E4))
	assert.True(t, victim.HasMoved())
	assert.Equal(t, before, g.Snapshot())
	requireConsistent(t, g)
}

func TestApplyRejects(t *testing.T) {
	g := NewGame()
	before := g.Snapshot()

	_, err := g.ApplyUCI("e3e4")
	assert.True(t, errors.Is(err, ErrPieceNotOnBoard), "%v", err)

	_, err = g.ApplyUCI("e7e5")
	assert.True(t, errors.Is(err, ErrNotYourTurn), "%v", err)

	_, err = g.ApplyUCI("e2e5")
	assert.True(t, errors.Is(err, ErrIllegalMove), "%v", err)

	_, err = g.ApplyUCI("e1e2")
	assert.True(t, errors.Is(err, ErrIllegalMove), "%v", err)

	_, err = g.ApplyUCI("e2")
	assert.True(t, errors.Is(err, ErrIllegalMove), "%v", err)

	_, err = g.ApplyUCI("z2e4")
	assert.True(t, errors.Is(err, ErrInvalidCoordinate), "%v", err)

	_, err = g.Undo()
	assert.True(t, errors.Is(err, ErrEmptyHistory), "%v", err)

	assert.Equal(t, before, g.Snapshot())
}

func TestFoolsMate(t *testing.T) {
	g := NewGame()
	playMoves(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	assert.True(t, g.Check(board.White))
	assert.True(t, g.Checkmate(board.White))
	assert.False(t, g.Checkmate(board.Black))
	assert.False(t, g.Stalemate(board.White))
	assert.True(t, g.HasEnded())
	assert.Empty(t, g.LegalMoves(board.White))
	assert.Equal(t, Outcome{Status: Checkmate, Winner: board.Black}, g.Outcome())
	assert.Equal(t, "checkmate, black wins", g.Outcome().String())

	_, err := g.Undo()
	require.NoError(t, err)
	assert.False(t, g.HasEnded())
	assert.Equal(t, Ongoing, g.Outcome().Status)
}

func TestCastling(t *testing.T) {
	const fen = "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"

	tests := []struct {
		name    string
		move    string
		record  string
		rookSq  board.Square
		wantFEN string
	}{
		{"KingSide", "e1g1", "e1g1 h1f1", board.F1, "r3k2r/8/8/8/8/8/8/R4RK1 b kq - 0 1"},
		{"QueenSide", "e1c1", "e1c1 a1d1", board.D1, "r3k2r/8/8/8/8/8/8/2KR3R b kq - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := ParseFEN(fen)
			require.NoError(t, err)
			before := g.Snapshot()

			turn, err := g.ApplyUCI(tc.move)
			require.NoError(t, err)
			assert.Equal(t, tc.record, turn.String())
			assert.Equal(t, tc.wantFEN, g.FEN())

			rook := g.PieceAt(tc.rookSq)
			require.NotNil(t, rook)
			assert.Equal(t, board.Rook, rook.Kind())
			assert.True(t, rook.HasMoved())
			requireConsistent(t, g)

			_, err = g.Undo()
			require.NoError(t, err)
			assert.Equal(t, fen, g.FEN())
			assert.Equal(t, before, g.Snapshot())
		})
	}
}

func TestCastlingRightsLost(t *testing.T) {
	g, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	playMoves(t, g, "h1h2", "a8a7", "h2h1", "a7a8")
	assert.Equal(t, "r3k2r/8/8/8/8/8/8/R3K2R w Qk - 0 3", g.FEN())

	_, err = g.ApplyUCI("e1g1")
	assert.True(t, errors.Is(err, ErrIllegalMove), "%v", err)
	playMoves(t, g, "e1c1")
}

func TestApplyUndoRoundTrip(t *testing.T) {
	positions := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, fen := range positions {
		g, err := ParseFEN(fen)
		require.NoError(t, err, fen)
		before := g.Snapshot()

		for _, m := range g.LegalMoves(g.Turn()) {
			_, err := g.Apply(m.From, m.To)
			require.NoError(t, err, "%s %s", fen, m)
			requireConsistent(t, g)

			_, err = g.Undo()
			require.NoError(t, err, "%s %s", fen, m)
			require.Equal(t, before, g.Snapshot(), "%s %s", fen, m)
			require.Equal(t, fen, g.FEN())
		}
	}
}

func TestUndoRejectsBadRecord(t *testing.T) {
	g := NewGame()
	pawn := g.PieceAt(board.E2)
	require.NoError(t, g.UpdateHistory(Turn{{From: board.E2, To: board.E4, Piece: pawn.ID()}}))
	before := g.Snapshot()

	// The pawn is not on e4, so nothing may change.
	_, err := g.Undo()
	assert.True(t, errors.Is(err, ErrPieceNotOnBoard), "%v", err)
	assert.Equal(t, before, g.Snapshot())

	_, err = g.RemoveMostRecentMoves()
	require.NoError(t, err)
	require.NoError(t, g.UpdateHistory(Turn{{From: board.E2, To: board.E4, Piece: 999}}))
	_, err = g.Undo()
	assert.True(t, errors.Is(err, ErrInvalidTurn), "%v", err)
}

func TestLegalMovesStart(t *testing.T) {
	g := NewGame()
	moves := g.LegalMoves(board.White)
	assert.Len(t, moves, 20)
	for _, m := range moves {
		p := g.Piece(m.Piece)
		require.NotNil(t, p)
		assert.Equal(t, m.From, p.Square())
		assert.False(t, m.PriorMoved)
	}
	assert.Len(t, g.LegalMoves(board.Black), 20)
	assert.Nil(t, g.LegalMoves(board.NoColor))
}
