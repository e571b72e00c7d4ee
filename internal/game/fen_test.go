package game

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessrules/internal/board"
)

func TestFENRoundTrip(t *testing.T) {
	positions := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R b Kq - 0 1",
		"4k3/8/8/8/8/8/8/4K3 b - - 0 1",
	}

	for _, fen := range positions {
		g, err := ParseFEN(fen)
		require.NoError(t, err, fen)
		assert.Equal(t, fen, g.FEN())
		requireConsistent(t, g)
	}
}

func TestParseFENDefaults(t *testing.T) {
	g, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR")
	require.NoError(t, err)
	assert.Equal(t, board.White, g.Turn())
	assert.Equal(t, StartFEN, g.FEN())

	// Off their start squares, pieces count as moved.
	g, err = ParseFEN("4k3/8/8/8/4P3/8/8/R3K3 w Q")
	require.NoError(t, err)
	assert.True(t, g.PieceAt(board.E4).HasMoved())
	assert.False(t, g.PieceAt(board.A1).HasMoved())
	assert.False(t, g.King(board.White).HasMoved())

	// A side with no castling rights has its king marked moved.
	assert.True(t, g.King(board.Black).HasMoved())
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"Empty", ""},
		{"TooFewRanks", "8/8/8/8/8/8/8 w - - 0 1"},
		{"ShortRank", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"LongRank", "rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"BadPiece", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1"},
		{"BadSide", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1"},
		{"BadCastling", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KZ - 0 1"},
		{"NoKing", "8/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"NonASCIIPieces", "4ū3/8/8/8/8/8/ŐŐŐŐŐŐŐŐ/4K3 w - - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := ParseFEN(tc.fen)
			assert.Nil(t, g)
			assert.True(t, errors.Is(err, ErrInvalidFEN), "%v", err)
		})
	}

	_, err := ParseFEN("8/8/8/8/8/8/8/4K3 w - - 0 1")
	assert.True(t, errors.Is(err, ErrInvalidPosition), "%v", err)
}

func TestFullMoveNumber(t *testing.T) {
	g := NewGame()
	playMoves(t, g, "e2e4", "e7e5", "g1f3")
	assert.True(t, strings.HasSuffix(g.FEN(), " b KQkq - 0 2"), g.FEN())
}

func TestGameString(t *testing.T) {
	s := NewGame().String()
	assert.Contains(t, s, "8  r n b q k b n r")
	assert.Contains(t, s, "1  R N B Q K B N R")
	assert.Contains(t, s, "Side to move: white")
	assert.Contains(t, s, "Castling: KQkq")
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := NewGame()
	playMoves(t, g, "e2e4", "d7d5", "e4d5", "d8d5", "b1c3")
	g.SetDrawn(true)

	data, err := json.Marshal(g.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	restored, err := Restore(snap)
	require.NoError(t, err)

	assert.Equal(t, g.Snapshot(), restored.Snapshot())
	assert.Equal(t, g.FEN(), restored.FEN())
	assert.True(t, restored.Drawn())
	requireConsistent(t, restored)

	// Both captured pawns come back through the restored history.
	for i := 0; i < 5; i++ {
		_, err := restored.Undo()
		require.NoError(t, err)
	}
	assert.Equal(t, StartFEN, restored.FEN())
	assert.Len(t, restored.Pieces(board.White), 16)
	assert.Len(t, restored.Pieces(board.Black), 16)
}

func TestRestoreRejectsBadSnapshot(t *testing.T) {
	snap := NewGame().Snapshot()
	snap.Pieces[1].ID = snap.Pieces[0].ID
	_, err := Restore(snap)
	assert.True(t, errors.Is(err, ErrInvalidPosition), "%v", err)

	snap = NewGame().Snapshot()
	snap.Pieces[0].Kind = board.NoPieceType
	_, err = Restore(snap)
	assert.True(t, errors.Is(err, ErrInvalidPosition), "%v", err)
}
