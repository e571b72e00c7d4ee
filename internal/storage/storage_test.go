package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadGame(t *testing.T) {
	s := openTestStorage(t)

	g := game.NewGame()
	for _, mv := range []string{"e2e4", "d7d5", "e4d5"} {
		_, err := g.ApplyUCI(mv)
		require.NoError(t, err, mv)
	}
	require.NoError(t, s.SaveGame("scandi", g))

	loaded, err := s.LoadGame("scandi")
	require.NoError(t, err)
	assert.Equal(t, g.FEN(), loaded.FEN())
	assert.Equal(t, board.Black, loaded.Turn())
	assert.Len(t, loaded.History(), 3)

	// The captured pawn survives the round trip, so the capture can be undone.
	_, err = loaded.Undo()
	require.NoError(t, err)
	pawn := loaded.PieceAt(board.D5)
	require.NotNil(t, pawn)
	assert.Equal(t, board.Black, pawn.Color())
	assert.Equal(t, board.Pawn, pawn.Kind())
	assert.True(t, pawn.HasMoved())
}

func TestLoadMissingGame(t *testing.T) {
	s := openTestStorage(t)

	_, err := s.LoadGame("nope")
	assert.True(t, errors.Is(err, ErrGameNotFound))

	err = s.DeleteGame("nope")
	assert.True(t, errors.Is(err, ErrGameNotFound))

	_, err = s.LoadGame("  ")
	assert.True(t, errors.Is(err, ErrInvalidName))
}

func TestListAndDeleteGames(t *testing.T) {
	s := openTestStorage(t)

	require.NoError(t, s.SaveGame("first", game.NewGame()))
	g := game.NewGame()
	_, err := g.ApplyUCI("g1f3")
	require.NoError(t, err)
	require.NoError(t, s.SaveGame("second", g))

	games, err := s.ListGames()
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "second", games[0].Name)
	assert.Equal(t, 1, games[0].Ply)
	assert.Equal(t, "ongoing", games[0].Outcome)

	require.NoError(t, s.DeleteGame("first"))
	games, err = s.ListGames()
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "second", games[0].Name)
}

func TestResaveKeepsCreationTime(t *testing.T) {
	s := openTestStorage(t)
	g := game.NewGame()

	require.NoError(t, s.SaveGame("g", g))
	first, err := s.ListGames()
	require.NoError(t, err)

	_, err = g.ApplyUCI("e2e4")
	require.NoError(t, err)
	require.NoError(t, s.SaveGame("g", g))

	games, err := s.ListGames()
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 1, games[0].Ply)
	assert.False(t, games[0].UpdatedAt.Before(first[0].UpdatedAt))
}

func TestStats(t *testing.T) {
	s := openTestStorage(t)

	t.Run("Empty", func(t *testing.T) {
		stats, err := s.LoadStats()
		require.NoError(t, err)
		assert.Equal(t, 0, stats.GamesPlayed)
		assert.Equal(t, 0.0, stats.WinRate(board.White))
	})

	t.Run("RecordResult", func(t *testing.T) {
		results := []game.Outcome{
			{Status: game.Checkmate, Winner: board.White},
			{Status: game.Checkmate, Winner: board.White},
			{Status: game.Checkmate, Winner: board.Black},
			{Status: game.Stalemate, Winner: board.NoColor},
			{Status: game.Ongoing, Winner: board.NoColor},
		}
		for _, o := range results {
			require.NoError(t, s.RecordResult(o))
		}

		stats, err := s.LoadStats()
		require.NoError(t, err)
		assert.Equal(t, 4, stats.GamesPlayed)
		assert.Equal(t, 2, stats.WhiteWins)
		assert.Equal(t, 1, stats.BlackWins)
		assert.Equal(t, 1, stats.Stalemates)
		assert.Equal(t, 50.0, stats.WinRate(board.White))
	})

	t.Run("SaveStats", func(t *testing.T) {
		require.NoError(t, s.SaveStats(&GameStats{GamesPlayed: 1, Draws: 1}))
		require.NoError(t, s.RecordResult(game.Outcome{Status: game.Draw, Winner: board.NoColor}))

		stats, err := s.LoadStats()
		require.NoError(t, err)
		assert.Equal(t, 2, stats.GamesPlayed)
		assert.Equal(t, 2, stats.Draws)
		assert.Equal(t, 0, stats.WhiteWins)
	})
}

func TestRecordResultConcurrent(t *testing.T) {
	s := openTestStorage(t)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.RecordResult(game.Outcome{Status: game.Draw, Winner: board.NoColor})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stats, err := s.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, writers, stats.GamesPlayed)
	assert.Equal(t, writers, stats.Draws)
}

func TestOpenOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	require.NoError(t, os.MkdirAll(dir, 0755))

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveGame("persisted", game.NewGame()))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	g, err := s.LoadGame("persisted")
	require.NoError(t, err)
	assert.Equal(t, game.StartFEN, g.FEN())
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	// Verify directory exists
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}
}
