package storage

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
)

// Storage keys
const (
	keyStats      = "stats"
	gamePrefix    = "game/"
	maxNameLength = 64
)

// ErrGameNotFound is returned when no game is saved under a name.
var ErrGameNotFound = errors.New("game not found")

// ErrInvalidName is returned for empty or oversized game names.
var ErrInvalidName = errors.New("invalid game name")

// record is the stored form of a saved game.
type record struct {
	Name      string        `json:"name"`
	Snapshot  game.Snapshot `json:"snapshot"`
	FEN       string        `json:"fen"`
	Outcome   string        `json:"outcome"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// GameInfo summarizes a saved game for listings.
type GameInfo struct {
	Name      string
	FEN       string
	Outcome   string
	Ply       int
	UpdatedAt time.Time
}

// GameStats counts finished games by result.
type GameStats struct {
	GamesPlayed int `json:"games_played"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
	Stalemates  int `json:"stalemates"`
	Draws       int `json:"draws"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (creating if needed) a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger")
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return nil, errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return []byte(gamePrefix + name), nil
}

// SaveGame stores g under name, replacing any earlier save but keeping its
// creation time.
func (s *Storage) SaveGame(name string, g *game.Game) error {
	key, err := gameKey(name)
	if err != nil {
		return err
	}

	now := time.Now()
	rec := record{
		Name:      strings.TrimSpace(name),
		Snapshot:  g.Snapshot(),
		FEN:       g.FEN(),
		Outcome:   g.Outcome().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch {
		case err == nil:
			var prev record
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &prev)
			}); err == nil {
				rec.CreatedAt = prev.CreatedAt
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// LoadGame restores the game saved under name.
func (s *Storage) LoadGame(name string) (*game.Game, error) {
	key, err := gameKey(name)
	if err != nil {
		return nil, err
	}

	var rec record
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.Wrapf(ErrGameNotFound, "%q", name)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}

	g, err := game.Restore(rec.Snapshot)
	if err != nil {
		return nil, errors.Wrapf(err, "restore %q", name)
	}
	return g, nil
}

// DeleteGame removes the game saved under name.
func (s *Storage) DeleteGame(name string) error {
	key, err := gameKey(name)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return errors.Wrapf(ErrGameNotFound, "%q", name)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ListGames returns every saved game, most recently updated first.
func (s *Storage) ListGames() ([]GameInfo, error) {
	var games []GameInfo

	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(gamePrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return errors.Wrapf(err, "decode %s", it.Item().Key())
			}
			games = append(games, GameInfo{
				Name:      rec.Name,
				FEN:       rec.FEN,
				Outcome:   rec.Outcome,
				Ply:       len(rec.Snapshot.History),
				UpdatedAt: rec.UpdatedAt,
			})
		}
		return nil
	})

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].UpdatedAt.After(games[j].UpdatedAt)
	})
	return games, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	var stats *GameStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = readStats(txn)
		return err
	})
	if stats == nil {
		stats = &GameStats{}
	}
	return stats, err
}

func readStats(txn *badger.Txn) (*GameStats, error) {
	stats := &GameStats{}
	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil // Use empty stats
	}
	if err != nil {
		return nil, err
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}

// maxConflictRetries bounds how often a stats update is retried after a
// concurrent writer commits first.
const maxConflictRetries = 16

// RecordResult counts a finished game. Ongoing outcomes are ignored.
// The read and the write of the counters share one transaction.
func (s *Storage) RecordResult(o game.Outcome) error {
	if o.Status == game.Ongoing {
		return nil
	}

	var err error
	for i := 0; i < maxConflictRetries; i++ {
		err = s.db.Update(func(txn *badger.Txn) error {
			stats, err := readStats(txn)
			if err != nil {
				return err
			}
			stats.add(o)

			data, err := json.Marshal(stats)
			if err != nil {
				return err
			}
			return txn.Set([]byte(keyStats), data)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return errors.Wrap(err, "record result")
}

func (s *GameStats) add(o game.Outcome) {
	s.GamesPlayed++
	switch o.Status {
	case game.Checkmate:
		if o.Winner == board.White {
			s.WhiteWins++
		} else {
			s.BlackWins++
		}
	case game.Stalemate:
		s.Stalemates++
	case game.Draw:
		s.Draws++
	}
}

// WinRate returns the share of games c won as a percentage (0-100).
func (s *GameStats) WinRate(c board.Color) float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	wins := s.WhiteWins
	if c == board.Black {
		wins = s.BlackWins
	}
	return float64(wins) / float64(s.GamesPlayed) * 100
}
