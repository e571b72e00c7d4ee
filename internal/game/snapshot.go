package game

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/hailam/chessrules/internal/board"
)

// PieceRecord is the serializable state of one piece.
type PieceRecord struct {
	ID      board.PieceID   `json:"id"`
	Kind    board.PieceType `json:"kind"`
	Color   board.Color     `json:"color"`
	Square  board.Square    `json:"square"`
	OnBoard bool            `json:"on_board"`
	Moved   bool            `json:"moved"`
}

// Snapshot is the serializable state of a whole game, including captured
// pieces so that history can still be undone after a restore.
type Snapshot struct {
	Pieces  []PieceRecord `json:"pieces"`
	Turn    board.Color   `json:"turn"`
	Drawn   bool          `json:"drawn"`
	History []Turn        `json:"history"`
}

// Snapshot captures the game's current state.
func (g *Game) Snapshot() Snapshot {
	ids := make([]board.PieceID, 0, len(g.pieces))
	for id := range g.pieces {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	s := Snapshot{
		Pieces:  make([]PieceRecord, 0, len(ids)),
		Turn:    g.turn,
		Drawn:   g.drawn,
		History: g.History(),
	}
	for _, id := range ids {
		st := g.pieces[id].state()
		s.Pieces = append(s.Pieces, PieceRecord{
			ID:      st.id,
			Kind:    st.kind,
			Color:   st.color,
			Square:  st.square,
			OnBoard: st.onBoard,
			Moved:   st.moved,
		})
	}
	return s
}

// Restore rebuilds a game from a snapshot. Piece IDs are preserved so the
// restored history still refers to the right pieces.
func Restore(s Snapshot) (*Game, error) {
	setup := Setup{
		Turn:    s.Turn,
		Drawn:   s.Drawn,
		History: s.History,
	}
	seen := make(map[board.PieceID]bool, len(s.Pieces))
	for _, r := range s.Pieces {
		if r.ID == board.NoPiece || seen[r.ID] {
			return nil, errors.Wrapf(ErrInvalidPosition, "duplicate or missing piece id %d", r.ID)
		}
		seen[r.ID] = true

		p := NewWithState(r.Kind, r.Color, r.Square, r.OnBoard, r.Moved)
		if p == nil {
			return nil, errors.Wrapf(ErrInvalidPosition, "piece %d has kind %s", r.ID, r.Kind)
		}
		p.state().id = r.ID
		if r.OnBoard {
			setup.Pieces = append(setup.Pieces, p)
		} else {
			setup.Captured = append(setup.Captured, p)
		}
	}
	return NewGameFrom(setup)
}
