package board

// PieceID identifies a piece within one game. The zero value means "no piece".
type PieceID uint16

// NoPiece is the empty-slot marker.
const NoPiece PieceID = 0

// Board is the 64-slot occupancy grid. It only records which piece stands on
// which square; it performs no bounds, occupancy or legality validation.
// Callers (the game) must pre-validate every square they pass in.
type Board struct {
	slots [64]PieceID
}

// At returns the piece on sq, or NoPiece.
func (b Board) At(sq Square) PieceID {
	return b.slots[sq]
}

// Occupied returns true if a piece stands on sq.
func (b Board) Occupied(sq Square) bool {
	return b.slots[sq] != NoPiece
}

// Place puts id on sq, overwriting whatever was recorded there.
func (b *Board) Place(id PieceID, sq Square) {
	b.slots[sq] = id
}

// Remove clears sq and returns the piece that was on it.
func (b *Board) Remove(sq Square) PieceID {
	id := b.slots[sq]
	b.slots[sq] = NoPiece
	return id
}

// Move relocates whatever stands on from to to (remove + place).
func (b *Board) Move(from, to Square) {
	b.Place(b.Remove(from), to)
}

// Count returns the number of occupied squares.
func (b Board) Count() int {
	n := 0
	for _, id := range b.slots {
		if id != NoPiece {
			n++
		}
	}
	return n
}

// Clear resets the board to empty.
func (b *Board) Clear() {
	*b = Board{}
}
