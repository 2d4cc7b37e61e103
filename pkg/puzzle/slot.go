package puzzle

import "fmt"

// SlotKind tells the holding rack from the board
type SlotKind int

const (
	SlotRack SlotKind = iota + 1
	SlotBoard
)

func (k SlotKind) String() string {
	switch k {
	case SlotRack:
		return "rack"
	case SlotBoard:
		return "board"
	default:
		return fmt.Sprintf("slotkind(%d)", int(k))
	}
}

// Slot is a container a piece can occupy. For a puzzle of n pieces the
// rack has slot ids 0..n-1 and the board has slot ids n..2n-1, so board
// cell k has id n+k.
type Slot struct {
	Kind  SlotKind
	Index int
}

// RackSlot returns rack position i
func RackSlot(i int) Slot {
	return Slot{Kind: SlotRack, Index: i}
}

// BoardSlot returns board cell i
func BoardSlot(i int) Slot {
	return Slot{Kind: SlotBoard, Index: i}
}

// ID returns the numeric slot id written to save files
func (s Slot) ID(pieceCount int) int32 {
	if s.Kind == SlotBoard {
		return int32(pieceCount + s.Index)
	}
	return int32(s.Index)
}

func (s Slot) String() string {
	return fmt.Sprintf("%s[%d]", s.Kind, s.Index)
}

// SlotFromID resolves a numeric slot id for a puzzle of pieceCount pieces
func SlotFromID(id int32, pieceCount int) (Slot, error) {
	switch {
	case id < 0 || int(id) >= 2*pieceCount:
		return Slot{}, fmt.Errorf("%w: %d (puzzle has %d slots)", ErrUnknownSlot, id, 2*pieceCount)
	case int(id) < pieceCount:
		return RackSlot(int(id)), nil
	default:
		return BoardSlot(int(id) - pieceCount), nil
	}
}
