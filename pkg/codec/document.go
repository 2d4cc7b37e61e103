package codec

import (
	"fmt"
	"time"
)

// Magic numbers identifying the two kinds of .mze file
const (
	MagicDefinition = "CAFEBEEF"
	MagicSave       = "CAFEDEED"
)

var (
	magicDefinitionBytes = [4]byte{0xCA, 0xFE, 0xBE, 0xEF}
	magicSaveBytes       = [4]byte{0xCA, 0xFE, 0xDE, 0xED}
)

// Kind tells a definition document from a saved game
type Kind int

const (
	KindDefinition Kind = iota + 1
	KindSave
)

func (k Kind) String() string {
	switch k {
	case KindDefinition:
		return "definition"
	case KindSave:
		return "save"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Segment is one line drawn inside a piece, from (X0,Y0) to (X1,Y1)
type Segment struct {
	X0, Y0, X1, Y1 float32
}

// Piece describes one puzzle piece as stored in a .mze file.
//
// In a save, SlotID is the slot the piece currently occupies. In a
// definition it is the piece id written by the author and only keeps the
// geometry aligned with piece creation order.
type Piece struct {
	SlotID   int32
	Rotation int32
	Segments []Segment
}

// Document is the decoded content of a .mze file. It is built fresh by
// every Decode call and is not modified by this package afterwards.
type Document struct {
	Kind          Kind
	Pieces        []Piece
	ElapsedMillis int64 // only meaningful when Kind == KindSave
}

// PieceCount returns the number of pieces in the document
func (d *Document) PieceCount() int {
	return len(d.Pieces)
}

// Elapsed returns the recorded play time. The second result is false for
// definitions, which carry no play time.
func (d *Document) Elapsed() (time.Duration, bool) {
	if d.Kind != KindSave {
		return 0, false
	}
	return time.Duration(d.ElapsedMillis) * time.Millisecond, true
}

// SegmentCount returns the total number of segments across all pieces
func (d *Document) SegmentCount() int {
	n := 0
	for _, p := range d.Pieces {
		n += len(p.Segments)
	}
	return n
}

// SaveSize returns the number of bytes Encode produces for pieces
func SaveSize(pieces []Piece) int {
	size := 4 + 4 + 8
	for _, p := range pieces {
		size += 12 + 16*len(p.Segments)
	}
	return size
}
