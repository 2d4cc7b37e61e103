package puzzle

import "github.com/ssargent/tilemaze/pkg/codec"

// IDSequence hands out piece ids in creation order
type IDSequence struct {
	next int
}

// NewIDSequence starts a sequence at start
func NewIDSequence(start int) *IDSequence {
	return &IDSequence{next: start}
}

// Next returns the next id and advances the sequence
func (s *IDSequence) Next() int {
	id := s.next
	s.next++
	return id
}

// Piece is a rotatable game piece carrying a fixed set of segments.
// The segments slice is owned by the piece once handed over.
type Piece struct {
	id       int
	slot     int32
	rotation int32
	segments []codec.Segment

	homeSlot     int32
	homeRotation int32
}

// NewPiece creates a piece with the next id of seq
func NewPiece(seq *IDSequence, segments []codec.Segment) *Piece {
	return &Piece{id: seq.Next(), segments: segments}
}

// ID returns the canonical creation index of the piece
func (p *Piece) ID() int { return p.id }

// SlotID returns the slot the piece occupies
func (p *Piece) SlotID() int32 { return p.slot }

// Rotation returns the quarter-turn count as stored, without normalizing
func (p *Piece) Rotation() int32 { return p.rotation }

// Segments returns the line geometry in draw order. Callers must not modify it.
func (p *Piece) Segments() []codec.Segment { return p.segments }

// QuarterTurns returns the rotation reduced to 0..3
func (p *Piece) QuarterTurns() int32 {
	return normalizeRotation(p.rotation)
}

func normalizeRotation(r int32) int32 {
	return ((r % 4) + 4) % 4
}

func (p *Piece) snapshot() codec.Piece {
	return codec.Piece{SlotID: p.slot, Rotation: p.rotation, Segments: p.segments}
}
