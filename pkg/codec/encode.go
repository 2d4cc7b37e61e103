package codec

import (
	"fmt"
	"io"
	"math"
)

// SaveSource exposes the live piece state a save is written from. Pieces
// come back in canonical creation order, not board order.
type SaveSource interface {
	Snapshot() (pieces []Piece, elapsedMillis int64)
}

// Encode serializes pieces and the elapsed play time in the save layout.
// Format: [CAFEDEED][PieceCount(4)][Elapsed(8)] then per piece
// [SlotID(4)][Rotation(4)][LineCount(4)][X0 Y0 X1 Y1 (16) ...]
func (c *MazeCodec) Encode(pieces []Piece, elapsedMillis int64) ([]byte, error) {
	if len(pieces) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d pieces do not fit the piece count field", ErrMalformed, len(pieces))
	}

	buf := make([]byte, SaveSize(pieces))
	copy(buf[0:], magicSaveBytes[:])
	PutInt32(buf[4:], int32(len(pieces)))
	PutInt64(buf[8:], elapsedMillis)

	off := 16
	for i, p := range pieces {
		if len(p.Segments) > math.MaxInt32 {
			return nil, fmt.Errorf("%w: piece %d has too many segments", ErrMalformed, i)
		}
		PutInt32(buf[off:], p.SlotID)
		PutInt32(buf[off+4:], p.Rotation)
		PutInt32(buf[off+8:], int32(len(p.Segments)))
		off += 12

		for _, s := range p.Segments {
			PutFloat32(buf[off:], s.X0)
			PutFloat32(buf[off+4:], s.Y0)
			PutFloat32(buf[off+8:], s.X1)
			PutFloat32(buf[off+12:], s.Y1)
			off += 16
		}
	}

	return buf, nil
}

// EncodeSource encodes the current state of src
func (c *MazeCodec) EncodeSource(src SaveSource) ([]byte, error) {
	pieces, elapsed := src.Snapshot()
	return c.Encode(pieces, elapsed)
}

// WriteSave encodes pieces and writes them to w in a single call
func (c *MazeCodec) WriteSave(w io.Writer, pieces []Piece, elapsedMillis int64) (int64, error) {
	data, err := c.Encode(pieces, elapsedMillis)
	if err != nil {
		return 0, err
	}

	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("%w: %w", ErrIO, err)
	}
	return int64(n), nil
}
