package puzzle

import "errors"

// Errors
var (
	ErrWrongKind     = errors.New("document has the wrong kind")
	ErrUnknownPiece  = errors.New("unknown piece")
	ErrUnknownSlot   = errors.New("unknown slot")
	ErrSlotOccupied  = errors.New("slot is occupied")
	ErrInvalidLayout = errors.New("invalid piece layout")
	ErrPieceCount    = errors.New("piece count mismatch")
)
