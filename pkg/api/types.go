package api

import (
	"github.com/ssargent/tilemaze/pkg/codec"
	"github.com/ssargent/tilemaze/pkg/puzzle"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port        int
	Bind        string
	APIKey      string
	ShuffleSeed int64 // 0 = seeded from the clock
	MaxBodySize int64 // Upload limit for .mze bodies (0 = 1MB)
}

// NewGameRequest starts a shuffled game from the default definition
type NewGameRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}

// MoveRequest moves a piece into an empty slot
type MoveRequest struct {
	Piece int   `json:"piece"`
	Slot  int32 `json:"slot"`
}

// RotateRequest turns a piece a quarter turn
type RotateRequest struct {
	Piece int `json:"piece"`
}

// PieceState is the public view of one piece
type PieceState struct {
	ID        int             `json:"id"`
	Slot      int32           `json:"slot"`
	SlotKind  string          `json:"slot_kind"`
	SlotIndex int             `json:"slot_index"`
	Rotation  int32           `json:"rotation"`
	Segments  []codec.Segment `json:"segments,omitempty"`
}

// GameState is the public view of a game session
type GameState struct {
	ID            string       `json:"id"`
	Pieces        []PieceState `json:"pieces"`
	Board         [][]int      `json:"board"`
	Solved        bool         `json:"solved"`
	Changed       bool         `json:"changed"`
	Running       bool         `json:"running"`
	Elapsed       string       `json:"elapsed"`
	ElapsedMillis int64        `json:"elapsed_ms"`
}

// ArchiveResponse reports where a save was archived
type ArchiveResponse struct {
	ID   string `json:"id"`
	Size int    `json:"size"`
}

// InspectResult summarizes an uploaded .mze document
type InspectResult struct {
	Status        string       `json:"status"`
	Kind          string       `json:"kind,omitempty"`
	PieceCount    int          `json:"piece_count"`
	SegmentCount  int          `json:"segment_count"`
	ElapsedMillis *int64       `json:"elapsed_ms,omitempty"`
	Error         string       `json:"error,omitempty"`
	Pieces        []PieceState `json:"pieces,omitempty"`
}

func newGameState(id string, g *puzzle.Game) GameState {
	n := g.PieceCount()
	pieces := make([]PieceState, 0, n)
	for _, p := range g.Pieces() {
		ps := PieceState{
			ID:       p.ID(),
			Slot:     p.SlotID(),
			Rotation: p.Rotation(),
			Segments: p.Segments(),
		}
		if slot, err := puzzle.SlotFromID(p.SlotID(), n); err == nil {
			ps.SlotKind = slot.Kind.String()
			ps.SlotIndex = slot.Index
		}
		pieces = append(pieces, ps)
	}

	clock := g.Clock()
	return GameState{
		ID:            id,
		Pieces:        pieces,
		Board:         g.Board(),
		Solved:        g.Solved(),
		Changed:       g.Changed(),
		Running:       clock.Running(),
		Elapsed:       clock.Format(),
		ElapsedMillis: clock.Millis(),
	}
}
