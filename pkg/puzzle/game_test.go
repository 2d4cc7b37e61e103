package puzzle

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/ssargent/tilemaze/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	g, err := NewGame(definition(4))
	require.NoError(t, err)

	assert.Equal(t, 4, g.PieceCount())
	for i, p := range g.Pieces() {
		assert.Equal(t, i, p.ID())
		assert.Equal(t, int32(i), p.SlotID())
		assert.Equal(t, int32(0), p.Rotation())
		id, ok := g.PieceAt(int32(i))
		assert.True(t, ok)
		assert.Equal(t, i, id)
	}
	for s := int32(4); s < 8; s++ {
		_, ok := g.PieceAt(s)
		assert.False(t, ok)
	}
	assert.False(t, g.Changed())
	assert.False(t, g.Solved())
}

func TestNewGame_WrongKind(t *testing.T) {
	_, err := NewGame(save(0))
	assert.ErrorIs(t, err, ErrWrongKind)

	_, err = FromSave(definition(2))
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestGame_Move(t *testing.T) {
	ft := newFakeTime()
	g, err := NewGame(definition(2), WithClock(NewClock(ft.Now)))
	require.NoError(t, err)

	require.NoError(t, g.Move(0, 3))
	assert.True(t, g.Changed())
	assert.True(t, g.Clock().Running())

	_, ok := g.PieceAt(0)
	assert.False(t, ok)
	id, ok := g.PieceAt(3)
	assert.True(t, ok)
	assert.Equal(t, 0, id)

	err = g.Move(1, 3)
	assert.ErrorIs(t, err, ErrSlotOccupied)

	assert.ErrorIs(t, g.Move(5, 2), ErrUnknownPiece)
	assert.ErrorIs(t, g.Move(1, 4), ErrUnknownSlot)

	// moving onto its own slot is a no-op
	require.NoError(t, g.Move(1, 1))
}

func TestGame_SolveStopsClock(t *testing.T) {
	ft := newFakeTime()
	g, err := NewGame(definition(2), WithClock(NewClock(ft.Now)))
	require.NoError(t, err)

	require.NoError(t, g.Move(0, 2))
	ft.Advance(3 * time.Second)
	assert.False(t, g.Solved())

	require.NoError(t, g.Move(1, 3))
	assert.True(t, g.Solved())
	assert.False(t, g.Clock().Running())

	ft.Advance(time.Minute)
	assert.Equal(t, int64(3000), g.Clock().Millis())
}

func TestGame_Rotate(t *testing.T) {
	g, err := NewGame(definition(1))
	require.NoError(t, err)

	for want := int32(1); want <= 4; want++ {
		require.NoError(t, g.Rotate(0))
		p, err := g.Piece(0)
		require.NoError(t, err)
		assert.Equal(t, want%4, p.Rotation())
	}
	assert.ErrorIs(t, g.Rotate(1), ErrUnknownPiece)
}

func TestGame_SolvedIgnoresFullTurns(t *testing.T) {
	g, err := FromSave(save(0, [2]int32{2, 4}, [2]int32{3, -8}))
	require.NoError(t, err)
	assert.True(t, g.Solved())

	g, err = FromSave(save(0, [2]int32{3, 0}, [2]int32{2, 0}))
	require.NoError(t, err)
	assert.False(t, g.Solved())
}

func TestFromSave(t *testing.T) {
	doc := save(65000, [2]int32{3, 1}, [2]int32{0, 2})
	doc.Pieces[0].Segments = []codec.Segment{{X0: 1, Y0: 2, X1: 3, Y1: 4}}

	g, err := FromSave(doc)
	require.NoError(t, err)

	p0, _ := g.Piece(0)
	assert.Equal(t, int32(3), p0.SlotID())
	assert.Equal(t, int32(1), p0.Rotation())
	assert.Equal(t, doc.Pieces[0].Segments, p0.Segments())

	assert.False(t, g.Clock().Running())
	assert.Equal(t, int64(65000), g.Clock().Millis())
	assert.False(t, g.Changed())

	pieces, elapsed := g.Snapshot()
	assert.Equal(t, int64(65000), elapsed)
	assert.Equal(t, doc.Pieces, pieces)
}

func TestFromSave_InvalidLayout(t *testing.T) {
	tests := []struct {
		name string
		doc  *codec.Document
	}{
		{name: "slot out of range", doc: save(0, [2]int32{0, 0}, [2]int32{4, 0})},
		{name: "negative slot", doc: save(0, [2]int32{-1, 0})},
		{name: "duplicate slot", doc: save(0, [2]int32{1, 0}, [2]int32{1, 0})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSave(tt.doc)
			assert.ErrorIs(t, err, ErrInvalidLayout)
		})
	}
}

func TestFromDocument(t *testing.T) {
	g, err := FromDocument(definition(3))
	require.NoError(t, err)
	assert.Equal(t, 3, g.PieceCount())

	g, err = FromDocument(save(10, [2]int32{1, 0}))
	require.NoError(t, err)
	assert.Equal(t, int64(10), g.Clock().Millis())
}

func TestGame_Shuffle(t *testing.T) {
	g, err := NewGame(definition(16))
	require.NoError(t, err)
	require.NoError(t, g.Move(0, 20))

	g.Shuffle(rand.New(rand.NewSource(42)))

	assert.False(t, g.Changed())
	assert.Equal(t, int64(0), g.Clock().Millis())

	seen := make(map[int32]bool)
	for _, p := range g.Pieces() {
		assert.Less(t, p.SlotID(), int32(16), "piece %d left on board", p.ID())
		assert.GreaterOrEqual(t, p.Rotation(), int32(0))
		assert.Less(t, p.Rotation(), int32(4))
		assert.False(t, seen[p.SlotID()])
		seen[p.SlotID()] = true

		id, ok := g.PieceAt(p.SlotID())
		assert.True(t, ok)
		assert.Equal(t, p.ID(), id)
	}
	assert.Len(t, seen, 16)
}

func TestGame_ShuffleDeterministic(t *testing.T) {
	a, _ := NewGame(definition(8))
	b, _ := NewGame(definition(8))
	a.Shuffle(rand.New(rand.NewSource(7)))
	b.Shuffle(rand.New(rand.NewSource(7)))

	pa, _ := a.Snapshot()
	pb, _ := b.Snapshot()
	assert.Equal(t, pa, pb)
}

func TestGame_Reset(t *testing.T) {
	ft := newFakeTime()
	g, err := NewGame(definition(4), WithClock(NewClock(ft.Now)))
	require.NoError(t, err)
	g.Shuffle(rand.New(rand.NewSource(1)))
	before, _ := g.Snapshot()

	p, _ := g.Piece(2)
	require.NoError(t, g.Move(2, 4+2))
	require.NoError(t, g.Rotate(2))
	assert.Equal(t, int32(6), p.SlotID())
	ft.Advance(2 * time.Second)

	g.Reset()
	after, elapsed := g.Snapshot()
	assert.Equal(t, before, after)
	assert.False(t, g.Changed())
	assert.Equal(t, int64(2000), elapsed)
}

func TestGame_Restore(t *testing.T) {
	g, err := NewGame(definition(2))
	require.NoError(t, err)
	require.NoError(t, g.Move(0, 2))

	require.NoError(t, g.Restore(save(1234, [2]int32{3, 2}, [2]int32{0, 0})))
	p0, _ := g.Piece(0)
	assert.Equal(t, int32(3), p0.SlotID())
	assert.Equal(t, int32(2), p0.Rotation())
	assert.False(t, g.Changed())
	assert.Equal(t, int64(1234), g.Clock().Millis())

	// reset goes back to the restored layout
	require.NoError(t, g.Move(1, 1))
	g.Reset()
	p1, _ := g.Piece(1)
	assert.Equal(t, int32(0), p1.SlotID())
}

func TestGame_RestoreRejected(t *testing.T) {
	g, err := NewGame(definition(2))
	require.NoError(t, err)
	before, _ := g.Snapshot()

	assert.ErrorIs(t, g.Restore(definition(2)), ErrWrongKind)
	assert.ErrorIs(t, g.Restore(save(0, [2]int32{0, 0})), ErrPieceCount)
	assert.ErrorIs(t, g.Restore(save(0, [2]int32{0, 0}, [2]int32{0, 1})), ErrInvalidLayout)

	after, _ := g.Snapshot()
	assert.Equal(t, before, after)
}

func TestGame_SetResetLayout(t *testing.T) {
	// saved mid-game: piece 0 on the board, piece 1 still in the rack
	g, err := FromSave(save(500, [2]int32{2, 0}, [2]int32{1, 3}))
	require.NoError(t, err)

	require.NoError(t, g.SetResetLayout(save(0, [2]int32{1, 2}, [2]int32{0, 3})))
	current, elapsed := g.Snapshot()
	assert.Equal(t, int32(2), current[0].SlotID)
	assert.Equal(t, int64(500), elapsed)
	assert.False(t, g.Changed())

	g.Reset()
	after, elapsed := g.Snapshot()
	assert.Equal(t, int32(1), after[0].SlotID)
	assert.Equal(t, int32(2), after[0].Rotation)
	assert.Equal(t, int32(0), after[1].SlotID)
	assert.Equal(t, int64(500), elapsed)
	id, ok := g.PieceAt(2)
	assert.False(t, ok, "board cell 0 should be empty, holds %d", id)
}

func TestGame_SetResetLayoutRejected(t *testing.T) {
	g, err := FromSave(save(0, [2]int32{2, 0}, [2]int32{1, 0}))
	require.NoError(t, err)

	assert.ErrorIs(t, g.SetResetLayout(definition(2)), ErrWrongKind)
	assert.ErrorIs(t, g.SetResetLayout(save(0, [2]int32{0, 0})), ErrPieceCount)
	assert.ErrorIs(t, g.SetResetLayout(save(0, [2]int32{1, 0}, [2]int32{1, 0})), ErrInvalidLayout)

	// a rejected layout leaves the loaded one as the reset target
	require.NoError(t, g.Move(0, 3))
	g.Reset()
	p0, _ := g.Piece(0)
	assert.Equal(t, int32(2), p0.SlotID())
}

func TestGame_MarkSaved(t *testing.T) {
	g, err := NewGame(definition(2))
	require.NoError(t, err)
	require.NoError(t, g.Rotate(1))
	assert.True(t, g.Changed())
	g.MarkSaved()
	assert.False(t, g.Changed())
}

func TestGame_SnapshotCanonicalOrder(t *testing.T) {
	g, err := NewGame(definition(3))
	require.NoError(t, err)
	require.NoError(t, g.Move(2, 3))
	require.NoError(t, g.Move(0, 5))

	pieces, _ := g.Snapshot()
	require.Len(t, pieces, 3)
	assert.Equal(t, int32(5), pieces[0].SlotID)
	assert.Equal(t, int32(1), pieces[1].SlotID)
	assert.Equal(t, int32(3), pieces[2].SlotID)
	assert.Equal(t, float32(2), pieces[2].Segments[0].X0)
}

func TestGame_EncodeRoundTrip(t *testing.T) {
	c := codec.NewMazeCodec()
	g, err := NewGame(definition(4))
	require.NoError(t, err)
	g.Shuffle(rand.New(rand.NewSource(3)))
	require.NoError(t, g.Rotate(1))

	data, err := c.EncodeSource(g)
	require.NoError(t, err)

	doc, err := c.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	restored, err := FromSave(doc)
	require.NoError(t, err)
	want, _ := g.Snapshot()
	got, _ := restored.Snapshot()
	assert.Equal(t, want, got)
}

func TestGame_Board(t *testing.T) {
	g, err := NewGame(definition(4))
	require.NoError(t, err)
	require.NoError(t, g.Move(3, 4+3))
	require.NoError(t, g.Move(0, 4+1))

	assert.Equal(t, [][]int{{-1, 0}, {-1, 3}}, g.Board())

	odd, err := NewGame(definition(3))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{-1, -1, -1}}, odd.Board())

	empty, err := NewGame(&codec.Document{Kind: codec.KindDefinition})
	require.NoError(t, err)
	assert.Nil(t, empty.Board())
}
