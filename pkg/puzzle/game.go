package puzzle

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/ssargent/tilemaze/pkg/codec"
)

const emptySlot = -1

// Game is the in-memory state of one puzzle: which slot every piece
// occupies, how it is rotated and how long it has been played.
//
// A new game starts with every piece in its own rack slot. The puzzle is
// solved when piece i sits on board cell i with no rotation.
//
// Game is not safe for concurrent use; callers serialize access.
type Game struct {
	pieces  []*Piece
	slots   []int // slot id -> piece id, or emptySlot
	clock   *Clock
	changed bool
}

// Option configures a Game
type Option func(*Game)

// WithClock makes the game use c for play time
func WithClock(c *Clock) Option {
	return func(g *Game) {
		g.clock = c
	}
}

func newGame(n int, opts []Option) *Game {
	g := &Game{
		pieces: make([]*Piece, 0, n),
		slots:  make([]int, 2*n),
	}
	for i := range g.slots {
		g.slots[i] = emptySlot
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.clock == nil {
		g.clock = NewClock(nil)
	}
	return g
}

// NewGame builds a game from a definition document. Pieces are created in
// document order and placed in rack slots 0..n-1 without rotation. The
// document's segment slices are handed over to the pieces.
func NewGame(doc *codec.Document, opts ...Option) (*Game, error) {
	if doc.Kind != codec.KindDefinition {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrWrongKind, codec.KindDefinition, doc.Kind)
	}

	n := doc.PieceCount()
	g := newGame(n, opts)
	seq := NewIDSequence(0)
	for i, dp := range doc.Pieces {
		p := NewPiece(seq, dp.Segments)
		p.slot = int32(i)
		p.homeSlot = p.slot
		g.pieces = append(g.pieces, p)
		g.slots[i] = p.id
	}
	return g, nil
}

// FromSave rebuilds a game from a save document. Slots and rotations are
// taken verbatim; the clock is set to the saved elapsed time and paused.
func FromSave(doc *codec.Document, opts ...Option) (*Game, error) {
	if doc.Kind != codec.KindSave {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrWrongKind, codec.KindSave, doc.Kind)
	}
	if err := validateLayout(doc.Pieces); err != nil {
		return nil, err
	}

	g := newGame(doc.PieceCount(), opts)
	seq := NewIDSequence(0)
	for _, dp := range doc.Pieces {
		g.pieces = append(g.pieces, NewPiece(seq, dp.Segments))
	}
	g.apply(doc)
	return g, nil
}

// FromDocument builds a game from either kind of document
func FromDocument(doc *codec.Document, opts ...Option) (*Game, error) {
	if doc.Kind == codec.KindSave {
		return FromSave(doc, opts...)
	}
	return NewGame(doc, opts...)
}

// validateLayout checks that every slot id exists and holds one piece
func validateLayout(pieces []codec.Piece) error {
	n := len(pieces)
	seen := make(map[int32]int, n)
	for i, p := range pieces {
		if _, err := SlotFromID(p.SlotID, n); err != nil {
			return fmt.Errorf("%w: piece %d: %w", ErrInvalidLayout, i, err)
		}
		if other, dup := seen[p.SlotID]; dup {
			return fmt.Errorf("%w: pieces %d and %d share slot %d", ErrInvalidLayout, other, i, p.SlotID)
		}
		seen[p.SlotID] = i
	}
	return nil
}

// apply copies a validated save onto the game
func (g *Game) apply(doc *codec.Document) {
	for i := range g.slots {
		g.slots[i] = emptySlot
	}
	for i, dp := range doc.Pieces {
		p := g.pieces[i]
		p.slot = dp.SlotID
		p.rotation = dp.Rotation
		p.segments = dp.Segments
		p.homeSlot = dp.SlotID
		p.homeRotation = dp.Rotation
		g.slots[dp.SlotID] = p.id
	}
	g.clock.Set(time.Duration(doc.ElapsedMillis) * time.Millisecond)
	g.changed = false
}

// Restore loads a save into an existing game. The save must have the same
// number of pieces. Nothing changes when the save is rejected.
func (g *Game) Restore(doc *codec.Document) error {
	if doc.Kind != codec.KindSave {
		return fmt.Errorf("%w: want %s, got %s", ErrWrongKind, codec.KindSave, doc.Kind)
	}
	if doc.PieceCount() != len(g.pieces) {
		return fmt.Errorf("%w: game has %d pieces, save has %d", ErrPieceCount, len(g.pieces), doc.PieceCount())
	}
	if err := validateLayout(doc.Pieces); err != nil {
		return err
	}
	g.apply(doc)
	return nil
}

// SetResetLayout makes the layout stored in doc the one Reset returns to.
// The current layout, the clock and the changed flag are left alone.
func (g *Game) SetResetLayout(doc *codec.Document) error {
	if doc.Kind != codec.KindSave {
		return fmt.Errorf("%w: want %s, got %s", ErrWrongKind, codec.KindSave, doc.Kind)
	}
	if doc.PieceCount() != len(g.pieces) {
		return fmt.Errorf("%w: game has %d pieces, layout has %d", ErrPieceCount, len(g.pieces), doc.PieceCount())
	}
	if err := validateLayout(doc.Pieces); err != nil {
		return err
	}

	for i, dp := range doc.Pieces {
		g.pieces[i].homeSlot = dp.SlotID
		g.pieces[i].homeRotation = dp.Rotation
	}
	return nil
}

// Shuffle deals every piece into a random rack slot with a random
// rotation and clears the board. The shuffled layout becomes the reset
// layout and the clock restarts from zero, paused.
func (g *Game) Shuffle(rng *rand.Rand) {
	n := len(g.pieces)
	for i := range g.slots {
		g.slots[i] = emptySlot
	}
	order := rng.Perm(n)
	for rack, id := range order {
		p := g.pieces[id]
		p.slot = int32(rack)
		p.rotation = int32(rng.Intn(4))
		p.homeSlot = p.slot
		p.homeRotation = p.rotation
		g.slots[rack] = id
	}
	g.clock.Set(0)
	g.changed = false
}

// Move puts a piece into an empty slot. Moving a piece onto the slot it
// already occupies does nothing. The first move resumes the clock and
// solving the puzzle stops it.
func (g *Game) Move(pieceID int, slotID int32) error {
	p, err := g.Piece(pieceID)
	if err != nil {
		return err
	}
	if _, err := SlotFromID(slotID, len(g.pieces)); err != nil {
		return err
	}
	if p.slot == slotID {
		return nil
	}
	if occupant := g.slots[slotID]; occupant != emptySlot {
		return fmt.Errorf("%w: slot %d holds piece %d", ErrSlotOccupied, slotID, occupant)
	}

	g.slots[p.slot] = emptySlot
	g.slots[slotID] = p.id
	p.slot = slotID
	g.touch()
	return nil
}

// Rotate turns a piece a quarter turn clockwise
func (g *Game) Rotate(pieceID int) error {
	p, err := g.Piece(pieceID)
	if err != nil {
		return err
	}
	p.rotation = (normalizeRotation(p.rotation) + 1) % 4
	g.touch()
	return nil
}

func (g *Game) touch() {
	g.changed = true
	if g.Solved() {
		g.clock.Stop()
		return
	}
	g.clock.Start()
}

// Reset returns every piece to the reset layout, which is the layout of
// the last shuffle or load. Play time is kept.
func (g *Game) Reset() {
	for i := range g.slots {
		g.slots[i] = emptySlot
	}
	for _, p := range g.pieces {
		p.slot = p.homeSlot
		p.rotation = p.homeRotation
		g.slots[p.slot] = p.id
	}
	g.changed = false
}

// Solved reports whether every piece sits on its board cell unrotated
func (g *Game) Solved() bool {
	n := len(g.pieces)
	for _, p := range g.pieces {
		if int(p.slot) != n+p.id || normalizeRotation(p.rotation) != 0 {
			return false
		}
	}
	return true
}

// Snapshot returns the live state in canonical piece order for encoding
func (g *Game) Snapshot() ([]codec.Piece, int64) {
	pieces := make([]codec.Piece, len(g.pieces))
	for i, p := range g.pieces {
		pieces[i] = p.snapshot()
	}
	return pieces, g.clock.Millis()
}

// Piece returns the piece with the given id
func (g *Game) Piece(id int) (*Piece, error) {
	if id < 0 || id >= len(g.pieces) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPiece, id)
	}
	return g.pieces[id], nil
}

// Pieces returns all pieces in canonical order
func (g *Game) Pieces() []*Piece {
	out := make([]*Piece, len(g.pieces))
	copy(out, g.pieces)
	return out
}

// PieceCount returns the number of pieces
func (g *Game) PieceCount() int {
	return len(g.pieces)
}

// PieceAt returns the id of the piece in slotID, if any
func (g *Game) PieceAt(slotID int32) (int, bool) {
	if slotID < 0 || int(slotID) >= len(g.slots) {
		return 0, false
	}
	id := g.slots[slotID]
	return id, id != emptySlot
}

// Clock returns the play-time clock
func (g *Game) Clock() *Clock {
	return g.clock
}

// Changed reports whether the game was modified since it was last saved,
// loaded, shuffled or reset
func (g *Game) Changed() bool {
	return g.changed
}

// MarkSaved clears the changed flag after a successful save
func (g *Game) MarkSaved() {
	g.changed = false
}

// Board returns the board cells as rows of piece ids, -1 marking an empty
// cell. Square puzzles are laid out as a square grid, others as one row.
func (g *Game) Board() [][]int {
	n := len(g.pieces)
	width := boardWidth(n)
	if width == 0 {
		return nil
	}

	rows := make([][]int, 0, n/width)
	for start := 0; start < n; start += width {
		row := make([]int, width)
		copy(row, g.slots[n+start:n+start+width])
		rows = append(rows, row)
	}
	return rows
}

func boardWidth(n int) int {
	w := int(math.Sqrt(float64(n)))
	for w*w < n {
		w++
	}
	if w*w == n {
		return w
	}
	return n
}
