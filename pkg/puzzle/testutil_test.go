package puzzle

import (
	"time"

	"github.com/ssargent/tilemaze/pkg/codec"
)

// fakeTime is a controllable time source for clock tests
type fakeTime struct {
	t time.Time
}

func newFakeTime() *fakeTime {
	return &fakeTime{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeTime) Now() time.Time { return f.t }

func (f *fakeTime) Advance(d time.Duration) { f.t = f.t.Add(d) }

func definition(n int) *codec.Document {
	doc := &codec.Document{Kind: codec.KindDefinition}
	for i := 0; i < n; i++ {
		doc.Pieces = append(doc.Pieces, codec.Piece{
			SlotID: int32(i),
			Segments: []codec.Segment{
				{X0: float32(i), Y0: 0, X1: float32(i), Y1: 1},
			},
		})
	}
	return doc
}

func save(elapsed int64, layout ...[2]int32) *codec.Document {
	doc := &codec.Document{Kind: codec.KindSave, ElapsedMillis: elapsed}
	for _, l := range layout {
		doc.Pieces = append(doc.Pieces, codec.Piece{SlotID: l[0], Rotation: l[1]})
	}
	return doc
}
