package codec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	dir := t.TempDir()

	save, err := NewMazeCodec().Encode([]Piece{{SlotID: 1}}, 10)
	require.NoError(t, err)

	files := map[string][]byte{
		"default.mze": definitionBytes(defPiece{id: 0}),
		"game.mze":    save,
		"short.mze":   {0xCA, 0xFE},
		"bad.mze":     {0x01, 0x02, 0x03, 0x04, 0x05},
		"empty.mze":   {},
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0600))
	}

	testCases := []struct {
		name string
		path string
		want Status
	}{
		{"definition", filepath.Join(dir, "default.mze"), StatusDefinition},
		{"save", filepath.Join(dir, "game.mze"), StatusSave},
		{"short file", filepath.Join(dir, "short.mze"), StatusCorrupt},
		{"unknown magic", filepath.Join(dir, "bad.mze"), StatusCorrupt},
		{"empty file", filepath.Join(dir, "empty.mze"), StatusCorrupt},
		{"missing file", filepath.Join(dir, "missing.mze"), StatusNotFound},
		{"directory", dir, StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.path))
		})
	}
}

func TestClassifyReader_TransportFailure(t *testing.T) {
	status, err := ClassifyReader(iotest.ErrReader(errors.New("broken pipe")))
	assert.Equal(t, StatusNotFound, status)
	assert.ErrorIs(t, err, ErrIO)
}

func TestStatus_Kind(t *testing.T) {
	kind, ok := StatusDefinition.Kind()
	assert.True(t, ok)
	assert.Equal(t, KindDefinition, kind)

	kind, ok = StatusSave.Kind()
	assert.True(t, ok)
	assert.Equal(t, KindSave, kind)

	_, ok = StatusCorrupt.Kind()
	assert.False(t, ok)
	_, ok = StatusNotFound.Kind()
	assert.False(t, ok)
}

func TestMazeCodec_DecodeFile(t *testing.T) {
	dir := t.TempDir()
	codec := NewMazeCodec()

	t.Run("missing file", func(t *testing.T) {
		_, err := codec.DecodeFile(filepath.Join(dir, "nope.mze"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("definition file", func(t *testing.T) {
		path := filepath.Join(dir, "default.mze")
		require.NoError(t, os.WriteFile(path, definitionBytes(defPiece{id: 3, segments: []Segment{{1, 1, 2, 2}}}), 0600))

		doc, err := codec.DecodeFile(path)
		require.NoError(t, err)
		assert.Equal(t, KindDefinition, doc.Kind)
		assert.Equal(t, 1, doc.PieceCount())
		assert.Equal(t, int32(3), doc.Pieces[0].SlotID)
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.mze")
		require.NoError(t, os.WriteFile(path, []byte("not a maze"), 0600))

		_, err := codec.DecodeFile(path)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})
}

func TestMazeCodec_DecodeFileSize(t *testing.T) {
	dir := t.TempDir()
	codec := NewMazeCodec()

	t.Run("directory is not found", func(t *testing.T) {
		path := filepath.Join(dir, "x.mze")
		require.NoError(t, os.Mkdir(path, 0750))

		assert.Equal(t, StatusNotFound, Classify(path))
		_, err := codec.DecodeFileSize(path, 64)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrIO)
	})

	t.Run("buffer smaller than a piece", func(t *testing.T) {
		path := filepath.Join(dir, "small.mze")
		segments := []Segment{{0, 0, 1, 1}, {1, 1, 2, 2}, {2, 2, 3, 3}}
		require.NoError(t, os.WriteFile(path, definitionBytes(defPiece{id: 0, segments: segments}), 0600))

		// bufio raises sizes below its minimum; zero falls back to the default
		for _, size := range []int{1, 0, -5} {
			doc, err := codec.DecodeFileSize(path, size)
			require.NoError(t, err)
			assert.Equal(t, 3, doc.SegmentCount())
		}
	})
}
