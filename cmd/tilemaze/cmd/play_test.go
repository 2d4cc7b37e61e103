package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ssargent/tilemaze/pkg/codec"
	"github.com/ssargent/tilemaze/pkg/puzzle"
	"github.com/ssargent/tilemaze/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inspectPieces(t *testing.T, env *cliEnv, name string) documentSummary {
	t.Helper()
	out := env.mustRun(t, "inspect", name, "--pieces", "-o", "json")
	var summary documentSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary), out)
	return summary
}

func TestNewCommand(t *testing.T) {
	env := newCLIEnv(t, 4)

	view := env.runGame(t, "new", "g1", "--seed", "7")
	assert.Equal(t, filepath.Join(env.saveDir, "g1.mze"), view.Path)
	assert.False(t, view.Solved)
	assert.Equal(t, int64(0), view.ElapsedMillis)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, view.Rack)
	assert.Equal(t, [][]int{{-1, -1}, {-1, -1}}, view.Board)

	assert.Equal(t, codec.StatusSave, codec.Classify(view.Path))

	t.Run("same seed deals the same rack", func(t *testing.T) {
		again := env.runGame(t, "new", "g2", "--seed", "7")
		assert.Equal(t, view.Rack, again.Rack)
	})

	t.Run("missing definition", func(t *testing.T) {
		bare := newCLIEnv(t, 0)
		_, err := bare.run(t, "", "new")
		assert.ErrorIs(t, err, codec.ErrNotFound)
	})
}

func TestNewCommand_Overwrite(t *testing.T) {
	env := newCLIEnv(t, 4)
	env.mustRun(t, "new", "g1", "--seed", "1", "-q")

	_, err := env.run(t, "n\n", "new", "g1", "--seed", "2")
	assert.ErrorIs(t, err, store.ErrOverwriteDeclined)

	_, err = env.run(t, "y\n", "new", "g1", "--seed", "2", "-q")
	assert.NoError(t, err)

	env.mustRun(t, "new", "g1", "--seed", "3", "--yes", "-q")
}

func TestPlayCommands_Solve(t *testing.T) {
	env := newCLIEnv(t, 4)
	env.runGame(t, "new", "g1", "--seed", "11")

	var view gameView
	for i := 0; i < 4; i++ {
		view = env.runGame(t, "move", "g1", strconv.Itoa(i), strconv.Itoa(4+i))
	}

	summary := inspectPieces(t, env, "g1")
	require.Len(t, summary.Pieces, 4)
	for _, p := range summary.Pieces {
		turns := (4 - int(p.Rotation)%4) % 4
		if turns == 0 {
			continue
		}
		view = env.runGame(t, "rotate", "g1", strconv.Itoa(p.Index), "--turns", strconv.Itoa(turns))
	}

	assert.True(t, view.Solved)
	assert.Equal(t, [][]int{{0, 1}, {2, 3}}, view.Board)
	assert.Equal(t, []int{-1, -1, -1, -1}, view.Rack)

	shown := env.runGame(t, "show", "g1")
	assert.True(t, shown.Solved)
}

func TestPlayCommands_Errors(t *testing.T) {
	env := newCLIEnv(t, 4)
	view := env.runGame(t, "new", "g1", "--seed", "5")

	// The rack is full after a shuffle, so every rack slot is taken
	occupied := 0
	for slot, id := range view.Rack {
		if id != 0 {
			occupied = slot
			break
		}
	}

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"occupied slot", []string{"move", "g1", "0", strconv.Itoa(occupied)}, puzzle.ErrSlotOccupied},
		{"slot out of range", []string{"move", "g1", "0", "8"}, puzzle.ErrUnknownSlot},
		{"slot beyond int32", []string{"move", "g1", "0", "4294967300"}, strconv.ErrRange},
		{"piece beyond int32", []string{"rotate", "g1", "4294967296"}, strconv.ErrRange},
		{"unknown piece", []string{"rotate", "g1", "9"}, puzzle.ErrUnknownPiece},
		{"missing save", []string{"reset", "nope"}, codec.ErrNotFound},
		{"definition is not a save", []string{"move", filepath.Join(env.mazeDir, "default.mze"), "0", "4"}, store.ErrNotSave},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, "", tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("bad number", func(t *testing.T) {
		_, err := env.run(t, "", "move", "g1", "x", "4")
		assert.Error(t, err)
	})

	t.Run("failed commands leave the save alone", func(t *testing.T) {
		after := env.runGame(t, "show", "g1")
		assert.Equal(t, view.Rack, after.Rack)
	})
}

func TestResetCommand(t *testing.T) {
	env := newCLIEnv(t, 4)
	start := env.runGame(t, "new", "g1", "--seed", "3")
	assert.FileExists(t, filepath.Join(env.saveDir, "g1.mze"+store.ResetSuffix))

	env.runGame(t, "move", "g1", "0", "4")
	moved := env.runGame(t, "move", "g1", "1", "5")
	assert.Equal(t, []int{0, 1}, moved.Board[0])

	reset := env.runGame(t, "reset", "g1")
	assert.Equal(t, start.Rack, reset.Rack)
	assert.Equal(t, [][]int{{-1, -1}, {-1, -1}}, reset.Board)

	summary := inspectPieces(t, env, "g1")
	startSummary := inspectPieces(t, env, "g1"+store.Extension+store.ResetSuffix)
	for i, p := range summary.Pieces {
		assert.Equal(t, startSummary.Pieces[i].Slot, p.Slot)
		assert.Equal(t, startSummary.Pieces[i].Rotation, p.Rotation)
	}

	t.Run("restored archive games reset to the restored layout", func(t *testing.T) {
		env.runGame(t, "move", "g1", "2", "6")
		id := strings.TrimSpace(env.mustRun(t, "archive", "put", "g1"))
		env.mustRun(t, "archive", "get", id, "g2", "-q")

		env.runGame(t, "move", "g2", "2", "4")
		back := env.runGame(t, "reset", "g2")
		assert.Equal(t, 2, back.Board[1][0])
	})

	t.Run("save without a reset point", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(env.saveDir, "g1.mze"))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(env.saveDir, "copied.mze"), data, 0600))

		_, err = env.run(t, "", "reset", "copied")
		assert.ErrorIs(t, err, store.ErrNoResetPoint)
	})

	t.Run("delete removes the reset point", func(t *testing.T) {
		env.mustRun(t, "delete", "g1", "--yes", "-q")
		assert.NoFileExists(t, filepath.Join(env.saveDir, "g1.mze"+store.ResetSuffix))
	})
}
