package store

import (
	"log/slog"
	"time"

	"github.com/ssargent/tilemaze/pkg/codec"
)

// Extension is the file extension of maze documents
const Extension = ".mze"

// ResetSuffix is appended to a save's path for the file holding the
// layout the game was dealt with. It is a save document itself.
const ResetSuffix = ".reset"

// FileStoreConfig holds configuration for the file store
type FileStoreConfig struct {
	Dir         string       // Directory saves are written to and names resolve against
	MazeDir     string       // Directory holding definition files
	DefaultMaze string       // Definition loaded at startup, relative to MazeDir
	BufferSize  int          // Read/write buffer size (0 = 64KB)
	Logger      *slog.Logger // Optional; discards when nil
}

// OverwriteFunc is asked before an existing file is replaced. Returning
// false keeps the file and fails the save with ErrOverwriteDeclined.
type OverwriteFunc func(path string) bool

// AlwaysOverwrite confirms every overwrite
func AlwaysOverwrite(string) bool { return true }

// Entry describes one .mze file in the store directory
type Entry struct {
	Name    string       `json:"name"`
	Path    string       `json:"path"`
	Status  codec.Status `json:"-"`
	State   string       `json:"status"`
	Size    int64        `json:"size"`
	ModTime time.Time    `json:"mod_time"`
}

// RecoveryResult reports what Recover cleaned up
type RecoveryResult struct {
	TempFilesRemoved int           `json:"temp_files_removed"`
	RecoveryTime     time.Duration `json:"recovery_time"`
}

// Errors
var (
	ErrOverwriteDeclined = &StoreError{"overwrite declined"}
	ErrNotSave           = &StoreError{"not a saved game"}
	ErrNotDefinition     = &StoreError{"not a maze definition"}
	ErrInvalidName       = &StoreError{"invalid file name"}
	ErrNoResetPoint      = &StoreError{"no reset point recorded"}
)

// StoreError represents a file store error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
