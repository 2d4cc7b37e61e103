package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ssargent/tilemaze/pkg/codec"
)

const (
	defaultBufferSize = 64 * 1024
	tempPattern       = ".*.tmp"
)

// FileStore loads and saves .mze documents on the local filesystem.
// Saves are atomic: the document is written to a temp file, synced and
// renamed over the destination.
type FileStore struct {
	config FileStoreConfig
	codec  *codec.MazeCodec
	logger *slog.Logger
	mutex  sync.Mutex
}

// NewFileStore creates the store directory if needed
func NewFileStore(config FileStoreConfig) (*FileStore, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("%w: store directory is empty", ErrInvalidName)
	}
	if err := os.MkdirAll(config.Dir, 0750); err != nil {
		return nil, err
	}
	if config.BufferSize <= 0 {
		config.BufferSize = defaultBufferSize
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &FileStore{
		config: config,
		codec:  codec.NewMazeCodec(),
		logger: logger,
	}, nil
}

// Dir returns the store directory
func (s *FileStore) Dir() string {
	return s.config.Dir
}

// Resolve maps a name to a path. Bare names are placed in the store
// directory and get the .mze extension when they have none; names with a
// directory component are used as given.
func (s *FileStore) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if filepath.Ext(name) == "" {
		name += Extension
	}
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) || strings.Contains(name, "/") {
		return filepath.Clean(name), nil
	}
	return filepath.Join(s.config.Dir, name), nil
}

// Classify reads the magic of name without loading it
func (s *FileStore) Classify(name string) codec.Status {
	path, err := s.Resolve(name)
	if err != nil {
		return codec.StatusNotFound
	}
	return codec.Classify(path)
}

// Load decodes name. Missing files yield codec.ErrNotFound and the
// current game is expected to stay as it is.
func (s *FileStore) Load(name string) (*codec.Document, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.load(path)
}

func (s *FileStore) load(path string) (*codec.Document, error) {
	doc, err := s.codec.DecodeFileSize(path, s.config.BufferSize)
	if err != nil {
		s.logger.Debug("maze decode failed", "path", path, "error", err)
		return nil, err
	}

	for i, p := range doc.Pieces {
		if doc.Kind == codec.KindSave && (p.Rotation < 0 || p.Rotation > 3) {
			s.logger.Debug("rotation outside 0..3 kept as stored",
				"path", path, "piece", i, "rotation", p.Rotation)
		}
	}

	s.logger.Debug("maze loaded", "path", path, "kind", doc.Kind.String(), "pieces", doc.PieceCount())
	return doc, nil
}

// LoadSave loads name and requires it to be a saved game
func (s *FileStore) LoadSave(name string) (*codec.Document, error) {
	doc, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	if doc.Kind != codec.KindSave {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotSave, name, doc.Kind)
	}
	return doc, nil
}

// LoadDefault loads the conventional definition from the maze directory
func (s *FileStore) LoadDefault() (*codec.Document, error) {
	name := s.config.DefaultMaze
	if name == "" {
		name = "default" + Extension
	}
	path := filepath.Join(s.config.MazeDir, name)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc, err := s.load(path)
	if err != nil {
		return nil, err
	}
	if doc.Kind != codec.KindDefinition {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotDefinition, path, doc.Kind)
	}
	return doc, nil
}

// Save writes the current state of src to name and returns the final
// path. An existing file is only replaced when confirm agrees; a nil
// confirm declines every overwrite.
func (s *FileStore) Save(name string, src codec.SaveSource, confirm OverwriteFunc) (string, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return "", err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return "", fmt.Errorf("%w: %s is a directory", ErrInvalidName, path)
	case err == nil:
		if confirm == nil || !confirm(path) {
			return "", fmt.Errorf("%w: %s", ErrOverwriteDeclined, path)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %w", codec.ErrIO, err)
	}

	pieces, elapsed := src.Snapshot()
	if err := s.writeAtomic(path, pieces, elapsed); err != nil {
		return "", err
	}

	s.logger.Info("game saved", "path", path, "pieces", len(pieces), "elapsed_ms", elapsed)
	return path, nil
}

func (s *FileStore) writeAtomic(path string, pieces []codec.Piece, elapsed int64) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("%w: %w", codec.ErrIO, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+tempPattern)
	if err != nil {
		return fmt.Errorf("%w: %w", codec.ErrIO, err)
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriterSize(tmp, s.config.BufferSize)
	if _, err := s.codec.WriteSave(w, pieces, elapsed); err != nil {
		return fail(err)
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("%w: %w", codec.ErrIO, err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("%w: %w", codec.ErrIO, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", codec.ErrIO, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", codec.ErrIO, err)
	}
	return nil
}

// List returns the .mze files in the store directory sorted by name
func (s *FileStore) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.config.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrIO, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != Extension {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(s.config.Dir, de.Name())
		status := codec.Classify(path)
		entries = append(entries, Entry{
			Name:    de.Name(),
			Path:    path,
			Status:  status,
			State:   status.String(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Delete removes name from disk together with its reset point
func (s *FileStore) Delete(name string) error {
	path, err := s.Resolve(name)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", codec.ErrNotFound, path)
		}
		return fmt.Errorf("%w: %w", codec.ErrIO, err)
	}
	if err := os.Remove(path + ResetSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove reset point", "path", path+ResetSuffix, "error", err)
	}
	return nil
}

// SaveResetPoint records the layout of src as the reset layout of the
// save called name, replacing any earlier one
func (s *FileStore) SaveResetPoint(name string, src codec.SaveSource) error {
	path, err := s.Resolve(name)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	pieces, elapsed := src.Snapshot()
	return s.writeAtomic(path+ResetSuffix, pieces, elapsed)
}

// LoadResetPoint loads the reset layout recorded for the save called
// name. Saves written without one yield ErrNoResetPoint.
func (s *FileStore) LoadResetPoint(name string) (*codec.Document, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc, err := s.load(path + ResetSuffix)
	if err != nil {
		if errors.Is(err, codec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoResetPoint, path)
		}
		return nil, err
	}
	if doc.Kind != codec.KindSave {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotSave, path+ResetSuffix, doc.Kind)
	}
	return doc, nil
}

// Recover removes temp files left behind by an interrupted save
func (s *FileStore) Recover() (*RecoveryResult, error) {
	start := time.Now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	matches, err := filepath.Glob(filepath.Join(s.config.Dir, "*"+tempPattern))
	if err != nil {
		return nil, err
	}

	result := &RecoveryResult{}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", codec.ErrIO, err)
		}
		result.TempFilesRemoved++
		s.logger.Warn("removed interrupted save", "path", m)
	}
	result.RecoveryTime = time.Since(start)
	return result, nil
}
