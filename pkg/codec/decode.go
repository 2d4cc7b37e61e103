package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// maxPrealloc bounds slice capacity taken from untrusted count fields.
// Larger documents still decode, they just grow by append.
const maxPrealloc = 1024

const defaultReadBuffer = 4096

// MazeCodec decodes .mze documents and encodes saved games
type MazeCodec struct{}

// NewMazeCodec creates a new maze codec instance
func NewMazeCodec() *MazeCodec {
	return &MazeCodec{}
}

// Decode reads one document from r. The stream is consumed strictly in
// order; an unknown magic consumes nothing past the first 4 bytes.
func (c *MazeCodec) Decode(r io.Reader) (*Document, error) {
	fr := &fieldReader{r: r}

	kind, err := fr.magic()
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindDefinition:
		return fr.definition()
	default:
		return fr.save()
	}
}

// DecodeFile opens path, decodes it and closes the file on every path.
// Missing files and directories are ErrNotFound.
func (c *MazeCodec) DecodeFile(path string) (*Document, error) {
	return c.DecodeFileSize(path, defaultReadBuffer)
}

// DecodeFileSize is DecodeFile with a read buffer of size bytes
func (c *MazeCodec) DecodeFileSize(path string, size int) (*Document, error) {
	f, err := openMaze(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if size <= 0 {
		size = defaultReadBuffer
	}
	return c.Decode(bufio.NewReaderSize(f, size))
}

func openMaze(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return f, nil
}

// fieldReader pulls fixed-width big-endian fields off a stream and keeps
// track of the offset for error messages
type fieldReader struct {
	r   io.Reader
	buf [8]byte
	off int64
}

func (fr *fieldReader) read(n int, field string) ([]byte, error) {
	b := fr.buf[:n]
	got, err := io.ReadFull(fr.r, b)
	fr.off += int64(got)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %s at offset %d", ErrTruncated, field, fr.off)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIO, field, err)
	}
	return b, nil
}

func (fr *fieldReader) int32(field string) (int32, error) {
	b, err := fr.read(4, field)
	if err != nil {
		return 0, err
	}
	return Int32(b), nil
}

func (fr *fieldReader) int64(field string) (int64, error) {
	b, err := fr.read(8, field)
	if err != nil {
		return 0, err
	}
	return Int64(b), nil
}

func (fr *fieldReader) float32(field string) (float32, error) {
	b, err := fr.read(4, field)
	if err != nil {
		return 0, err
	}
	return Float32(b), nil
}

func (fr *fieldReader) count(field string) (int, error) {
	v, err := fr.int32(field)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative %s %d at offset %d", ErrMalformed, field, v, fr.off-4)
	}
	return int(v), nil
}

func (fr *fieldReader) magic() (Kind, error) {
	b, err := fr.read(4, "magic")
	if err != nil {
		return 0, err
	}

	var m [4]byte
	copy(m[:], b)
	switch m {
	case magicDefinitionBytes:
		return KindDefinition, nil
	case magicSaveBytes:
		return KindSave, nil
	default:
		return 0, fmt.Errorf("%w: magic %s", ErrUnknownFormat, MagicHex(m))
	}
}

func (fr *fieldReader) definition() (*Document, error) {
	n, err := fr.count("piece count")
	if err != nil {
		return nil, err
	}

	pieces := make([]Piece, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		// Compatibility quirk: an earlier revision of the format left an
		// extra word in front of every piece id. It is not a field.
		if _, err := fr.int32("legacy word"); err != nil {
			return nil, err
		}
		id, err := fr.int32("piece id")
		if err != nil {
			return nil, err
		}
		segments, err := fr.segments()
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, Piece{SlotID: id, Segments: segments})
	}

	return &Document{Kind: KindDefinition, Pieces: pieces}, nil
}

func (fr *fieldReader) save() (*Document, error) {
	n, err := fr.count("piece count")
	if err != nil {
		return nil, err
	}
	elapsed, err := fr.int64("elapsed time")
	if err != nil {
		return nil, err
	}

	pieces := make([]Piece, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		slot, err := fr.int32("slot id")
		if err != nil {
			return nil, err
		}
		rotation, err := fr.int32("rotation")
		if err != nil {
			return nil, err
		}
		segments, err := fr.segments()
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, Piece{SlotID: slot, Rotation: rotation, Segments: segments})
	}

	return &Document{Kind: KindSave, Pieces: pieces, ElapsedMillis: elapsed}, nil
}

func (fr *fieldReader) segments() ([]Segment, error) {
	n, err := fr.count("line count")
	if err != nil {
		return nil, err
	}

	segments := make([]Segment, 0, min(n, maxPrealloc))
	var xy [4]float32
	for j := 0; j < n; j++ {
		for k := range xy {
			v, err := fr.float32("segment coordinate")
			if err != nil {
				return nil, err
			}
			xy[k] = v
		}
		segments = append(segments, Segment{X0: xy[0], Y0: xy[1], X1: xy[2], Y1: xy[3]})
	}
	return segments, nil
}
