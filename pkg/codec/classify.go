package codec

import (
	"errors"
	"fmt"
	"io"
)

// Status is the outcome of probing a file for a recognizable magic
type Status int

const (
	StatusNotFound Status = iota
	StatusDefinition
	StatusSave
	StatusCorrupt
)

func (s Status) String() string {
	switch s {
	case StatusNotFound:
		return "not-found"
	case StatusDefinition:
		return "definition"
	case StatusSave:
		return "save"
	case StatusCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Kind maps a loadable status to its document kind
func (s Status) Kind() (Kind, bool) {
	switch s {
	case StatusDefinition:
		return KindDefinition, true
	case StatusSave:
		return KindSave, true
	default:
		return 0, false
	}
}

// Classify reads the first 4 bytes of path. Missing or unreadable files
// are StatusNotFound; files that are too short or carry another magic are
// StatusCorrupt. It never modifies the file.
func Classify(path string) Status {
	f, err := openMaze(path)
	if err != nil {
		return StatusNotFound
	}
	defer f.Close()

	status, err := ClassifyReader(f)
	if err != nil {
		return StatusNotFound
	}
	return status
}

// ClassifyReader reads exactly 4 bytes from r and classifies them. Only
// transport failures are returned as errors.
func ClassifyReader(r io.Reader) (Status, error) {
	fr := &fieldReader{r: r}
	kind, err := fr.magic()
	switch {
	case err == nil && kind == KindDefinition:
		return StatusDefinition, nil
	case err == nil:
		return StatusSave, nil
	case errors.Is(err, ErrUnknownFormat), errors.Is(err, ErrTruncated):
		return StatusCorrupt, nil
	default:
		return StatusNotFound, err
	}
}
