package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ssargent/tilemaze/pkg/codec"
	"github.com/ssargent/tilemaze/pkg/puzzle"
	"github.com/ssargent/tilemaze/pkg/storage"
	"github.com/ssargent/tilemaze/pkg/store"
)

const formatJSON = "json"

func (a *app) jsonOutput() bool {
	return a.format == formatJSON
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// documentSummary is the json form of inspect
type documentSummary struct {
	Path          string         `json:"path"`
	Status        string         `json:"status"`
	Kind          string         `json:"kind,omitempty"`
	PieceCount    int            `json:"piece_count"`
	SegmentCount  int            `json:"segment_count"`
	ElapsedMillis *int64         `json:"elapsed_ms,omitempty"`
	Error         string         `json:"error,omitempty"`
	Pieces        []pieceSummary `json:"pieces,omitempty"`
}

type pieceSummary struct {
	Index    int    `json:"index"`
	Slot     int32  `json:"slot"`
	Place    string `json:"place,omitempty"`
	Rotation int32  `json:"rotation"`
	Segments int    `json:"segments"`
}

func summarize(path string, status codec.Status, doc *codec.Document, decodeErr error, withPieces bool) documentSummary {
	s := documentSummary{Path: path, Status: status.String()}
	if decodeErr != nil {
		s.Status = codec.StatusCorrupt.String()
		s.Error = decodeErr.Error()
		return s
	}
	if doc == nil {
		return s
	}

	s.Kind = doc.Kind.String()
	s.PieceCount = doc.PieceCount()
	s.SegmentCount = doc.SegmentCount()
	if elapsed, ok := doc.Elapsed(); ok {
		ms := elapsed.Milliseconds()
		s.ElapsedMillis = &ms
	}
	if withPieces {
		n := doc.PieceCount()
		for i, p := range doc.Pieces {
			ps := pieceSummary{Index: i, Slot: p.SlotID, Rotation: p.Rotation, Segments: len(p.Segments)}
			if doc.Kind == codec.KindSave {
				if slot, err := puzzle.SlotFromID(p.SlotID, n); err == nil {
					ps.Place = slot.String()
				}
			}
			s.Pieces = append(s.Pieces, ps)
		}
	}
	return s
}

func (a *app) outputSummary(s documentSummary) error {
	if a.jsonOutput() {
		return writeJSON(a.out, s)
	}

	w := newTable(a.out)
	fmt.Fprintf(w, "Path:\t%s\n", s.Path)
	fmt.Fprintf(w, "Status:\t%s\n", s.Status)
	if s.Error != "" {
		fmt.Fprintf(w, "Error:\t%s\n", s.Error)
	}
	if s.Kind != "" {
		fmt.Fprintf(w, "Kind:\t%s\n", s.Kind)
		fmt.Fprintf(w, "Pieces:\t%d\n", s.PieceCount)
		fmt.Fprintf(w, "Segments:\t%d\n", s.SegmentCount)
	}
	if s.ElapsedMillis != nil {
		fmt.Fprintf(w, "Elapsed:\t%s\n", puzzle.FormatElapsed(time.Duration(*s.ElapsedMillis)*time.Millisecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(s.Pieces) > 0 {
		fmt.Fprintln(a.out)
		w = newTable(a.out)
		fmt.Fprintln(w, "PIECE\tSLOT\tPLACE\tROTATION\tSEGMENTS")
		for _, p := range s.Pieces {
			fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%d\n", p.Index, p.Slot, p.Place, p.Rotation, p.Segments)
		}
		return w.Flush()
	}
	return nil
}

// gameView is the json form of a game after a play command
type gameView struct {
	Path          string  `json:"path"`
	Board         [][]int `json:"board"`
	Rack          []int   `json:"rack"`
	Solved        bool    `json:"solved"`
	ElapsedMillis int64   `json:"elapsed_ms"`
}

func (a *app) outputGame(path string, g *puzzle.Game) error {
	n := g.PieceCount()
	rack := make([]int, n)
	for i := range rack {
		rack[i] = -1
		if id, ok := g.PieceAt(int32(i)); ok {
			rack[i] = id
		}
	}

	if a.jsonOutput() {
		return writeJSON(a.out, gameView{
			Path:          path,
			Board:         g.Board(),
			Rack:          rack,
			Solved:        g.Solved(),
			ElapsedMillis: g.Clock().Millis(),
		})
	}

	if a.quiet {
		return nil
	}
	fmt.Fprintf(a.out, "Board (%s):\n", path)
	for _, row := range g.Board() {
		fmt.Fprintf(a.out, "  %s\n", formatCells(g, row))
	}
	fmt.Fprintf(a.out, "Rack:\n  %s\n", formatCells(g, rack))
	fmt.Fprintf(a.out, "Elapsed: %s\n", g.Clock().Format())
	if g.Solved() {
		fmt.Fprintf(a.out, "Solved in %s!\n", g.Clock().Format())
	}
	return nil
}

// formatCells renders piece ids with their quarter turns, e.g. 3^1
func formatCells(g *puzzle.Game, ids []int) string {
	cells := make([]string, len(ids))
	for i, id := range ids {
		if id < 0 {
			cells[i] = "  . "
			continue
		}
		p, err := g.Piece(id)
		if err != nil {
			cells[i] = "  ? "
			continue
		}
		cells[i] = fmt.Sprintf("%2d^%d", id, p.QuarterTurns())
	}
	return strings.Join(cells, " ")
}

func (a *app) outputEntries(entries []store.Entry) error {
	if a.jsonOutput() {
		if entries == nil {
			entries = []store.Entry{}
		}
		return writeJSON(a.out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No maze files found")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "NAME\tSTATUS\tSIZE\tMODIFIED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Name, e.State, e.Size, e.ModTime.Format(time.RFC3339))
	}
	return w.Flush()
}

func (a *app) outputArchive(entries []storage.ArchiveEntry) error {
	if a.jsonOutput() {
		if entries == nil {
			entries = []storage.ArchiveEntry{}
		}
		return writeJSON(a.out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No archived saves found")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tARCHIVED\tPIECES\tELAPSED\tSIZE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\n",
			e.ID,
			e.ArchivedAt.Format(time.RFC3339),
			e.PieceCount,
			puzzle.FormatElapsed(time.Duration(e.ElapsedMillis)*time.Millisecond),
			e.Size)
	}
	return w.Flush()
}
