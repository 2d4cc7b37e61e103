package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ssargent/tilemaze/pkg/codec"
	"github.com/ssargent/tilemaze/pkg/puzzle"
	"github.com/ssargent/tilemaze/pkg/storage"
)

const defaultMaxBodySize = 1 << 20

// Server holds the API server state
type Server struct {
	sessions    *SessionRegistry
	definitions DefinitionSource
	archive     SaveArchive
	codec       *codec.MazeCodec
	config      ServerConfig
	metrics     *Metrics
	logger      *slog.Logger

	rngMutex sync.Mutex
	rng      *rand.Rand
}

// NewServer creates a new API server
func NewServer(deps Dependencies, config ServerConfig, metrics *Metrics) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = defaultMaxBodySize
	}

	seed := config.ShuffleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Server{
		sessions:    NewSessionRegistry(metrics.SetActiveSessions),
		definitions: deps.Definitions,
		archive:     deps.Archive,
		codec:       codec.NewMazeCodec(),
		config:      config,
		metrics:     metrics,
		logger:      logger,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// shuffler returns a source for one shuffle. An explicit seed gives a
// reproducible deal; otherwise the server's shared source is advanced.
func (s *Server) shuffler(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	s.rngMutex.Lock()
	defer s.rngMutex.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, codec.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, puzzle.ErrSlotOccupied):
		return http.StatusConflict
	case errors.Is(err, puzzle.ErrUnknownPiece),
		errors.Is(err, puzzle.ErrUnknownSlot):
		return http.StatusBadRequest
	case errors.Is(err, codec.ErrUnknownFormat),
		errors.Is(err, codec.ErrTruncated),
		errors.Is(err, codec.ErrMalformed),
		errors.Is(err, storage.ErrInvalidSave),
		errors.Is(err, puzzle.ErrWrongKind),
		errors.Is(err, puzzle.ErrInvalidLayout),
		errors.Is(err, puzzle.ErrPieceCount):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	sendError(w, err.Error(), code)
}

func (s *Server) readMaze(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return body, nil
}

func (s *Server) decode(data []byte) (*codec.Document, error) {
	start := time.Now()
	doc, err := s.codec.Decode(bytes.NewReader(data))
	s.metrics.RecordCodecOperation("decode", err == nil, time.Since(start))
	return doc, err
}

func (s *Server) encode(g *puzzle.Game) ([]byte, error) {
	start := time.Now()
	data, err := s.codec.EncodeSource(g)
	s.metrics.RecordCodecOperation("encode", err == nil, time.Since(start))
	return data, err
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]interface{}{
		"status":   "healthy",
		"sessions": s.sessions.Len(),
	})
}

// handleCreateGame godoc
//
//	@Summary		Start a game
//	@Description	Shuffle the default maze definition into a new game session
//	@Tags			games
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NewGameRequest	false	"Optional shuffle seed"
//	@Success		201		{object}	GameState
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/games [post]
//	@Security		ApiKeyAuth
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			sendError(w, "Invalid JSON request", http.StatusBadRequest)
			return
		}
	}

	start := time.Now()
	def, err := s.definitions.LoadDefault()
	s.metrics.RecordCodecOperation("decode", err == nil, time.Since(start))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	game, err := puzzle.NewGame(def)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	game.Shuffle(s.shuffler(req.Seed))

	session := s.sessions.Create(game)
	s.logger.Info("game created", "session", session.ID, "pieces", game.PieceCount())
	sendCreated(w, newGameState(session.ID.String(), game))
}

// handleImportGame godoc
//
//	@Summary		Import a maze file
//	@Description	Start a session from an uploaded .mze document. Definitions are shuffled, saves resume paused at their saved time.
//	@Tags			games
//	@Accept			octet-stream
//	@Produce		json
//	@Param			seed	query		int		false	"Shuffle seed for definitions"
//	@Param			body	body		[]byte	true	".mze document"
//	@Success		201		{object}	GameState
//	@Failure		422		{object}	map[string]string
//	@Router			/games/import [post]
//	@Security		ApiKeyAuth
func (s *Server) handleImportGame(w http.ResponseWriter, r *http.Request) {
	data, err := s.readMaze(w, r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var seed *int64
	if v := r.URL.Query().Get("seed"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			sendError(w, "Invalid seed", http.StatusBadRequest)
			return
		}
		seed = &parsed
	}

	doc, err := s.decode(data)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	game, err := puzzle.FromDocument(doc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if doc.Kind == codec.KindDefinition {
		game.Shuffle(s.shuffler(seed))
	}

	session := s.sessions.Create(game)
	s.logger.Info("game imported", "session", session.ID, "kind", doc.Kind.String())
	sendCreated(w, newGameState(session.ID.String(), game))
}

// handleGetGame godoc
//
//	@Summary		Get a game
//	@Tags			games
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	GameState
//	@Failure		404	{object}	map[string]string
//	@Router			/games/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *puzzle.Game) error { return nil })
}

// handleDeleteGame godoc
//
//	@Summary		End a game session
//	@Tags			games
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/games/{id} [delete]
//	@Security		ApiKeyAuth
func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	sendSuccess(w, map[string]string{"message": "Game session deleted"})
}

// handleMove godoc
//
//	@Summary		Move a piece
//	@Description	Move a piece into an empty rack or board slot
//	@Tags			games
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Session ID"
//	@Param			body	body		MoveRequest	true	"Piece and target slot"
//	@Success		200		{object}	GameState
//	@Failure		400		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Router			/games/{id}/moves [post]
//	@Security		ApiKeyAuth
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}
	s.withGame(w, r, func(g *puzzle.Game) error {
		return s.play(g, func() error { return g.Move(req.Piece, req.Slot) })
	})
}

// handleRotate godoc
//
//	@Summary		Rotate a piece
//	@Description	Turn a piece a quarter turn clockwise
//	@Tags			games
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session ID"
//	@Param			body	body		RotateRequest	true	"Piece"
//	@Success		200		{object}	GameState
//	@Failure		400		{object}	map[string]string
//	@Router			/games/{id}/rotations [post]
//	@Security		ApiKeyAuth
func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	var req RotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}
	s.withGame(w, r, func(g *puzzle.Game) error {
		return s.play(g, func() error { return g.Rotate(req.Piece) })
	})
}

// play applies one move and counts the game when it becomes solved
func (s *Server) play(g *puzzle.Game, move func() error) error {
	wasSolved := g.Solved()
	if err := move(); err != nil {
		return err
	}
	if !wasSolved && g.Solved() {
		s.metrics.RecordGameSolved()
		s.logger.Info("game solved", "elapsed", g.Clock().Format())
	}
	return nil
}

// handleReset godoc
//
//	@Summary		Reset a game
//	@Description	Put every piece back where the last shuffle or load left it
//	@Tags			games
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	GameState
//	@Router			/games/{id}/reset [post]
//	@Security		ApiKeyAuth
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *puzzle.Game) error {
		g.Reset()
		return nil
	})
}

// handlePause godoc
//
//	@Summary		Pause the clock
//	@Tags			games
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	GameState
//	@Router			/games/{id}/pause [post]
//	@Security		ApiKeyAuth
func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *puzzle.Game) error {
		g.Clock().Stop()
		return nil
	})
}

// handleResume godoc
//
//	@Summary		Resume the clock
//	@Description	Resume the clock of an unsolved game
//	@Tags			games
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	GameState
//	@Router			/games/{id}/resume [post]
//	@Security		ApiKeyAuth
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *puzzle.Game) error {
		if !g.Solved() {
			g.Clock().Start()
		}
		return nil
	})
}

// withGame runs fn on the session's game and responds with its state
func (s *Server) withGame(w http.ResponseWriter, r *http.Request, fn func(g *puzzle.Game) error) {
	session, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var state GameState
	err = session.Do(func(g *puzzle.Game) error {
		if err := fn(g); err != nil {
			return err
		}
		state = newGameState(session.ID.String(), g)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendSuccess(w, state)
}

// handleSaveGame godoc
//
//	@Summary		Download a save
//	@Description	Encode the game as a .mze save file
//	@Tags			games
//	@Produce		octet-stream
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{string}	byte
//	@Failure		404	{object}	map[string]string
//	@Router			/games/{id}/save [get]
//	@Security		ApiKeyAuth
func (s *Server) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var data []byte
	err = session.Do(func(g *puzzle.Game) error {
		encoded, err := s.encode(g)
		if err != nil {
			return err
		}
		data = encoded
		g.MarkSaved()
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendMaze(w, session.ID.String(), data)
}

// handleArchiveGame godoc
//
//	@Summary		Archive a save
//	@Description	Encode the game and store it in the save archive
//	@Tags			archive
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		201	{object}	ArchiveResponse
//	@Failure		404	{object}	map[string]string
//	@Router			/games/{id}/archive [post]
//	@Security		ApiKeyAuth
func (s *Server) handleArchiveGame(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var resp ArchiveResponse
	err = session.Do(func(g *puzzle.Game) error {
		data, err := s.encode(g)
		if err != nil {
			return err
		}
		id, err := s.archive.Put(data)
		if err != nil {
			return err
		}
		g.MarkSaved()
		resp = ArchiveResponse{ID: id.String(), Size: len(data)}
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.metrics.RecordArchived()
	s.logger.Info("save archived", "session", session.ID, "archive_id", resp.ID)
	sendCreated(w, resp)
}

// handleRestoreGame godoc
//
//	@Summary		Restore an archived save
//	@Description	Load an archived save into an existing session. The session is left unchanged when the save does not fit.
//	@Tags			archive
//	@Produce		json
//	@Param			id			path		string	true	"Session ID"
//	@Param			archiveID	path		string	true	"Archive ID"
//	@Success		200			{object}	GameState
//	@Failure		404			{object}	map[string]string
//	@Failure		422			{object}	map[string]string
//	@Router			/games/{id}/restore/{archiveID} [post]
//	@Security		ApiKeyAuth
func (s *Server) handleRestoreGame(w http.ResponseWriter, r *http.Request) {
	id, err := storage.ParseID(chi.URLParam(r, "archiveID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := s.archive.Get(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.decode(data)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.withGame(w, r, func(g *puzzle.Game) error {
		return g.Restore(doc)
	})
}

// handleListArchive godoc
//
//	@Summary		List archived saves
//	@Tags			archive
//	@Produce		json
//	@Success		200	{array}		storage.ArchiveEntry
//	@Failure		500	{object}	map[string]string
//	@Router			/archive [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListArchive(w http.ResponseWriter, r *http.Request) {
	entries, err := s.archive.List()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []storage.ArchiveEntry{}
	}
	sendSuccess(w, entries)
}

// handleGetArchived godoc
//
//	@Summary		Download an archived save
//	@Tags			archive
//	@Produce		octet-stream
//	@Param			id	path		string	true	"Archive ID"
//	@Success		200	{string}	byte
//	@Failure		404	{object}	map[string]string
//	@Router			/archive/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetArchived(w http.ResponseWriter, r *http.Request) {
	id, err := storage.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := s.archive.Get(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendMaze(w, id.String(), data)
}

// handleDeleteArchived godoc
//
//	@Summary		Delete an archived save
//	@Tags			archive
//	@Produce		json
//	@Param			id	path		string	true	"Archive ID"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/archive/{id} [delete]
//	@Security		ApiKeyAuth
func (s *Server) handleDeleteArchived(w http.ResponseWriter, r *http.Request) {
	id, err := storage.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.archive.Delete(id); err != nil {
		s.fail(w, r, err)
		return
	}
	sendSuccess(w, map[string]string{"message": "Archived save deleted"})
}

// handleInspect godoc
//
//	@Summary		Inspect a maze file
//	@Description	Classify an uploaded .mze document and summarize its contents. Corrupt documents are reported, not rejected.
//	@Tags			maze
//	@Accept			octet-stream
//	@Produce		json
//	@Param			pieces	query		bool	false	"Include per-piece detail"
//	@Param			body	body		[]byte	true	".mze document"
//	@Success		200		{object}	InspectResult
//	@Failure		400		{object}	map[string]string
//	@Router			/inspect [post]
//	@Security		ApiKeyAuth
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	data, err := s.readMaze(w, r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	status, err := codec.ClassifyReader(bytes.NewReader(data))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result := InspectResult{Status: status.String()}
	if _, ok := status.Kind(); ok {
		doc, err := s.decode(data)
		if err != nil {
			result.Status = codec.StatusCorrupt.String()
			result.Error = err.Error()
		} else {
			result.Kind = doc.Kind.String()
			result.PieceCount = doc.PieceCount()
			result.SegmentCount = doc.SegmentCount()
			if elapsed, ok := doc.Elapsed(); ok {
				ms := elapsed.Milliseconds()
				result.ElapsedMillis = &ms
			}
			if r.URL.Query().Get("pieces") == "true" {
				result.Pieces = documentPieces(doc)
			}
		}
	}
	sendSuccess(w, result)
}

func documentPieces(doc *codec.Document) []PieceState {
	n := doc.PieceCount()
	pieces := make([]PieceState, 0, n)
	for i, p := range doc.Pieces {
		ps := PieceState{ID: i, Slot: p.SlotID, Rotation: p.Rotation, Segments: p.Segments}
		if doc.Kind == codec.KindSave {
			if slot, err := puzzle.SlotFromID(p.SlotID, n); err == nil {
				ps.SlotKind = slot.Kind.String()
				ps.SlotIndex = slot.Index
			}
		}
		pieces = append(pieces, ps)
	}
	return pieces
}
