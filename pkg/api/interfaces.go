// Package api provides interfaces for dependency injection
package api

import (
	"context"
	"log/slog"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/tilemaze/pkg/codec"
	"github.com/ssargent/tilemaze/pkg/storage"
)

// DefinitionSource supplies the maze definition new games start from
type DefinitionSource interface {
	LoadDefault() (*codec.Document, error)
}

// SaveArchive stores encoded saves
type SaveArchive interface {
	Put(data []byte) (ksuid.KSUID, error)
	Get(id ksuid.KSUID) ([]byte, error)
	Delete(id ksuid.KSUID) error
	List() ([]storage.ArchiveEntry, error)
}

// Dependencies are the collaborators a server is built from
type Dependencies struct {
	Definitions DefinitionSource
	Archive     SaveArchive
	Logger      *slog.Logger
}

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves until ctx is cancelled or the listener fails
	StartServer(ctx context.Context, deps Dependencies, config ServerConfig) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
