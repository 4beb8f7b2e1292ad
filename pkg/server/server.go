package server

import (
	"context"

	"github.com/toastate/buildgen/internal/server"
)

type Server interface {
	Start(ctx context.Context, watch bool) error
}

// NewServer serves the given mounts (mount name to directory) on port
func NewServer(mounts map[string]string, port string) Server {
	return server.NewServer(mounts, port)
}
