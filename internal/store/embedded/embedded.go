// Package embedded runs an in-process Redis-compatible server so the chat
// client can work without an external Redis.
package embedded

import (
	"fmt"
	"sync"

	"github.com/alicebob/miniredis/v2"
)

// Protocol is the RESP version clients should use against the embedded server.
const Protocol = 2

// Server is a running in-process store.
type Server struct {
	mr   *miniredis.Miniredis
	once sync.Once
}

// Start launches the server on a random local port.
func Start() (*Server, error) {
	mr, err := miniredis.Run()
	if err != nil {
		return nil, fmt.Errorf("start embedded redis: %w", err)
	}
	return &Server{mr: mr}, nil
}

// Addr returns host:port for clients.
func (s *Server) Addr() string {
	return s.mr.Addr()
}

// Close stops the server and drops all data. Safe to call more than once.
func (s *Server) Close() {
	s.once.Do(s.mr.Close)
}
