package server

import (
	"fmt"
	"time"
)

// DefaultPort is the port served when none is given
const DefaultPort = 4242

// Config holds the limits and address of a Server.
type Config struct {
	Addr string

	// MaxHeaderBytes bounds the header block; larger blocks get 400.
	MaxHeaderBytes int

	// MaxBodyBytes bounds the body. A larger Content-Length is logged and the
	// request is dispatched with an empty body.
	MaxBodyBytes int64

	// ReadTimeout and WriteTimeout bound each connection. Zero means no
	// deadline, so a silent peer holds the loop until it closes.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Before closing, the server half-closes its side and discards up to
	// MaxDrainBytes of unread input for at most DrainTimeout. Either one
	// being zero closes at once.
	MaxDrainBytes int64
	DrainTimeout  time.Duration
}

// DefaultConfig returns the configuration used by the CLI
func DefaultConfig() Config {
	return Config{
		Addr:           fmt.Sprintf(":%d", DefaultPort),
		MaxHeaderBytes: 8 << 10,
		MaxBodyBytes:   1000,
		MaxDrainBytes:  64 << 10,
		DrainTimeout:   time.Second,
	}
}
