// Package gateway implements the JSON and HTML views of a board.
package gateway

import (
	"github.com/Brownie44l1/boardgate/internal/board"
	"github.com/Brownie44l1/boardgate/internal/request"
	"github.com/Brownie44l1/boardgate/internal/router"
	"github.com/Brownie44l1/boardgate/internal/server"
)

// Gateway serves one board.
type Gateway struct {
	board  board.Board
	logger server.Logger
}

// New creates a gateway over b. A nil logger discards everything.
func New(b board.Board, logger server.Logger) *Gateway {
	if logger == nil {
		logger = &server.NullLogger{}
	}
	return &Gateway{board: b, logger: logger}
}

// Register installs every route on r.
//
// JSON: GET reads, POST and PATCH write, PUT and DELETE do nothing.
// HTML: only GET renders; the write verbs do nothing.
// Any other verb, under either family, gets the usage page.
func (g *Gateway) Register(r *router.Router) {
	r.JSON(request.MethodGet, g.getJSON)
	r.JSON(request.MethodPost, g.writeJSON)
	r.JSON(request.MethodPatch, g.writeJSON)
	r.JSON(request.MethodPut, router.Noop)
	r.JSON(request.MethodDelete, router.Noop)

	r.HTML(request.MethodGet, g.getHTML)
	r.HTML(request.MethodPost, router.Noop)
	r.HTML(request.MethodPut, router.Noop)
	r.HTML(request.MethodDelete, router.Noop)
	r.HTML(request.MethodPatch, router.Noop)

	r.Fallback(g.usage)
}

// Router returns a new router with the gateway's routes installed.
func (g *Gateway) Router() *router.Router {
	r := router.New()
	g.Register(r)
	return r
}

func (g *Gateway) parsable(name string) bool {
	return g.board.Get(name) != board.Unsupported
}
