package gateway

import (
	"strings"

	"github.com/Brownie44l1/boardgate/internal/board"
	"github.com/Brownie44l1/boardgate/internal/response"
	"github.com/Brownie44l1/boardgate/internal/router"
	"github.com/Brownie44l1/boardgate/internal/server"
)

func (g *Gateway) getHTML(c *router.Context) {
	if c.IsRoot() {
		g.monitorHTML(c)
		return
	}
	g.editorHTML(c)
}

// monitorHTML renders one row per catalog name. Live updates are polled by
// the page itself from the JSON view.
func (g *Gateway) monitorHTML(c *router.Context) {
	names := g.board.Names()
	page := monitorPage{Rows: make([]monitorRow, 0, len(names))}
	for _, name := range names {
		value := g.board.Get(name)
		row := monitorRow{Name: name}
		if value != board.Unsupported {
			row.Parsable = true
			row.Value = value
		}
		page.Rows = append(page.Rows, row)
	}
	g.render(c, "monitor", page)
}

// editorHTML renders a form pre-filled with the current value. Submitting it
// posts to the JSON write path.
func (g *Gateway) editorHTML(c *router.Context) {
	name := c.Name()
	g.render(c, "editor", editorPage{Name: name, Value: g.board.Get(name)})
}

func (g *Gateway) usage(c *router.Context) {
	g.render(c, "usage", usagePage{Count: len(g.board.Names())})
}

func (g *Gateway) render(c *router.Context, page string, data any) {
	var b strings.Builder
	if err := pages.ExecuteTemplate(&b, page, data); err != nil {
		g.logger.Error("render page", server.Field{Key: "page", Value: page}, server.Field{Key: "error", Value: err})
		c.HTML(response.StatusInternalServerError, "")
		return
	}
	c.HTML(response.StatusOK, b.String())
}
