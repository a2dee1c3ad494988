package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Brownie44l1/boardgate/internal/percent"
	"github.com/Brownie44l1/boardgate/internal/response"
	"github.com/Brownie44l1/boardgate/internal/router"
	"github.com/Brownie44l1/boardgate/internal/server"
)

// ErrBodyShape is returned for write bodies other than {"value":"<string>"}.
var ErrBodyShape = errors.New(`body must be {"value":"<string>"}`)

type typeEntry struct {
	Type     string `json:"type"`
	Parsable bool   `json:"parsable"`
}

type catalogDoc struct {
	Types []typeEntry `json:"types"`
}

type valueDoc struct {
	Value string `json:"value"`
}

func (g *Gateway) getJSON(c *router.Context) {
	if c.IsRoot() {
		g.listJSON(c)
		return
	}
	g.valueJSON(c)
}

// listJSON reports every catalog name in order with whether it has a
// textual value.
func (g *Gateway) listJSON(c *router.Context) {
	names := g.board.Names()
	doc := catalogDoc{Types: make([]typeEntry, 0, len(names))}
	for _, name := range names {
		doc.Types = append(doc.Types, typeEntry{Type: name, Parsable: g.parsable(name)})
	}
	g.sendJSON(c, doc)
}

// valueJSON reports what the board holds for the addressed name. Unknown
// names echo the board's lookup result.
func (g *Gateway) valueJSON(c *router.Context) {
	g.sendJSON(c, valueDoc{Value: g.board.Get(c.Name())})
}

// writeJSON stores a percent-decoded value and answers with a fresh read of it.
func (g *Gateway) writeJSON(c *router.Context) {
	if c.IsRoot() {
		c.JSON(response.StatusNotImplemented, "")
		return
	}

	name := c.Name()
	raw, err := decodeValueBody(c.Body())
	if err != nil {
		g.logger.Warn("rejected write body", server.Field{Key: "name", Value: name}, server.Field{Key: "error", Value: err})
		c.JSON(response.StatusBadRequest, "")
		return
	}

	value, err := percent.Decode(raw)
	if err != nil {
		g.logger.Warn("rejected write value", server.Field{Key: "name", Value: name}, server.Field{Key: "error", Value: err})
		c.JSON(response.StatusBadRequest, "")
		return
	}

	if !g.board.Set(name, value) {
		g.logger.Warn("write to unknown name", server.Field{Key: "name", Value: name})
		c.JSON(response.StatusBadRequest, "")
		return
	}

	g.valueJSON(c)
}

func (g *Gateway) sendJSON(c *router.Context, v any) {
	body, err := encodeJSON(v)
	if err != nil {
		g.logger.Error("encode response", server.Field{Key: "error", Value: err})
		c.JSON(response.StatusInternalServerError, "")
		return
	}
	c.JSON(response.StatusOK, body)
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// decodeValueBody accepts exactly one JSON object whose only member is
// "value" holding a string. Any other well-formed JSON is rejected.
func decodeValueBody(body []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBodyShape, err)
	}
	if len(fields) != 1 {
		return "", ErrBodyShape
	}

	raw, ok := fields["value"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", ErrBodyShape
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBodyShape, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: trailing data", ErrBodyShape)
	}

	return value, nil
}
