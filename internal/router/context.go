package router

import (
	"github.com/Brownie44l1/boardgate/internal/request"
	"github.com/Brownie44l1/boardgate/internal/response"
)

// Context carries one parsed request and the writer for its single response.
type Context struct {
	Request  *request.Request
	Response *response.Writer
	Family   Family
}

// NewContext creates a new context
func NewContext(req *request.Request, resp *response.Writer) *Context {
	return &Context{
		Request:  req,
		Response: resp,
		Family:   FamilyOf(req.Accept),
	}
}

// Method returns the request verb
func (c *Context) Method() request.Method {
	return c.Request.Method
}

// Path returns the request path
func (c *Context) Path() string {
	return c.Request.Path
}

// Name returns the board entry addressed by the path
func (c *Context) Name() string {
	return c.Request.Name()
}

// IsRoot reports whether the path addresses the whole catalog
func (c *Context) IsRoot() bool {
	return c.Request.IsRoot()
}

// Body returns the request body as bytes
func (c *Context) Body() []byte {
	return c.Request.Body
}

// Respond sends body with the family's media type and the request's version
func (c *Context) Respond(code response.StatusCode, body string) error {
	return c.write(code, c.Family.MediaType(), body)
}

// HTML sends an HTML response
func (c *Context) HTML(code response.StatusCode, body string) error {
	return c.write(code, request.MediaHTML, body)
}

// JSON sends a JSON response
func (c *Context) JSON(code response.StatusCode, body string) error {
	return c.write(code, request.MediaJSON, body)
}

// Status sends just a status code with no body
func (c *Context) Status(code response.StatusCode) error {
	return c.Respond(code, "")
}

func (c *Context) write(code response.StatusCode, media request.MediaType, body string) error {
	return c.Response.Respond(c.Request.Version.ResponseString(), code, media.String(), body)
}
