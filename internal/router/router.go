package router

import (
	"github.com/Brownie44l1/boardgate/internal/request"
	"github.com/Brownie44l1/boardgate/internal/response"
)

// Family is the representation chosen from the Accept header.
type Family int

const (
	FamilyHTML Family = iota
	FamilyJSON
)

// FamilyOf maps a negotiated media type to its family. "*/*" is served as HTML.
func FamilyOf(m request.MediaType) Family {
	if m == request.MediaJSON {
		return FamilyJSON
	}
	return FamilyHTML
}

// MediaType is the concrete type written on responses of the family.
func (f Family) MediaType() request.MediaType {
	if f == FamilyJSON {
		return request.MediaJSON
	}
	return request.MediaHTML
}

func (f Family) String() string {
	if f == FamilyJSON {
		return "json"
	}
	return "html"
}

// Handler handles one request
type Handler func(c *Context)

// Noop answers nothing; the connection is closed without a response.
func Noop(c *Context) {}

// Router dispatches first on representation family, then on verb.
type Router struct {
	routes   map[Family]map[request.Method]Handler
	fallback Handler
}

// New creates a new router
func New() *Router {
	return &Router{
		routes: make(map[Family]map[request.Method]Handler),
	}
}

// Handle registers a handler for a family and verb
func (r *Router) Handle(f Family, m request.Method, h Handler) {
	if r.routes[f] == nil {
		r.routes[f] = make(map[request.Method]Handler)
	}
	r.routes[f][m] = h
}

// HTML is a shortcut for Handle(FamilyHTML, ...)
func (r *Router) HTML(m request.Method, h Handler) {
	r.Handle(FamilyHTML, m, h)
}

// JSON is a shortcut for Handle(FamilyJSON, ...)
func (r *Router) JSON(m request.Method, h Handler) {
	r.Handle(FamilyJSON, m, h)
}

// Fallback sets the handler for verbs no family registered
func (r *Router) Fallback(h Handler) {
	r.fallback = h
}

// Lookup finds the handler for a family and verb, falling back when set.
func (r *Router) Lookup(f Family, m request.Method) (Handler, bool) {
	if h, ok := r.routes[f][m]; ok {
		return h, true
	}
	if r.fallback != nil {
		return r.fallback, true
	}
	return nil, false
}

// ServeContext dispatches c. Without a matching route or a fallback the
// request gets 501 Not Implemented.
func (r *Router) ServeContext(c *Context) {
	h, ok := r.Lookup(c.Family, c.Method())
	if !ok {
		c.Status(response.StatusNotImplemented)
		return
	}
	h(c)
}
