package request

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Brownie44l1/boardgate/internal/headers"
)

var (
	ErrMalformedHeader      = errors.New("malformed header")
	ErrInvalidContentLength = errors.New("invalid Content-Length")
	crlf                    = []byte("\r\n")
)

// Request is the descriptor built once per connection from the header block.
// A Request returned by Parse always has a resolved Accept.
type Request struct {
	Method  Method
	Path    string
	Version Version

	Accept      MediaType
	ContentType MediaType

	// ContentLength is -1 when the header was absent.
	ContentLength int64

	Headers *headers.Headers
	Body    []byte

	// Ignored holds header problems that did not fail the parse: skipped
	// header lines and an unusable Content-Length.
	Ignored []error
}

// Parse builds a Request from a raw header block ending in an empty line.
// Only the request line and Accept can fail it; any failure rejects the
// whole request.
func Parse(raw []byte) (*Request, error) {
	end := bytes.Index(raw, crlf)
	if end == -1 {
		return nil, ErrMalformedRequestLine
	}

	method, path, version, err := parseRequestLine(raw[:end])
	if err != nil {
		return nil, err
	}

	h, err := headers.ParseBlock(raw[end+len(crlf):])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}

	req := &Request{
		Method:        method,
		Path:          path,
		Version:       version,
		ContentLength: -1,
		Headers:       h,
		Ignored:       h.Skipped(),
	}

	accept, ok := h.Get("Accept")
	if !ok {
		return nil, ErrMissingAccept
	}
	if req.Accept, err = parseAccept(accept); err != nil {
		return nil, err
	}

	if ct, ok := h.Get("Content-Type"); ok {
		req.ContentType = parseContentType(ct)
	}

	if cl, ok := h.Get("Content-Length"); ok {
		n, err := strconv.ParseInt(cl, 10, 64)
		if err != nil || n < 0 {
			req.Ignored = append(req.Ignored, fmt.Errorf("%w: %q", ErrInvalidContentLength, cl))
		} else {
			req.ContentLength = n
		}
	}

	return req, nil
}

// IsRoot reports whether the request targets the catalog itself.
func (r *Request) IsRoot() bool {
	return r.Path == "" || r.Path == "/"
}

// Name returns the first path segment after the leading slash. Further
// segments are ignored.
func (r *Request) Name() string {
	name := strings.TrimPrefix(r.Path, "/")
	if i := strings.IndexByte(name, '/'); i != -1 {
		name = name[:i]
	}
	return name
}

// HasBody reports whether a body must be read after the header block.
func (r *Request) HasBody() bool {
	return r.ContentLength > 0
}
