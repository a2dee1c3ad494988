package response

import (
	"errors"
	"io"
	"strings"
)

var ErrAlreadyWritten = errors.New("response already written")

const charset = "charset=UTF-8"

// Writer writes exactly one response to a connection and then closes it.
// There is no Content-Length; the peer reads until the connection closes.
type Writer struct {
	w          io.Writer
	written    bool
	statusCode StatusCode
	hadError   bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Format serializes a response: status line, one Content-Type header, a
// blank line and the body verbatim.
func Format(version string, code StatusCode, contentType, body string) []byte {
	var b strings.Builder
	b.Grow(len(version) + len(contentType) + len(body) + 64)

	b.WriteString(version)
	b.WriteByte(' ')
	b.WriteString(code.String())
	b.WriteString("\r\n")
	b.WriteString("Content-Type: ")
	b.WriteString(contentType)
	b.WriteByte(';')
	b.WriteString(charset)
	b.WriteString("\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return []byte(b.String())
}

// Respond writes the whole response in one call and closes the underlying
// writer if it is an io.Closer. A second call returns ErrAlreadyWritten.
func (w *Writer) Respond(version string, code StatusCode, contentType, body string) error {
	if w.written {
		return ErrAlreadyWritten
	}
	w.written = true
	w.statusCode = code

	_, err := w.w.Write(Format(version, code, contentType, body))
	if err != nil {
		w.hadError = true
	}

	if c, ok := w.w.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Written reports whether a response has been sent
func (w *Writer) Written() bool {
	return w.written
}

func (w *Writer) HadError() bool {
	return w.hadError
}

// StatusCode returns the code of the sent response, or 0 if none was sent
func (w *Writer) StatusCode() StatusCode {
	return w.statusCode
}
