package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	ErrHeaderTooLarge   = errors.New("header block too large")
	ErrIncompleteHeader = errors.New("connection closed before end of header block")
	ErrBodyTooLarge     = errors.New("body exceeds maximum size")
	ErrShortBody        = errors.New("body shorter than Content-Length")
	headerEnd           = []byte("\r\n\r\n")
)

// ReadHeader reads byte by byte until the blank line that ends the header
// block, so nothing past it is consumed from r. A max of zero means no bound.
func ReadHeader(r io.ByteReader, max int) ([]byte, error) {
	buf := make([]byte, 0, 512)

	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return buf, fmt.Errorf("%w (%d bytes read)", ErrIncompleteHeader, len(buf))
			}
			return buf, fmt.Errorf("read header: %w", err)
		}

		buf = append(buf, b)
		if bytes.HasSuffix(buf, headerEnd) {
			return buf, nil
		}

		if max > 0 && len(buf) >= max {
			return buf, ErrHeaderTooLarge
		}
	}
}

// ReadBody reads exactly ContentLength bytes from src into r.Body. A body
// larger than max is not read at all and ErrBodyTooLarge is returned with
// r.Body left empty.
func (r *Request) ReadBody(src io.Reader, max int64) error {
	if !r.HasBody() {
		return nil
	}

	if r.ContentLength > max {
		return fmt.Errorf("%w: %d > %d", ErrBodyTooLarge, r.ContentLength, max)
	}

	buf := make([]byte, r.ContentLength)
	n, err := io.ReadFull(src, buf)
	if err != nil {
		return fmt.Errorf("%w: got %d of %d bytes: %w", ErrShortBody, n, r.ContentLength, err)
	}

	r.Body = buf
	return nil
}
