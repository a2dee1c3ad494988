// Package percent decodes form-style escaped values: '+' is a space and
// "%XX" is the byte with hex value XX.
package percent

import (
	"errors"
	"fmt"
	"net/url"
)

var ErrInvalidEscape = errors.New("invalid percent escape")

// Decode decodes s in full. A '%' not followed by two hex digits fails the
// whole value; nothing is passed through undecoded.
func Decode(s string) (string, error) {
	out, err := url.QueryUnescape(s)
	if err != nil {
		var esc url.EscapeError
		if errors.As(err, &esc) {
			return "", fmt.Errorf("%w: %s", ErrInvalidEscape, string(esc))
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidEscape, err)
	}
	return out, nil
}
