package request

import (
	"errors"
	"strings"
)

var (
	ErrMissingAccept     = errors.New("missing Accept header")
	ErrUnsupportedAccept = errors.New("no supported media type in Accept header")
)

// MediaType is one of the representations the gateway can produce.
type MediaType int

const (
	MediaUnset MediaType = iota
	MediaHTML
	MediaJSON
	MediaAny
	MediaUnsupported
)

// supportedMedia is searched in this order for every Accept candidate.
var supportedMedia = []MediaType{MediaHTML, MediaJSON, MediaAny}

func (m MediaType) String() string {
	switch m {
	case MediaHTML:
		return "text/html"
	case MediaJSON:
		return "application/vnd.api+json"
	case MediaAny:
		return "*/*"
	case MediaUnset:
		return ""
	default:
		return "unsupported"
	}
}

func lookupMedia(s string) (MediaType, bool) {
	for _, m := range supportedMedia {
		if m.String() == s {
			return m, true
		}
	}
	return MediaUnsupported, false
}

// parseAccept returns the first candidate of a comma-separated Accept value
// that is in the supported table. Candidates are compared verbatim after
// trimming blanks, so "*/*;q=0.8" does not match "*/*".
func parseAccept(value string) (MediaType, error) {
	if value == "" {
		return MediaUnset, ErrMissingAccept
	}
	for _, candidate := range strings.Split(value, ",") {
		if m, ok := lookupMedia(strings.TrimSpace(candidate)); ok {
			return m, nil
		}
	}
	return MediaUnset, ErrUnsupportedAccept
}

// parseContentType maps a Content-Type value to the media table, ignoring
// parameters such as charset. Unknown types are MediaUnsupported.
func parseContentType(value string) MediaType {
	if i := strings.IndexByte(value, ';'); i != -1 {
		value = value[:i]
	}
	m, _ := lookupMedia(strings.TrimSpace(value))
	return m
}
