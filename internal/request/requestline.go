package request

import (
	"bytes"
	"errors"
)

var (
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrURITooLong           = errors.New("request path too long")
)

// MaxPathLength caps the request-target. Longer paths are rejected rather
// than truncated.
const MaxPathLength = 99

// Method is one of the classic request verbs.
type Method int

const (
	MethodGet Method = iota
	MethodHead
	MethodPost
	MethodPut
	MethodDelete
	MethodTrace
	MethodOptions
	MethodConnect
	MethodPatch
	MethodUnknown
)

var methodNames = [...]string{
	MethodGet:     "GET",
	MethodHead:    "HEAD",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodDelete:  "DELETE",
	MethodTrace:   "TRACE",
	MethodOptions: "OPTIONS",
	MethodConnect: "CONNECT",
	MethodPatch:   "PATCH",
	MethodUnknown: "UNKNOWN",
}

// ParseMethod matches s against the verb table. Anything else is MethodUnknown.
func ParseMethod(s string) Method {
	for m := MethodGet; m < MethodUnknown; m++ {
		if methodNames[m] == s {
			return m
		}
	}
	return MethodUnknown
}

func (m Method) String() string {
	if m < MethodGet || m > MethodUnknown {
		return methodNames[MethodUnknown]
	}
	return methodNames[m]
}

// Version is the protocol version named on the request line.
type Version int

const (
	Version10 Version = iota
	Version11
	VersionUnknown
)

// ParseVersion matches s against HTTP/1.0 and HTTP/1.1.
func ParseVersion(s string) Version {
	switch s {
	case "HTTP/1.0":
		return Version10
	case "HTTP/1.1":
		return Version11
	default:
		return VersionUnknown
	}
}

func (v Version) String() string {
	switch v {
	case Version10:
		return "HTTP/1.0"
	case Version11:
		return "HTTP/1.1"
	default:
		return "UNKNOWN"
	}
}

// ResponseString is the version written on a reply. Requests naming an
// unknown version are answered as HTTP/1.1.
func (v Version) ResponseString() string {
	if v == Version10 {
		return "HTTP/1.0"
	}
	return "HTTP/1.1"
}

// parseRequestLine splits line (without its CRLF) into verb, path and version.
// Only the token count and the path length can fail.
func parseRequestLine(line []byte) (Method, string, Version, error) {
	parts := bytes.Fields(line)
	if len(parts) != 3 {
		return MethodUnknown, "", VersionUnknown, ErrMalformedRequestLine
	}

	path := string(parts[1])
	if len(path) > MaxPathLength {
		return MethodUnknown, "", VersionUnknown, ErrURITooLong
	}

	return ParseMethod(string(parts[0])), path, ParseVersion(string(parts[2])), nil
}
