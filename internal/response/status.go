package response

import "strconv"

// StatusCode represents HTTP status codes
type StatusCode int

const (
	StatusOK                   StatusCode = 200
	StatusCreated              StatusCode = 201
	StatusAccepted             StatusCode = 202
	StatusNoContent            StatusCode = 204
	StatusBadRequest           StatusCode = 400
	StatusNotFound             StatusCode = 404
	StatusLengthRequired       StatusCode = 411
	StatusUnsupportedMediaType StatusCode = 415
	StatusTeapot               StatusCode = 418 // RFC 2324
	StatusUnprocessableEntity  StatusCode = 422
	StatusInternalServerError  StatusCode = 500
	StatusNotImplemented       StatusCode = 501
)

var statusText = map[StatusCode]string{
	StatusOK:                   "OK",
	StatusCreated:              "Created",
	StatusAccepted:             "Accepted",
	StatusNoContent:            "No Content",
	StatusBadRequest:           "Bad Request",
	StatusNotFound:             "Not Found",
	StatusLengthRequired:       "Length Required",
	StatusUnsupportedMediaType: "Unsupported Media Type",
	StatusTeapot:               "I'm a teapot",
	StatusUnprocessableEntity:  "Unprocessable Entity",
	StatusInternalServerError:  "Internal Server Error",
	StatusNotImplemented:       "Not Implemented",
}

// StatusText returns the reason phrase for a status code
func StatusText(code StatusCode) string {
	if text, ok := statusText[code]; ok {
		return text
	}
	return "Unknown Status"
}

// String renders the code as it appears on the status line, e.g. "404 Not Found".
func (code StatusCode) String() string {
	return strconv.Itoa(int(code)) + " " + StatusText(code)
}

// IsClientError returns true for 4xx status codes
func (code StatusCode) IsClientError() bool {
	return code >= 400 && code < 500
}

// IsServerError returns true for 5xx status codes
func (code StatusCode) IsServerError() bool {
	return code >= 500 && code < 600
}

// IsError returns true for 4xx or 5xx status codes
func (code StatusCode) IsError() bool {
	return code.IsClientError() || code.IsServerError()
}
