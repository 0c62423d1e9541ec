package engine

import "fmt"

// HTTPMethod is the method ordinal the host receives.
type HTTPMethod int8

const (
	MethodGet    HTTPMethod = 0
	MethodPut    HTTPMethod = 1
	MethodPost   HTTPMethod = 2
	MethodDelete HTTPMethod = 3
)

// String returns the HTTP verb.
func (m HTTPMethod) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodPut:
		return "PUT"
	case MethodPost:
		return "POST"
	case MethodDelete:
		return "DELETE"
	default:
		return fmt.Sprintf("METHOD(%d)", int8(m))
	}
}

// Header is one HTTP header. Headers are kept in a slice so that the order
// the engine chose survives packing.
type Header struct {
	Name  string
	Value string
}

// HTTPRequest is a request the engine asks the host to perform.
// A nil Body means no body.
type HTTPRequest struct {
	Method  HTTPMethod
	URL     string
	Headers []Header
	Body    []byte
}

// HTTPResponse is the host's answer. A nil response passed to
// CallManager.ReceivedHTTPResponse means the request failed.
type HTTPResponse struct {
	StatusCode uint16
	Body       []byte
}
