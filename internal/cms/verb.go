package cms

import "net/http"

// verb is the closed set of HTTP methods the gateway can issue.
type verb uint8

const (
	verbGet verb = iota
	verbPost
	verbPut
	verbDelete
	verbCount
)

type verbSpec struct {
	method string

	// withBody verbs send params as a JSON object instead of a query string
	withBody bool
}

var verbs = [verbCount]verbSpec{
	verbGet:    {method: http.MethodGet},
	verbPost:   {method: http.MethodPost, withBody: true},
	verbPut:    {method: http.MethodPut, withBody: true},
	verbDelete: {method: http.MethodDelete},
}

func (v verb) spec() verbSpec {
	return verbs[v]
}

func (v verb) String() string {
	return verbs[v].method
}
