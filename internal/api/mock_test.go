package api

import (
	"io"
	"strconv"

	fhttp "github.com/bogdanfinn/fhttp"
)

// MockDoer is a Doer that records the request and returns a canned response
type MockDoer struct {
	Response *fhttp.Response
	Err      error

	LastRequest *fhttp.Request
	LastBody    string
	Calls       int
}

// Do implements the Doer interface
func (m *MockDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.Calls++
	m.LastRequest = req
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.LastBody = string(data)
	}
	return m.Response, m.Err
}

// newMockResponse builds a response with the given status and body
func newMockResponse(status int, body io.ReadCloser) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: status,
		Status:     strconv.Itoa(status) + " " + fhttp.StatusText(status),
		Header:     make(fhttp.Header),
		Body:       body,
	}
}
