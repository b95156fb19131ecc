package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"unicode/utf8"
)

// Version is the fixed "jsonrpc" member of every successful response.
const Version = "2.0"

// DefaultID is echoed when the request carries no "id" member.
var DefaultID = json.RawMessage(`1`)

// ErrInvalidJSON is the single malformed-body error kind.
var ErrInvalidJSON = errors.New("invalid json")

// Request is the parsed form of one POST body. Every member is optional;
// use the accessors to read a value with its default applied.
type Request struct {
	method    string
	hasMethod bool
	id        json.RawMessage
}

// Method returns the requested method and whether the body carried a
// string "method" member at all.
func (r *Request) Method() (string, bool) {
	return r.method, r.hasMethod
}

// ID returns the request id, or DefaultID when the member is absent.
// An explicit null is kept as null.
func (r *Request) ID() json.RawMessage {
	if r.id == nil {
		return DefaultID
	}
	return r.id
}

// ParseRequest decodes a POST body. Only bodies that are not valid UTF-8
// JSON fail; any other shape (arrays, scalars, objects without "method")
// yields a Request whose members fall back to their defaults. "params" and
// "jsonrpc" are ignored.
func ParseRequest(data []byte) (*Request, error) {
	if !utf8.Valid(data) || !json.Valid(data) {
		return nil, ErrInvalidJSON
	}

	req := &Request{}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		// Valid JSON but not an object.
		return req, nil
	}

	if raw, ok := members["id"]; ok {
		req.id = raw
	}
	if raw, ok := members["method"]; ok && string(raw) != "null" {
		var method string
		if err := json.Unmarshal(raw, &method); err == nil {
			req.method = method
			req.hasMethod = true
		}
	}
	return req, nil
}

// Response is a successful JSON-RPC 2.0 reply. Result is always emitted,
// as null for unknown methods.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
}

// NewResponse builds the reply for req using the canned response table.
func NewResponse(req *Request) *Response {
	method, _ := req.Method()
	return &Response{
		JSONRPC: Version,
		ID:      req.ID(),
		Result:  Lookup(method),
	}
}

// InvalidJSONResponse is the reply to a malformed body. It deliberately
// carries neither "jsonrpc" nor "id", and "error" is a bare string rather
// than a JSON-RPC error object.
type InvalidJSONResponse struct {
	Error string `json:"error"`
}

// NewInvalidJSONResponse returns the fixed malformed-body reply.
func NewInvalidJSONResponse() *InvalidJSONResponse {
	return &InvalidJSONResponse{Error: ErrInvalidJSON.Error()}
}

// Encode serializes v compactly without HTML escaping and without a
// trailing newline.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Handle maps one POST body to its serialized reply. The returned label is
// the metric label for the call: the method name when it is in the table,
// "unknown" otherwise, or "invalid_json" for malformed bodies.
func Handle(body []byte) (reply []byte, label string, err error) {
	req, parseErr := ParseRequest(body)
	if parseErr != nil {
		reply, err = Encode(NewInvalidJSONResponse())
		return reply, LabelInvalidJSON, err
	}

	method, _ := req.Method()
	reply, err = Encode(NewResponse(req))
	return reply, MetricLabel(method), err
}
