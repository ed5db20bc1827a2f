package jsonrpc

import (
	"bytes"
	"encoding/json"
)

const Version = "2.0"

// InternalErrorBody is the fallback wire body for when response encoding
// itself fails. It carries a static data message since the configured one
// is out of reach here.
const InternalErrorBody = "{\"jsonrpc\":\"2.0\",\"error\":{\"code\":-32603,\"data\":{\"message\":\"internal error\"},\"message\":\"internal error\"},\"id\":null}"

// Notification is a JSON-RPC message that expects no response. Its shape
// carries no local validity constraints beyond field defaults, so a
// Notification is always valid.
type Notification struct {
	Version string
	Method  string
	Params  []interface{}
}

func (n *Notification) Valid() bool {
	return true
}

// Request is a Notification plus an id. The id may be explicitly null and
// the request is still valid; only a missing id key fails validation.
// Context is an opaque value handed to the dispatched operation untouched,
// typically the originating transport request.
type Request struct {
	Notification
	ID      interface{}
	Context interface{}

	idPresent bool
}

// RequestFromObject builds a Request from a decoded JSON object. Missing
// fields default (version to "2.0", params to nil) and mistyped fields are
// ignored; it never fails. Validity is checked separately via Valid.
func RequestFromObject(obj map[string]interface{}, ctx interface{}) *Request {
	req := &Request{Context: ctx}
	req.Version = Version
	if v, ok := obj["jsonrpc"].(string); ok {
		req.Version = v
	}
	if m, ok := obj["method"].(string); ok {
		req.Method = m
	}
	if p, ok := obj["params"].([]interface{}); ok {
		req.Params = p
	}
	req.ID, req.idPresent = obj["id"]
	return req
}

func (r *Request) Valid() bool {
	return r.Notification.Valid() && r.idPresent
}

// Response correlates with a Request by id. Exactly one of Result and Err is
// populated in a well-formed response.
type Response struct {
	Version string
	Result  interface{}
	Err     *Error
	ID      interface{}
}

// Encode serializes the response in the fixed field order jsonrpc,
// result|error, id. Null result and error are dropped; id is always
// emitted, null when unknown. The fixed order makes serialization
// idempotent under a parse/re-encode round trip.
func (r *Response) Encode(defaultDataMessage string) ([]byte, error) {
	version := r.Version
	if version == "" {
		version = Version
	}

	var buf bytes.Buffer
	buf.WriteString("{\"jsonrpc\":")
	if err := encodeField(&buf, version); err != nil {
		return nil, err
	}
	if r.Result != nil {
		buf.WriteString(",\"result\":")
		if err := encodeField(&buf, r.Result); err != nil {
			return nil, err
		}
	}
	if r.Err != nil {
		buf.WriteString(",\"error\":")
		if err := encodeField(&buf, r.Err.Representation(defaultDataMessage)); err != nil {
			return nil, err
		}
	}
	buf.WriteString(",\"id\":")
	if err := encodeField(&buf, r.ID); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeField(buf *bytes.Buffer, val interface{}) error {
	out, err := json.Marshal(val)
	if err != nil {
		return err
	}
	buf.Write(out)
	return nil
}

// ParseResponse decodes a single wire response. Numbers decode via
// json.Number so integral ids survive re-encoding unchanged.
func ParseResponse(body []byte) (*Response, error) {
	var wire struct {
		Jsonrpc string      `json:"jsonrpc"`
		Result  interface{} `json:"result"`
		Error   *struct {
			Code    int         `json:"code"`
			Message string      `json:"message"`
			Data    interface{} `json:"data"`
		} `json:"error"`
		ID interface{} `json:"id"`
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&wire); err != nil {
		return nil, err
	}

	res := &Response{
		Version: wire.Jsonrpc,
		Result:  wire.Result,
		ID:      wire.ID,
	}
	if wire.Error != nil {
		res.Err = &Error{
			Code:    wire.Error.Code,
			Message: wire.Error.Message,
			Data:    wire.Error.Data,
		}
	}
	return res, nil
}
