package jsonrpc

// Reserved JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeServerError    = -32000
)

// Error is a JSON-RPC error object. It implements the error interface so
// operations can return one directly and have its code and data placed on
// the wire verbatim.
type Error struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewParseError() *Error {
	return NewError(CodeParseError, "parse error")
}

func NewClientError() *Error {
	return NewError(CodeInvalidRequest, "invalid request")
}

func NewNoMethodError() *Error {
	return NewError(CodeMethodNotFound, "undefined method")
}

func NewArgumentError() *Error {
	return NewError(CodeInvalidParams, "invalid arguments")
}

func NewInternalError() *Error {
	return NewError(CodeInternalError, "internal error")
}

func NewServerError() *Error {
	return NewError(CodeServerError, "server error")
}

// Representation returns the canonical error map. When Data is absent, or is
// an object without a "message" key, the serialized data carries
// defaultDataMessage so wire clients always see a data message.
func (e *Error) Representation(defaultDataMessage string) map[string]interface{} {
	rep := map[string]interface{}{
		"code":    e.Code,
		"message": e.Message,
	}

	switch data := e.Data.(type) {
	case nil:
		rep["data"] = map[string]interface{}{
			"message": defaultDataMessage,
		}
	case map[string]interface{}:
		if _, ok := data["message"]; !ok {
			merged := make(map[string]interface{}, len(data)+1)
			for k, v := range data {
				merged[k] = v
			}
			merged["message"] = defaultDataMessage
			data = merged
		}
		rep["data"] = data
	default:
		rep["data"] = data
	}

	return rep
}
