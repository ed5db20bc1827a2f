package jsonrpc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	checks := []struct {
		err     *Error
		code    int
		message string
	}{
		{NewParseError(), -32700, "parse error"},
		{NewClientError(), -32600, "invalid request"},
		{NewNoMethodError(), -32601, "undefined method"},
		{NewArgumentError(), -32602, "invalid arguments"},
		{NewInternalError(), -32603, "internal error"},
		{NewServerError(), -32000, "server error"},
	}

	for _, check := range checks {
		require.Equal(t, check.code, check.err.Code)
		require.Equal(t, check.message, check.err.Message)
		require.Equal(t, check.message, check.err.Error())
	}
}

func TestErrorOverridableFields(t *testing.T) {
	rpcErr := NewNoMethodError()
	rpcErr.Message = "no such thing"
	rpcErr.Data = map[string]interface{}{"method": "nope"}
	require.Equal(t, CodeMethodNotFound, rpcErr.Code)
	require.Equal(t, "no such thing", rpcErr.Message)
}

func TestRepresentationSubstitutesDefaultDataMessage(t *testing.T) {
	rep := NewInternalError().Representation("unknown error")
	require.Equal(t, map[string]interface{}{
		"code":    CodeInternalError,
		"message": "internal error",
		"data":    map[string]interface{}{"message": "unknown error"},
	}, rep)
}

func TestRepresentationMergesDefaultIntoData(t *testing.T) {
	rpcErr := NewServerError()
	rpcErr.Data = map[string]interface{}{"detail": "d"}
	rep := rpcErr.Representation("unknown error")
	require.Equal(t, map[string]interface{}{
		"detail":  "d",
		"message": "unknown error",
	}, rep["data"])

	// The original data map is left untouched.
	require.Equal(t, map[string]interface{}{"detail": "d"}, rpcErr.Data)
}

func TestRepresentationKeepsCallerMessage(t *testing.T) {
	rpcErr := NewServerError()
	rpcErr.Data = map[string]interface{}{"message": "mine"}
	rep := rpcErr.Representation("unknown error")
	require.Equal(t, map[string]interface{}{"message": "mine"}, rep["data"])
}

func TestRepresentationPassesThroughNonObjectData(t *testing.T) {
	rpcErr := NewServerError()
	rpcErr.Data = "just a string"
	rep := rpcErr.Representation("unknown error")
	require.Equal(t, "just a string", rep["data"])
}
