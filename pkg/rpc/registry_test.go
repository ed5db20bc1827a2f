package rpc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sumup/rack-rpc/pkg/jsonrpc"
	"github.com/sumup/rack-rpc/pkg/sets"
)

func TestHandlerMapVariants(t *testing.T) {
	handlers := NewHandlerMap()
	handlers.RegisterFunc("echo", echoCallable)
	handlers.Register("context", func(req *jsonrpc.Request) Operation {
		return &contextOp{req: req}
	})

	req := jsonrpc.RequestFromObject(map[string]interface{}{
		"method": "echo",
		"params": []interface{}{"hi"},
		"id":     1,
	}, "ctx")

	h, ok := handlers.Resolve("echo")
	require.True(t, ok)
	result, err := h.Invoke(req)
	require.NoError(t, err)
	require.Equal(t, "hi", result)

	h, ok = handlers.Resolve("context")
	require.True(t, ok)
	result, err = h.Invoke(req)
	require.NoError(t, err)
	require.Equal(t, "ctx", result)

	_, ok = handlers.Resolve("nope")
	require.False(t, ok)
}

func TestHandlerMapMethods(t *testing.T) {
	handlers := NewHandlerMap()
	handlers.RegisterFunc("b", echoCallable)
	handlers.RegisterFunc("a", echoCallable)
	require.Equal(t, []string{"a", "b"}, handlers.Methods())
}

func TestHandlerMapDuplicatePanics(t *testing.T) {
	handlers := NewHandlerMap()
	handlers.RegisterFunc("echo", echoCallable)
	require.Panics(t, func() {
		handlers.RegisterFunc("echo", echoCallable)
	})
}

func TestFilteredRegistry(t *testing.T) {
	handlers := NewHandlerMap()
	handlers.RegisterFunc("allowed", echoCallable)
	handlers.RegisterFunc("hidden", echoCallable)

	filtered := NewFilteredRegistry(handlers, sets.NewStringSet([]string{"allowed"}))
	_, ok := filtered.Resolve("allowed")
	require.True(t, ok)
	_, ok = filtered.Resolve("hidden")
	require.False(t, ok)
}
