package ops

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sumup/rack-rpc/pkg/rpc"
	"github.com/tidwall/gjson"
)

func newDispatcher() *rpc.Dispatcher {
	handlers := rpc.NewHandlerMap()
	RegisterBuiltins(handlers)
	return rpc.NewDispatcher(&rpc.Config{Registry: handlers})
}

func TestPing(t *testing.T) {
	out := newDispatcher().Process([]byte("{\"jsonrpc\":\"2.0\",\"method\":\"rpc.ping\",\"id\":1}"), nil)
	require.Equal(t, "{\"jsonrpc\":\"2.0\",\"result\":\"pong\",\"id\":1}\n", string(out))
}

func TestEcho(t *testing.T) {
	d := newDispatcher()
	out := d.Process([]byte("{\"jsonrpc\":\"2.0\",\"method\":\"rpc.echo\",\"params\":[\"hi\"],\"id\":1}"), nil)
	require.Equal(t, "{\"jsonrpc\":\"2.0\",\"result\":\"hi\",\"id\":1}\n", string(out))

	out = d.Process([]byte("{\"jsonrpc\":\"2.0\",\"method\":\"rpc.echo\",\"params\":[],\"id\":2}"), nil)
	require.Equal(t, "{\"jsonrpc\":\"2.0\",\"id\":2}\n", string(out))
}

func TestSum(t *testing.T) {
	d := newDispatcher()
	out := d.Process([]byte("{\"jsonrpc\":\"2.0\",\"method\":\"rpc.sum\",\"params\":[1,2,3],\"id\":1}"), nil)
	require.Equal(t, int64(6), gjson.GetBytes(out, "result").Int())

	out = d.Process([]byte("{\"jsonrpc\":\"2.0\",\"method\":\"rpc.sum\",\"params\":[1,\"x\"],\"id\":1}"), nil)
	require.Equal(t, int64(-32602), gjson.GetBytes(out, "error.code").Int())
}

func TestMethods(t *testing.T) {
	out := newDispatcher().Process([]byte("{\"jsonrpc\":\"2.0\",\"method\":\"rpc.methods\",\"id\":1}"), nil)
	var names []string
	for _, entry := range gjson.GetBytes(out, "result").Array() {
		names = append(names, entry.String())
	}
	require.Equal(t, []string{"rpc.echo", "rpc.methods", "rpc.ping", "rpc.sum"}, names)
}
