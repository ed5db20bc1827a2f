package ops

import (
	"github.com/sumup/rack-rpc/pkg/jsonrpc"
	"github.com/sumup/rack-rpc/pkg/rpc"
)

// RegisterBuiltins adds the daemon's introspection methods to the registry.
func RegisterBuiltins(m *rpc.HandlerMap) {
	m.RegisterFunc("rpc.ping", func(args ...interface{}) (interface{}, error) {
		return "pong", nil
	})
	m.RegisterFunc("rpc.echo", func(args ...interface{}) (interface{}, error) {
		if len(args) == 0 {
			return nil, nil
		}
		return args[0], nil
	})
	m.RegisterFunc("rpc.sum", func(args ...interface{}) (interface{}, error) {
		wrapped := rpc.Args(args)
		var total int
		for i := 0; i < wrapped.Len(); i++ {
			num, err := wrapped.Int(i)
			if err != nil {
				return nil, err
			}
			total += num
		}
		return total, nil
	})
	m.Register("rpc.methods", func(req *jsonrpc.Request) rpc.Operation {
		return &methodsOp{registry: m, req: req}
	})
}

// methodsOp lists the registered method names. An operation type rather
// than a callable so it can hold the registry alongside the request.
type methodsOp struct {
	registry *rpc.HandlerMap
	req      *jsonrpc.Request
}

func (o *methodsOp) Execute() (interface{}, error) {
	return o.registry.Methods(), nil
}
