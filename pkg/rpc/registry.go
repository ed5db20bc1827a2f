package rpc

import (
	"sort"
	"sync"

	"github.com/sumup/rack-rpc/pkg/jsonrpc"
	"github.com/sumup/rack-rpc/pkg/sets"
)

// Operation is a server-side unit of logic constructed per request. Its
// return value becomes the response result.
type Operation interface {
	Execute() (interface{}, error)
}

// OperationFunc constructs an Operation from a validated request. The
// request exposes the positional params and the opaque transport context.
type OperationFunc func(req *jsonrpc.Request) Operation

// Callable is the plain-function variant of an operation. It is invoked
// with the request's positional params spread as arguments.
type Callable func(args ...interface{}) (interface{}, error)

// Handler is a method's resolved dispatch target. The variant (operation
// type vs plain callable) is fixed at registration time.
type Handler interface {
	Invoke(req *jsonrpc.Request) (interface{}, error)
}

type operationHandler struct {
	construct OperationFunc
}

func (h *operationHandler) Invoke(req *jsonrpc.Request) (interface{}, error) {
	return h.construct(req).Execute()
}

type callableHandler struct {
	fn Callable
}

func (h *callableHandler) Invoke(req *jsonrpc.Request) (interface{}, error) {
	return h.fn(req.Params...)
}

// Registry resolves a method name to its handler. The dispatcher performs
// no registration logic of its own.
type Registry interface {
	Resolve(method string) (Handler, bool)
}

// HandlerMap is the provided Registry implementation.
type HandlerMap struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewHandlerMap() *HandlerMap {
	return &HandlerMap{
		handlers: make(map[string]Handler),
	}
}

// Register binds a method to an operation type.
func (m *HandlerMap) Register(method string, construct OperationFunc) {
	m.put(method, &operationHandler{construct: construct})
}

// RegisterFunc binds a method to a plain callable.
func (m *HandlerMap) RegisterFunc(method string, fn Callable) {
	m.put(method, &callableHandler{fn: fn})
}

func (m *HandlerMap) put(method string, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.handlers[method]; exists {
		panic("rpc: method already registered: " + method)
	}
	m.handlers[method] = h
}

func (m *HandlerMap) Resolve(method string) (Handler, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.handlers[method]
	return h, ok
}

// Methods returns the registered method names in sorted order.
func (m *HandlerMap) Methods() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	methods := make([]string, 0, len(m.handlers))
	for method := range m.handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

type filteredRegistry struct {
	inner   Registry
	allowed *sets.StringSet
}

// NewFilteredRegistry decorates a registry with an allow-list. Methods
// outside the list resolve as absent, so callers see the same undefined
// method error an unregistered method produces.
func NewFilteredRegistry(inner Registry, allowed *sets.StringSet) Registry {
	return &filteredRegistry{
		inner:   inner,
		allowed: allowed,
	}
}

func (r *filteredRegistry) Resolve(method string) (Handler, bool) {
	if !r.allowed.Contains(method) {
		return nil, false
	}
	return r.inner.Resolve(method)
}
