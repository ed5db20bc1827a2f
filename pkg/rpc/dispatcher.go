package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/sumup/rack-rpc/pkg/concurrent"
	"github.com/sumup/rack-rpc/pkg/jsonrpc"
	"github.com/sumup/rack-rpc/pkg/log"
)

// DefaultDataMessage is substituted into serialized error data when the
// dispatcher configuration does not set one.
const DefaultDataMessage = "unknown error"

// Config carries the dispatcher's collaborators. Registry is required; the
// rest default.
type Config struct {
	Registry Registry
	Logger   log15.Logger
	// DefaultDataMessage is placed in error data objects that carry no
	// message of their own.
	DefaultDataMessage string
	// Overrides replace the default error construction per failure
	// category.
	Overrides map[FailureKind]OverrideFunc
	// BatchConcurrency caps parallel batch-item processing. Values below
	// two process batches sequentially.
	BatchConcurrency int
}

// Dispatcher turns raw JSON-RPC payloads into serialized responses. It
// holds no mutable state after construction, so Process is safe for
// concurrent callers as long as the registered operations are.
type Dispatcher struct {
	registry           Registry
	logger             log15.Logger
	defaultDataMessage string
	overrides          map[FailureKind]OverrideFunc
	concurrency        int
}

func NewDispatcher(cfg *Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewLog("rpc")
	}
	defaultDataMessage := cfg.DefaultDataMessage
	if defaultDataMessage == "" {
		defaultDataMessage = DefaultDataMessage
	}

	return &Dispatcher{
		registry:           cfg.Registry,
		logger:             logger,
		defaultDataMessage: defaultDataMessage,
		overrides:          cfg.Overrides,
		concurrency:        cfg.BatchConcurrency,
	}
}

// Process decodes input, dispatches it, and returns the serialized
// newline-terminated response. Every failure is captured as a wire error;
// nothing propagates to the caller.
func (d *Dispatcher) Process(input []byte, ctx interface{}) []byte {
	decoded, err := decodeBody(input)
	if err != nil {
		res := &jsonrpc.Response{
			Err: d.mapFailure(&failure{kind: FailureParse, err: err}),
		}
		return d.encodeSingle(res)
	}

	if elements, ok := decoded.([]interface{}); ok {
		return d.encodeBatch(d.processBatch(elements, ctx))
	}
	return d.encodeSingle(d.processItem(decoded, ctx))
}

func decodeBody(input []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()
	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected trailing data")
	}
	return decoded, nil
}

// processBatch processes every element independently; one element's failure
// never aborts its siblings. Output order matches input order at any
// concurrency because each element writes its own slot.
func (d *Dispatcher) processBatch(elements []interface{}, ctx interface{}) []*jsonrpc.Response {
	responses := make([]*jsonrpc.Response, len(elements))
	if d.concurrency > 1 && len(elements) > 1 {
		indexes := make([]interface{}, len(elements))
		for i := range elements {
			indexes[i] = i
		}
		concurrent.Consume(indexes, func(item interface{}) {
			i := item.(int)
			responses[i] = d.processItem(elements[i], ctx)
		}, d.concurrency)
		return responses
	}

	for i, element := range elements {
		responses[i] = d.processItem(element, ctx)
	}
	return responses
}

// processItem runs the single-request pipeline: build, validate, resolve,
// invoke, and map any raised condition into a wire error.
func (d *Dispatcher) processItem(element interface{}, ctx interface{}) *jsonrpc.Response {
	obj, ok := element.(map[string]interface{})
	if !ok {
		// Non-object entries get the same treatment as a malformed
		// request.
		return &jsonrpc.Response{
			Err: d.mapFailure(&failure{
				kind: FailureInvalidRequest,
				err:  errors.New("request must be an object"),
			}),
		}
	}

	req := jsonrpc.RequestFromObject(obj, ctx)
	res := &jsonrpc.Response{}
	if req.Valid() {
		res.ID = req.ID
	}

	result, f := d.dispatch(req)
	if f != nil {
		res.Err = d.mapFailure(f)
		return res
	}
	res.Result = result
	return res
}

func (d *Dispatcher) dispatch(req *jsonrpc.Request) (interface{}, *failure) {
	if !req.Valid() {
		return nil, &failure{
			kind: FailureInvalidRequest,
			err:  errors.New("request is missing an id"),
		}
	}

	handler, ok := d.registry.Resolve(req.Method)
	if !ok {
		return nil, &failure{
			kind: FailureNoMethod,
			err:  errors.Errorf("undefined method %q", req.Method),
		}
	}

	result, err, trace := invoke(handler, req)
	if err == nil {
		return result, nil
	}

	// Specific conditions are checked before the catch-all so they are
	// never masked by it.
	switch err.(type) {
	case *BadArgumentsError:
		return nil, &failure{kind: FailureBadArguments, err: err}
	case *jsonrpc.Error:
		return nil, &failure{kind: FailureProtocol, err: err}
	default:
		return nil, &failure{kind: FailureUnhandled, err: err, trace: trace}
	}
}

// invoke runs the handler, converting panics into errors. The captured
// stack is returned out of band so it reaches the log but never the wire
// message.
func invoke(h Handler, req *jsonrpc.Request) (result interface{}, err error, trace string) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("operation panic: %v", r)
			trace = string(debug.Stack())
		}
	}()
	result, err = h.Invoke(req)
	return result, err, ""
}

// mapFailure converts a raised condition into a wire error, consulting the
// override table first. Unhandled failures are logged with full diagnostic
// detail and reduced to a generic internal error so internals never leak
// onto the wire.
func (d *Dispatcher) mapFailure(f *failure) *jsonrpc.Error {
	if f.kind == FailureUnhandled {
		trace := f.trace
		if trace == "" {
			trace = fmt.Sprintf("%+v", f.err)
		}
		d.logger.Error("operation raised an unhandled failure",
			"err", f.err,
			"trace", trace,
		)
	}

	if override, ok := d.overrides[f.kind]; ok {
		return override(f.err)
	}

	switch f.kind {
	case FailureParse:
		rpcErr := jsonrpc.NewParseError()
		rpcErr.Message = f.err.Error()
		return rpcErr
	case FailureInvalidRequest:
		return jsonrpc.NewClientError()
	case FailureNoMethod:
		return jsonrpc.NewNoMethodError()
	case FailureBadArguments:
		return jsonrpc.NewArgumentError()
	case FailureProtocol:
		return f.err.(*jsonrpc.Error)
	default:
		rpcErr := jsonrpc.NewInternalError()
		rpcErr.Message = f.err.Error()
		return rpcErr
	}
}

func (d *Dispatcher) encodeSingle(res *jsonrpc.Response) []byte {
	out, err := res.Encode(d.defaultDataMessage)
	if err != nil {
		d.logger.Error("failed to encode response", "err", err)
		out = []byte(jsonrpc.InternalErrorBody)
	}
	return append(out, '\n')
}

func (d *Dispatcher) encodeBatch(responses []*jsonrpc.Response) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, res := range responses {
		if i != 0 {
			buf.WriteByte(',')
		}
		out, err := res.Encode(d.defaultDataMessage)
		if err != nil {
			d.logger.Error("failed to encode batch entry", "err", err)
			out = []byte(jsonrpc.InternalErrorBody)
		}
		buf.Write(out)
	}
	buf.WriteByte(']')
	buf.WriteByte('\n')
	return buf.Bytes()
}
