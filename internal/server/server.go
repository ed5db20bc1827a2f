package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/satori/go.uuid"
	"github.com/sumup/rack-rpc/internal/audit"
	"github.com/sumup/rack-rpc/internal/cache"
	"github.com/sumup/rack-rpc/pkg/config"
	"github.com/sumup/rack-rpc/pkg/jsonrpc"
	"github.com/sumup/rack-rpc/pkg/log"
	"github.com/sumup/rack-rpc/pkg/rpc"
	"github.com/tidwall/gjson"
)

var logger = log.NewLog("server")

// Server is the HTTP transport adapter around the dispatcher. It owns body
// extraction and content-type negotiation; every processing failure still
// leaves as a 200 with a JSON-RPC error body.
type Server struct {
	cfg                *config.Config
	dispatcher         *rpc.Dispatcher
	auditor            audit.Auditor
	results            *cache.ResultCache
	defaultDataMessage string
	quitChan           chan bool
	errChan            chan error
}

// NewServer wires the dispatcher behind the configured endpoint. results
// may be nil when no cache is configured.
func NewServer(dispatcher *rpc.Dispatcher, auditor audit.Auditor, results *cache.ResultCache, cfg *config.Config) *Server {
	defaultDataMessage := cfg.DefaultErrorMessage
	if defaultDataMessage == "" {
		defaultDataMessage = rpc.DefaultDataMessage
	}

	return &Server{
		cfg:                cfg,
		dispatcher:         dispatcher,
		auditor:            auditor,
		results:            results,
		defaultDataMessage: defaultDataMessage,
		quitChan:           make(chan bool),
		errChan:            make(chan error),
	}
}

func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("/%s", s.cfg.RPCPath), s.handleRPCRequest)
	srv := new(http.Server)
	srv.Addr = fmt.Sprintf(":%d", s.cfg.RPCPort)
	srv.Handler = mux

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("rpc server error", "port", s.cfg.RPCPort, "err", err)
		}
	}()

	go func() {
		<-s.quitChan
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.errChan <- srv.Shutdown(ctx)
	}()

	logger.Info("started", "port", s.cfg.RPCPort, "path", s.cfg.RPCPath)
	return nil
}

func (s *Server) Stop() error {
	s.quitChan <- true
	return <-s.errChan
}

func (s *Server) handleRPCRequest(res http.ResponseWriter, req *http.Request) {
	ctx := context.WithValue(req.Context(), log.RequestIDKey, uuid.NewV4().String())
	req = req.WithContext(ctx)
	if req.Method != "POST" {
		logger.Info("rejected non-POST request to rpc endpoint", log.WithRequestID(ctx)...)
		res.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	contentType := req.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		logger.Info("rejected request with unsupported content type", log.WithRequestID(ctx, "content_type", contentType)...)
		res.WriteHeader(http.StatusUnsupportedMediaType)
		return
	}

	start := time.Now()
	defer req.Body.Close()
	body, err := ioutil.ReadAll(req.Body)
	if err != nil {
		logger.Error("failed to read request body", log.WithRequestID(ctx, "err", err)...)
		res.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := s.auditor.RecordRequest(req, body); err != nil {
		logger.Error("failed to record audit log for request", log.WithRequestID(ctx, "err", err)...)
	}

	countRequest(body)
	out := s.serveCached(body)
	if out == nil {
		out = s.dispatcher.Process(body, req)
		s.storeResult(body, out)
	}
	observeResponse(out)

	res.Header().Set("Content-Type", jsonrpc.ContentType)
	res.WriteHeader(http.StatusOK)
	res.Write(out)
	logger.Info("finished handling JSON-RPC request", log.WithRequestID(ctx, "elapsed", time.Since(start))...)
}

// serveCached returns an encoded response for a cacheable single request
// whose result is stored, or nil to fall through to the dispatcher.
func (s *Server) serveCached(body []byte) []byte {
	if s.results == nil || len(body) == 0 || body[0] == '[' {
		return nil
	}

	parsed := gjson.ParseBytes(body)
	method := parsed.Get("method").String()
	if method == "" || !parsed.Get("id").Exists() || !s.results.Cacheable(method) {
		return nil
	}

	cached, err := s.results.Lookup(method, []byte(parsed.Get("params").Raw))
	if err != nil {
		logger.Error("failed to read result cache", "method", method, "err", err)
		return nil
	}
	if cached == nil {
		return nil
	}

	out, err := (&jsonrpc.Response{
		Result: json.RawMessage(cached),
		ID:     json.RawMessage(parsed.Get("id").Raw),
	}).Encode(s.defaultDataMessage)
	if err != nil {
		logger.Error("failed to encode cached response", "method", method, "err", err)
		return nil
	}
	countCacheHit()
	return append(out, '\n')
}

// storeResult caches the result of a successful cacheable single request.
func (s *Server) storeResult(body []byte, out []byte) {
	if s.results == nil || len(body) == 0 || body[0] == '[' || len(out) == 0 || out[0] != '{' {
		return
	}

	method := gjson.GetBytes(body, "method").String()
	if !s.results.Cacheable(method) {
		return
	}
	parsedOut := gjson.ParseBytes(out)
	if parsedOut.Get("error").Exists() {
		return
	}
	result := parsedOut.Get("result")
	if !result.Exists() {
		return
	}

	params := gjson.GetBytes(body, "params").Raw
	if err := s.results.Store(method, []byte(params), []byte(result.Raw)); err != nil {
		logger.Error("failed to write result cache", "method", method, "err", err)
	}
}
