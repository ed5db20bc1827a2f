package server

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/sumup/rack-rpc/internal/audit"
	"github.com/sumup/rack-rpc/internal/cache"
	"github.com/sumup/rack-rpc/internal/ops"
	"github.com/sumup/rack-rpc/pkg/config"
	"github.com/sumup/rack-rpc/pkg/jsonrpc"
	"github.com/sumup/rack-rpc/pkg/rpc"
	"github.com/tidwall/gjson"
)

type ServerSuite struct {
	suite.Suite
	srv    *httptest.Server
	client *jsonrpc.Client
	calls  int32
}

func (s *ServerSuite) SetupSuite() {
	handlers := rpc.NewHandlerMap()
	ops.RegisterBuiltins(handlers)
	handlers.RegisterFunc("counter", func(args ...interface{}) (interface{}, error) {
		return atomic.AddInt32(&s.calls, 1), nil
	})

	dispatcher := rpc.NewDispatcher(&rpc.Config{
		Registry: handlers,
	})
	results := cache.NewResultCache(cache.NewMemoryCacher(), []string{"counter"}, time.Minute)

	server := NewServer(dispatcher, audit.NewNopAuditor(), results, &config.Config{
		RPCPort: 0,
		RPCPath: "rpc",
	})
	s.srv = httptest.NewServer(http.HandlerFunc(server.handleRPCRequest))
	s.client = jsonrpc.NewClient(s.srv.URL, 5*time.Second)
}

func (s *ServerSuite) TearDownSuite() {
	s.srv.Close()
}

func (s *ServerSuite) TestEchoRoundTrip() {
	res, err := s.client.Call("rpc.echo", "hi")
	require.NoError(s.T(), err)
	require.Nil(s.T(), res.Err)
	require.Equal(s.T(), "hi", res.Result)
}

func (s *ServerSuite) TestUndefinedMethod() {
	res, err := s.client.Call("nope")
	require.NoError(s.T(), err)
	require.NotNil(s.T(), res.Err)
	require.Equal(s.T(), jsonrpc.CodeMethodNotFound, res.Err.Code)
}

func (s *ServerSuite) TestRejectsNonPost() {
	res, err := http.Get(s.srv.URL)
	require.NoError(s.T(), err)
	defer res.Body.Close()
	require.Equal(s.T(), http.StatusMethodNotAllowed, res.StatusCode)
}

func (s *ServerSuite) TestRejectsNonJSONContentType() {
	res, err := http.Post(s.srv.URL, "text/plain", strings.NewReader("{}"))
	require.NoError(s.T(), err)
	defer res.Body.Close()
	require.Equal(s.T(), http.StatusUnsupportedMediaType, res.StatusCode)
}

func (s *ServerSuite) TestMalformedBodyStillOK() {
	res, err := http.Post(s.srv.URL, "application/json", strings.NewReader("{\"jsonrpc\":"))
	require.NoError(s.T(), err)
	defer res.Body.Close()
	require.Equal(s.T(), http.StatusOK, res.StatusCode)
	require.Equal(s.T(), jsonrpc.ContentType, res.Header.Get("Content-Type"))

	parsed, err := jsonrpc.ParseResponse(readAll(s.T(), res))
	require.NoError(s.T(), err)
	require.NotNil(s.T(), parsed.Err)
	require.Equal(s.T(), jsonrpc.CodeParseError, parsed.Err.Code)
}

func (s *ServerSuite) TestBatchOverHTTP() {
	body := "[{\"jsonrpc\":\"2.0\",\"method\":\"nope\",\"id\":1},{\"jsonrpc\":\"2.0\",\"method\":\"rpc.ping\",\"id\":2}]"
	res, err := http.Post(s.srv.URL, "application/json", strings.NewReader(body))
	require.NoError(s.T(), err)
	defer res.Body.Close()
	require.Equal(s.T(), http.StatusOK, res.StatusCode)

	entries := gjson.ParseBytes(readAll(s.T(), res)).Array()
	require.Len(s.T(), entries, 2)
	require.Equal(s.T(), int64(-32601), entries[0].Get("error.code").Int())
	require.Equal(s.T(), "pong", entries[1].Get("result").String())
}

func (s *ServerSuite) TestResultCacheServesHit() {
	first, err := s.client.Call("counter")
	require.NoError(s.T(), err)
	require.Nil(s.T(), first.Err)

	second, err := s.client.Call("counter")
	require.NoError(s.T(), err)
	require.Nil(s.T(), second.Err)

	// The second call is served from the cache, so the counter does not
	// advance.
	require.Equal(s.T(), first.Result, second.Result)
	require.Equal(s.T(), int32(1), atomic.LoadInt32(&s.calls))
}

func TestServer(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func readAll(t *testing.T, res *http.Response) []byte {
	body, err := ioutil.ReadAll(res.Body)
	require.NoError(t, err)
	return body
}
