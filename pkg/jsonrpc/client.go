package jsonrpc

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sumup/rack-rpc/pkg"
)

// ContentType is the wire content type the server emits and the client
// sends, unless the transport negotiates another.
const ContentType = "application/json; charset=UTF-8"

// wireRequest is the client-side request body.
type wireRequest struct {
	Jsonrpc string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type Client struct {
	url    string
	client *http.Client
	nextID uint64
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		client: pkg.NewHTTPClient(timeout),
	}
}

// Call posts a single request with the given positional params and parses
// the response body.
func (c *Client) Call(method string, params ...interface{}) (*Response, error) {
	if params == nil {
		params = []interface{}{}
	}

	req := &wireRequest{
		Jsonrpc: Version,
		ID:      atomic.AddUint64(&c.nextID, 1),
		Method:  method,
		Params:  params,
	}
	serReq, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Post(c.url, ContentType, bytes.NewReader(serReq))
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code %d", res.StatusCode)
	}
	resBody, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	return ParseResponse(resBody)
}
