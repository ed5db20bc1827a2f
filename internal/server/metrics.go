package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"
)

var requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "rackrpc_requests_total",
	Help: "Count of JSON-RPC payloads received, by kind.",
}, []string{"kind"})

var errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "rackrpc_errors_total",
	Help: "Count of JSON-RPC error responses, by error code.",
}, []string{"code"})

var cacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "rackrpc_cache_hits_total",
	Help: "Count of requests served from the result cache.",
})

func init() {
	prometheus.MustRegister(requestsTotal, errorsTotal, cacheHitsTotal)
}

func countRequest(body []byte) {
	kind := "single"
	if len(body) > 0 && body[0] == '[' {
		kind = "batch"
	}
	requestsTotal.WithLabelValues(kind).Inc()
}

func countCacheHit() {
	cacheHitsTotal.Inc()
}

func observeResponse(out []byte) {
	parsed := gjson.ParseBytes(out)
	if parsed.IsArray() {
		for _, entry := range parsed.Array() {
			countError(entry)
		}
		return
	}
	countError(parsed)
}

func countError(entry gjson.Result) {
	code := entry.Get("error.code")
	if code.Exists() {
		errorsTotal.WithLabelValues(code.String()).Inc()
	}
}
