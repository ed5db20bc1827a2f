package audit

import (
	"net/http"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/sumup/rack-rpc/pkg/config"
	"github.com/sumup/rack-rpc/pkg/log"
	"github.com/tidwall/gjson"
)

// LogAuditor records every inbound RPC to a logfmt file, one line per
// request and one per batch entry.
type LogAuditor struct {
	logger log15.Logger
}

func NewLogAuditor(cfg *config.LogAuditorConfig) (Auditor, error) {
	if cfg == nil {
		return nil, errors.New("no log auditor config defined")
	}

	logger := log15.New()
	hdlr, err := log15.FileHandler(cfg.LogFile, log15.LogfmtFormat())
	if err != nil {
		return nil, err
	}
	logger.SetHandler(hdlr)

	return &LogAuditor{
		logger: logger,
	}, nil
}

func (l *LogAuditor) RecordRequest(req *http.Request, body []byte) error {
	parsed := gjson.ParseBytes(body)
	if parsed.IsArray() {
		for _, entry := range parsed.Array() {
			l.recordEntry(req, entry)
		}
		return nil
	}

	l.recordEntry(req, parsed)
	return nil
}

func (l *LogAuditor) recordEntry(req *http.Request, entry gjson.Result) {
	if !entry.IsObject() {
		l.logger.Error(
			"received request with invalid JSON body",
			mergeLogKeys(req)...,
		)
		return
	}

	l.logger.Info(
		"received JSON-RPC request",
		mergeLogKeys(req,
			"rpc_method", entry.Get("method").String(),
			"rpc_params", entry.Get("params").Raw,
		)...,
	)
}

func mergeLogKeys(req *http.Request, keys ...interface{}) []interface{} {
	defaults := []interface{}{
		"remote_addr",
		remoteAddr(req),
		"user_agent",
		req.Header.Get("user-agent"),
	}

	return log.WithRequestID(req.Context(), append(defaults, keys...)...)
}

func remoteAddr(req *http.Request) string {
	realIp := req.Header.Get("x-real-ip")
	if realIp != "" {
		return realIp
	}

	return req.RemoteAddr
}
