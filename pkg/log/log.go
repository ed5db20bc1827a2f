// Package log owns the process-wide log15 root logger. Packages take child
// loggers via NewLog and tag request-scoped lines with WithRequestID.
package log

import (
	"context"
	"os"

	"github.com/inconshreveable/log15"
)

var rootLog = log15.New()

const DefaultLevel = log15.LvlInfo
const RequestIDKey = "request_id"

func init() {
	SetLevel(DefaultLevel)
}

func SetLevel(level log15.Lvl) {
	rootLog.SetHandler(log15.LvlFilterHandler(level, log15.StreamHandler(os.Stderr, log15.LogfmtFormat())))
}

func NewLog(module string) log15.Logger {
	if module == "" {
		return rootLog
	}

	return rootLog.New("module", module)
}

func WithRequestID(ctx context.Context, keys ...interface{}) []interface{} {
	return append(keys, []interface{}{
		RequestIDKey,
		ctx.Value(RequestIDKey),
	}...)
}
