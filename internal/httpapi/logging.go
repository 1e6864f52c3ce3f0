package httpapi

import (
	"bytes"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"llamapanama/internal/logging"
)

// EnvRequestLog sets the default per-request log level ("off" when unset).
const EnvRequestLog = "LLAMAPANAMA_REQUEST_LOG"

// zlog is the structured logger used by the HTTP layer. Nil disables logging.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// loggingLineWriter logs complete NDJSON lines at debug level.
type loggingLineWriter struct {
	reqID string
	buf   []byte
}

func (lw *loggingLineWriter) Write(p []byte) (int, error) {
	lw.buf = append(lw.buf, p...)
	for {
		idx := bytes.IndexByte(lw.buf, '\n')
		if idx < 0 {
			break
		}
		if idx > 0 && zlog != nil {
			zlog.Debug().Str("request_id", lw.reqID).Bytes("line", lw.buf[:idx]).Msg("generate>")
		}
		lw.buf = lw.buf[idx+1:]
	}
	return len(p), nil
}

// defaultRequestLevel is read once from the environment.
var defaultRequestLevel = logging.ParseLevel(os.Getenv(EnvRequestLog))

// requestLogLevel resolves the log level for r: ?log= first, then the
// X-Log-Level header, then the process default.
func requestLogLevel(r *http.Request) zerolog.Level {
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return zerolog.DebugLevel
		}
		return logging.ParseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return logging.ParseLevel(v)
	}
	return defaultRequestLevel
}

// enabled reports whether a message at want should be emitted for a request
// resolved to level.
func enabled(level, want zerolog.Level) bool {
	return zlog != nil && level != zerolog.Disabled && want >= level
}
