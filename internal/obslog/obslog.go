// Package obslog is Antbox's structured logging setup, built on logrus:
// level and format selection plus an output splitter routing error-level
// messages to stderr and everything else to stdout, for container log
// separation.
package obslog

import (
	"bytes"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Level is the subset of logrus levels Antbox's config surface exposes.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Config configures the root logger.
type Config struct {
	Level     Level  // default info
	Format    string // "json" or "text", default "text"
	AddCaller bool
}

// outputSplitter routes logrus's formatted error-level lines to stderr and
// everything else to stdout, so container log collectors can treat the two
// streams differently without parsing structured fields themselves.
type outputSplitter struct{}

func (outputSplitter) Write(p []byte) (int, error) {
	if bytes.Contains(p, []byte("level=error")) || bytes.Contains(p, []byte(`"level":"error"`)) {
		return os.Stderr.Write(p)
	}
	return os.Stdout.Write(p)
}

// New builds a logrus.Logger configured per cfg. It attaches no service
// field; For adds one.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()

	switch cfg.Level {
	case LevelDebug:
		logger.SetLevel(logrus.DebugLevel)
	case LevelWarn:
		logger.SetLevel(logrus.WarnLevel)
	case LevelError:
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger.SetReportCaller(cfg.AddCaller)
	logger.SetOutput(outputSplitter{})

	return logger
}

// For returns a *logrus.Entry carrying service as a permanent field, the
// handle callers should actually log through (logrus.Logger itself has no
// notion of permanent fields, so New only builds the base logger).
func For(logger *logrus.Logger, service string) *logrus.Entry {
	return logger.WithField("service", service)
}

// RequestFields returns the standard field set attached to every HTTP
// access-log line.
func RequestFields(method, path string, status int, tenant, principal string) logrus.Fields {
	return logrus.Fields{
		"http_method": method,
		"http_path":   path,
		"http_status": status,
		"tenant":      tenant,
		"principal":   principal,
	}
}

// NodeFields returns the standard field set attached to node lifecycle log
// lines (create/update/delete) emitted by internal/nodeservice.
func NodeFields(op, uuid, kind string) logrus.Fields {
	return logrus.Fields{"op": op, "uuid": uuid, "kind": kind}
}

// FileFields extends NodeFields with a human-readable size for file-node
// lifecycle lines, where the raw byte count alone is hard to scan in a
// log stream.
func FileFields(op, uuid string, size int64) logrus.Fields {
	f := NodeFields(op, uuid, "File")
	f["size"] = humanize.Bytes(uint64(size))
	f["size_bytes"] = size
	return f
}
