package obslog

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewSetsLevelAndFormatter(t *testing.T) {
	logger := New(Config{Level: LevelDebug, Format: "json"})
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	_, ok := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestNewDefaultsToInfoAndText(t *testing.T) {
	logger := New(Config{})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	_, ok := logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}

func TestForAttachesServiceField(t *testing.T) {
	logger := New(Config{})
	entry := For(logger, "antboxd")
	assert.Equal(t, "antboxd", entry.Data["service"])
}

func TestOutputSplitterRoutesByLevel(t *testing.T) {
	var s outputSplitter
	n, err := s.Write([]byte("time=now level=info msg=hello\n"))
	assert.NoError(t, err)
	assert.Greater(t, n, 0)
}

func TestRequestFieldsAndNodeFields(t *testing.T) {
	rf := RequestFields("GET", "/nodes/1", 200, "acme", "admin@acme")
	assert.Equal(t, "GET", rf["http_method"])
	assert.Equal(t, 200, rf["http_status"])

	nf := NodeFields("create", "uuid-1", "File")
	assert.Equal(t, "create", nf["op"])
	assert.Equal(t, "uuid-1", nf["uuid"])
}

func TestFileFieldsFormatsHumanReadableSize(t *testing.T) {
	f := FileFields("create", "uuid-1", 2048)
	assert.Equal(t, int64(2048), f["size_bytes"])
	assert.Equal(t, "2.0 kB", f["size"])
}
