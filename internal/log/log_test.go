package log

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestWithLogField(t *testing.T) {
	ctx := WithLogField(context.Background(), "reqid", "abc")
	assert.Equal(t, "abc", L(ctx).Data["reqid"])

	long := strings.Repeat("x", 80)
	ctx = WithLogField(ctx, "op", long)
	assert.Equal(t, long[:61]+"...", L(ctx).Data["op"])
	assert.Equal(t, "abc", L(ctx).Data["reqid"])
}

func TestLoggerFromEmptyContext(t *testing.T) {
	assert.Same(t, rootLogger, L(context.Background()))
}

func TestInitConfig(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	InitConfig("debug", "json")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	InitConfig("not-a-level", "text")
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
