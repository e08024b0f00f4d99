package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ncobase/shopfront/ctxutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestLoggerKeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, logrus.InfoLevel)
	l.SetVersion("v1.2.3")

	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")
	l.Info(ctx, "user registered", "user_id", "u1", "error", errors.New("boom"))

	line := decodeLine(t, &buf)
	assert.Equal(t, "user registered", line["msg"])
	assert.Equal(t, "u1", line["user_id"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "trace-1", line[traceKey])
	assert.Equal(t, "v1.2.3", line[VersionKey])
}

func TestLoggerMasksSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, logrus.InfoLevel)

	l.Warn(context.Background(), "login attempt",
		"email", "a@example.com",
		"password", "hunter22",
		"refresh_token", "abc",
		"verify_code", "123456",
		"header", "Bearer eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig",
	)

	line := decodeLine(t, &buf)
	assert.Equal(t, "a@example.com", line["email"])
	assert.Equal(t, maskValue, line["password"])
	assert.Equal(t, maskValue, line["refresh_token"])
	assert.Equal(t, maskValue, line["verify_code"])
	assert.Equal(t, "Bearer "+maskValue, line["header"])
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, logrus.WarnLevel)
	l.Info(context.Background(), "dropped")
	assert.Zero(t, buf.Len())
}

func TestToFieldsDanglingKey(t *testing.T) {
	fields := toFields([]any{"a", 1, "b"})
	assert.Equal(t, 1, fields["a"])
	assert.Equal(t, "b", fields["extra"])
}

func TestSetLevelName(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, logrus.WarnLevel)

	require.NoError(t, l.SetLevelName("debug"))
	l.Debug(context.Background(), "kept")
	assert.NotZero(t, buf.Len())

	assert.Error(t, l.SetLevelName("loud"))
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}
