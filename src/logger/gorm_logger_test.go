package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func newBufferedLogger(level logger.LogLevel) (*LogrusLogger, *bytes.Buffer) {
	var buf bytes.Buffer

	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)

	return NewLogrusLogger(l, level), &buf
}

func TestTrace(t *testing.T) {
	ctx := context.Background()
	statement := func() (string, int64) { return "INSERT INTO quote_records", 2 }

	t.Run("silent drops everything", func(t *testing.T) {
		l, buf := newBufferedLogger(logger.Silent)
		l.Trace(ctx, time.Now(), statement, errors.New("boom"))
		assert.Empty(t, buf.String())
	})

	t.Run("errors are logged at error level", func(t *testing.T) {
		l, buf := newBufferedLogger(logger.Error)
		l.Trace(ctx, time.Now(), statement, errors.New("boom"))
		assert.Contains(t, buf.String(), "level=error")
		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("slow statements warn", func(t *testing.T) {
		l, buf := newBufferedLogger(logger.Warn)
		l.Trace(ctx, time.Now().Add(-time.Second), statement, nil)
		assert.Contains(t, buf.String(), "SLOW SQL")
	})

	t.Run("fast statements only at info", func(t *testing.T) {
		l, buf := newBufferedLogger(logger.Warn)
		l.Trace(ctx, time.Now(), statement, nil)
		assert.Empty(t, buf.String())

		l.LogMode(logger.Info).Trace(ctx, time.Now(), statement, nil)
		assert.Contains(t, buf.String(), "msg=SQL")
	})
}
