package diag

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSource struct{ typ, name string }

func (s testSource) TypeName() string { return s.typ }
func (s testSource) Name() string     { return s.name }

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindOK, "OK"},
		{KindError, "Error"},
		{KindBadArg, "BadArg"},
		{KindBadPath, "BadPath"},
		{KindNotImpl, "NotImpl"},
		{KindBadVersion, "BadVersion"},
		{KindCantLoadLib, "CantLoadLib"},
		{KindCantCreateObj, "CantCreateObj"},
		{Kind(200), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestKindOf(t *testing.T) {
	sentinel := New(KindBadArg, "bad index")

	assert.Equal(t, KindOK, KindOf(nil))
	assert.Equal(t, KindError, KindOf(errors.New("plain")))
	assert.Equal(t, KindBadArg, KindOf(sentinel))
	assert.Equal(t, KindBadArg, KindOf(fmt.Errorf("ctx: %w", sentinel)))

	wrapped := Wrap(KindBadVersion, "Table t", sentinel, "load")
	assert.Equal(t, KindBadVersion, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, sentinel)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "bad index", New(KindBadArg, "bad index").Error())
	assert.Equal(t, "Table t: load: eof", Wrap(KindError, "Table t", errors.New("eof"), "load").Error())
	assert.Equal(t, "eof", Wrap(KindError, "", errors.New("eof"), "").Error())
	assert.Equal(t, "NotImpl", (&Error{Kind: KindNotImpl}).Error())
}

func TestLatch(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	latch := NewLatch(logger)

	assert.Equal(t, KindOK, latch.Kind())

	latch.Report(testSource{typ: "Table", name: "t1"}, KindBadArg, "Invalid column index")
	assert.Equal(t, "Table t1", latch.Source())
	assert.Equal(t, KindBadArg, latch.Kind())
	assert.Equal(t, "Invalid column index", latch.Description())
	assert.Contains(t, buf.String(), "Invalid column index")

	latch.Report(testSource{typ: "Record"}, KindError, "second")
	assert.Equal(t, "Record", latch.Source())
	assert.Equal(t, "second", latch.Description())

	latch.Clear()
	assert.Equal(t, "", latch.Source())
	assert.Equal(t, KindOK, latch.Kind())
	assert.Equal(t, "", latch.Description())
}

func TestReportError(t *testing.T) {
	latch := NewLatch()
	ReportError(latch, nil, nil)
	assert.Equal(t, KindOK, latch.Kind())

	ReportError(latch, testSource{typ: "Variable", name: "x"}, New(KindBadArg, "type mismatch"))
	assert.Equal(t, KindBadArg, latch.Kind())
	assert.Equal(t, "Variable x", latch.Source())

	require.NotPanics(t, func() { ReportError(nil, nil, errors.New("x")) })
	require.NotPanics(t, func() { Discard.Report(nil, KindError, "x") })
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).WithTable("t")
	ctx := context.Background()

	logger.LogSave(ctx, "a", 3, 2, nil)
	logger.LogLoad(ctx, "a", 0, 0, errors.New("boom"))
	logger.LogReDim(ctx, 1, 1, nil)
	logger.LogAssign(ctx, true, nil)

	out := buf.String()
	assert.Contains(t, out, `"msg":"table saved"`)
	assert.Contains(t, out, `"msg":"table load failed"`)
	assert.Contains(t, out, `"msg":"table redim completed"`)
	assert.Contains(t, out, `"schema_only":true`)
	assert.Contains(t, out, `"table":"t"`)

	require.NotPanics(t, func() { NoopLogger().Info("x") })
}
