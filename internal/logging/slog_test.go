package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_RoutesToFileOrStdout(t *testing.T) {
	tests := []struct {
		name     string
		file     bool
		inFile   bool
		inStdout bool
	}{
		{name: "file given", file: true, inFile: true},
		{name: "no file", inStdout: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore := captureStdout(t)

			var file bytes.Buffer
			m := NewSlogManager()
			if tt.file {
				m.Setup(&file, "debug", nil)
			} else {
				m.Setup(nil, "debug", nil)
			}
			m.Logger().Info("decoded replay", "replay", 1001)

			stdout := restore()
			assert.Equal(t, tt.inFile, strings.Contains(file.String(), "decoded replay"))
			assert.Equal(t, tt.inStdout, strings.Contains(stdout, "decoded replay"))
		})
	}
}

func TestSetup_Level(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{"debug", []string{"msg=debug", "msg=info", "msg=warn"}},
		{"INFO", []string{"msg=info", "msg=warn"}},
		{"warn", []string{"msg=warn"}},
		{"bogus", []string{"msg=info", "msg=warn"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewSlogManager()
			m.Setup(&buf, tt.level, nil)

			logger := m.Logger()
			logger.Debug("debug")
			logger.Info("info")
			logger.Warn("warn")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			got := make([]string, 0, len(lines))
			for _, line := range lines {
				if strings.Contains(line, "Logging initialized") {
					continue
				}
				if i := strings.Index(line, "msg="); i >= 0 {
					got = append(got, strings.Fields(line[i:])[0])
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetup_GraylogReceivesJSON(t *testing.T) {
	var file, graylog bytes.Buffer
	m := NewSlogManager()
	m.Setup(&file, "info", &graylog)

	m.Logger().Info("decoded", "replay", 1001)

	assert.Contains(t, file.String(), "decoded")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(graylog.Bytes(), &entry))
	assert.Equal(t, "decoded", entry["msg"])
	assert.Equal(t, float64(1001), entry["replay"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestWithContext_AddsAttributesPerRecord(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)

	done := 0
	logger := m.WithContext(func() []slog.Attr {
		return []slog.Attr{slog.Int("done", done)}
	})

	logger.Info("first")
	done = 3
	logger.Info("second")

	assert.Contains(t, buf.String(), "msg=first done=0")
	assert.Contains(t, buf.String(), "msg=second done=3")
}

func TestContextHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, nil)
	h := NewContextHandler(inner, nil)

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("cmd", "store")}).WithGroup("replay"))
	logger.Info("saved", "id", 7)

	assert.Contains(t, buf.String(), "cmd=store")
	assert.Contains(t, buf.String(), "replay.id=7")
	assert.Equal(t, h, h.WithGroup(""))
}

func TestContextWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)
	logger := m.WithContext(nil)

	ctx := ContextWithAttrs(context.Background(), slog.String("file", "1001.zip"))
	ctx = ContextWithAttrs(ctx, slog.Int("replayId", 1001))
	logger.InfoContext(ctx, "stored")
	logger.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "file=1001.zip replayId=1001")
	assert.NotContains(t, lines[1], "file=")
}

// failingSink accepts every level and rejects every record with err.
type failingSink struct {
	slog.Handler
	err error
}

func (h *failingSink) Enabled(context.Context, slog.Level) bool { return true }

func (h *failingSink) Handle(context.Context, slog.Record) error { return h.err }

func TestMultiHandler_JoinsSinkErrors(t *testing.T) {
	errGraylog := errors.New("graylog unreachable")
	errDisk := errors.New("disk full")

	var buf bytes.Buffer
	file := slog.NewTextHandler(&buf, nil)
	multi := NewMultiHandler(&failingSink{err: errGraylog}, nil, file, &failingSink{err: errDisk})

	err := multi.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "still written", 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, errGraylog)
	assert.ErrorIs(t, err, errDisk)
	assert.Contains(t, buf.String(), "still written")
}

func TestMultiHandler_DerivedSinksKeepAttrs(t *testing.T) {
	var text, js bytes.Buffer
	multi := NewMultiHandler(
		slog.NewTextHandler(&text, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&js, nil),
	)
	assert.True(t, multi.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelError))

	logger := slog.New(multi.WithAttrs([]slog.Attr{slog.String("cmd", "decode")}).WithGroup("turn"))
	logger.Info("info only json", "day", 3)
	logger.Warn("both", "day", 4)

	assert.NotContains(t, text.String(), "info only json")
	assert.Contains(t, text.String(), "cmd=decode turn.day=4")
	assert.Contains(t, js.String(), `"cmd":"decode","turn":{"day":3}`)
}

// captureStdout points the stdout sink at a pipe and returns a function
// that restores it and yields what was written.
func captureStdout(t *testing.T) func() string {
	t.Helper()

	r, w, err := osPipe()
	require.NoError(t, err)

	orig := osStdout
	osStdout = w

	return func() string {
		_ = w.Close()
		osStdout = orig
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		_ = r.Close()
		return buf.String()
	}
}
