package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSourceHandlerLevels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		withSource []slog.Level
		wantSource bool
	}{
		{
			name:       "info without source config",
			level:      slog.LevelInfo,
			withSource: []slog.Level{slog.LevelWarn, slog.LevelError},
			wantSource: false,
		},
		{
			name:       "warn with source config",
			level:      slog.LevelWarn,
			withSource: []slog.Level{slog.LevelWarn, slog.LevelError},
			wantSource: true,
		},
		{
			name:       "error with source config",
			level:      slog.LevelError,
			withSource: []slog.Level{slog.LevelWarn, slog.LevelError},
			wantSource: true,
		},
		{
			name:       "info with all levels configured",
			level:      slog.LevelInfo,
			withSource: []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError},
			wantSource: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
			})
			l := slog.New(NewSourceHandler(base, tt.withSource...))

			l.Log(t.Context(), tt.level, "sample line")

			got := strings.Contains(buf.String(), "source=")
			if got != tt.wantSource {
				t.Errorf("source attr present = %v, want %v; output: %s", got, tt.wantSource, buf.String())
			}
		})
	}
}
