// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"trace", zerolog.TraceLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"fatal", zerolog.FatalLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"bogus", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewTestLoggerCapturesOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewTestLogger(&buf)
	logger.Info().Str("component", "test").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("output missing structured field: %s", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("output missing message: %s", out)
	}
}

func TestSlogHandlerRoutesToZerolog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(NewTestLogger(&buf))
	slogger := slog.New(handler)

	slogger.Info("supervisor event", slog.String("service", "http-server"), slog.Int("restarts", 2))

	out := buf.String()
	if !strings.Contains(out, `"service":"http-server"`) {
		t.Errorf("output missing string attr: %s", out)
	}
	if !strings.Contains(out, `"restarts":2`) {
		t.Errorf("output missing int attr: %s", out)
	}
	if !strings.Contains(out, "supervisor event") {
		t.Errorf("output missing message: %s", out)
	}
}

func TestSlogHandlerGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(NewTestLogger(&buf))
	slogger := slog.New(handler).WithGroup("suture")

	slogger.Warn("backoff", slog.String("reason", "failures"))

	if !strings.Contains(buf.String(), `"suture.reason":"failures"`) {
		t.Errorf("group prefix missing: %s", buf.String())
	}
}

func TestSlogHandlerNestedGroupsOutermostFirst(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(NewTestLogger(&buf))
	slogger := slog.New(handler).WithGroup("outer").WithGroup("inner")

	slogger.Info("event", slog.String("key", "value"))

	if !strings.Contains(buf.String(), `"outer.inner.key":"value"`) {
		t.Errorf("nested group prefix wrong: %s", buf.String())
	}
}

func TestSlogHandlerInlineGroupAttr(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(NewTestLogger(&buf))
	slogger := slog.New(handler).WithGroup("svc")

	slogger.Info("event", slog.Group("conn", slog.Int("retries", 3)))

	if !strings.Contains(buf.String(), `"svc.conn.retries":3`) {
		t.Errorf("inline group prefix wrong: %s", buf.String())
	}
}
