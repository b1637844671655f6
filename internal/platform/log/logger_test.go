package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	t.Parallel()

	logger, err := NewLoggerWithOutput("", &bytes.Buffer{})
	if err != nil {
		t.Fatalf("NewLoggerWithOutput returned error: %v", err)
	}

	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", logger.GetLevel())
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	if _, err := NewLoggerWithOutput("chatty", &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewLoggerWithOutput("DEBUG", &buf)
	if err != nil {
		t.Fatalf("NewLoggerWithOutput returned error: %v", err)
	}

	Component(logger, "news").WithField("article_id", 7).Debug("resolved article")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}

	if entry["component"] != "news" {
		t.Fatalf("expected component field, got %v", entry["component"])
	}
	if entry["msg"] != "resolved article" {
		t.Fatalf("expected message field, got %v", entry["msg"])
	}
}

func TestInitSentryDisabledWithoutDSN(t *testing.T) {
	t.Parallel()

	hub, flush, err := InitSentry(logrus.New(), SentrySettings{})
	if err != nil {
		t.Fatalf("InitSentry returned error: %v", err)
	}
	if hub != nil {
		t.Fatalf("expected nil hub when DSN is empty")
	}
	flush()
}
