package integration

import (
	"bytes"
	"strings"
	"testing"

	"github.com/p4gefau1t/acl-go/log"
	"github.com/p4gefau1t/acl-go/log/slogadapter"
)

// registerTestLogger points the package-level log.* functions at a fresh
// SlogAdapter writing to buf and restores the previous logger on cleanup,
// so tests in this package don't leak registration state into each other.
func registerTestLogger(t *testing.T, buf *bytes.Buffer) {
	t.Helper()
	log.RegisterLogger(slogadapter.NewSlogAdapter(buf, false))
	t.Cleanup(func() { log.RegisterLogger(&log.EmptyLogger{}) })
}

func TestSlogAdapterIntegration(t *testing.T) {
	var buf bytes.Buffer
	registerTestLogger(t, &buf)

	log.Info("test info message")
	log.Error("test error message")
	log.Warn("test warn message")
	if buf.Len() == 0 {
		t.Error("expected log output, got empty buffer")
	}

	buf.Reset()
	log.Infof("test info %s", "formatted")
	log.Errorf("test error %d", 123)
	if buf.Len() == 0 {
		t.Error("expected formatted log output, got empty buffer")
	}
}

func TestLogLevelIntegration(t *testing.T) {
	var buf bytes.Buffer
	registerTestLogger(t, &buf)
	log.SetLogLevel(log.ErrorLevel)

	log.Info("info message")
	log.Warn("warn message")
	log.Debug("debug message")
	if buf.Len() > 0 {
		t.Errorf("expected no output for INFO/WARN/DEBUG at ERROR level, got: %s", buf.String())
	}

	buf.Reset()
	log.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Errorf("expected %q in output, got: %s", "error message", buf.String())
	}
}

func TestBackwardCompatibility(t *testing.T) {
	var buf bytes.Buffer
	registerTestLogger(t, &buf)
	log.SetLogLevel(log.InfoLevel)

	cases := []struct {
		name      string
		fn        func()
		mayFilter bool
	}{
		{"Info", func() { log.Info("test") }, false},
		{"Infof", func() { log.Infof("test %s", "formatted") }, false},
		{"Error", func() { log.Error("test") }, false},
		{"Errorf", func() { log.Errorf("test %s", "formatted") }, false},
		{"Warn", func() { log.Warn("test") }, false},
		{"Warnf", func() { log.Warnf("test %s", "formatted") }, false},
		{"Debug", func() { log.Debug("test") }, true},
		{"Trace", func() { log.Trace("test") }, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			buf.Reset()
			c.fn()
			if !c.mayFilter && buf.Len() == 0 {
				t.Errorf("expected output from %s, got empty buffer", c.name)
			}
		})
	}
}

func TestOutputWriterIntegration(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	registerTestLogger(t, &buf1)

	log.Info("message1")
	if !strings.Contains(buf1.String(), "message1") {
		t.Error("expected message1 in first buffer")
	}
	if buf2.Len() > 0 {
		t.Error("expected no output in second buffer before SetOutput")
	}

	log.SetOutput(&buf2)
	log.Info("message2")
	if strings.Contains(buf1.String(), "message2") {
		t.Error("did not expect message2 in first buffer after SetOutput")
	}
	if !strings.Contains(buf2.String(), "message2") {
		t.Error("expected message2 in second buffer")
	}
}
