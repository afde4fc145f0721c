package slogadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/p4gefau1t/acl-go/log"
)

// TestInterfaceCompliance verifies SlogAdapter satisfies log.Logger with
// matching method signatures, via reflection rather than a compile-time
// assertion alone, so a signature drift fails with a useful message.
func TestInterfaceCompliance(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(&buf, false)
	var _ log.Logger = adapter

	loggerType := reflect.TypeOf((*log.Logger)(nil)).Elem()
	adapterType := reflect.TypeOf(adapter)
	for i := 0; i < loggerType.NumMethod(); i++ {
		method := loggerType.Method(i)
		adapterMethod, ok := adapterType.MethodByName(method.Name)
		if !ok {
			t.Errorf("missing method %s", method.Name)
			continue
		}
		if got, want := adapterMethod.Type.NumIn(), method.Type.NumIn()+1; got != want {
			t.Errorf("%s: got %d params, want %d", method.Name, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	cases := []struct {
		level   log.LogLevel
		logFn   func(*SlogAdapter, string)
		emitted bool
	}{
		{log.ErrorLevel, func(a *SlogAdapter, m string) { a.Info(m) }, false},
		{log.ErrorLevel, func(a *SlogAdapter, m string) { a.Error(m) }, true},
		{log.InfoLevel, func(a *SlogAdapter, m string) { a.Debug(m) }, false},
		{log.InfoLevel, func(a *SlogAdapter, m string) { a.Info(m) }, true},
		{log.AllLevel, func(a *SlogAdapter, m string) { a.Trace(m) }, true},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		adapter := NewSlogAdapter(&buf, false)
		adapter.SetLogLevel(c.level)
		c.logFn(adapter, "rule compile failed")
		got := strings.Contains(buf.String(), "rule compile failed")
		if got != c.emitted {
			t.Errorf("level=%v: emitted=%v, want %v (output=%q)", c.level, got, c.emitted, buf.String())
		}
	}
}

// TestRuntimeLevelChanges checks that SetLogLevel takes effect on the very
// next call, not just at construction time.
func TestRuntimeLevelChanges(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(&buf, false)

	adapter.SetLogLevel(log.ErrorLevel)
	adapter.Info("geoip reload skipped")
	if strings.Contains(buf.String(), "geoip reload skipped") {
		t.Fatal("info message emitted while level was ERROR")
	}

	adapter.SetLogLevel(log.InfoLevel)
	adapter.Info("geoip reload skipped")
	if !strings.Contains(buf.String(), "geoip reload skipped") {
		t.Fatal("info message not emitted after raising level to INFO")
	}
}

func TestTerminalColorSupport(t *testing.T) {
	var buf bytes.Buffer

	plain := NewSlogAdapter(&buf, false)
	plain.Error("outbound dial failed")
	if strings.ContainsAny(buf.String(), "\x1b") {
		t.Error("uncolored adapter emitted ANSI escape codes")
	}

	buf.Reset()
	colored := NewSlogAdapter(&buf, true)
	if colored.GetFormat() != ColoredFormat {
		t.Fatalf("got format %v, want ColoredFormat", colored.GetFormat())
	}
}

// TestCustomWriterSupport exercises SetOutput, the FallbackWriter's
// failover path, and the error handler callback it invokes on a write
// failure.
func TestCustomWriterSupport(t *testing.T) {
	var primary, secondary bytes.Buffer
	adapter := NewSlogAdapter(&primary, false)
	adapter.Info("compiled 3 rules")
	if !strings.Contains(primary.String(), "compiled 3 rules") {
		t.Fatal("expected message in primary writer")
	}

	adapter.SetOutput(&secondary)
	adapter.Info("cache evicted")
	if !strings.Contains(secondary.String(), "cache evicted") {
		t.Fatal("expected message in writer set via SetOutput")
	}

	var handled []string
	adapter.SetErrorHandler(errorHandlerFunc(func(err error, ctx string) {
		handled = append(handled, ctx)
	}))
	adapter.SetOutput(&failingWriter{})
	var fallback bytes.Buffer
	adapter.SetFallbackWriter(&fallback)
	adapter.Info("rule set reloaded")
	if len(handled) == 0 {
		t.Fatal("expected error handler to be invoked when the primary writer fails")
	}
	if !strings.Contains(fallback.String(), "rule set reloaded") {
		t.Fatal("expected message to reach the fallback writer")
	}
}

type errorHandlerFunc func(err error, context string)

func (f errorHandlerFunc) HandleError(err error, context string) { f(err, context) }

type failingWriter struct{}

func (*failingWriter) Write([]byte) (int, error) { return 0, errWriteFailed }

var errWriteFailed = &writeError{}

type writeError struct{}

func (*writeError) Error() string { return "simulated write failure" }

func TestStructuredLoggingSupport(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapterWithFormat(&buf, JSONFormat)
	adapter.InfoWith("outbound dialed", slog.String("outbound", "proxy"), slog.Int("port", 443))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log line: %v", err)
	}
	if record["outbound"] != "proxy" {
		t.Errorf("got outbound=%v, want proxy", record["outbound"])
	}
	if record["port"].(float64) != 443 {
		t.Errorf("got port=%v, want 443", record["port"])
	}
	if record["msg"] != "outbound dialed" {
		t.Errorf("got msg=%v, want %q", record["msg"], "outbound dialed")
	}
}

func TestContextMetadataInclusion(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapterWithFormat(&buf, JSONFormat)
	ctx := context.Background()
	adapter.InfoCtx(ctx, "match evaluated", slog.String("host", "youtube.com"), slog.Bool("hijacked", false))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log line: %v", err)
	}
	if record["host"] != "youtube.com" {
		t.Errorf("got host=%v, want youtube.com", record["host"])
	}
}

// TestWithAttrsAndGroup checks that attrs/groups attached via WithAttrs and
// WithGroup appear on every record logged through the derived adapter
// without mutating the parent.
func TestWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	parent := NewSlogAdapterWithFormat(&buf, JSONFormat)
	child := parent.WithAttrs(slog.String("component", "router")).WithGroup("dial")
	child.InfoWith("connected", slog.String("network", "tcp"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log line: %v", err)
	}
	if record["component"] != "router" {
		t.Errorf("got component=%v, want router", record["component"])
	}
	group, ok := record["dial"].(map[string]any)
	if !ok {
		t.Fatalf("expected a %q group in the record, got %v", "dial", record)
	}
	if group["network"] != "tcp" {
		t.Errorf("got dial.network=%v, want tcp", group["network"])
	}

	buf.Reset()
	parent.Info("unaffected by child's attrs")
	if strings.Contains(buf.String(), "component") {
		t.Fatal("WithAttrs on the child leaked into the parent adapter")
	}
}

func TestFormatConsistency(t *testing.T) {
	for _, format := range []LogFormat{TextFormat, JSONFormat, ColoredFormat} {
		var buf bytes.Buffer
		adapter := NewSlogAdapterWithFormat(&buf, format)
		adapter.Info("rule set compiled")
		if buf.Len() == 0 {
			t.Errorf("format %v produced no output", format)
		}
		if adapter.GetFormat() != format {
			t.Errorf("GetFormat() = %v, want %v", adapter.GetFormat(), format)
		}
	}
}

func TestParseLogFormatRoundTrip(t *testing.T) {
	for _, f := range []LogFormat{TextFormat, JSONFormat, ColoredFormat} {
		if got := ParseLogFormat(f.String()); got != f {
			t.Errorf("ParseLogFormat(%q) = %v, want %v", f.String(), got, f)
		}
	}
	if got := ParseLogFormat("garbage"); got != TextFormat {
		t.Errorf("ParseLogFormat(garbage) = %v, want TextFormat default", got)
	}
}

// TestConcurrentLoggingSafety drives many goroutines through Info and
// ErrorWith plus concurrent SetLogLevel/SetFormat calls, for the race
// detector to watch when run with -race (nothing here asserts message content;
// the property under test is "does not race or panic").
func TestConcurrentLoggingSafety(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(&buf, false)

	var wg sync.WaitGroup
	const workers = 16
	const perWorker = 50

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				adapter.Info("worker log line")
				adapter.ErrorWith("worker structured", slog.Int("worker", id), slog.Int("i", j))
				if j%10 == 0 {
					adapter.SetLogLevel(log.LogLevel(j % int(log.OffLevel)))
				}
			}
		}(i)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				adapter.SetFormat(LogFormat(j % 3))
			}
		}()
	}
	wg.Wait()
}
