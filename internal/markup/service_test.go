package markup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

type logEntry struct {
	level  string
	msg    string
	fields map[string]any
}

type recordingLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
	fields  map[string]any
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (r *recordingLogger) record(level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, logEntry{level: level, msg: msg, fields: r.fields})
}

func (r *recordingLogger) Trace(msg string, _ ...any) { r.record("trace", msg) }
func (r *recordingLogger) Debug(msg string, _ ...any) { r.record("debug", msg) }
func (r *recordingLogger) Info(msg string, _ ...any)  { r.record("info", msg) }
func (r *recordingLogger) Warn(msg string, _ ...any)  { r.record("warn", msg) }
func (r *recordingLogger) Error(msg string, _ ...any) { r.record("error", msg) }
func (r *recordingLogger) Fatal(msg string, _ ...any) { r.record("fatal", msg) }

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := map[string]any{}
	for k, v := range r.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{mu: r.mu, entries: r.entries, fields: merged}
}

func (r *recordingLogger) find(msg string) (logEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range *r.entries {
		if entry.msg == msg {
			return entry, true
		}
	}
	return logEntry{}, false
}

func TestService_ParseLogsSummary(t *testing.T) {
	logger := newRecordingLogger()
	tick := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	svc := NewService(WithLogger(logger), WithClock(func() time.Time {
		tick = tick.Add(5 * time.Millisecond)
		return tick
	}))

	parsed := svc.Parse(context.Background(), "[!consensus:73%]ok[!end-consensus]")

	if len(parsed.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(parsed.Blocks))
	}
	entry, ok := logger.find("markup.service.parse_completed")
	if !ok {
		t.Fatal("expected parse_completed entry")
	}
	if entry.level != "debug" {
		t.Fatalf("expected debug level, got %s", entry.level)
	}
	if entry.fields["blocks"] != 1 || entry.fields["consensus_level"] != 0.73 {
		t.Fatalf("unexpected fields %v", entry.fields)
	}
	if entry.fields["duration_ms"] != int64(5) {
		t.Fatalf("expected 5ms duration, got %v", entry.fields["duration_ms"])
	}
}

func TestService_ValidateWarnsOnInvalidMarkup(t *testing.T) {
	logger := newRecordingLogger()
	svc := NewService(WithLogger(logger))

	result := svc.Validate(context.Background(), "[!thread-only]dangling")

	if result.IsValid {
		t.Fatal("expected invalid markup")
	}
	entry, ok := logger.find("markup.service.validation_failed")
	if !ok || entry.level != "warn" {
		t.Fatalf("expected warn entry, got %+v", entry)
	}
	if entry.fields["error_count"] != 1 {
		t.Fatalf("unexpected error_count %v", entry.fields["error_count"])
	}

	svc.Validate(context.Background(), "fine")
	logger.mu.Lock()
	count := len(*logger.entries)
	logger.mu.Unlock()
	if count != 1 {
		t.Fatalf("expected valid markup to log nothing, got %d entries", count)
	}
}

func TestService_RenderTextHonoursDecorationToggle(t *testing.T) {
	blocks := Parse("[!debate-active: Scope]still open[!end-debate]").Blocks

	decorated := NewService().RenderText(context.Background(), blocks, interfaces.ViewWiki)
	if decorated != "**[Active Debate: Scope]**\n\nstill open" {
		t.Fatalf("unexpected decorated text %q", decorated)
	}

	plain := NewService(WithWikiDecorations(false)).RenderText(context.Background(), blocks, interfaces.ViewWiki)
	if plain != "still open" {
		t.Fatalf("unexpected plain text %q", plain)
	}
}

func TestService_DelegatesPureOperations(t *testing.T) {
	svc := NewService(WithLogger(nil))

	if got := svc.Strip("[!wiki-primary]x[!end-wiki-primary]"); got != "x" {
		t.Fatalf("unexpected strip result %q", got)
	}
	if got := svc.Convert("x", interfaces.ConvertOptions{MakeWikiPrimary: true}); got != "[!wiki-primary]\nx\n[!end-wiki-primary]" {
		t.Fatalf("unexpected convert result %q", got)
	}
	blocks := svc.Parse(context.Background(), "[!thread-only]x[!end-thread-only]").Blocks
	if svc.IsWikiVisible(blocks) {
		t.Fatal("expected thread-only content to be hidden from the wiki")
	}
	if len(svc.RenderForView(context.Background(), blocks, interfaces.ViewWiki)) != 0 {
		t.Fatal("expected empty wiki view")
	}
	if svc.ExtractMetadata(blocks).WikiReady {
		t.Fatal("expected thread-only block not to be wiki ready")
	}
}
