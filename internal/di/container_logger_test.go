package di_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-wikithread/internal/di"
	"github.com/goliatone/go-wikithread/internal/runtimeconfig"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

func TestContainerRoutesModuleLoggersThroughProvider(t *testing.T) {
	dir := writeDiscussion(t)
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Documents.BasePath = dir

	rec := newRecordingProvider()
	container, err := di.NewContainer(cfg, di.WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	ctx := context.Background()
	doc, err := container.MarkdownService().Load(ctx, "discussion.md")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := container.DocumentService().Project(ctx, doc, interfaces.ViewConfig{Mode: interfaces.ViewWiki}); err != nil {
		t.Fatalf("project: %v", err)
	}

	entry := rec.find("documents.projection.completed")
	if entry == nil {
		t.Fatalf("expected documents.projection.completed log entry, got %#v", rec.entries)
	}
	if got := entry.fields["module"]; got != "wikithread.documents" {
		t.Fatalf("expected module field to be wikithread.documents, got %v", got)
	}
	if got := entry.fields["view_mode"]; got != "wiki" {
		t.Fatalf("expected view_mode field to be wiki, got %v", got)
	}

	parse := rec.find("markup.service.parse_completed")
	if parse == nil {
		t.Fatal("expected markup parse entries routed through the provider")
	}
	if got := parse.fields["logger"]; got != "wikithread.markup" {
		t.Fatalf("expected markup logger name, got %v", got)
	}

	loaded := rec.find("markdown.loader.document_loaded")
	if loaded == nil || loaded.fields["module"] != "wikithread.markdown" {
		t.Fatalf("expected loader entry under wikithread.markdown, got %#v", loaded)
	}
}

func TestContainerWithoutLoggerFeatureHasNoProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.LoggerProvider() != nil {
		t.Fatalf("expected nil provider when logging disabled, got %T", container.LoggerProvider())
	}
}

func writeDiscussion(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	source := "---\ntitle: Budget\nauthor: alice\n---\n## Spending\n\n[!consensus: 60%]Cap at two percent.[!end-consensus]\n\n## Aside\n\n[!thread-only]Lunch?[!end-thread-only]\n"
	if err := os.WriteFile(filepath.Join(dir, "discussion.md"), []byte(source), 0o644); err != nil {
		t.Fatalf("write discussion: %v", err)
	}
	return dir
}

type recordingProvider struct {
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{entries: []recordedEntry{}}
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{
		provider: p,
		fields: map[string]any{
			"logger": name,
		},
	}
}

func (p *recordingProvider) record(entry recordedEntry) {
	p.entries = append(p.entries, entry)
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

var _ interfaces.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("TRACE", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("FATAL", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	for key, value := range l.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &recordingLogger{
		provider: l.provider,
		fields:   merged,
	}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return &recordingLogger{
		provider: l.provider,
		fields:   cloneFields(l.fields),
	}
}

func (l *recordingLogger) log(level, msg string, args ...any) {
	fields := cloneFields(l.fields)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			break
		}
		key, _ := args[i].(string)
		if key == "" {
			continue
		}
		fields[key] = args[i+1]
	}
	l.provider.record(recordedEntry{
		level:  level,
		msg:    msg,
		fields: fields,
	})
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}
