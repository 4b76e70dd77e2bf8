package di

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-wikithread/internal/logging/gologger"
	"github.com/goliatone/go-wikithread/internal/runtimeconfig"
)

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	provider, ok := container.loggerProvider.(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.loggerProvider)
	}

	logger := provider.GetLogger("wikithread.test")
	if logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestConfigureLoggerProviderDefaultsToConsole(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Level = "debug"

	var buf bytes.Buffer
	container, err := NewContainer(cfg, WithLogWriter(&buf))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	container.MarkupService().Parse(context.Background(), "[!wiki-primary]x[!end-wiki-primary]")
	if !strings.Contains(buf.String(), "markup.service.parse_completed") {
		t.Fatalf("expected console output to contain parse entry, got %q", buf.String())
	}
}

func TestConfigureLoggerProviderConsoleHonoursLevel(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	container, err := NewContainer(cfg, WithLogWriter(&buf))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	ctx := context.Background()
	container.MarkupService().Parse(ctx, "plain")
	if buf.Len() != 0 {
		t.Fatalf("expected debug entries filtered at warn level, got %q", buf.String())
	}
	container.MarkupService().Validate(ctx, "[!thread-only]open")
	if !strings.Contains(buf.String(), "markup.service.validation_failed") {
		t.Fatalf("expected warn entry, got %q", buf.String())
	}
}
