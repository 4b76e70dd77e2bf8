package markdown

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-wikithread/internal/validation"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

func TestServiceLoad(t *testing.T) {
	svc := newTestService(t, Config{BasePath: "testdata"})

	doc, err := svc.Load(context.Background(), "discussion.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.FilePath != "discussion.md" || len(doc.Sections) != 4 {
		t.Fatalf("unexpected document %q with %d sections", doc.FilePath, len(doc.Sections))
	}
}

func TestServiceLoad_AbsolutePath(t *testing.T) {
	base, err := filepath.Abs("testdata")
	if err != nil {
		t.Fatalf("Abs: %v", err)
	}
	svc := newTestService(t, Config{BasePath: base})

	doc, err := svc.Load(context.Background(), filepath.Join(base, "discussion.md"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Title != "Carbon Policy" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
}

func TestServiceLoadDirectory(t *testing.T) {
	svc := newTestService(t, Config{BasePath: "testdata"})

	docs, err := svc.LoadDirectory(context.Background(), "")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 1 || docs[0].FilePath != "discussion.md" {
		t.Fatalf("unexpected documents %+v", docs)
	}
}

func TestServiceRender_MergesOverrides(t *testing.T) {
	svc := newTestService(t, Config{BasePath: "testdata", Parser: interfaces.RenderOptions{SafeMode: true}})

	html, err := svc.Render(context.Background(), []byte("a\nb"), interfaces.RenderOptions{HardWraps: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(html), "a<br>") {
		t.Fatalf("expected hard wrap override to apply, got %q", string(html))
	}
}

func TestNewService_LoadsFrontMatterSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(schemaPath, []byte("type: object\nrequired: [summary]\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	svc := newTestService(t, Config{BasePath: "testdata", FrontMatterSchema: schemaPath})

	_, err := svc.Load(context.Background(), "discussion.md")
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema rejection, got %v", err)
	}
}

func TestNewService_MissingBasePath(t *testing.T) {
	if _, err := NewService(Config{BasePath: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatal("expected missing base path to fail")
	}
}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}
