package wikithread

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-wikithread/internal/commands"
	markupcmd "github.com/goliatone/go-wikithread/internal/commands/markup"
	"github.com/goliatone/go-wikithread/internal/di"
	"github.com/goliatone/go-wikithread/internal/markdown"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// MarkupService exports the parsing engine contract.
type MarkupService = interfaces.MarkupService

// DocumentService exports the thread/wiki projection contract.
type DocumentService = interfaces.DocumentService

// MarkdownService exports the document loading and HTML rendering service.
type MarkdownService = *markdown.Service

// CommandRegistrationOptions selects the registry and dispatcher used by Commands.
type CommandRegistrationOptions = commands.RegistrationOptions

// CommandRegistration captures the handlers and subscriptions created by Commands.
type CommandRegistration = commands.RegistrationResult

// Module represents the top level wikithread runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Markup returns the configured parsing engine.
func (m *Module) Markup() MarkupService {
	return m.container.MarkupService()
}

// Documents returns the configured projection service.
func (m *Module) Documents() DocumentService {
	return m.container.DocumentService()
}

// Markdown returns the markdown loading service.
func (m *Module) Markdown() MarkdownService {
	return m.container.MarkdownService()
}

// DefaultView returns the view settings taken from the documents config.
func (m *Module) DefaultView() ViewConfig {
	return m.container.DefaultViewConfig()
}

// Parse decomposes content into semantic blocks.
func (m *Module) Parse(ctx context.Context, content string) ParsedContent {
	return m.Markup().Parse(ctx, content)
}

// Validate checks tag balance and consensus values in content.
func (m *Module) Validate(ctx context.Context, content string) ValidationResult {
	return m.Markup().Validate(ctx, content)
}

// Strip removes every markup tag from content.
func (m *Module) Strip(content string) string {
	return m.Markup().Strip(content)
}

// Convert wraps plain text in markup according to opts.
func (m *Module) Convert(text string, opts ConvertOptions) string {
	return m.Markup().Convert(text, opts)
}

// Load reads a single document relative to the configured base path.
func (m *Module) Load(ctx context.Context, path string) (*Document, error) {
	return m.Markdown().Load(ctx, path)
}

// LoadDirectory reads every document matching the configured pattern under dir.
func (m *Module) LoadDirectory(ctx context.Context, dir string) ([]*Document, error) {
	return m.Markdown().LoadDirectory(ctx, dir)
}

// Project orders and filters doc for the requested view.
func (m *Module) Project(ctx context.Context, doc *Document, cfg ViewConfig) (*ProjectedDocument, error) {
	return m.Documents().Project(ctx, doc, cfg)
}

// RenderMarkdown flattens the projection of doc into markdown.
func (m *Module) RenderMarkdown(ctx context.Context, doc *Document, cfg ViewConfig) (string, error) {
	return m.Documents().RenderMarkdown(ctx, doc, cfg)
}

// RenderHTML renders the projection of doc to sanitised HTML.
func (m *Module) RenderHTML(ctx context.Context, doc *Document, cfg ViewConfig) ([]byte, error) {
	return m.Documents().RenderHTML(ctx, doc, cfg)
}

// Promote marks a section as promoted so it appears in wiki views.
func (m *Module) Promote(doc *Document, sectionID uuid.UUID) (*Section, error) {
	return m.Documents().Promote(doc, sectionID)
}

// Commands builds the markup and document command handlers, registers them
// with opts.Registry and subscribes them through opts.Dispatcher.
func (m *Module) Commands(opts CommandRegistrationOptions) (*CommandRegistration, error) {
	set, err := markupcmd.RegisterMarkupCommands(nil, markupcmd.Services{
		Markup:    m.container.MarkupService(),
		Documents: m.container.DocumentService(),
		Loader:    m.container.MarkdownService().Loader(),
	}, m.container.LoggerProvider())
	if err != nil {
		return nil, err
	}
	return commands.Register(set.Handlers(), opts)
}
