package di

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-wikithread/internal/documents"
	"github.com/goliatone/go-wikithread/internal/logging"
	"github.com/goliatone/go-wikithread/internal/logging/console"
	"github.com/goliatone/go-wikithread/internal/logging/gologger"
	"github.com/goliatone/go-wikithread/internal/markdown"
	"github.com/goliatone/go-wikithread/internal/markup"
	"github.com/goliatone/go-wikithread/internal/runtimeconfig"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// Container wires module dependencies from a validated configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	clock          func() time.Time

	markupSvc    interfaces.MarkupService
	renderer     interfaces.MarkdownRenderer
	markdownSvc  *markdown.Service
	documentsSvc *documents.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithLogWriter sets the destination of the console logging provider.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		if w != nil {
			c.logWriter = w
		}
	}
}

// WithMarkupService overrides the default markup engine binding.
func WithMarkupService(svc interfaces.MarkupService) Option {
	return func(c *Container) {
		c.markupSvc = svc
	}
}

// WithRenderer overrides the default goldmark renderer binding.
func WithRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// WithClock overrides the time source handed to services.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.clock = now
		}
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:    cfg,
		logWriter: os.Stderr,
		clock:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: c.logWriter, TimeFunc: c.clock}
		if level := strings.TrimSpace(logCfg.Level); level != "" {
			parsed := console.ParseLevel(level)
			opts.MinLevel = &parsed
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureServices() error {
	if c.markupSvc == nil {
		c.markupSvc = markup.NewService(
			markup.WithLogger(logging.MarkupLogger(c.loggerProvider)),
			markup.WithWikiDecorations(c.Config.Markup.WikiDecorations),
			markup.WithClock(c.clock),
		)
	}

	parser := c.Config.Markdown.Parser.RenderOptions()
	if c.renderer == nil {
		c.renderer = markdown.NewGoldmarkRenderer(parser)
	}

	docsCfg := c.Config.Documents
	markdownSvc, err := markdown.NewService(markdown.Config{
		BasePath:          docsCfg.BasePath,
		HeadingLevel:      docsCfg.HeadingLevel,
		Pattern:           docsCfg.Pattern,
		Recursive:         docsCfg.Recursive,
		FrontMatterSchema: docsCfg.FrontMatterSchema,
		Parser:            parser,
	},
		markdown.WithRenderer(c.renderer),
		markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)),
	)
	if err != nil {
		return err
	}
	c.markdownSvc = markdownSvc

	c.documentsSvc = documents.NewService(
		documents.WithMarkupService(c.markupSvc),
		documents.WithRenderer(c.renderer),
		documents.WithLogger(logging.DocumentsLogger(c.loggerProvider)),
		documents.WithClock(c.clock),
	)
	return nil
}

// LoggerProvider returns the configured provider. It is nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// MarkupService returns the parsing engine.
func (c *Container) MarkupService() interfaces.MarkupService {
	return c.markupSvc
}

// Renderer returns the markdown to HTML renderer.
func (c *Container) Renderer() interfaces.MarkdownRenderer {
	return c.renderer
}

// MarkdownService returns the document loading and rendering service.
func (c *Container) MarkdownService() *markdown.Service {
	return c.markdownSvc
}

// DocumentService returns the thread/wiki projection service.
func (c *Container) DocumentService() interfaces.DocumentService {
	return c.documentsSvc
}

// DefaultViewConfig returns the projection settings configured for documents.
func (c *Container) DefaultViewConfig() interfaces.ViewConfig {
	return interfaces.ViewConfig{
		Mode:   interfaces.ViewMode(strings.ToLower(strings.TrimSpace(c.Config.Documents.DefaultMode))),
		SortBy: interfaces.SortKey(strings.ToLower(strings.TrimSpace(c.Config.Documents.DefaultSort))),
	}
}
