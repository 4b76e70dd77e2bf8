package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-wikithread/internal/logging"
	"github.com/goliatone/go-wikithread/internal/validation"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// Config controls how the markdown service discovers, parses and renders files.
type Config struct {
	BasePath          string
	HeadingLevel      int
	Pattern           string
	Recursive         bool
	FrontMatterSchema string
	Parser            interfaces.RenderOptions
}

// Service combines the filesystem loader with the HTML renderer.
type Service struct {
	cfg      Config
	renderer interfaces.MarkdownRenderer
	loader   *Loader
	logger   interfaces.Logger
}

// ServiceOption customises the markdown service.
type ServiceOption func(*Service)

// WithRenderer replaces the default goldmark renderer.
func WithRenderer(renderer interfaces.MarkdownRenderer) ServiceOption {
	return func(s *Service) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithLogger attaches the logger used for load and render diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a markdown service rooted at cfg.BasePath. The front
// matter schema, when configured, is read relative to the working directory.
func NewService(cfg Config, opts ...ServiceOption) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	schema, err := loadSchema(cfg.FrontMatterSchema)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:    cfg,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = NewGoldmarkRenderer(cfg.Parser)
	}

	s.loader = NewLoader(filesystem, LoaderConfig{
		BasePath:     cfg.BasePath,
		HeadingLevel: cfg.HeadingLevel,
		Pattern:      cfg.Pattern,
		Recursive:    cfg.Recursive,
		Schema:       schema,
	}, WithLoaderLogger(s.logger))

	return s, nil
}

// Loader exposes the underlying document loader.
func (s *Service) Loader() interfaces.DocumentLoader {
	return s.loader
}

// Renderer exposes the underlying HTML renderer.
func (s *Service) Renderer() interfaces.MarkdownRenderer {
	return s.renderer
}

// Load reads a single discussion relative to the configured base path.
func (s *Service) Load(ctx context.Context, path string) (*interfaces.Document, error) {
	return s.loader.LoadFile(ctx, s.normalisePath(path))
}

// LoadDirectory reads every discussion within dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string) ([]*interfaces.Document, error) {
	return s.loader.LoadDirectory(ctx, s.normalisePath(dir))
}

// Render converts markdown into HTML, layering overrides on top of the
// configured parser options.
func (s *Service) Render(ctx context.Context, markdown []byte, overrides interfaces.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.renderer.RenderWithOptions(markdown, mergeRenderOptions(s.cfg.Parser, overrides))
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func mergeRenderOptions(base, override interfaces.RenderOptions) interfaces.RenderOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.Sanitize {
		result.Sanitize = true
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}

func loadSchema(path string) (*validation.Schema, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("markdown service: read front matter schema %s: %w", path, err)
	}
	schema, err := validation.ParseSchema(source)
	if err != nil {
		return nil, fmt.Errorf("markdown service: front matter schema %s: %w", path, err)
	}
	return schema, nil
}
