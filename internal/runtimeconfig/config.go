package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-wikithread/internal/markdown"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

var ErrHeadingLevelInvalid = errors.New("wikithread config: documents heading level must be between 1 and 6")
var ErrDefaultModeInvalid = errors.New("wikithread config: documents default mode is invalid")
var ErrDefaultSortInvalid = errors.New("wikithread config: documents default sort is invalid")
var ErrMarkdownExtensionUnknown = errors.New("wikithread config: markdown extension is not supported")

// ErrRawHTMLRequiresSanitize indicates raw HTML output was enabled without sanitising.
var ErrRawHTMLRequiresSanitize = errors.New("wikithread config: disabling safe mode requires sanitize to be enabled")

var ErrLoggingProviderRequired = errors.New("wikithread config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("wikithread config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("wikithread config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("wikithread config: logging format is invalid")

// Config aggregates parser, projection and logging options for the module.
type Config struct {
	Markup    MarkupConfig    `mapstructure:"markup" yaml:"markup"`
	Markdown  MarkdownConfig  `mapstructure:"markdown" yaml:"markdown"`
	Documents DocumentsConfig `mapstructure:"documents" yaml:"documents"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Features  Features        `mapstructure:"features" yaml:"features"`
}

// MarkupConfig captures rendering toggles for the parsing engine.
type MarkupConfig struct {
	WikiDecorations bool `mapstructure:"wiki_decorations" yaml:"wiki_decorations"`
}

// MarkdownConfig captures HTML rendering behaviour.
type MarkdownConfig struct {
	Parser MarkdownParserConfig `mapstructure:"parser" yaml:"parser"`
}

// MarkdownParserConfig mirrors interfaces.RenderOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
	Sanitize   bool     `mapstructure:"sanitize" yaml:"sanitize"`
	HardWraps  bool     `mapstructure:"hard_wraps" yaml:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode" yaml:"safe_mode"`
}

// DocumentsConfig controls document loading and default projection settings.
type DocumentsConfig struct {
	BasePath          string `mapstructure:"base_path" yaml:"base_path"`
	Pattern           string `mapstructure:"pattern" yaml:"pattern"`
	Recursive         bool   `mapstructure:"recursive" yaml:"recursive"`
	HeadingLevel      int    `mapstructure:"heading_level" yaml:"heading_level"`
	DefaultMode       string `mapstructure:"default_mode" yaml:"default_mode"`
	DefaultSort       string `mapstructure:"default_sort" yaml:"default_sort"`
	FrontMatterSchema string `mapstructure:"front_matter_schema" yaml:"front_matter_schema"`
}

// Features toggles module functionality.
type Features struct {
	Logger bool `mapstructure:"logger" yaml:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider" yaml:"provider"`
	Level     string   `mapstructure:"level" yaml:"level"`
	Format    string   `mapstructure:"format" yaml:"format"`
	AddSource bool     `mapstructure:"add_source" yaml:"add_source"`
	Focus     []string `mapstructure:"focus" yaml:"focus"`
}

// DefaultConfig returns the defaults used by the CLI and the facade.
func DefaultConfig() Config {
	return Config{
		Markup: MarkupConfig{
			WikiDecorations: true,
		},
		Markdown: MarkdownConfig{
			Parser: MarkdownParserConfig{
				Extensions: []string{"gfm"},
				Sanitize:   true,
				SafeMode:   true,
			},
		},
		Documents: DocumentsConfig{
			Pattern:      "*.md",
			HeadingLevel: 2,
			DefaultMode:  string(interfaces.ViewThread),
			DefaultSort:  string(interfaces.SortByPosition),
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Documents.HeadingLevel < 1 || cfg.Documents.HeadingLevel > 6 {
		return fmt.Errorf("%w: %d", ErrHeadingLevelInvalid, cfg.Documents.HeadingLevel)
	}
	if mode := strings.TrimSpace(cfg.Documents.DefaultMode); mode != "" {
		if _, err := interfaces.ParseViewMode(mode); err != nil {
			return fmt.Errorf("%w: %s", ErrDefaultModeInvalid, mode)
		}
	}
	if _, err := interfaces.ParseSortKey(cfg.Documents.DefaultSort); err != nil {
		return fmt.Errorf("%w: %s", ErrDefaultSortInvalid, cfg.Documents.DefaultSort)
	}
	for _, ext := range cfg.Markdown.Parser.Extensions {
		if !markdown.SupportedExtension(ext) {
			return fmt.Errorf("%w: %s", ErrMarkdownExtensionUnknown, ext)
		}
	}
	if !cfg.Markdown.Parser.SafeMode && !cfg.Markdown.Parser.Sanitize {
		return ErrRawHTMLRequiresSanitize
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// RenderOptions converts the parser section into renderer options.
func (cfg MarkdownParserConfig) RenderOptions() interfaces.RenderOptions {
	return interfaces.RenderOptions{
		Extensions: append([]string(nil), cfg.Extensions...),
		Sanitize:   cfg.Sanitize,
		HardWraps:  cfg.HardWraps,
		SafeMode:   cfg.SafeMode,
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
