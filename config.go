package wikithread

import (
	"github.com/goliatone/go-wikithread/internal/runtimeconfig"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

var (
	ErrHeadingLevelInvalid      = runtimeconfig.ErrHeadingLevelInvalid
	ErrDefaultModeInvalid       = runtimeconfig.ErrDefaultModeInvalid
	ErrDefaultSortInvalid       = runtimeconfig.ErrDefaultSortInvalid
	ErrMarkdownExtensionUnknown = runtimeconfig.ErrMarkdownExtensionUnknown
	ErrRawHTMLRequiresSanitize  = runtimeconfig.ErrRawHTMLRequiresSanitize
	ErrLoggingProviderRequired  = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
	ErrUnknownViewMode          = interfaces.ErrUnknownViewMode
	ErrUnknownSortKey           = interfaces.ErrUnknownSortKey
)

type (
	Config               = runtimeconfig.Config
	MarkupConfig         = runtimeconfig.MarkupConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	DocumentsConfig      = runtimeconfig.DocumentsConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
)

type (
	Block             = interfaces.Block
	BlockKind         = interfaces.BlockKind
	ParsedContent     = interfaces.ParsedContent
	ValidationResult  = interfaces.ValidationResult
	ConvertOptions    = interfaces.ConvertOptions
	ViewMode          = interfaces.ViewMode
	ViewMetadata      = interfaces.ViewMetadata
	Document          = interfaces.Document
	Section           = interfaces.Section
	SectionMetadata   = interfaces.SectionMetadata
	SectionStatus     = interfaces.SectionStatus
	SectionFilter     = interfaces.SectionFilter
	SortKey           = interfaces.SortKey
	ViewConfig        = interfaces.ViewConfig
	ProjectedDocument = interfaces.ProjectedDocument
	ProjectedSection  = interfaces.ProjectedSection
)

const (
	ViewThread = interfaces.ViewThread
	ViewWiki   = interfaces.ViewWiki
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
