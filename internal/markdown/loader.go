package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-wikithread/internal/logging"
	"github.com/goliatone/go-wikithread/internal/validation"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// DefaultHeadingLevel is the ATX heading level that starts a top level section.
const DefaultHeadingLevel = 2

// documentNamespace seeds the name based UUIDs of documents, sections and
// authors so reloading a file yields the same identifiers.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/goliatone/go-wikithread"))

// LoaderConfig configures how markdown discussions are read.
type LoaderConfig struct {
	// BasePath is the directory absolute paths are resolved against.
	BasePath string
	// HeadingLevel is the ATX level that starts a section. Deeper headings
	// start child sections.
	HeadingLevel int
	// Pattern limits LoadDirectory to matching file names (defaults to "*.md").
	Pattern string
	// Recursive controls whether LoadDirectory descends into sub-directories.
	Recursive bool
	// Schema validates front matter. Nil accepts everything.
	Schema *validation.Schema
}

// Loader turns markdown files with front matter into documents.
type Loader struct {
	fs           fs.FS
	basePath     string
	headingLevel int
	pattern      string
	recursive    bool
	schema       *validation.Schema
	logger       interfaces.Logger
	now          func() time.Time
}

// LoaderOption customises loader behaviour.
type LoaderOption func(*Loader)

// WithLoaderLogger attaches the logger used for load diagnostics.
func WithLoaderLogger(logger interfaces.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithLoaderClock overrides the time used when a source has no modification time.
func WithLoaderClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoader constructs a Loader reading from filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig, opts ...LoaderOption) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}
	level := cfg.HeadingLevel
	if level < 1 || level > 6 {
		level = DefaultHeadingLevel
	}

	l := &Loader{
		fs:           filesystem,
		basePath:     filepath.Clean(cfg.BasePath),
		headingLevel: level,
		pattern:      pattern,
		recursive:    cfg.Recursive,
		schema:       cfg.Schema,
		logger:       logging.NoOp(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ interfaces.DocumentLoader = (*Loader)(nil)

// LoadFile reads and parses a single markdown discussion.
func (l *Loader) LoadFile(ctx context.Context, path string) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.makeRelative(path)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}

	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	return l.build(ctx, rel, data, info.ModTime())
}

// LoadDocument parses source as if it had been read from path.
func (l *Loader) LoadDocument(ctx context.Context, path string, source []byte) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.build(ctx, filepath.ToSlash(path), source, l.now())
}

// LoadDirectory loads every discussion under dir, sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.ToSlash(filepath.Clean(root))

	var docs []*interfaces.Document
	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if !l.recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if match, err := filepath.Match(l.pattern, filepath.Base(path)); err != nil || !match {
			return nil
		}
		doc, err := l.LoadFile(ctx, path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})
	return docs, nil
}

func (l *Loader) build(ctx context.Context, path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	logger := logging.WithDocumentContext(l.logger.WithContext(ctx), path, "")

	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", path, err)
	}
	if err := l.schema.Validate(fm.Raw); err != nil {
		logging.WithFields(logger, map[string]any{
			"issues": len(validation.Issues(err)),
		}).Warn("markdown.loader.front_matter_invalid")
		return nil, fmt.Errorf("markdown loader %s: front matter: %w", path, err)
	}

	doc := &interfaces.Document{
		ID:          documentID(fm.ID, path),
		Title:       strings.TrimSpace(fm.Title),
		Description: strings.TrimSpace(fm.Description),
		AuthorID:    authorID(fm.Author),
		Tags:        append([]string(nil), fm.Tags...),
		IsPublic:    fm.Public,
		FilePath:    path,
	}

	split := splitSections(string(body), l.headingLevel)
	if doc.Title == "" {
		doc.Title = split.title
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	doc.Sections = make([]interfaces.Section, 0, len(split.sections))
	for _, raw := range split.sections {
		doc.Sections = append(doc.Sections, l.section(doc, raw, split.sections, fm.Sections, modified))
	}

	logging.WithFields(logger, map[string]any{
		"sections": len(doc.Sections),
		"document": doc.ID.String(),
	}).Debug("markdown.loader.document_loaded")
	return doc, nil
}

func (l *Loader) section(doc *interfaces.Document, raw rawSection, all []rawSection, stored map[string]interfaces.SectionFrontMatter, modified time.Time) interfaces.Section {
	section := interfaces.Section{
		ID:         sectionID(doc.ID, raw.anchor),
		DocumentID: doc.ID,
		AuthorID:   doc.AuthorID,
		Title:      raw.title,
		Anchor:     raw.anchor,
		Content:    raw.content,
		Position:   raw.position,
		UpdatedAt:  modified,
		Metadata: interfaces.SectionMetadata{
			ThreadDepth: raw.depth,
		},
	}
	if raw.parent >= 0 {
		parentID := sectionID(doc.ID, all[raw.parent].anchor)
		section.ParentID = &parentID
	}

	if extra, ok := stored[raw.anchor]; ok {
		if strings.TrimSpace(extra.Author) != "" {
			section.AuthorID = authorID(extra.Author)
		}
		section.VoteScore = extra.Votes
		section.Metadata.PromotionVotes = extra.PromotionVotes
		section.Metadata.Promoted = extra.Promoted
		if extra.WikiPosition != nil {
			position := *extra.WikiPosition
			section.Metadata.WikiPosition = &position
		}
		if !extra.Updated.IsZero() {
			section.UpdatedAt = extra.Updated
		}
	}
	return section
}

func (l *Loader) makeRelative(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		return clean, nil
	}
	if l.basePath == "" || l.basePath == "." {
		return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", path)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("markdown loader: make relative %s: %w", path, err)
	}
	return rel, nil
}

// documentID prefers an explicit UUID, then derives one from the declared id
// or the file path.
func documentID(declared, path string) uuid.UUID {
	declared = strings.TrimSpace(declared)
	if parsed, err := uuid.Parse(declared); err == nil {
		return parsed
	}
	key := declared
	if key == "" {
		key = path
	}
	return uuid.NewSHA1(documentNamespace, []byte("document:"+key))
}

func sectionID(documentID uuid.UUID, anchor string) uuid.UUID {
	if anchor == "" {
		anchor = leadAnchor
	}
	return uuid.NewSHA1(documentID, []byte("section:"+anchor))
}

func authorID(author string) uuid.UUID {
	author = strings.TrimSpace(author)
	if author == "" {
		return uuid.Nil
	}
	if parsed, err := uuid.Parse(author); err == nil {
		return parsed
	}
	return uuid.NewSHA1(documentNamespace, []byte("author:"+strings.ToLower(author)))
}

// AuthorID returns the identifier the loader assigns to an author name.
func AuthorID(author string) uuid.UUID {
	return authorID(author)
}
