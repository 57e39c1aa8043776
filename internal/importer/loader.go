package importer

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// LoaderConfig configures how markdown files are discovered.
type LoaderConfig struct {
	// DefaultLocale is used when neither the directory nor the file name names one.
	DefaultLocale string
	// Locales enumerates the known locales, matched against the first directory
	// segment ("ko/about.md") and the file name suffix ("about.ko.md").
	Locales []string
	// Pattern limits discovered files. Defaults to "*.md".
	Pattern string
}

// Loader reads markdown documents from a filesystem.
type Loader struct {
	fs            fs.FS
	defaultLocale string
	locales       []string
	pattern       string
}

func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	return &Loader{
		fs:            filesystem,
		defaultLocale: cfg.DefaultLocale,
		locales:       slices.Clone(cfg.Locales),
		pattern:       pattern,
	}
}

// LoadFile reads and parses a single document.
func (l *Loader) LoadFile(ctx context.Context, name string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = path.Clean(strings.TrimPrefix(name, "/"))
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", name, err)
	}
	locale := l.detectLocale(name)
	if locale == "" {
		return nil, fmt.Errorf("%w: %s", ErrLocaleMissing, name)
	}
	return ParseDocument(name, locale, data)
}

// LoadDirectory walks root recursively and returns every matching document
// sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, root string) ([]*Document, error) {
	root = path.Clean(strings.TrimPrefix(root, "/"))
	docs := make([]*Document, 0)
	err := fs.WalkDir(l.fs, root, func(name string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if match, _ := path.Match(l.pattern, path.Base(name)); !match {
			return nil
		}
		doc, err := l.LoadFile(ctx, name)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(docs, func(a, b *Document) int { return strings.Compare(a.Path, b.Path) })
	return docs, nil
}

func (l *Loader) detectLocale(name string) string {
	segments := strings.Split(name, "/")
	if len(segments) > 1 && slices.Contains(l.locales, segments[0]) {
		return segments[0]
	}
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if idx := strings.LastIndex(base, "."); idx > 0 {
		if suffix := base[idx+1:]; slices.Contains(l.locales, suffix) {
			return suffix
		}
	}
	return l.defaultLocale
}
