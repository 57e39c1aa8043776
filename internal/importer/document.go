package importer

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/goliatone/go-slug"
)

// FrontMatter is the metadata block at the top of an importable markdown file.
type FrontMatter struct {
	Key      string         `yaml:"key"`
	Title    string         `yaml:"title"`
	Slug     string         `yaml:"slug"`
	SEOTitle string         `yaml:"seo_title"`
	SEODesc  string         `yaml:"seo_description"`
	Draft    bool           `yaml:"draft"`
	Config   map[string]any `yaml:"config"`
}

// Document is one markdown file resolved to a page key and locale.
type Document struct {
	Path        string
	Locale      string
	Key         string
	FrontMatter FrontMatter
	Body        string
	Checksum    [sha256.Size]byte
}

// ParseDocument splits source into frontmatter and body. The page key comes from
// the frontmatter, falling back to the file name with any locale suffix removed.
func ParseDocument(filePath, locale string, source []byte) (*Document, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter %s: %w", filePath, err)
	}

	key := strings.TrimSpace(meta.Key)
	if key == "" {
		key = baseName(filePath, locale)
	}
	normalized, err := slug.Normalize(key)
	if err != nil || normalized == "" {
		return nil, fmt.Errorf("%w: %s", ErrKeyMissing, filePath)
	}

	return &Document{
		Path:        filePath,
		Locale:      locale,
		Key:         normalized,
		FrontMatter: meta,
		Body:        strings.TrimSpace(string(body)),
		Checksum:    sha256.Sum256(source),
	}, nil
}

// PageSlug returns the public path of the page the document belongs to.
func (d *Document) PageSlug() string {
	if value := strings.TrimSpace(d.FrontMatter.Slug); value != "" {
		if !strings.HasPrefix(value, "/") {
			value = "/" + value
		}
		return value
	}
	if d.Key == "home" || d.Key == "index" {
		return "/"
	}
	return "/" + d.Key
}

// baseName strips directories, the extension and a trailing ".<locale>" part.
func baseName(filePath, locale string) string {
	name := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	if locale != "" {
		name = strings.TrimSuffix(name, "."+locale)
	}
	return name
}
