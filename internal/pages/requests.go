package pages

import (
	"fmt"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/lumenworks/sectioncms/internal/sections"
	"github.com/lumenworks/sectioncms/internal/validation"
)

// TranslationInput carries the localized fields of a page.
type TranslationInput struct {
	Locale   string  `json:"locale"`
	Title    *string `json:"title,omitempty"`
	SEOTitle *string `json:"seoTitle,omitempty"`
	SEODesc  *string `json:"seoDesc,omitempty"`
}

func (t TranslationInput) Validate() error {
	return ozzo.ValidateStruct(&t,
		ozzo.Field(&t.Locale, ozzo.Required, ozzo.Match(sections.LocalePattern).Error("must be a language tag such as en or pt-BR")),
		ozzo.Field(&t.Title, ozzo.NilOrNotEmpty, ozzo.Length(0, 255)),
		ozzo.Field(&t.SEOTitle, ozzo.Length(0, 255)),
		ozzo.Field(&t.SEODesc, ozzo.Length(0, 1000)),
	)
}

type CreatePageRequest struct {
	Key          string             `json:"key"`
	Slug         string             `json:"slug"`
	IsEnabled    *bool              `json:"isEnabled,omitempty"`
	Translations []TranslationInput `json:"translations,omitempty"`
}

func (r CreatePageRequest) Validate() error {
	return validation.FromRules(ozzo.ValidateStruct(&r,
		ozzo.Field(&r.Key, ozzo.Required, ozzo.By(validKey)),
		ozzo.Field(&r.Slug, ozzo.Required, ozzo.By(validPath)),
		ozzo.Field(&r.Translations, ozzo.By(uniqueLocales)),
	))
}

// UpdatePageRequest changes a page. Nil fields are left untouched; a non-nil
// Translations slice replaces every stored translation.
type UpdatePageRequest struct {
	ID           int64              `json:"-"`
	Key          *string            `json:"key,omitempty"`
	Slug         *string            `json:"slug,omitempty"`
	IsEnabled    *bool              `json:"isEnabled,omitempty"`
	Translations []TranslationInput `json:"translations"`
}

func (r UpdatePageRequest) Validate() error {
	return validation.FromRules(ozzo.ValidateStruct(&r,
		ozzo.Field(&r.ID, ozzo.Required, ozzo.Min(int64(1))),
		ozzo.Field(&r.Key, ozzo.NilOrNotEmpty, ozzo.By(validKey)),
		ozzo.Field(&r.Slug, ozzo.NilOrNotEmpty, ozzo.By(validPath)),
		ozzo.Field(&r.Translations, ozzo.By(uniqueLocales)),
	))
}

type DuplicatePageRequest struct {
	ID      int64  `json:"-"`
	NewKey  string `json:"newKey"`
	NewSlug string `json:"newSlug"`
}

func (r DuplicatePageRequest) Validate() error {
	return validation.FromRules(ozzo.ValidateStruct(&r,
		ozzo.Field(&r.ID, ozzo.Required, ozzo.Min(int64(1))),
		ozzo.Field(&r.NewKey, ozzo.Required, ozzo.By(validKey)),
		ozzo.Field(&r.NewSlug, ozzo.Required, ozzo.By(validPath)),
	))
}

// BulkAction is an operation applied to several pages at once.
type BulkAction string

const (
	BulkEnable  BulkAction = "enable"
	BulkDisable BulkAction = "disable"
	BulkDelete  BulkAction = "delete"
)

type BulkRequest struct {
	Action BulkAction `json:"action"`
	IDs    []int64    `json:"ids"`
}

func (r BulkRequest) Validate() error {
	return validation.FromRules(ozzo.ValidateStruct(&r,
		ozzo.Field(&r.Action, ozzo.Required, ozzo.In(BulkEnable, BulkDisable, BulkDelete)),
		ozzo.Field(&r.IDs, ozzo.Required, ozzo.Each(ozzo.Min(int64(1)))),
	))
}

// BulkError reports the failure of one id within a bulk request.
// Code is filled in by the command layer from Err.
type BulkError struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Err   error  `json:"-"`
}

// BulkResult summarises a bulk request. Processed counts successful ids.
type BulkResult struct {
	Processed int         `json:"processed"`
	Failed    int         `json:"failed"`
	Errors    []BulkError `json:"errors"`
}

func validKey(value any) error {
	key, ok := stringValue(value)
	if !ok || key == "" {
		return nil
	}
	if !slug.IsValid(key) {
		return ozzo.NewError("validation_page_key", "must be a lowercase slug such as about-us")
	}
	return nil
}

func validPath(value any) error {
	path, ok := stringValue(value)
	if !ok || path == "" {
		return nil
	}
	if !strings.HasPrefix(path, "/") || strings.ContainsAny(path, " ?#") {
		return ozzo.NewError("validation_page_slug", "must be an absolute path such as /about")
	}
	return nil
}

func stringValue(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case *string:
		if typed == nil {
			return "", false
		}
		return *typed, true
	default:
		return "", false
	}
}

func uniqueLocales(value any) error {
	translations, _ := value.([]TranslationInput)
	seen := make(map[string]struct{}, len(translations))
	for _, tr := range translations {
		if _, ok := seen[tr.Locale]; ok {
			return ozzo.NewError("validation_duplicate_locale", fmt.Sprintf("duplicate locale %q", tr.Locale))
		}
		seen[tr.Locale] = struct{}{}
	}
	return nil
}
