package sections

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/lumenworks/sectioncms/internal/validation"
)

// LocalePattern matches language tags such as "en", "ko" or "pt-BR".
var LocalePattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]{2,8})*$`)

// TranslationInput is the content of a section for one locale.
type TranslationInput struct {
	Locale  string         `json:"locale"`
	Content map[string]any `json:"content"`
}

func (t TranslationInput) Validate() error {
	return ozzo.ValidateStruct(&t,
		ozzo.Field(&t.Locale, ozzo.Required, ozzo.Match(LocalePattern).Error("must be a language tag such as en or pt-BR")),
	)
}

// CreateSectionRequest creates a section on a page. IsEnabled defaults to true and
// a nil SortOrder appends the section after the page's last one.
type CreateSectionRequest struct {
	PageID       int64              `json:"pageId"`
	Type         Type               `json:"type"`
	IsEnabled    *bool              `json:"isEnabled,omitempty"`
	SortOrder    *int               `json:"sortOrder,omitempty"`
	Config       map[string]any     `json:"config,omitempty"`
	Translations []TranslationInput `json:"translations,omitempty"`
}

func (r CreateSectionRequest) Validate() error {
	return validation.FromRules(ozzo.ValidateStruct(&r,
		ozzo.Field(&r.PageID, ozzo.Required, ozzo.Min(int64(1))),
		ozzo.Field(&r.Type, ozzo.Required),
		ozzo.Field(&r.Translations, ozzo.By(uniqueLocales)),
	))
}

// UpdateSectionRequest changes a section. Nil fields are left untouched. A non-nil
// Translations slice, even an empty one, replaces every stored translation.
// ClearConfig resets the config to null; decoding sets it for an explicit
// "config": null.
type UpdateSectionRequest struct {
	ID           int64              `json:"-"`
	Type         *Type              `json:"type,omitempty"`
	IsEnabled    *bool              `json:"isEnabled,omitempty"`
	SortOrder    *int               `json:"sortOrder,omitempty"`
	Config       map[string]any     `json:"config,omitempty"`
	ClearConfig  bool               `json:"clearConfig,omitempty"`
	Translations []TranslationInput `json:"translations"`
}

func (r *UpdateSectionRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateSectionRequest
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["config"]; ok && string(bytes.TrimSpace(raw)) == "null" {
		decoded.ClearConfig = true
	}
	*r = UpdateSectionRequest(decoded)
	return nil
}

func (r UpdateSectionRequest) Validate() error {
	return validation.FromRules(ozzo.ValidateStruct(&r,
		ozzo.Field(&r.ID, ozzo.Required, ozzo.Min(int64(1))),
		ozzo.Field(&r.Type, ozzo.NilOrNotEmpty),
		ozzo.Field(&r.Config, ozzo.When(r.ClearConfig, ozzo.Empty.Error("must be empty when clearConfig is set"))),
		ozzo.Field(&r.Translations, ozzo.By(uniqueLocales)),
	))
}

// SortOrderInput assigns a sort order to one section.
type SortOrderInput struct {
	ID        int64 `json:"id"`
	SortOrder int   `json:"sortOrder"`
}

func (s SortOrderInput) Validate() error {
	return ozzo.ValidateStruct(&s,
		ozzo.Field(&s.ID, ozzo.Required, ozzo.Min(int64(1))),
	)
}

// ReorderSectionsRequest sets the sort order of several sections of one page.
type ReorderSectionsRequest struct {
	PageID int64            `json:"-"`
	Items  []SortOrderInput `json:"items"`
}

func (r ReorderSectionsRequest) Validate() error {
	return validation.FromRules(ozzo.ValidateStruct(&r,
		ozzo.Field(&r.PageID, ozzo.Required, ozzo.Min(int64(1))),
		ozzo.Field(&r.Items, ozzo.Required, ozzo.By(uniqueSectionIDs)),
	))
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

func uniqueSectionIDs(value any) error {
	items, _ := value.([]SortOrderInput)
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			return ozzo.NewError("validation_duplicate_id", fmt.Sprintf("section %d listed twice", item.ID))
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}
