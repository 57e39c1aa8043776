package menus

import (
	"fmt"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/lumenworks/sectioncms/internal/sections"
	"github.com/lumenworks/sectioncms/internal/validation"
)

type TranslationInput struct {
	Locale string     `json:"locale"`
	Items  []MenuItem `json:"items"`
}

type CreateMenuRequest struct {
	Key          string             `json:"key"`
	IsEnabled    *bool              `json:"isEnabled,omitempty"`
	Translations []TranslationInput `json:"translations,omitempty"`
}

// Validate reports request and item tree problems together.
func (r CreateMenuRequest) Validate() error {
	fields := validation.FromRules(ozzo.ValidateStruct(&r,
		ozzo.Field(&r.Key, ozzo.Required, ozzo.By(validKey)),
	))
	return validation.Merge(append([]error{fields}, validateTranslations(r.Translations)...)...)
}

// UpdateMenuRequest changes a menu. A non-nil Translations slice replaces every
// stored translation.
type UpdateMenuRequest struct {
	ID           int64              `json:"-"`
	Key          *string            `json:"key,omitempty"`
	IsEnabled    *bool              `json:"isEnabled,omitempty"`
	Translations []TranslationInput `json:"translations"`
}

func (r UpdateMenuRequest) Validate() error {
	fields := validation.FromRules(ozzo.ValidateStruct(&r,
		ozzo.Field(&r.ID, ozzo.Required, ozzo.Min(int64(1))),
		ozzo.Field(&r.Key, ozzo.NilOrNotEmpty, ozzo.By(validKey)),
	))
	return validation.Merge(append([]error{fields}, validateTranslations(r.Translations)...)...)
}

func validateTranslations(inputs []TranslationInput) []error {
	errs := make([]error, 0)
	seen := make(map[string]struct{}, len(inputs))
	for i, input := range inputs {
		path := fmt.Sprintf("translations/%d", i)
		err := validation.FromRules(ozzo.ValidateStruct(&input,
			ozzo.Field(&input.Locale, ozzo.Required, ozzo.Match(sections.LocalePattern).Error("must be a language tag such as en or pt-BR")),
		))
		if err != nil {
			errs = append(errs, validation.Prefix(path, err))
		}
		if _, dup := seen[input.Locale]; dup {
			errs = append(errs, validation.NewError(validation.Issue{
				Path:    "/" + path + "/locale",
				Message: fmt.Sprintf("duplicate locale %q", input.Locale),
			}))
		}
		seen[input.Locale] = struct{}{}
		errs = append(errs, ValidateItems(input.Items, "/"+path+"/items", 1)...)
	}
	return errs
}

// ValidateItems checks every item of the tree rooted at path, which sits at depth.
// Label and href are required and nesting may not exceed MaxMenuDepth.
func ValidateItems(items []MenuItem, path string, depth int) []error {
	errs := make([]error, 0)
	for i := range items {
		item := items[i]
		itemPath := fmt.Sprintf("%s/%d", path, i)
		err := validation.FromRules(ozzo.ValidateStruct(&item,
			ozzo.Field(&item.Label, ozzo.Required, ozzo.Length(1, 200)),
			ozzo.Field(&item.Href, ozzo.Required, ozzo.Length(1, 2048)),
		))
		if err != nil {
			errs = append(errs, validation.Prefix(itemPath, err))
		}
		if len(item.Children) == 0 {
			continue
		}
		if depth >= MaxMenuDepth {
			errs = append(errs, validation.NewError(validation.Issue{
				Path:    itemPath + "/children",
				Message: fmt.Sprintf("menus may nest at most %d levels", MaxMenuDepth),
			}))
			continue
		}
		errs = append(errs, ValidateItems(item.Children, itemPath+"/children", depth+1)...)
	}
	return errs
}

func validKey(value any) error {
	var key string
	switch typed := value.(type) {
	case string:
		key = typed
	case *string:
		if typed == nil {
			return nil
		}
		key = *typed
	}
	if key != "" && !slug.IsValid(key) {
		return ozzo.NewError("validation_menu_key", "must be a lowercase slug such as main-nav")
	}
	return nil
}
