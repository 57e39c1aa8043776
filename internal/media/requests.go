package media

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/lumenworks/sectioncms/internal/sections"
	"github.com/lumenworks/sectioncms/internal/validation"
)

var mimePattern = regexp.MustCompile(`^[a-z]+/[a-zA-Z0-9.+-]+$`)

type TranslationInput struct {
	Locale  string  `json:"locale"`
	AltText *string `json:"altText,omitempty"`
}

// CreateMediaRequest registers an already uploaded asset. StoredFilename is
// generated when empty.
type CreateMediaRequest struct {
	Filename       string             `json:"filename"`
	StoredFilename string             `json:"storedFilename,omitempty"`
	URL            string             `json:"url"`
	MIME           string             `json:"mime"`
	Size           int64              `json:"size"`
	Width          *int               `json:"width,omitempty"`
	Height         *int               `json:"height,omitempty"`
	Translations   []TranslationInput `json:"translations,omitempty"`
}

func (r CreateMediaRequest) Validate() error {
	fields := validation.FromRules(ozzo.ValidateStruct(&r,
		ozzo.Field(&r.Filename, ozzo.Required, ozzo.Length(1, 255)),
		ozzo.Field(&r.StoredFilename, ozzo.Length(0, 255), ozzo.By(plainName)),
		ozzo.Field(&r.URL, ozzo.Required, ozzo.Length(1, 2048)),
		ozzo.Field(&r.MIME, ozzo.Required, ozzo.Match(mimePattern).Error("must be a media type such as image/png")),
		ozzo.Field(&r.Size, ozzo.Min(int64(0))),
		ozzo.Field(&r.Width, ozzo.NilOrNotEmpty, ozzo.Min(1)),
		ozzo.Field(&r.Height, ozzo.NilOrNotEmpty, ozzo.Min(1)),
	))
	return validation.Merge(append([]error{fields}, validateTranslations(r.Translations)...)...)
}

// UpdateMediaRequest changes media metadata. A non-nil Translations slice
// replaces every stored alt text.
type UpdateMediaRequest struct {
	ID           int64              `json:"-"`
	Filename     *string            `json:"filename,omitempty"`
	URL          *string            `json:"url,omitempty"`
	MIME         *string            `json:"mime,omitempty"`
	Size         *int64             `json:"size,omitempty"`
	Width        *int               `json:"width,omitempty"`
	Height       *int               `json:"height,omitempty"`
	Translations []TranslationInput `json:"translations"`
}

func (r UpdateMediaRequest) Validate() error {
	fields := validation.FromRules(ozzo.ValidateStruct(&r,
		ozzo.Field(&r.ID, ozzo.Required, ozzo.Min(int64(1))),
		ozzo.Field(&r.Filename, ozzo.NilOrNotEmpty, ozzo.Length(1, 255)),
		ozzo.Field(&r.URL, ozzo.NilOrNotEmpty, ozzo.Length(1, 2048)),
		ozzo.Field(&r.MIME, ozzo.NilOrNotEmpty, ozzo.Match(mimePattern).Error("must be a media type such as image/png")),
		ozzo.Field(&r.Size, ozzo.Min(int64(0))),
		ozzo.Field(&r.Width, ozzo.NilOrNotEmpty, ozzo.Min(1)),
		ozzo.Field(&r.Height, ozzo.NilOrNotEmpty, ozzo.Min(1)),
	))
	return validation.Merge(append([]error{fields}, validateTranslations(r.Translations)...)...)
}

func validateTranslations(inputs []TranslationInput) []error {
	errs := make([]error, 0)
	seen := make(map[string]struct{}, len(inputs))
	for i, input := range inputs {
		prefix := fmt.Sprintf("translations/%d", i)
		err := validation.FromRules(ozzo.ValidateStruct(&input,
			ozzo.Field(&input.Locale, ozzo.Required, ozzo.Match(sections.LocalePattern).Error("must be a language tag such as en or pt-BR")),
			ozzo.Field(&input.AltText, ozzo.Length(0, 500)),
		))
		if err != nil {
			errs = append(errs, validation.Prefix(prefix, err))
		}
		if _, dup := seen[input.Locale]; dup {
			errs = append(errs, validation.NewError(validation.Issue{
				Path:    "/" + prefix + "/locale",
				Message: fmt.Sprintf("duplicate locale %q", input.Locale),
			}))
		}
		seen[input.Locale] = struct{}{}
	}
	return errs
}

func plainName(value any) error {
	name, _ := value.(string)
	if name == "" {
		return nil
	}
	if strings.ContainsAny(name, `/\`) || path.Clean(name) != name || name == ".." {
		return ozzo.NewError("validation_media_stored_filename", "must be a bare file name")
	}
	return nil
}
