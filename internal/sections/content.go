package sections

import "strings"

// Type tags the shape of a section's translated content.
type Type string

const (
	TypeHero         Type = "hero"
	TypeAchievements Type = "achievements"
	TypeServices     Type = "services"
	TypeNews         Type = "news"
	TypeProjects     Type = "projects"
	TypeContact      Type = "contact"
	TypeRich         Type = "rich"
)

// BuiltinTypes lists the section types registered by DefaultRegistry.
func BuiltinTypes() []Type {
	return []Type{TypeHero, TypeAchievements, TypeServices, TypeNews, TypeProjects, TypeContact, TypeRich}
}

// Content is the decoded, typed form of a section translation. The set of variants
// is closed to this package; additional types registered at runtime decode into
// GenericContent.
type Content interface {
	SectionType() Type
	// Text returns the human readable fragments of the content, used for search.
	Text() []string
	sealed()
}

// CTAStyle selects how a call-to-action is rendered.
type CTAStyle string

const (
	CTAPrimary   CTAStyle = "primary"
	CTASecondary CTAStyle = "secondary"
	CTALink      CTAStyle = "link"
)

// CTA is a call-to-action link.
type CTA struct {
	Text  string   `json:"text"`
	Href  string   `json:"href"`
	Style CTAStyle `json:"style,omitempty"`
}

// ImageRef points at a media library item or an external image URL.
type ImageRef struct {
	MediaID *int64 `json:"mediaId,omitempty"`
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
}

type HeroContent struct {
	Heading    string    `json:"heading,omitempty"`
	Subheading string    `json:"subheading,omitempty"`
	Image      *ImageRef `json:"image,omitempty"`
	CTAs       []CTA     `json:"ctas,omitempty"`
}

// Card is a single highlighted figure in an achievements section.
type Card struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Group is a titled list of short entries in an achievements section.
type Group struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type AchievementsContent struct {
	Heading    string  `json:"heading,omitempty"`
	Subheading string  `json:"subheading,omitempty"`
	Cards      []Card  `json:"cards"`
	Groups     []Group `json:"groups"`
	CTAs       []CTA   `json:"ctas,omitempty"`
}

type ServiceItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Image       *ImageRef `json:"image,omitempty"`
	Href        string    `json:"href,omitempty"`
}

type ServicesContent struct {
	Heading    string        `json:"heading,omitempty"`
	Subheading string        `json:"subheading,omitempty"`
	Items      []ServiceItem `json:"items"`
	CTAs       []CTA         `json:"ctas,omitempty"`
}

type NewsItem struct {
	Title   string    `json:"title"`
	Date    string    `json:"date,omitempty"`
	Summary string    `json:"summary,omitempty"`
	Href    string    `json:"href,omitempty"`
	Image   *ImageRef `json:"image,omitempty"`
}

type NewsContent struct {
	Heading    string     `json:"heading,omitempty"`
	Subheading string     `json:"subheading,omitempty"`
	Items      []NewsItem `json:"items"`
	CTAs       []CTA      `json:"ctas,omitempty"`
}

type ProjectItem struct {
	Title   string    `json:"title"`
	Client  string    `json:"client,omitempty"`
	Year    string    `json:"year,omitempty"`
	Summary string    `json:"summary,omitempty"`
	Image   *ImageRef `json:"image,omitempty"`
	Href    string    `json:"href,omitempty"`
	Tags    []string  `json:"tags,omitempty"`
}

type ProjectsContent struct {
	Heading    string        `json:"heading,omitempty"`
	Subheading string        `json:"subheading,omitempty"`
	Items      []ProjectItem `json:"items"`
	CTAs       []CTA         `json:"ctas,omitempty"`
}

type Address struct {
	Label   string `json:"label,omitempty"`
	Address string `json:"address"`
	MapURL  string `json:"mapUrl,omitempty"`
}

type Phone struct {
	Label  string `json:"label,omitempty"`
	Number string `json:"number"`
}

type Email struct {
	Label   string `json:"label,omitempty"`
	Address string `json:"address"`
}

type ContactContent struct {
	Heading   string    `json:"heading,omitempty"`
	Addresses []Address `json:"addresses,omitempty"`
	Phones    []Phone   `json:"phones,omitempty"`
	Emails    []Email   `json:"emails,omitempty"`
	CTAs      []CTA     `json:"ctas,omitempty"`
}

// RichContent carries a markdown body plus optional images.
type RichContent struct {
	Body   string     `json:"body,omitempty"`
	Images []ImageRef `json:"images,omitempty"`
	CTAs   []CTA      `json:"ctas,omitempty"`
}

// GenericContent holds content for section types registered without a typed decoder.
type GenericContent struct {
	Kind   Type
	Fields map[string]any
}

func (HeroContent) SectionType() Type         { return TypeHero }
func (AchievementsContent) SectionType() Type { return TypeAchievements }
func (ServicesContent) SectionType() Type     { return TypeServices }
func (NewsContent) SectionType() Type         { return TypeNews }
func (ProjectsContent) SectionType() Type     { return TypeProjects }
func (ContactContent) SectionType() Type      { return TypeContact }
func (RichContent) SectionType() Type         { return TypeRich }
func (g GenericContent) SectionType() Type    { return g.Kind }

func (HeroContent) sealed()         {}
func (AchievementsContent) sealed() {}
func (ServicesContent) sealed()     {}
func (NewsContent) sealed()         {}
func (ProjectsContent) sealed()     {}
func (ContactContent) sealed()      {}
func (RichContent) sealed()         {}
func (GenericContent) sealed()      {}

func (c HeroContent) Text() []string {
	out := collect(c.Heading, c.Subheading)
	out = append(out, imageText(c.Image)...)
	return append(out, ctaText(c.CTAs)...)
}

func (c AchievementsContent) Text() []string {
	out := collect(c.Heading, c.Subheading)
	for _, card := range c.Cards {
		out = append(out, collect(card.Value, card.Label, card.Description)...)
	}
	for _, group := range c.Groups {
		out = append(out, collect(group.Title)...)
		out = append(out, collect(group.Items...)...)
	}
	return append(out, ctaText(c.CTAs)...)
}

func (c ServicesContent) Text() []string {
	out := collect(c.Heading, c.Subheading)
	for _, item := range c.Items {
		out = append(out, collect(item.Title, item.Description)...)
		out = append(out, imageText(item.Image)...)
	}
	return append(out, ctaText(c.CTAs)...)
}

func (c NewsContent) Text() []string {
	out := collect(c.Heading, c.Subheading)
	for _, item := range c.Items {
		out = append(out, collect(item.Title, item.Date, item.Summary)...)
		out = append(out, imageText(item.Image)...)
	}
	return append(out, ctaText(c.CTAs)...)
}

func (c ProjectsContent) Text() []string {
	out := collect(c.Heading, c.Subheading)
	for _, item := range c.Items {
		out = append(out, collect(item.Title, item.Client, item.Year, item.Summary)...)
		out = append(out, collect(item.Tags...)...)
		out = append(out, imageText(item.Image)...)
	}
	return append(out, ctaText(c.CTAs)...)
}

func (c ContactContent) Text() []string {
	out := collect(c.Heading)
	for _, address := range c.Addresses {
		out = append(out, collect(address.Label, address.Address)...)
	}
	for _, phone := range c.Phones {
		out = append(out, collect(phone.Label, phone.Number)...)
	}
	for _, email := range c.Emails {
		out = append(out, collect(email.Label, email.Address)...)
	}
	return append(out, ctaText(c.CTAs)...)
}

func (c RichContent) Text() []string {
	out := collect(MarkdownText(c.Body))
	for i := range c.Images {
		out = append(out, imageText(&c.Images[i])...)
	}
	return append(out, ctaText(c.CTAs)...)
}

func (g GenericContent) Text() []string {
	return FlattenText(g.Fields)
}

func collect(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func ctaText(ctas []CTA) []string {
	out := make([]string, 0, len(ctas))
	for _, cta := range ctas {
		out = append(out, collect(cta.Text)...)
	}
	return out
}

func imageText(image *ImageRef) []string {
	if image == nil {
		return nil
	}
	return collect(image.Alt)
}
