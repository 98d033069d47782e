package types

import "time"

// GeneratedFile represents one exported file of a generated website.
type GeneratedFile struct {
	Filename string `json:"filename"`
	Type     string `json:"type"` // e.g., "HTML", "CSS"
	Content  string `json:"content"`
}

// Source records where a stage (or a single section) got its output from.
type Source string

const (
	SourceAI            Source = "ai"
	SourceFallback      Source = "fallback"
	SourceDeterministic Source = "deterministic"
	// SourceMixed marks a per-section stage where some sections fell back.
	SourceMixed Source = "mixed"
)

// BrandPreferences are optional overrides supplied by the business owner.
type BrandPreferences struct {
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	AccentColor    string `json:"accentColor,omitempty"`
	HeadingFont    string `json:"headingFont,omitempty"`
	BodyFont       string `json:"bodyFont,omitempty"`
	Style          string `json:"style,omitempty"` // free-form, e.g. "minimal", "bold"
}

// RawRequirements is the unvalidated business description as submitted by the intake wizard.
type RawRequirements struct {
	BusinessName     string            `json:"businessName"`
	Industry         string            `json:"industry"`
	Description      string            `json:"description,omitempty"`
	Location         string            `json:"location,omitempty"`
	TargetAudiences  []string          `json:"targetAudiences,omitempty"`
	ToneOfVoice      string            `json:"toneOfVoice,omitempty"`
	Services         []string          `json:"services,omitempty"`
	Pages            []string          `json:"pages,omitempty"`
	BrandPreferences *BrandPreferences `json:"brandPreferences,omitempty"`
}

// ProjectConfig is the canonical, validated business description. Built once per request.
type ProjectConfig struct {
	BusinessName     string           `json:"businessName"`
	IndustryID       string           `json:"industryId"`
	Description      string           `json:"description,omitempty"`
	Location         string           `json:"location,omitempty"`
	TargetAudiences  []string         `json:"targetAudiences"`
	ToneOfVoice      string           `json:"toneOfVoice,omitempty"`
	Services         []string         `json:"services"`
	Pages            []string         `json:"pages"`
	BrandPreferences BrandPreferences `json:"brandPreferences"`
}

// LandingPage is the page id of the single landing page a LayoutPlan describes.
const LandingPage = "home"

// DesignContext is the interpretive context every stage after strategy works from.
type DesignContext struct {
	Project          ProjectConfig `json:"project"`
	IndustryID       string        `json:"industryId"` // resolved catalog id ("generic" when unknown)
	IndustryName     string        `json:"industryName"`
	EmotionalTone    string        `json:"emotionalTone"`
	BrandVoice       string        `json:"brandVoice"`
	BrandPersonality []string      `json:"brandPersonality"`
	ColorDirection   string        `json:"colorDirection,omitempty"`
	PrimaryGoals     []string      `json:"primaryGoals"`
	SectionStrategy  []SectionType `json:"sectionStrategy"`
}

// SectionType enumerates the section kinds the assembler knows how to render.
type SectionType string

const (
	SectionHero         SectionType = "hero"
	SectionAbout        SectionType = "about"
	SectionServices     SectionType = "services"
	SectionFeatures     SectionType = "features"
	SectionTestimonials SectionType = "testimonials"
	SectionGallery      SectionType = "gallery"
	SectionTeam         SectionType = "team"
	SectionPricing      SectionType = "pricing"
	SectionFAQ          SectionType = "faq"
	SectionStats        SectionType = "stats"
	SectionCTA          SectionType = "cta"
	SectionContact      SectionType = "contact"
)

var sectionTypes = map[SectionType]bool{
	SectionHero: true, SectionAbout: true, SectionServices: true, SectionFeatures: true,
	SectionTestimonials: true, SectionGallery: true, SectionTeam: true, SectionPricing: true,
	SectionFAQ: true, SectionStats: true, SectionCTA: true, SectionContact: true,
}

// Valid reports whether t is a known section type.
func (t SectionType) Valid() bool {
	return sectionTypes[t]
}

// Section is one entry of a LayoutPlan.
type Section struct {
	Key   string      `json:"key"`
	Type  SectionType `json:"type"`
	Notes string      `json:"notes,omitempty"`
}

// LayoutPlan is the ordered list of sections of the landing page.
type LayoutPlan struct {
	Page      string    `json:"page"`
	Blueprint string    `json:"blueprint"`
	Sections  []Section `json:"sections"`
}

// Section returns the section with the given key.
func (p LayoutPlan) Section(key string) (Section, bool) {
	for _, s := range p.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

// Palette is a base colour set. All values are #RRGGBB.
type Palette struct {
	Primary    string `json:"primary" yaml:"primary"`
	Secondary  string `json:"secondary" yaml:"secondary"`
	Accent     string `json:"accent" yaml:"accent"`
	Background string `json:"background" yaml:"background"`
	Text       string `json:"text" yaml:"text"`
}

// Typography names the heading/body font families.
type Typography struct {
	HeadingFont string `json:"headingFont" yaml:"heading"`
	BodyFont    string `json:"bodyFont" yaml:"body"`
}

// StyleSystem is the base visual system resolved once per request.
type StyleSystem struct {
	Palette         Palette    `json:"palette"`
	Typography      Typography `json:"typography"`
	BorderRadius    string     `json:"borderRadius"`    // CSS length, e.g. "8px"
	ShadowIntensity string     `json:"shadowIntensity"` // none|soft|medium|strong
	Aesthetic       []string   `json:"aesthetic,omitempty"`
}

// ImagePurpose tags what an image is used for on the page.
type ImagePurpose string

const (
	PurposeHero       ImagePurpose = "hero"
	PurposeSupporting ImagePurpose = "supporting"
	PurposeIcon       ImagePurpose = "icon"
	PurposeBackground ImagePurpose = "background"
)

// Valid reports whether p is a known purpose.
func (p ImagePurpose) Valid() bool {
	switch p {
	case PurposeHero, PurposeSupporting, PurposeIcon, PurposeBackground:
		return true
	}
	return false
}

// PlannedImage describes one image to be generated for a section.
type PlannedImage struct {
	SectionKey string       `json:"sectionKey"`
	Purpose    ImagePurpose `json:"purpose"`
	Prompt     string       `json:"prompt"`
	StyleHint  string       `json:"styleHint,omitempty"`
	Alt        string       `json:"alt"`
	URL        string       `json:"url,omitempty"`
	Source     Source       `json:"source"`
}

// CopyItem is one entry of a list-shaped section (a service, a testimonial, ...).
type CopyItem struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// SectionCopy is the text content of one section.
type SectionCopy struct {
	SectionKey string     `json:"sectionKey"`
	Heading    string     `json:"heading"`
	Body       string     `json:"body"`
	Items      []CopyItem `json:"items,omitempty"`
	CTA        string     `json:"cta,omitempty"`
	Source     Source     `json:"source"`
}

// ThemePalette is the harmonized palette including three neutral shades (lightest first).
type ThemePalette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Neutral100 string `json:"neutral100"`
	Neutral200 string `json:"neutral200"`
	Neutral300 string `json:"neutral300"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// TypeScale holds the six named font sizes.
type TypeScale struct {
	XS   string `json:"xs"`
	SM   string `json:"sm"`
	Base string `json:"base"`
	LG   string `json:"lg"`
	XL   string `json:"xl"`
	XXL  string `json:"xxl"`
}

// SpacingScale holds the five named spacing sizes.
type SpacingScale struct {
	XS string `json:"xs"`
	SM string `json:"sm"`
	MD string `json:"md"`
	LG string `json:"lg"`
	XL string `json:"xl"`
}

// ShadowLevels holds the three named box-shadow values.
type ShadowLevels struct {
	SM string `json:"sm"`
	MD string `json:"md"`
	LG string `json:"lg"`
}

// GlobalTheme is the harmonized design-token set consumed by the assembler.
type GlobalTheme struct {
	Palette      ThemePalette `json:"palette"`
	Typography   Typography   `json:"typography"`
	TypeScale    TypeScale    `json:"typeScale"`
	Spacing      SpacingScale `json:"spacing"`
	Shadows      ShadowLevels `json:"shadows"`
	BorderRadius string       `json:"borderRadius"`
	Mood         string       `json:"mood"`
}

// GeneratedWebsite is the immutable result of one generation request.
type GeneratedWebsite struct {
	ID          string            `json:"id"`
	CreatedAt   time.Time         `json:"createdAt"`
	Project     ProjectConfig     `json:"project"`
	Design      DesignContext     `json:"design"`
	Layout      LayoutPlan        `json:"layout"`
	Style       StyleSystem       `json:"style"`
	Theme       GlobalTheme       `json:"theme"`
	Copy        []SectionCopy     `json:"copy"`
	Images      []PlannedImage    `json:"images"`
	Markup      string            `json:"markup"`
	Styles      string            `json:"styles"`
	Provenance  map[string]Source `json:"provenance"`
	GeneratedIn time.Duration     `json:"generatedInNs"`
}

// ProgressStatus is the state reported for a stage.
type ProgressStatus string

const (
	StatusStarted   ProgressStatus = "started"
	StatusCompleted ProgressStatus = "completed"
	StatusFallback  ProgressStatus = "fallback"
	StatusFailed    ProgressStatus = "failed"
)

// ProgressEvent is emitted by the orchestrator for every stage transition.
type ProgressEvent struct {
	GenerationID string         `json:"generationId"`
	Stage        string         `json:"stage"`
	Status       ProgressStatus `json:"status"`
	Source       Source         `json:"source,omitempty"`
	Seq          int            `json:"seq"`
}
