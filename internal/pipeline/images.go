package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sitegen_ai_server/internal/ai"
	"sitegen_ai_server/internal/ai/prompts"
	"sitegen_ai_server/internal/catalog"
	"sitegen_ai_server/internal/color"
	"sitegen_ai_server/internal/types"
)

// imagePurposes maps image-eligible section types to the purpose of their image.
var imagePurposes = map[types.SectionType]types.ImagePurpose{
	types.SectionHero:     types.PurposeHero,
	types.SectionAbout:    types.PurposeSupporting,
	types.SectionGallery:  types.PurposeSupporting,
	types.SectionTeam:     types.PurposeSupporting,
	types.SectionServices: types.PurposeIcon,
	types.SectionFeatures: types.PurposeIcon,
	types.SectionCTA:      types.PurposeBackground,
}

var defaultImagePrompts = map[types.ImagePurpose]string{
	types.PurposeHero:       "Professional photograph representing {business}, {subject}, {style}",
	types.PurposeSupporting: "Candid photograph of {subject} work in progress, {style}",
	types.PurposeIcon:       "Simple flat icon representing {subject}, {style}",
	types.PurposeBackground: "Soft abstract background texture, {style}",
}

var serifFonts = []string{
	"serif", "playfair", "merriweather", "lora", "garamond", "georgia", "times",
	"baskerville", "crimson", "cormorant", "libre caslon", "bodoni",
}

// ImagePurposeFor reports the image purpose of a section type, or false when the section has
// no image.
func ImagePurposeFor(t types.SectionType) (types.ImagePurpose, bool) {
	p, ok := imagePurposes[t]
	return p, ok
}

// StyleHint summarises a style system for image prompts, using colour classification of the
// primary and accent colours and a serif/sans reading of the heading font.
func StyleHint(s types.StyleSystem) string {
	var parts []string
	if p, err := color.Classify(s.Palette.Primary); err == nil {
		parts = append(parts, p.Describe()+" palette")
	}
	if a, err := color.Classify(s.Palette.Accent); err == nil {
		parts = append(parts, a.Describe()+" accents")
	}
	if isSerif(s.Typography.HeadingFont) {
		parts = append(parts, "classic editorial feel")
	} else {
		parts = append(parts, "clean contemporary feel")
	}
	if len(s.Aesthetic) > 0 {
		parts = append(parts, strings.Join(s.Aesthetic, ", "))
	}
	return strings.Join(parts, ", ")
}

func isSerif(font string) bool {
	f := strings.ToLower(font)
	if strings.Contains(f, "sans") {
		return false
	}
	for _, s := range serifFonts {
		if strings.Contains(f, s) {
			return true
		}
	}
	return false
}

// ImagePlanner writes one image prompt per image-eligible section.
type ImagePlanner struct {
	completer ai.Completer
	catalog   *catalog.Catalog
	timeout   time.Duration
}

func NewImagePlanner(c ai.Completer, cat *catalog.Catalog, timeout time.Duration) *ImagePlanner {
	return &ImagePlanner{completer: c, catalog: cat, timeout: timeout}
}

type imagePlanResponse struct {
	Images []struct {
		SectionKey string `json:"sectionKey"`
		Purpose    string `json:"purpose"`
		Prompt     string `json:"prompt"`
		StyleHint  string `json:"styleHint"`
		Alt        string `json:"alt"`
	} `json:"images"`
}

func (p *ImagePlanner) Plan(ctx context.Context, dc types.DesignContext, plan types.LayoutPlan, style types.StyleSystem) Outcome[[]types.PlannedImage] {
	slots := imageSlots(plan)
	if len(slots) == 0 {
		return Outcome[[]types.PlannedImage]{Value: []types.PlannedImage{}, Source: types.SourceDeterministic}
	}
	profile, _ := p.catalog.Lookup(dc.IndustryID)
	hint := StyleHint(style)
	fallback := func(slot prompts.ImageSlot) types.PlannedImage {
		return templateImage(slot, dc.Project, profile, hint)
	}

	out := WithFallback(ctx, StageImagePlan, p.timeout,
		func(ctx context.Context) ([]types.PlannedImage, error) {
			user, system := prompts.GetImagePlanPrompt(dc, hint, slots)
			raw, err := p.completer.Complete(ctx, ai.CompletionRequest{
				Tag: StageImagePlan, System: system, User: user,
				Temperature: 0.7, JSONMode: true, MaxTokens: 1200,
			})
			if err != nil {
				return nil, err
			}
			var resp imagePlanResponse
			if err := ai.DecodeJSON(raw, &resp, "imagePlan", "plan"); err != nil {
				return nil, malformed(StageImagePlan, "undecodable JSON", err)
			}
			return validateImagePlan(resp, slots, hint, fallback)
		},
		func() []types.PlannedImage {
			images := make([]types.PlannedImage, 0, len(slots))
			for _, s := range slots {
				images = append(images, fallback(s))
			}
			return images
		},
	)
	if out.Source == types.SourceAI {
		fellBack := 0
		for _, img := range out.Value {
			if img.Source == types.SourceFallback {
				fellBack++
			}
		}
		out.Source = sourceOf(len(out.Value), fellBack)
	}
	return out
}

func imageSlots(plan types.LayoutPlan) []prompts.ImageSlot {
	var slots []prompts.ImageSlot
	for _, s := range plan.Sections {
		if purpose, ok := imagePurposes[s.Type]; ok {
			slots = append(slots, prompts.ImageSlot{SectionKey: s.Key, Type: s.Type, Purpose: purpose})
		}
	}
	return slots
}

// validateImagePlan keeps the first valid entry per slot and fills uncovered slots from
// templates. A response with no usable entry at all is malformed.
func validateImagePlan(resp imagePlanResponse, slots []prompts.ImageSlot, hint string, fallback func(prompts.ImageSlot) types.PlannedImage) ([]types.PlannedImage, error) {
	bySlot := make(map[string]prompts.ImageSlot, len(slots))
	for _, s := range slots {
		bySlot[s.SectionKey] = s
	}

	chosen := make(map[string]types.PlannedImage, len(slots))
	for _, e := range resp.Images {
		key := strings.TrimSpace(e.SectionKey)
		slot, known := bySlot[key]
		if !known {
			continue
		}
		if _, taken := chosen[key]; taken {
			continue
		}
		purpose := types.ImagePurpose(strings.ToLower(strings.TrimSpace(e.Purpose)))
		if !purpose.Valid() {
			continue
		}
		// hero sections take exactly the hero purpose; nothing else may claim it
		if (slot.Type == types.SectionHero) != (purpose == types.PurposeHero) {
			continue
		}
		prompt := collapseSpace(e.Prompt)
		if prompt == "" {
			continue
		}
		alt := collapseSpace(e.Alt)
		if alt == "" {
			alt = fallback(slot).Alt
		}
		styleHint := collapseSpace(e.StyleHint)
		if styleHint == "" {
			styleHint = hint
		}
		chosen[key] = types.PlannedImage{
			SectionKey: key,
			Purpose:    purpose,
			Prompt:     prompt,
			StyleHint:  styleHint,
			Alt:        alt,
			Source:     types.SourceAI,
		}
	}
	if len(chosen) == 0 {
		return nil, malformedf(StageImagePlan, "no valid image entries among %d", len(resp.Images))
	}

	images := make([]types.PlannedImage, 0, len(slots))
	for _, s := range slots {
		if img, ok := chosen[s.SectionKey]; ok {
			images = append(images, img)
			continue
		}
		images = append(images, fallback(s))
	}
	return images, nil
}

// templateImage builds an image from the industry prompt templates.
func templateImage(slot prompts.ImageSlot, project types.ProjectConfig, profile catalog.IndustryProfile, hint string) types.PlannedImage {
	tmpl := profile.ImagePrompts[slot.Purpose]
	if tmpl == "" {
		tmpl = defaultImagePrompts[slot.Purpose]
	}
	location := project.Location
	if location == "" {
		location = "a welcoming local setting"
	}
	subject := profile.Subject
	if subject == "" {
		subject = strings.ToLower(profile.Name)
	}
	r := strings.NewReplacer(
		"{business}", project.BusinessName,
		"{location}", location,
		"{subject}", subject,
		"{style}", hint,
	)
	return types.PlannedImage{
		SectionKey: slot.SectionKey,
		Purpose:    slot.Purpose,
		Prompt:     collapseSpace(r.Replace(tmpl)),
		StyleHint:  hint,
		Alt:        templateAlt(slot, project.BusinessName, subject),
		Source:     types.SourceFallback,
	}
}

func templateAlt(slot prompts.ImageSlot, business, subject string) string {
	switch slot.Purpose {
	case types.PurposeHero:
		return business
	case types.PurposeIcon:
		return fmt.Sprintf("Icon for %s %s", business, slot.Type)
	case types.PurposeBackground:
		return "Decorative background"
	default:
		return fmt.Sprintf("%s %s", business, subject)
	}
}
