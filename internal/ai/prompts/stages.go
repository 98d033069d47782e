package prompts

import (
	"fmt"
	"strings"

	"sitegen_ai_server/internal/types"
)

// GetDesignStrategyPrompt asks for tone, personality, colour direction and section strategy.
func GetDesignStrategyPrompt(p types.ProjectConfig) (string, string) {
	prompt := Brief(p) + `
Describe the design strategy for this business's website as JSON:
{
  "emotionalTone": "one or two words",
  "brandVoice": "short phrase",
  "brandPersonality": ["3 to 5 adjectives"],
  "colorDirection": "short phrase describing the palette direction",
  "primaryGoals": ["1 to 3 website goals"],
  "sectionStrategy": ["ordered section types drawn from: ` + sectionTypeList() + `"]
}
The first section must be "hero".`
	system := "You are a senior brand strategist for small-business websites. " + jsonOnly
	return prompt, system
}

// GetLayoutPrompt asks for an ordered list of minSections to maxSections landing page sections.
func GetLayoutPrompt(dc types.DesignContext, minSections, maxSections int) (string, string) {
	prompt := Context(dc) + fmt.Sprintf(`
Plan the landing page sections as JSON:
{"sections": [{"type": "hero", "notes": "what this section should achieve"}]}
Use %d to %d sections drawn from: %s.
The first section must be "hero". Finish with "contact" when visitors should be able to reach the business.`,
		minSections, maxSections, sectionTypeList())
	system := "You are an information architect planning conversion-focused landing pages. " + jsonOnly
	return prompt, system
}

// GetStyleHarmonizationPrompt asks for an adjusted base palette and font pairing.
func GetStyleHarmonizationPrompt(dc types.DesignContext, base types.StyleSystem) (string, string) {
	prompt := fmt.Sprintf(`%s
Colour direction: %s
Starting palette: primary %s, secondary %s, accent %s, background %s, text %s
Starting fonts: heading %q, body %q

Adjust the palette and fonts to suit this brand while keeping them readable. Respond as JSON:
{
  "palette": {"primary": "#RRGGBB", "secondary": "#RRGGBB", "accent": "#RRGGBB", "background": "#RRGGBB", "text": "#RRGGBB"},
  "typography": {"headingFont": "Google Font name", "bodyFont": "Google Font name"}
}`, Context(dc), dc.ColorDirection,
		base.Palette.Primary, base.Palette.Secondary, base.Palette.Accent, base.Palette.Background, base.Palette.Text,
		base.Typography.HeadingFont, base.Typography.BodyFont)
	system := "You are a brand designer. Background and text colours must differ strongly. " + jsonOnly
	return prompt, system
}

// ImageSlot is one section the image planner should cover.
type ImageSlot struct {
	SectionKey string
	Type       types.SectionType
	Purpose    types.ImagePurpose
}

// GetImagePlanPrompt asks for one image per slot.
func GetImagePlanPrompt(dc types.DesignContext, styleHint string, slots []ImageSlot) (string, string) {
	var b strings.Builder
	b.WriteString(Context(dc))
	fmt.Fprintf(&b, "Visual style: %s\n\nSections needing images:\n", styleHint)
	for _, s := range slots {
		fmt.Fprintf(&b, "- sectionKey %q (type %s, purpose %s)\n", s.SectionKey, s.Type, s.Purpose)
	}
	b.WriteString(`
Write one image generation prompt per section as JSON:
{"images": [{"sectionKey": "...", "purpose": "hero|supporting|icon|background", "prompt": "detailed visual description", "styleHint": "short style note", "alt": "accessible alt text"}]}
Use exactly the sectionKey and purpose listed for each section. Do not include text or logos in images.`)
	system := "You are an art director writing prompts for an image generation model. " + jsonOnly
	return b.String(), system
}

// GetSectionCopyPrompt asks for the copy of a single section.
func GetSectionCopyPrompt(dc types.DesignContext, section types.Section, powerWords, avoidWords []string) (string, string) {
	var b strings.Builder
	b.WriteString(Context(dc))
	fmt.Fprintf(&b, "\nWrite the copy for the %q section (type %s).\n", section.Key, section.Type)
	if section.Notes != "" {
		fmt.Fprintf(&b, "Section intent: %s\n", section.Notes)
	}
	if len(powerWords) > 0 {
		fmt.Fprintf(&b, "Words that fit the brand: %s\n", strings.Join(powerWords, ", "))
	}
	if len(avoidWords) > 0 {
		fmt.Fprintf(&b, "Never use: %s\n", strings.Join(avoidWords, ", "))
	}
	b.WriteString(`Respond as JSON:
{"heading": "max 80 characters", "body": "1 to 3 sentences", "items": [{"title": "...", "text": "..."}], "cta": "optional button label"}
Include "items" only for list-shaped sections (services, features, testimonials, faq, stats, pricing).
Never use placeholder text.`)
	system := "You are a conversion copywriter for small-business websites. " + jsonOnly
	return b.String(), system
}

// GetThemePrompt asks for the full design token set.
func GetThemePrompt(dc types.DesignContext, base types.StyleSystem, imageHints []string) (string, string) {
	var b strings.Builder
	b.WriteString(Context(dc))
	fmt.Fprintf(&b, "Base palette: primary %s, secondary %s, accent %s, background %s, text %s\n",
		base.Palette.Primary, base.Palette.Secondary, base.Palette.Accent, base.Palette.Background, base.Palette.Text)
	fmt.Fprintf(&b, "Fonts: heading %q, body %q\n", base.Typography.HeadingFont, base.Typography.BodyFont)
	fmt.Fprintf(&b, "Border radius: %s, shadow intensity: %s\n", base.BorderRadius, base.ShadowIntensity)
	if len(imageHints) > 0 {
		fmt.Fprintf(&b, "Imagery style: %s\n", strings.Join(imageHints, "; "))
	}
	b.WriteString(`
Harmonize these into a complete design token set as JSON:
{
  "palette": {"primary": "#RRGGBB", "secondary": "#RRGGBB", "accent": "#RRGGBB",
              "neutral100": "#RRGGBB", "neutral200": "#RRGGBB", "neutral300": "#RRGGBB",
              "background": "#RRGGBB", "text": "#RRGGBB"},
  "typeScale": {"xs": "0.75rem", "sm": "0.875rem", "base": "1rem", "lg": "1.25rem", "xl": "1.75rem", "xxl": "2.5rem"},
  "spacing": {"xs": "0.25rem", "sm": "0.5rem", "md": "1rem", "lg": "2rem", "xl": "4rem"},
  "shadows": {"sm": "css box-shadow", "md": "css box-shadow", "lg": "css box-shadow"},
  "mood": "one word"
}
neutral100 must be the lightest neutral and neutral300 the darkest.`)
	system := "You are a design-systems engineer. " + jsonOnly
	return b.String(), system
}
