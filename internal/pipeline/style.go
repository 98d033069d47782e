package pipeline

import (
	"context"
	"math"
	"strings"
	"time"

	"sitegen_ai_server/internal/ai"
	"sitegen_ai_server/internal/ai/prompts"
	"sitegen_ai_server/internal/catalog"
	"sitegen_ai_server/internal/color"
	"sitegen_ai_server/internal/types"
)

// minContrast is the minimum lightness distance between background and text.
const minContrast = 0.3

// StyleSystemResolver resolves the base palette and typography for a request.
type StyleSystemResolver struct {
	completer ai.Completer
	catalog   *catalog.Catalog
	timeout   time.Duration
	useAI     bool
}

func NewStyleSystemResolver(c ai.Completer, cat *catalog.Catalog, timeout time.Duration, useAI bool) *StyleSystemResolver {
	return &StyleSystemResolver{completer: c, catalog: cat, timeout: timeout, useAI: useAI}
}

type styleResponse struct {
	Palette    types.Palette `json:"palette"`
	Typography struct {
		HeadingFont string `json:"headingFont"`
		BodyFont    string `json:"bodyFont"`
	} `json:"typography"`
}

func (r *StyleSystemResolver) Resolve(ctx context.Context, dc types.DesignContext) Outcome[types.StyleSystem] {
	profile, _ := r.catalog.Lookup(dc.IndustryID)
	base := BaseStyle(profile, dc.Project.BrandPreferences)
	if !r.useAI || r.completer == nil {
		return Outcome[types.StyleSystem]{Value: base, Source: types.SourceDeterministic}
	}
	return WithFallback(ctx, StageStyleSystem, r.timeout,
		func(ctx context.Context) (types.StyleSystem, error) {
			user, system := prompts.GetStyleHarmonizationPrompt(dc, base)
			raw, err := r.completer.Complete(ctx, ai.CompletionRequest{
				Tag: StageStyleSystem, System: system, User: user,
				Temperature: 0.5, JSONMode: true, MaxTokens: 400,
			})
			if err != nil {
				return types.StyleSystem{}, err
			}
			var resp styleResponse
			if err := ai.DecodeJSON(raw, &resp, "style", "styleSystem"); err != nil {
				return types.StyleSystem{}, malformed(StageStyleSystem, "undecodable JSON", err)
			}
			return validateStyle(resp, base, dc.Project.BrandPreferences)
		},
		func() types.StyleSystem { return base },
	)
}

// BaseStyle is the catalog style with brand preferences applied on top.
func BaseStyle(profile catalog.IndustryProfile, brand types.BrandPreferences) types.StyleSystem {
	s := types.StyleSystem{
		Palette:         profile.Palette,
		Typography:      profile.Fonts,
		BorderRadius:    profile.BorderRadius,
		ShadowIntensity: profile.ShadowIntensity,
		Aesthetic:       append([]string(nil), profile.Aesthetic...),
	}
	if s.BorderRadius == "" {
		s.BorderRadius = "6px"
	}
	if s.ShadowIntensity == "" {
		s.ShadowIntensity = "soft"
	}
	s.Palette = normalizePalette(s.Palette)
	applyBrand(&s, brand)
	return s
}

func applyBrand(s *types.StyleSystem, brand types.BrandPreferences) {
	if brand.PrimaryColor != "" {
		s.Palette.Primary = brand.PrimaryColor
	}
	if brand.SecondaryColor != "" {
		s.Palette.Secondary = brand.SecondaryColor
	}
	if brand.AccentColor != "" {
		s.Palette.Accent = brand.AccentColor
	}
	if brand.HeadingFont != "" {
		s.Typography.HeadingFont = brand.HeadingFont
	}
	if brand.BodyFont != "" {
		s.Typography.BodyFont = brand.BodyFont
	}
	if brand.Style != "" && !containsFold(s.Aesthetic, brand.Style) {
		s.Aesthetic = append(s.Aesthetic, brand.Style)
	}
}

func validateStyle(resp styleResponse, base types.StyleSystem, brand types.BrandPreferences) (types.StyleSystem, error) {
	fields := map[string]*string{
		"primary":    &resp.Palette.Primary,
		"secondary":  &resp.Palette.Secondary,
		"accent":     &resp.Palette.Accent,
		"background": &resp.Palette.Background,
		"text":       &resp.Palette.Text,
	}
	for name, v := range fields {
		hex, err := color.Normalize(*v)
		if err != nil {
			return types.StyleSystem{}, malformedf(StageStyleSystem, "palette.%s %q is not a hex colour", name, *v)
		}
		*v = hex
	}
	if err := checkReadable(StageStyleSystem, resp.Palette.Background, resp.Palette.Text); err != nil {
		return types.StyleSystem{}, err
	}
	heading := collapseSpace(resp.Typography.HeadingFont)
	body := collapseSpace(resp.Typography.BodyFont)
	if heading == "" || body == "" || len(heading) > 60 || len(body) > 60 {
		return types.StyleSystem{}, malformedf(StageStyleSystem, "typography needs heading and body font names")
	}

	s := base
	s.Palette = resp.Palette
	s.Typography = types.Typography{HeadingFont: heading, BodyFont: body}
	s.Aesthetic = append([]string(nil), base.Aesthetic...)
	applyBrand(&s, brand)
	return s, nil
}

// checkReadable rejects background/text pairs that are equal or too close in lightness.
func checkReadable(stage, bg, text string) error {
	if strings.EqualFold(bg, text) {
		return malformedf(stage, "background and text are both %s", bg)
	}
	lb, err := color.Lightness(bg)
	if err != nil {
		return malformed(stage, "background", err)
	}
	lt, err := color.Lightness(text)
	if err != nil {
		return malformed(stage, "text", err)
	}
	if math.Abs(lb-lt) < minContrast {
		return malformedf(stage, "background %s and text %s are not readable together", bg, text)
	}
	return nil
}

func normalizePalette(p types.Palette) types.Palette {
	norm := func(s string) string {
		if n, err := color.Normalize(s); err == nil {
			return n
		}
		return s
	}
	return types.Palette{
		Primary:    norm(p.Primary),
		Secondary:  norm(p.Secondary),
		Accent:     norm(p.Accent),
		Background: norm(p.Background),
		Text:       norm(p.Text),
	}
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
