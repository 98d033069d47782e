package pipeline

import (
	"context"
	"regexp"
	"strings"
	"time"

	"sitegen_ai_server/internal/ai"
	"sitegen_ai_server/internal/ai/prompts"
	"sitegen_ai_server/internal/catalog"
	"sitegen_ai_server/internal/color"
	"sitegen_ai_server/internal/types"
)

const defaultMood = "professional"

var (
	cssLength  = regexp.MustCompile(`^\d*\.?\d+(px|rem|em)$`)
	moodWord   = regexp.MustCompile(`^[A-Za-z][A-Za-z -]{0,29}$`)
	unsafeCSS  = regexp.MustCompile(`[;{}<>]`)
	lightSteps = [3]float64{-0.04, -0.12, -0.24}
	darkSteps  = [3]float64{0.30, 0.20, 0.10}
)

var defaultTypeScale = types.TypeScale{
	XS: "0.75rem", SM: "0.875rem", Base: "1rem", LG: "1.25rem", XL: "1.75rem", XXL: "2.5rem",
}

var defaultSpacing = types.SpacingScale{
	XS: "0.25rem", SM: "0.5rem", MD: "1rem", LG: "2rem", XL: "4rem",
}

var shadowTables = map[string]types.ShadowLevels{
	"none": {SM: "none", MD: "none", LG: "none"},
	"soft": {
		SM: "0 1px 2px rgba(0, 0, 0, 0.05)",
		MD: "0 4px 8px rgba(0, 0, 0, 0.08)",
		LG: "0 12px 24px rgba(0, 0, 0, 0.10)",
	},
	"medium": {
		SM: "0 1px 3px rgba(0, 0, 0, 0.12)",
		MD: "0 6px 12px rgba(0, 0, 0, 0.15)",
		LG: "0 16px 32px rgba(0, 0, 0, 0.18)",
	},
	"strong": {
		SM: "0 2px 4px rgba(0, 0, 0, 0.20)",
		MD: "0 8px 16px rgba(0, 0, 0, 0.25)",
		LG: "0 20px 40px rgba(0, 0, 0, 0.30)",
	},
}

// ThemeHarmonizer turns the base style into the full design token set.
type ThemeHarmonizer struct {
	completer ai.Completer
	catalog   *catalog.Catalog
	timeout   time.Duration
}

func NewThemeHarmonizer(c ai.Completer, cat *catalog.Catalog, timeout time.Duration) *ThemeHarmonizer {
	return &ThemeHarmonizer{completer: c, catalog: cat, timeout: timeout}
}

type themeResponse struct {
	Palette   types.ThemePalette `json:"palette"`
	TypeScale types.TypeScale    `json:"typeScale"`
	Spacing   types.SpacingScale `json:"spacing"`
	Shadows   types.ShadowLevels `json:"shadows"`
	Mood      string             `json:"mood"`
}

// Harmonize never returns a partially AI-sourced theme: any invalid field discards the whole
// response in favour of FallbackTheme.
func (h *ThemeHarmonizer) Harmonize(ctx context.Context, dc types.DesignContext, style types.StyleSystem, images []types.PlannedImage) Outcome[types.GlobalTheme] {
	profile, _ := h.catalog.Lookup(dc.IndustryID)
	return WithFallback(ctx, StageTheme, h.timeout,
		func(ctx context.Context) (types.GlobalTheme, error) {
			user, system := prompts.GetThemePrompt(dc, style, imageHints(images))
			raw, err := h.completer.Complete(ctx, ai.CompletionRequest{
				Tag: StageTheme, System: system, User: user,
				Temperature: 0.4, JSONMode: true, MaxTokens: 900,
			})
			if err != nil {
				return types.GlobalTheme{}, err
			}
			var resp themeResponse
			if err := ai.DecodeJSON(raw, &resp, "theme", "tokens"); err != nil {
				return types.GlobalTheme{}, malformed(StageTheme, "undecodable JSON", err)
			}
			return validateTheme(resp, style)
		},
		func() types.GlobalTheme { return FallbackTheme(style, profile.Mood) },
	)
}

func imageHints(images []types.PlannedImage) []string {
	hints := make([]string, 0, len(images))
	for _, img := range images {
		hints = append(hints, img.StyleHint)
	}
	return cleanList(hints, 3)
}

func validateTheme(resp themeResponse, style types.StyleSystem) (types.GlobalTheme, error) {
	p := &resp.Palette
	for name, v := range map[string]*string{
		"primary": &p.Primary, "secondary": &p.Secondary, "accent": &p.Accent,
		"neutral100": &p.Neutral100, "neutral200": &p.Neutral200, "neutral300": &p.Neutral300,
		"background": &p.Background, "text": &p.Text,
	} {
		hex, err := color.Normalize(*v)
		if err != nil {
			return types.GlobalTheme{}, malformedf(StageTheme, "palette.%s %q is not a hex colour", name, *v)
		}
		*v = hex
	}
	if err := checkNeutrals(p.Neutral100, p.Neutral200, p.Neutral300); err != nil {
		return types.GlobalTheme{}, err
	}
	if err := checkReadable(StageTheme, p.Background, p.Text); err != nil {
		return types.GlobalTheme{}, err
	}

	ts := resp.TypeScale
	for name, v := range map[string]string{
		"typeScale.xs": ts.XS, "typeScale.sm": ts.SM, "typeScale.base": ts.Base,
		"typeScale.lg": ts.LG, "typeScale.xl": ts.XL, "typeScale.xxl": ts.XXL,
		"spacing.xs": resp.Spacing.XS, "spacing.sm": resp.Spacing.SM, "spacing.md": resp.Spacing.MD,
		"spacing.lg": resp.Spacing.LG, "spacing.xl": resp.Spacing.XL,
	} {
		if !cssLength.MatchString(strings.TrimSpace(v)) {
			return types.GlobalTheme{}, malformedf(StageTheme, "%s %q is not a CSS length", name, v)
		}
	}
	for name, v := range map[string]string{"sm": resp.Shadows.SM, "md": resp.Shadows.MD, "lg": resp.Shadows.LG} {
		v = strings.TrimSpace(v)
		if v == "" || len(v) > 120 || unsafeCSS.MatchString(v) {
			return types.GlobalTheme{}, malformedf(StageTheme, "shadows.%s %q is not a box-shadow value", name, v)
		}
	}
	mood := strings.ToLower(collapseSpace(resp.Mood))
	if !moodWord.MatchString(mood) {
		return types.GlobalTheme{}, malformedf(StageTheme, "mood %q is not a descriptor", resp.Mood)
	}

	return types.GlobalTheme{
		Palette:      *p,
		Typography:   style.Typography,
		TypeScale:    trimScale(ts),
		Spacing:      trimSpacing(resp.Spacing),
		Shadows:      types.ShadowLevels{SM: strings.TrimSpace(resp.Shadows.SM), MD: strings.TrimSpace(resp.Shadows.MD), LG: strings.TrimSpace(resp.Shadows.LG)},
		BorderRadius: style.BorderRadius,
		Mood:         mood,
	}, nil
}

// checkNeutrals requires neutral100 > neutral200 > neutral300 in lightness.
func checkNeutrals(n100, n200, n300 string) error {
	var l [3]float64
	for i, hex := range []string{n100, n200, n300} {
		v, err := color.Lightness(hex)
		if err != nil {
			return malformed(StageTheme, "neutral", err)
		}
		l[i] = v
	}
	if !(l[0] > l[1] && l[1] > l[2]) {
		return malformedf(StageTheme, "neutrals %s, %s, %s are not ordered light to dark", n100, n200, n300)
	}
	return nil
}

// FallbackTheme derives the token set algorithmically from the base style.
func FallbackTheme(style types.StyleSystem, mood string) types.GlobalTheme {
	bg := style.Palette.Background
	text := style.Palette.Text
	if strings.EqualFold(bg, text) || text == "" {
		text = color.ReadableOn(bg)
	}
	n100, n200, n300 := neutrals(bg)

	shadows, ok := shadowTables[style.ShadowIntensity]
	if !ok {
		shadows = shadowTables["soft"]
	}
	if mood == "" {
		mood = defaultMood
	}
	radius := style.BorderRadius
	if radius == "" {
		radius = "6px"
	}
	return types.GlobalTheme{
		Palette: types.ThemePalette{
			Primary:    style.Palette.Primary,
			Secondary:  style.Palette.Secondary,
			Accent:     style.Palette.Accent,
			Neutral100: n100,
			Neutral200: n200,
			Neutral300: n300,
			Background: bg,
			Text:       text,
		},
		Typography:   style.Typography,
		TypeScale:    defaultTypeScale,
		Spacing:      defaultSpacing,
		Shadows:      shadows,
		BorderRadius: radius,
		Mood:         mood,
	}
}

// neutrals darkens a light background or lightens a dark one by fixed steps, lightest first.
func neutrals(bg string) (string, string, string) {
	l, err := color.Lightness(bg)
	if err != nil {
		return "#F3F4F6", "#E5E7EB", "#D1D5DB"
	}
	steps := darkSteps
	if l >= 0.5 {
		steps = lightSteps
	}
	var out [3]string
	for i, d := range steps {
		out[i], _ = color.ShiftLightness(bg, d)
	}
	return out[0], out[1], out[2]
}

func trimScale(s types.TypeScale) types.TypeScale {
	return types.TypeScale{
		XS: strings.TrimSpace(s.XS), SM: strings.TrimSpace(s.SM), Base: strings.TrimSpace(s.Base),
		LG: strings.TrimSpace(s.LG), XL: strings.TrimSpace(s.XL), XXL: strings.TrimSpace(s.XXL),
	}
}

func trimSpacing(s types.SpacingScale) types.SpacingScale {
	return types.SpacingScale{
		XS: strings.TrimSpace(s.XS), SM: strings.TrimSpace(s.SM), MD: strings.TrimSpace(s.MD),
		LG: strings.TrimSpace(s.LG), XL: strings.TrimSpace(s.XL),
	}
}
