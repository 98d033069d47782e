package assembler

import (
	"fmt"
	"strings"

	"sitegen_ai_server/internal/color"
	"sitegen_ai_server/internal/types"
)

// Stylesheet emits the CSS for a theme: custom properties first, then the section rules
// that reference them.
func Stylesheet(t types.GlobalTheme) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	props := [][2]string{
		{"color-primary", t.Palette.Primary},
		{"color-secondary", t.Palette.Secondary},
		{"color-accent", t.Palette.Accent},
		{"color-neutral-100", t.Palette.Neutral100},
		{"color-neutral-200", t.Palette.Neutral200},
		{"color-neutral-300", t.Palette.Neutral300},
		{"color-background", t.Palette.Background},
		{"color-text", t.Palette.Text},
		{"color-band", bandColor(t.Palette)},
		{"font-heading", fontStack(t.Typography.HeadingFont)},
		{"font-body", fontStack(t.Typography.BodyFont)},
		{"text-xs", t.TypeScale.XS},
		{"text-sm", t.TypeScale.SM},
		{"text-base", t.TypeScale.Base},
		{"text-lg", t.TypeScale.LG},
		{"text-xl", t.TypeScale.XL},
		{"text-xxl", t.TypeScale.XXL},
		{"space-xs", t.Spacing.XS},
		{"space-sm", t.Spacing.SM},
		{"space-md", t.Spacing.MD},
		{"space-lg", t.Spacing.LG},
		{"space-xl", t.Spacing.XL},
		{"shadow-sm", t.Shadows.SM},
		{"shadow-md", t.Shadows.MD},
		{"shadow-lg", t.Shadows.LG},
		{"radius", t.BorderRadius},
	}
	for _, p := range props {
		if v := cssValue(p[1]); v != "" {
			fmt.Fprintf(&b, "  --%s: %s;\n", p[0], v)
		}
	}
	b.WriteString("}\n")
	if t.Mood != "" {
		fmt.Fprintf(&b, "/* mood: %s */\n", cssValue(t.Mood))
	}
	b.WriteString(baseRules)
	return b.String()
}

// bandColor is the background of alternating sections: the neutral closest to the page
// background, which is neutral100 on light themes and neutral300 on dark ones.
func bandColor(p types.ThemePalette) string {
	if l, err := color.Lightness(p.Background); err == nil && l < 0.5 {
		return p.Neutral300
	}
	return p.Neutral100
}

const baseRules = `
*, *::before, *::after { box-sizing: border-box; }
body {
  margin: 0;
  background: var(--color-background);
  color: var(--color-text);
  font-family: var(--font-body);
  font-size: var(--text-base);
  line-height: 1.6;
}
h1, h2, h3 { font-family: var(--font-heading); line-height: 1.2; margin: 0 0 var(--space-md); }
h1 { font-size: var(--text-xxl); }
h2 { font-size: var(--text-xl); }
h3 { font-size: var(--text-lg); }
p { margin: 0 0 var(--space-md); }
.container { max-width: 1120px; margin: 0 auto; padding: 0 var(--space-md); }
.section { padding: var(--space-xl) 0; }
.section:nth-of-type(even) { background: var(--color-band); }
.section-hero { background: var(--color-primary); color: var(--color-background); text-align: center; }
.section-hero h1 { color: var(--color-background); }
.section-cta { background: var(--color-secondary); color: var(--color-background); text-align: center; }
.section-image { display: block; width: 100%; height: auto; border-radius: var(--radius); margin-bottom: var(--space-lg); box-shadow: var(--shadow-md); }
.image-hero { max-height: 520px; object-fit: cover; }
.image-icon { width: 64px; height: 64px; box-shadow: none; }
.items { list-style: none; padding: 0; margin: 0; display: grid; gap: var(--space-lg); grid-template-columns: repeat(auto-fit, minmax(240px, 1fr)); }
.item { background: var(--color-background); color: var(--color-text); border: 1px solid var(--color-neutral-200); border-radius: var(--radius); padding: var(--space-lg); box-shadow: var(--shadow-sm); }
.button { display: inline-block; background: var(--color-accent); color: var(--color-background); padding: var(--space-sm) var(--space-lg); border: 0; border-radius: var(--radius); font-size: var(--text-base); text-decoration: none; box-shadow: var(--shadow-sm); cursor: pointer; }
.button:hover { box-shadow: var(--shadow-lg); }
.contact-form { display: grid; gap: var(--space-md); max-width: 560px; }
.contact-form label { display: grid; gap: var(--space-xs); font-size: var(--text-sm); }
.contact-form input, .contact-form textarea { font: inherit; padding: var(--space-sm); border: 1px solid var(--color-neutral-300); border-radius: var(--radius); }
`

// fontStack quotes a family name and appends a generic fallback.
func fontStack(name string) string {
	name = cssIdent(name)
	if name == "" {
		return "system-ui, sans-serif"
	}
	generic := "sans-serif"
	lower := strings.ToLower(name)
	if strings.Contains(lower, "serif") && !strings.Contains(lower, "sans") {
		generic = "serif"
	}
	for _, s := range []string{"playfair", "merriweather", "lora", "garamond", "georgia", "baskerville"} {
		if strings.Contains(lower, s) {
			generic = "serif"
		}
	}
	return fmt.Sprintf("%q, %s", name, generic)
}

// cssIdent keeps letters, digits, spaces and hyphens.
func cssIdent(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '-':
			return r
		}
		return -1
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// cssValue drops characters that could close a declaration or a comment.
func cssValue(s string) string {
	return strings.TrimSpace(strings.NewReplacer(";", "", "{", "", "}", "", "<", "", ">", "", "*/", "").Replace(s))
}
