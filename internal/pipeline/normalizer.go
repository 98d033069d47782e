package pipeline

import (
	"strings"

	"sitegen_ai_server/internal/catalog"
	"sitegen_ai_server/internal/color"
	"sitegen_ai_server/internal/types"
)

const (
	maxServices  = 12
	maxAudiences = 6
	maxPages     = 8
)

// NormalizeRequirements validates raw business fields and shapes them into a ProjectConfig.
// Only missing identity fields are fatal; malformed optional fields are dropped.
func NormalizeRequirements(raw types.RawRequirements) (types.ProjectConfig, error) {
	name := collapseSpace(raw.BusinessName)
	industry := catalog.Normalize(raw.Industry)

	var missing []string
	if name == "" {
		missing = append(missing, "businessName")
	}
	if industry == "" {
		missing = append(missing, "industry")
	}
	if len(missing) > 0 {
		return types.ProjectConfig{}, &ValidationError{Fields: missing}
	}

	cfg := types.ProjectConfig{
		BusinessName:    name,
		IndustryID:      industry,
		Description:     collapseSpace(raw.Description),
		Location:        collapseSpace(raw.Location),
		ToneOfVoice:     collapseSpace(raw.ToneOfVoice),
		TargetAudiences: cleanList(raw.TargetAudiences, maxAudiences),
		Services:        cleanList(raw.Services, maxServices),
		Pages:           cleanPages(raw.Pages),
	}
	if raw.BrandPreferences != nil {
		cfg.BrandPreferences = cleanBrand(*raw.BrandPreferences)
	}
	return cfg, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanList trims, drops empties, de-duplicates case-insensitively and caps the list.
// The result is never nil.
func cleanList(in []string, limit int) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = collapseSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

// cleanPages lower-cases page ids and guarantees the landing page comes first.
func cleanPages(in []string) []string {
	pages := []string{types.LandingPage}
	seen := map[string]bool{types.LandingPage: true}
	for _, p := range in {
		p = catalog.Normalize(p)
		if p == "index" || p == "landing" {
			p = types.LandingPage
		}
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		pages = append(pages, p)
		if len(pages) == maxPages {
			break
		}
	}
	return pages
}

func cleanBrand(b types.BrandPreferences) types.BrandPreferences {
	hex := func(s string) string {
		if n, err := color.Normalize(s); err == nil {
			return n
		}
		return ""
	}
	return types.BrandPreferences{
		PrimaryColor:   hex(b.PrimaryColor),
		SecondaryColor: hex(b.SecondaryColor),
		AccentColor:    hex(b.AccentColor),
		HeadingFont:    collapseSpace(b.HeadingFont),
		BodyFont:       collapseSpace(b.BodyFont),
		Style:          collapseSpace(b.Style),
	}
}
