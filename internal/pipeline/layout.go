package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sitegen_ai_server/internal/ai"
	"sitegen_ai_server/internal/ai/prompts"
	"sitegen_ai_server/internal/types"
)

const (
	minBlueprintScore = 5
	minAISections     = 3
	maxAISections     = 10
)

// LayoutPlanner picks the landing page sections. The deterministic blueprint scorer is the
// default; the model is only consulted when useAI is set, with the scorer as its fallback.
type LayoutPlanner struct {
	completer ai.Completer
	timeout   time.Duration
	useAI     bool
}

func NewLayoutPlanner(c ai.Completer, timeout time.Duration, useAI bool) *LayoutPlanner {
	return &LayoutPlanner{completer: c, timeout: timeout, useAI: useAI}
}

type layoutResponse struct {
	Sections []struct {
		Type  string `json:"type"`
		Notes string `json:"notes"`
	} `json:"sections"`
}

func (p *LayoutPlanner) Plan(ctx context.Context, dc types.DesignContext) Outcome[types.LayoutPlan] {
	if !p.useAI || p.completer == nil {
		return Outcome[types.LayoutPlan]{Value: PlanFromBlueprints(dc), Source: types.SourceDeterministic}
	}
	return WithFallback(ctx, StageLayout, p.timeout,
		func(ctx context.Context) (types.LayoutPlan, error) {
			user, system := prompts.GetLayoutPrompt(dc, minAISections, maxAISections)
			raw, err := p.completer.Complete(ctx, ai.CompletionRequest{
				Tag: StageLayout, System: system, User: user,
				Temperature: 0.4, JSONMode: true, MaxTokens: 700,
			})
			if err != nil {
				return types.LayoutPlan{}, err
			}
			var resp layoutResponse
			if err := ai.DecodeJSON(raw, &resp, "layout", "plan"); err != nil {
				return types.LayoutPlan{}, malformed(StageLayout, "undecodable JSON", err)
			}
			return validateLayout(resp, dc.Project.Pages)
		},
		func() types.LayoutPlan { return PlanFromBlueprints(dc) },
	)
}

func validateLayout(resp layoutResponse, pages []string) (types.LayoutPlan, error) {
	n := len(resp.Sections)
	if n < minAISections || n > maxAISections {
		return types.LayoutPlan{}, malformedf(StageLayout, "expected %d-%d sections, got %d", minAISections, maxAISections, n)
	}
	kinds := make([]types.SectionType, 0, n)
	notes := make(map[int]string, n)
	for i, s := range resp.Sections {
		st := types.SectionType(strings.ToLower(strings.TrimSpace(s.Type)))
		if !st.Valid() {
			return types.LayoutPlan{}, malformedf(StageLayout, "unknown section type %q", s.Type)
		}
		kinds = append(kinds, st)
		notes[i] = strings.TrimSpace(s.Notes)
	}
	if kinds[0] != types.SectionHero {
		return types.LayoutPlan{}, malformedf(StageLayout, "first section is %q, want hero", kinds[0])
	}

	sections := buildSections(kinds)
	for i := range sections {
		if notes[i] != "" {
			sections[i].Notes = notes[i]
		}
	}
	sections = withRequestedPages(sections, pages)
	return types.LayoutPlan{Page: types.LandingPage, Blueprint: "ai", Sections: sections}, nil
}

// PlanFromBlueprints scores every blueprint against the design context and returns the best
// match, or the generic blueprint when none reaches the minimum score.
func PlanFromBlueprints(dc types.DesignContext) types.LayoutPlan {
	chosen := genericBlueprint
	best := minBlueprintScore - 1
	text := contextText(dc)
	for _, bp := range blueprints {
		if s := scoreBlueprint(bp, dc, text); s > best {
			best, chosen = s, bp
		}
	}

	sections := withRequestedPages(buildSections(chosen.Sections), dc.Project.Pages)
	return types.LayoutPlan{Page: types.LandingPage, Blueprint: chosen.ID, Sections: sections}
}

func scoreBlueprint(bp blueprint, dc types.DesignContext, text string) int {
	score := 0
	for _, id := range bp.Industries {
		if id == dc.IndustryID || id == dc.Project.IndustryID {
			score += 10
			break
		}
	}
	for _, kw := range bp.Keywords {
		if strings.Contains(text, kw) {
			score += 2
		}
	}
	has := make(map[types.SectionType]bool, len(bp.Sections))
	for _, s := range bp.Sections {
		has[s] = true
	}
	for _, s := range dc.SectionStrategy {
		if has[s] {
			score++
		}
	}
	return score
}

// contextText is the lower-cased text blueprint keywords are matched against.
func contextText(dc types.DesignContext) string {
	parts := []string{
		dc.IndustryID, dc.IndustryName, dc.Project.IndustryID, dc.Project.Description,
		dc.EmotionalTone, dc.BrandVoice,
	}
	parts = append(parts, dc.BrandPersonality...)
	parts = append(parts, dc.PrimaryGoals...)
	parts = append(parts, dc.Project.Services...)
	parts = append(parts, dc.Project.TargetAudiences...)
	return strings.ToLower(strings.Join(parts, " "))
}

// buildSections assigns <type>-<n> keys numbered per type from 1.
func buildSections(kinds []types.SectionType) []types.Section {
	counts := make(map[types.SectionType]int, len(kinds))
	out := make([]types.Section, 0, len(kinds))
	for _, k := range kinds {
		counts[k]++
		out = append(out, types.Section{
			Key:   fmt.Sprintf("%s-%d", k, counts[k]),
			Type:  k,
			Notes: sectionNotes[k],
		})
	}
	return out
}

// withRequestedPages inserts a section for every requested page whose type is missing from
// the plan, just before the first contact section (or at the end when there is none).
func withRequestedPages(sections []types.Section, pages []string) []types.Section {
	present := make(map[types.SectionType]bool, len(sections))
	for _, s := range sections {
		present[s.Type] = true
	}
	var missing []types.SectionType
	for _, page := range pages {
		st, ok := pageSections[page]
		if !ok || present[st] {
			continue
		}
		present[st] = true
		missing = append(missing, st)
	}
	if len(missing) == 0 {
		return sections
	}

	at := len(sections)
	for i, s := range sections {
		if s.Type == types.SectionContact {
			at = i
			break
		}
	}
	added := buildSections(missing)
	out := make([]types.Section, 0, len(sections)+len(added))
	out = append(out, sections[:at]...)
	out = append(out, added...)
	out = append(out, sections[at:]...)
	return out
}
