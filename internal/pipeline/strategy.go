package pipeline

import (
	"context"
	"strings"
	"time"

	"sitegen_ai_server/internal/ai"
	"sitegen_ai_server/internal/ai/prompts"
	"sitegen_ai_server/internal/catalog"
	"sitegen_ai_server/internal/types"
)

// DesignStrategyGenerator infers tone, personality and section strategy for a project.
type DesignStrategyGenerator struct {
	completer ai.Completer
	catalog   *catalog.Catalog
	timeout   time.Duration
}

func NewDesignStrategyGenerator(c ai.Completer, cat *catalog.Catalog, timeout time.Duration) *DesignStrategyGenerator {
	return &DesignStrategyGenerator{completer: c, catalog: cat, timeout: timeout}
}

type strategyResponse struct {
	EmotionalTone    string   `json:"emotionalTone"`
	BrandVoice       string   `json:"brandVoice"`
	BrandPersonality []string `json:"brandPersonality"`
	ColorDirection   string   `json:"colorDirection"`
	PrimaryGoals     []string `json:"primaryGoals"`
	SectionStrategy  []string `json:"sectionStrategy"`
}

// Generate returns the design context, from the model when possible and from the catalog
// otherwise.
func (g *DesignStrategyGenerator) Generate(ctx context.Context, cfg types.ProjectConfig) Outcome[types.DesignContext] {
	profile, _ := g.catalog.Lookup(cfg.IndustryID)
	return WithFallback(ctx, StageDesignStrategy, g.timeout,
		func(ctx context.Context) (types.DesignContext, error) {
			user, system := prompts.GetDesignStrategyPrompt(cfg)
			raw, err := g.completer.Complete(ctx, ai.CompletionRequest{
				Tag: StageDesignStrategy, System: system, User: user,
				Temperature: 0.6, JSONMode: true, MaxTokens: 600,
			})
			if err != nil {
				return types.DesignContext{}, err
			}
			var resp strategyResponse
			if err := ai.DecodeJSON(raw, &resp, "strategy", "designStrategy"); err != nil {
				return types.DesignContext{}, malformed(StageDesignStrategy, "undecodable JSON", err)
			}
			return validateStrategy(resp, cfg, profile)
		},
		func() types.DesignContext { return strategyFromProfile(cfg, profile) },
	)
}

func validateStrategy(resp strategyResponse, cfg types.ProjectConfig, profile catalog.IndustryProfile) (types.DesignContext, error) {
	vocab := newVocabulary(profile)
	tone := strings.TrimSpace(resp.EmotionalTone)
	if tone == "" {
		return types.DesignContext{}, malformedf(StageDesignStrategy, "emotionalTone is missing")
	}
	voice := strings.TrimSpace(resp.BrandVoice)
	if voice == "" {
		return types.DesignContext{}, malformedf(StageDesignStrategy, "brandVoice is missing")
	}
	if !vocab.acceptable(tone) || !vocab.acceptable(voice) {
		return types.DesignContext{}, malformedf(StageDesignStrategy, "tone or voice carries placeholder or avoided words")
	}
	personality := cleanList(resp.BrandPersonality, 6)
	if len(personality) == 0 {
		return types.DesignContext{}, malformedf(StageDesignStrategy, "brandPersonality is empty")
	}
	if len(resp.SectionStrategy) == 0 {
		return types.DesignContext{}, malformedf(StageDesignStrategy, "sectionStrategy is empty")
	}
	strategy := make([]types.SectionType, 0, len(resp.SectionStrategy))
	for _, s := range resp.SectionStrategy {
		st := types.SectionType(strings.ToLower(strings.TrimSpace(s)))
		if !st.Valid() {
			return types.DesignContext{}, malformedf(StageDesignStrategy, "unknown section type %q", s)
		}
		strategy = append(strategy, st)
	}

	// Traits and goals end up in fallback copy, so unusable entries are dropped here.
	personality = vocab.filter(personality)
	if len(personality) == 0 {
		personality = vocab.filter(cleanList(profile.Tone.Personality, 6))
	}
	goals := vocab.filter(cleanList(resp.PrimaryGoals, 3))
	if len(goals) == 0 {
		goals = vocab.filter(cleanList(profile.Tone.Goals, 3))
	}
	direction := strings.TrimSpace(resp.ColorDirection)
	if !vocab.acceptable(direction) {
		direction = strings.Join(profile.Aesthetic, ", ")
	}
	return types.DesignContext{
		Project:          cfg,
		IndustryID:       profile.ID,
		IndustryName:     profile.Name,
		EmotionalTone:    tone,
		BrandVoice:       voice,
		BrandPersonality: personality,
		ColorDirection:   direction,
		PrimaryGoals:     goals,
		SectionStrategy:  strategy,
	}, nil
}

// strategyFromProfile derives the design context from the industry profile alone.
func strategyFromProfile(cfg types.ProjectConfig, profile catalog.IndustryProfile) types.DesignContext {
	tone := profile.Tone.Emotional
	voice := profile.Tone.Voice
	if cfg.ToneOfVoice != "" {
		voice = cfg.ToneOfVoice
	}
	return types.DesignContext{
		Project:          cfg,
		IndustryID:       profile.ID,
		IndustryName:     profile.Name,
		EmotionalTone:    tone,
		BrandVoice:       voice,
		BrandPersonality: append([]string(nil), profile.Tone.Personality...),
		ColorDirection:   strings.Join(profile.Aesthetic, ", "),
		PrimaryGoals:     append([]string(nil), profile.Tone.Goals...),
		SectionStrategy:  append([]types.SectionType(nil), profile.Sections...),
	}
}
