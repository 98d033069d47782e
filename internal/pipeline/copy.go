package pipeline

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"sitegen_ai_server/internal/ai"
	"sitegen_ai_server/internal/ai/prompts"
	"sitegen_ai_server/internal/catalog"
	"sitegen_ai_server/internal/types"
)

const (
	maxHeadingRunes = 100
	maxBodyRunes    = 700
	maxCTARunes     = 40
	maxCopyItems    = 8
)

var placeholderPattern = regexp.MustCompile(`(?i)lorem ipsum|\{\{|\}\}|\[[^\]]*insert[^\]]*\]|\bTODO\b|\bTBD\b`)

// CopyGenerator writes the text of every section, one independent AI call per section.
type CopyGenerator struct {
	completer ai.Completer
	catalog   *catalog.Catalog
	timeout   time.Duration
	limit     int
}

func NewCopyGenerator(c ai.Completer, cat *catalog.Catalog, timeout time.Duration, concurrency int) *CopyGenerator {
	return &CopyGenerator{completer: c, catalog: cat, timeout: timeout, limit: concurrency}
}

type copyResponse struct {
	Heading string           `json:"heading"`
	Body    string           `json:"body"`
	Items   []types.CopyItem `json:"items"`
	CTA     string           `json:"cta"`
}

// Generate returns exactly one SectionCopy per section of plan, in plan order. Sections whose
// call fails fall back individually; their failures are joined into Outcome.Err as
// *PartialSectionFailure values.
func (g *CopyGenerator) Generate(ctx context.Context, dc types.DesignContext, plan types.LayoutPlan) Outcome[[]types.SectionCopy] {
	profile, _ := g.catalog.Lookup(dc.IndustryID)
	vocab := newVocabulary(profile)

	results := RunUnits(ctx, g.limit, len(plan.Sections), func(ctx context.Context, i int) Result[types.SectionCopy] {
		section := plan.Sections[i]
		c, err := call(ctx, StageCopy, g.timeout, func(ctx context.Context) (types.SectionCopy, error) {
			return g.sectionCopy(ctx, dc, section, vocab)
		})
		if err != nil {
			return Err[types.SectionCopy](&PartialSectionFailure{Stage: StageCopy, SectionKey: section.Key, Cause: err})
		}
		return Ok(c)
	})

	copies, fellBack := Merge(results, func(i int) types.SectionCopy {
		return TemplateCopy(plan.Sections[i], dc, profile)
	})
	var errs []error
	for _, i := range fellBack {
		errs = append(errs, results[i].Err)
	}
	return Outcome[[]types.SectionCopy]{
		Value:  copies,
		Source: sourceOf(len(copies), len(fellBack)),
		Err:    errors.Join(errs...),
	}
}

func (g *CopyGenerator) sectionCopy(ctx context.Context, dc types.DesignContext, section types.Section, vocab vocabulary) (types.SectionCopy, error) {
	if g.completer == nil {
		return types.SectionCopy{}, ai.ErrNoCredentials
	}
	user, system := prompts.GetSectionCopyPrompt(dc, section, vocab.power, vocab.avoid)
	raw, err := g.completer.Complete(ctx, ai.CompletionRequest{
		Tag: StageCopy + ":" + section.Key, System: system, User: user,
		Temperature: 0.7, JSONMode: true, MaxTokens: 600,
	})
	if err != nil {
		return types.SectionCopy{}, err
	}
	var resp copyResponse
	if err := ai.DecodeJSON(raw, &resp, "copy", "section"); err != nil {
		return types.SectionCopy{}, malformed(StageCopy, "undecodable JSON", err)
	}
	return validateCopy(resp, section, vocab)
}

func validateCopy(resp copyResponse, section types.Section, vocab vocabulary) (types.SectionCopy, error) {
	heading := collapseSpace(resp.Heading)
	body := strings.TrimSpace(resp.Body)
	switch {
	case heading == "":
		return types.SectionCopy{}, malformedf(StageCopy, "%s: heading is empty", section.Key)
	case body == "":
		return types.SectionCopy{}, malformedf(StageCopy, "%s: body is empty", section.Key)
	case utf8.RuneCountInString(heading) > maxHeadingRunes:
		return types.SectionCopy{}, malformedf(StageCopy, "%s: heading is too long", section.Key)
	case utf8.RuneCountInString(body) > maxBodyRunes:
		return types.SectionCopy{}, malformedf(StageCopy, "%s: body is too long", section.Key)
	}

	cta := collapseSpace(resp.CTA)
	if utf8.RuneCountInString(cta) > maxCTARunes {
		cta = ""
	}
	items := make([]types.CopyItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		it.Title, it.Text = collapseSpace(it.Title), collapseSpace(it.Text)
		if it.Title == "" && it.Text == "" {
			continue
		}
		items = append(items, it)
		if len(items) == maxCopyItems {
			break
		}
	}

	texts := []string{heading, body, cta}
	for _, it := range items {
		texts = append(texts, it.Title, it.Text)
	}
	for _, t := range texts {
		if placeholderPattern.MatchString(t) {
			return types.SectionCopy{}, malformedf(StageCopy, "%s: placeholder text %q", section.Key, placeholderPattern.FindString(t))
		}
		if w, found := vocab.offending(t); found {
			return types.SectionCopy{}, malformedf(StageCopy, "%s: uses avoided word %q", section.Key, w)
		}
	}

	if len(items) == 0 {
		items = nil
	}
	return types.SectionCopy{
		SectionKey: section.Key,
		Heading:    heading,
		Body:       body,
		Items:      items,
		CTA:        cta,
		Source:     types.SourceAI,
	}, nil
}

// vocabulary is the copy-tone word list of a profile with avoided words filtered out of the
// preferred ones.
type vocabulary struct {
	power []string
	avoid []string
}

func newVocabulary(p catalog.IndustryProfile) vocabulary {
	v := vocabulary{avoid: cleanList(p.Tone.AvoidWords, 20)}
	for _, w := range cleanList(p.Tone.PowerWords, 20) {
		if _, bad := v.offending(w); !bad {
			v.power = append(v.power, w)
		}
	}
	return v
}

func (v vocabulary) offending(s string) (string, bool) {
	lower := strings.ToLower(s)
	for _, w := range v.avoid {
		if strings.Contains(lower, strings.ToLower(w)) {
			return w, true
		}
	}
	return "", false
}

// acceptable reports whether s carries no placeholder token and no avoided word.
func (v vocabulary) acceptable(s string) bool {
	if placeholderPattern.MatchString(s) {
		return false
	}
	_, bad := v.offending(s)
	return !bad
}

// filter keeps the acceptable entries of list, in order.
func (v vocabulary) filter(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if v.acceptable(s) {
			out = append(out, s)
		}
	}
	return out
}

// word returns the i-th preferred word, cycling, or def when there are none.
func (v vocabulary) word(i int, def string) string {
	if len(v.power) == 0 {
		return def
	}
	return v.power[i%len(v.power)]
}
