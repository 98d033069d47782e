package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen_ai_server/internal/types"
)

func copyTag(key string) string { return StageCopy + ":" + key }

func TestCopyPartialFailureIsolation(t *testing.T) {
	stub := newStub().
		respond(copyTag("hero-1"), `{"heading": "Counsel that stands with you", "body": "Strategic advice for Boston businesses.", "cta": "Book a consultation"}`).
		respond(copyTag("about-1"), `{"copy": {"heading": "Our firm", "body": "Three decades of practice."}}`).
		fail(copyTag("services-1"), errors.New("502 bad gateway")).
		respond(copyTag("testimonials-1"), `{"heading": "Kind words", "body": "What clients say.", "items": [{"title": "A founder", "text": "Superb."}]}`).
		respond(copyTag("contact-1"), `{"heading": "Talk to us", "body": "We reply within a day."}`)
	g := NewCopyGenerator(stub, testCatalog(t), time.Second, 2)
	plan := testPlan()

	out := g.Generate(context.Background(), testDesign(t), plan)
	require.Len(t, out.Value, len(plan.Sections))
	assert.Equal(t, types.SourceMixed, out.Source)

	byKey := map[string]types.SectionCopy{}
	for i, c := range out.Value {
		assert.Equal(t, plan.Sections[i].Key, c.SectionKey)
		byKey[c.SectionKey] = c
	}
	assert.Equal(t, "Counsel that stands with you", byKey["hero-1"].Heading)
	assert.Equal(t, "Book a consultation", byKey["hero-1"].CTA)
	assert.Equal(t, types.SourceAI, byKey["hero-1"].Source)
	assert.Equal(t, "Our firm", byKey["about-1"].Heading)
	assert.Equal(t, types.SourceAI, byKey["about-1"].Source)

	services := byKey["services-1"]
	assert.Equal(t, types.SourceFallback, services.Source)
	assert.Equal(t, "Our Services", services.Heading)
	require.Len(t, services.Items, 3)
	assert.Equal(t, "Contract Review", services.Items[0].Title)

	var partial *PartialSectionFailure
	require.ErrorAs(t, out.Err, &partial)
	assert.Equal(t, "services-1", partial.SectionKey)
	assert.Equal(t, "external_service", ErrorClass(partial.Cause))
}

func TestCopyCountInvariantWhenEverythingFails(t *testing.T) {
	g := NewCopyGenerator(failingCompleter, testCatalog(t), time.Second, 4)
	plan := testPlan()

	out := g.Generate(context.Background(), testDesign(t), plan)
	require.Len(t, out.Value, len(plan.Sections))
	assert.Equal(t, types.SourceFallback, out.Source)
	for _, c := range out.Value {
		assert.NotEmpty(t, c.Heading)
		assert.NotEmpty(t, c.Body)
		assert.Equal(t, types.SourceFallback, c.Source)
	}
}

func TestCopyMalformedJSONFallsBack(t *testing.T) {
	g := NewCopyGenerator(invalidJSONCompleter, testCatalog(t), time.Second, 4)
	out := g.Generate(context.Background(), testDesign(t), testPlan())

	require.Len(t, out.Value, 5)
	assert.Equal(t, types.SourceFallback, out.Source)
	assert.Equal(t, "malformed_response", ErrorClass(out.Err))
}

func TestCopyRejectsPlaceholdersAndAvoidedWords(t *testing.T) {
	stub := newStub().
		respond(copyTag("hero-1"), `{"heading": "Lorem ipsum dolor", "body": "sit amet"}`).
		respond(copyTag("services-1"), `{"heading": "Cheap legal help", "body": "The lowest fees."}`).
		respond(copyTag("about-1"), `{"heading": "About {{business}}", "body": "Founded in [insert year]."}`).
		respond(copyTag("testimonials-1"), `{"heading": "", "body": "Missing heading"}`)
	g := NewCopyGenerator(stub, testCatalog(t), time.Second, 4)

	out := g.Generate(context.Background(), testDesign(t), testPlan())
	for _, c := range out.Value {
		assert.Equal(t, types.SourceFallback, c.Source, c.SectionKey)
		text := strings.ToLower(c.Heading + " " + c.Body)
		assert.NotContains(t, text, "lorem")
		assert.NotContains(t, text, "cheap")
		assert.NotContains(t, text, "{{")
	}
}

func TestCopyZeroServicesStillProducesServicesSection(t *testing.T) {
	dc := testDesign(t)
	dc.Project.Services = []string{}
	g := NewCopyGenerator(failingCompleter, testCatalog(t), time.Second, 4)

	out := g.Generate(context.Background(), dc, testPlan())
	services := out.Value[1]
	assert.Equal(t, "services-1", services.SectionKey)
	assert.NotEmpty(t, services.Heading)
	assert.NotEmpty(t, services.Body)
	require.NotEmpty(t, services.Items)
	assert.Equal(t, legalProfile().Services[0], services.Items[0].Title)
}

func TestTemplateCopyFiltersModelSuppliedTraits(t *testing.T) {
	profile := legalProfile()
	dc := testDesign(t)
	dc.BrandPersonality = []string{"cheap", "loophole expert", "[insert trait]", "lorem ipsum"}
	dc.PrimaryGoals = []string{"cheap leads", "{{goal}}"}

	for _, st := range []types.SectionType{
		types.SectionAbout, types.SectionFeatures, types.SectionTestimonials, types.SectionStats,
	} {
		c := TemplateCopy(types.Section{Key: string(st) + "-1", Type: st}, dc, profile)
		all := c.Heading + c.Body + c.CTA
		for _, it := range c.Items {
			all += it.Title + it.Text
		}
		lower := strings.ToLower(all)
		assert.NotContains(t, lower, "cheap", st)
		assert.NotContains(t, lower, "loophole", st)
		assert.NotRegexp(t, placeholderPattern, all, st)
	}

	features := TemplateCopy(types.Section{Key: "features-1", Type: types.SectionFeatures}, dc, profile)
	require.Len(t, features.Items, 2)
	assert.Equal(t, "Authoritative", features.Items[0].Title)
}

func TestTemplateCopyAvoidsProfileAvoidWords(t *testing.T) {
	profile := legalProfile()
	profile.Tone.PowerWords = []string{"cheap", "experienced"}
	dc := testDesign(t)

	for _, st := range []types.SectionType{
		types.SectionHero, types.SectionAbout, types.SectionServices, types.SectionFeatures,
		types.SectionTestimonials, types.SectionGallery, types.SectionTeam, types.SectionPricing,
		types.SectionFAQ, types.SectionStats, types.SectionCTA, types.SectionContact,
	} {
		c := TemplateCopy(types.Section{Key: string(st) + "-1", Type: st}, dc, profile)
		require.NotEmpty(t, c.Heading, st)
		require.NotEmpty(t, c.Body, st)

		all := c.Heading + c.Body + c.CTA
		for _, it := range c.Items {
			all += it.Title + it.Text
		}
		assert.NotContains(t, strings.ToLower(all), "cheap", st)
		assert.NotRegexp(t, placeholderPattern, all, st)
	}
}
