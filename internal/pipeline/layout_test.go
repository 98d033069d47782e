package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen_ai_server/internal/types"
)

func keys(plan types.LayoutPlan) []string {
	out := make([]string, 0, len(plan.Sections))
	for _, s := range plan.Sections {
		out = append(out, s.Key)
	}
	return out
}

func requireValidPlan(t *testing.T, plan types.LayoutPlan) {
	t.Helper()
	require.NotEmpty(t, plan.Sections)
	assert.Equal(t, types.SectionHero, plan.Sections[0].Type)
	seen := map[string]bool{}
	for _, s := range plan.Sections {
		assert.False(t, seen[s.Key], "duplicate key %s", s.Key)
		seen[s.Key] = true
		assert.True(t, s.Type.Valid())
	}
}

func TestPlanFromBlueprintsPicksIndustryBlueprint(t *testing.T) {
	plan := PlanFromBlueprints(testDesign(t))

	requireValidPlan(t, plan)
	assert.Equal(t, "professional-services", plan.Blueprint)
	assert.Equal(t, types.LandingPage, plan.Page)
	assert.GreaterOrEqual(t, len(plan.Sections), 5)
}

func TestPlanFromBlueprintsKeywordMatch(t *testing.T) {
	dc := types.DesignContext{
		IndustryID:       "generic",
		Project:          types.ProjectConfig{Description: "A neighbourhood cafe and bakery with a seasonal menu"},
		BrandPersonality: []string{"warm"},
	}
	plan := PlanFromBlueprints(dc)
	assert.Equal(t, "hospitality", plan.Blueprint)
}

func TestPlanFromBlueprintsGenericBelowThreshold(t *testing.T) {
	dc := types.DesignContext{IndustryID: "generic", BrandPersonality: []string{"friendly"}}
	plan := PlanFromBlueprints(dc)

	assert.Equal(t, genericBlueprintID, plan.Blueprint)
	assert.Equal(t, []string{"hero-1", "services-1", "about-1", "testimonials-1", "contact-1"}, keys(plan))
}

func TestPlanFromBlueprintsInsertsRequestedPagesBeforeContact(t *testing.T) {
	dc := types.DesignContext{
		IndustryID: "generic",
		Project:    types.ProjectConfig{Pages: []string{"home", "team", "pricing", "about", "blog"}},
	}
	plan := PlanFromBlueprints(dc)

	assert.Equal(t, []string{
		"hero-1", "services-1", "about-1", "testimonials-1", "team-1", "pricing-1", "contact-1",
	}, keys(plan))
}

func TestLayoutPlannerDeterministicByDefault(t *testing.T) {
	stub := newStub()
	p := NewLayoutPlanner(stub, time.Second, false)

	out := p.Plan(context.Background(), testDesign(t))
	assert.Equal(t, types.SourceDeterministic, out.Source)
	assert.Zero(t, stub.called(StageLayout))
}

func TestLayoutPlannerAIPath(t *testing.T) {
	stub := newStub().respond(StageLayout, `{"sections": [
		{"type": "hero", "notes": "open strong"},
		{"type": "testimonials"},
		{"type": "testimonials"},
		{"type": "contact"}
	]}`)
	p := NewLayoutPlanner(stub, time.Second, true)

	out := p.Plan(context.Background(), testDesign(t))
	require.NoError(t, out.Err)
	assert.Equal(t, types.SourceAI, out.Source)
	assert.Equal(t, "ai", out.Value.Blueprint)
	assert.Equal(t, []string{"hero-1", "testimonials-1", "testimonials-2", "contact-1"}, keys(out.Value))
	assert.Equal(t, "open strong", out.Value.Sections[0].Notes)
}

func TestLayoutPlannerRejectsPlanWithoutLeadingHero(t *testing.T) {
	stub := newStub().respond(StageLayout, `{"sections": [{"type": "about"}, {"type": "hero"}, {"type": "contact"}]}`)
	p := NewLayoutPlanner(stub, time.Second, true)

	out := p.Plan(context.Background(), testDesign(t))
	assert.Equal(t, types.SourceFallback, out.Source)
	assert.Equal(t, "malformed_response", ErrorClass(out.Err))
	requireValidPlan(t, out.Value)
	assert.Equal(t, "professional-services", out.Value.Blueprint)
}
