package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"sitegen_ai_server/internal/ai"
	"sitegen_ai_server/internal/catalog"
	"sitegen_ai_server/internal/types"
)

var errStubUnavailable = errors.New("stub: service unavailable")

// stubCompleter answers by request tag. Tags without an entry fail with errStubUnavailable.
type stubCompleter struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func newStub() *stubCompleter {
	return &stubCompleter{responses: map[string]string{}, errs: map[string]error{}}
}

func (s *stubCompleter) respond(tag, raw string) *stubCompleter {
	s.responses[tag] = raw
	return s
}

func (s *stubCompleter) fail(tag string, err error) *stubCompleter {
	s.errs[tag] = err
	return s
}

func (s *stubCompleter) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req.Tag)
	raw, ok := s.responses[req.Tag]
	err := s.errs[req.Tag]
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errStubUnavailable
	}
	return raw, nil
}

func (s *stubCompleter) called(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// failingCompleter fails every call.
var failingCompleter = ai.CompleterFunc(func(context.Context, ai.CompletionRequest) (string, error) {
	return "", errStubUnavailable
})

// invalidJSONCompleter answers every call with text that is not JSON.
var invalidJSONCompleter = ai.CompleterFunc(func(context.Context, ai.CompletionRequest) (string, error) {
	return `{"palette": {"primary": "#123456",, oops`, nil
})

func genericProfile() catalog.IndustryProfile {
	return catalog.IndustryProfile{
		ID:      catalog.GenericID,
		Name:    "Small Business",
		Subject: "local business",
		Palette: types.Palette{
			Primary: "#1A73E8", Secondary: "#0F4C81", Accent: "#FF6F61",
			Background: "#F9FAFB", Text: "#111827",
		},
		Fonts:           types.Typography{HeadingFont: "Inter", BodyFont: "Inter"},
		Aesthetic:       []string{"clean"},
		BorderRadius:    "8px",
		ShadowIntensity: "soft",
		Mood:            "professional",
		Tone: catalog.CopyTone{
			Voice:       "friendly",
			Emotional:   "confident",
			Personality: []string{"reliable", "approachable"},
			Goals:       []string{"generate enquiries"},
			PowerWords:  []string{"trusted", "dedicated"},
			AvoidWords:  []string{"cheap"},
			Tagline:     "Quality work, done right.",
		},
		Sections: []types.SectionType{types.SectionHero, types.SectionServices, types.SectionAbout, types.SectionContact},
		Services: []string{"Consultation", "Support"},
		ImagePrompts: map[types.ImagePurpose]string{
			types.PurposeHero: "Storefront of {business} in {location}, {style}",
		},
	}
}

func legalProfile() catalog.IndustryProfile {
	p := genericProfile()
	p.ID = "legal"
	p.Name = "Legal Services"
	p.Aliases = []string{"law"}
	p.Subject = "legal counsel"
	p.Palette = types.Palette{
		Primary: "#1F2A44", Secondary: "#8C6D3F", Accent: "#B08D57",
		Background: "#FAF8F5", Text: "#1C1C1C",
	}
	p.Fonts = types.Typography{HeadingFont: "Playfair Display", BodyFont: "Source Sans Pro"}
	p.Mood = "authoritative"
	p.Tone.Personality = []string{"authoritative", "discreet"}
	p.Tone.PowerWords = []string{"experienced", "strategic"}
	p.Tone.AvoidWords = []string{"cheap", "loophole"}
	p.Sections = []types.SectionType{types.SectionHero, types.SectionAbout, types.SectionServices, types.SectionContact}
	p.ImagePrompts = map[types.ImagePurpose]string{
		types.PurposeHero: "Law office of {business} in {location}, {style}",
	}
	return p
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(genericProfile(), legalProfile())
	require.NoError(t, err)
	return c
}

func testProject() types.ProjectConfig {
	return types.ProjectConfig{
		BusinessName:    "Sterling & Associates Law",
		IndustryID:      "legal",
		Location:        "Boston",
		TargetAudiences: []string{"small businesses"},
		Services:        []string{"Contract Review", "Litigation", "Estate Planning"},
		Pages:           []string{types.LandingPage},
	}
}

func testDesign(t *testing.T) types.DesignContext {
	t.Helper()
	profile, ok := testCatalog(t).Lookup("legal")
	require.True(t, ok)
	return strategyFromProfile(testProject(), profile)
}

func testPlan() types.LayoutPlan {
	return types.LayoutPlan{
		Page:      types.LandingPage,
		Blueprint: "test",
		Sections: []types.Section{
			{Key: "hero-1", Type: types.SectionHero},
			{Key: "services-1", Type: types.SectionServices},
			{Key: "about-1", Type: types.SectionAbout},
			{Key: "testimonials-1", Type: types.SectionTestimonials},
			{Key: "contact-1", Type: types.SectionContact},
		},
	}
}
