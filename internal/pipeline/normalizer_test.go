package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen_ai_server/internal/types"
)

func TestNormalizeRequirements(t *testing.T) {
	cfg, err := NormalizeRequirements(types.RawRequirements{
		BusinessName:    "  Sterling   & Associates Law ",
		Industry:        "Legal",
		Location:        " Boston ",
		TargetAudiences: []string{"founders", "Founders", " "},
		Services:        []string{"Contract Review", "", "contract review", "Litigation"},
		Pages:           []string{"About", "index", "contact", "about"},
		BrandPreferences: &types.BrandPreferences{
			PrimaryColor: "#abc",
			AccentColor:  "not-a-colour",
			HeadingFont:  " Lora ",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sterling & Associates Law", cfg.BusinessName)
	assert.Equal(t, "legal", cfg.IndustryID)
	assert.Equal(t, "Boston", cfg.Location)
	assert.Equal(t, []string{"founders"}, cfg.TargetAudiences)
	assert.Equal(t, []string{"Contract Review", "Litigation"}, cfg.Services)
	assert.Equal(t, []string{"home", "about", "contact"}, cfg.Pages)
	assert.Equal(t, "#AABBCC", cfg.BrandPreferences.PrimaryColor)
	assert.Empty(t, cfg.BrandPreferences.AccentColor)
	assert.Equal(t, "Lora", cfg.BrandPreferences.HeadingFont)
}

func TestNormalizeRequirementsZeroServices(t *testing.T) {
	cfg, err := NormalizeRequirements(types.RawRequirements{BusinessName: "Acme", Industry: "plumbing"})
	require.NoError(t, err)
	assert.NotNil(t, cfg.Services)
	assert.Empty(t, cfg.Services)
	assert.Equal(t, []string{types.LandingPage}, cfg.Pages)
}

func TestNormalizeRequirementsMissingIdentity(t *testing.T) {
	_, err := NormalizeRequirements(types.RawRequirements{BusinessName: "   ", Industry: ""})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"businessName", "industry"}, verr.Fields)
}

func TestNormalizeRequirementsCapsServices(t *testing.T) {
	services := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		services = append(services, string(rune('a'+i)))
	}
	cfg, err := NormalizeRequirements(types.RawRequirements{BusinessName: "Acme", Industry: "generic", Services: services})
	require.NoError(t, err)
	assert.Len(t, cfg.Services, maxServices)
}
