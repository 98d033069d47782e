package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen_ai_server/internal/types"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	ids := c.IDs()
	assert.Contains(t, ids, GenericID)
	assert.Contains(t, ids, "legal")
	assert.Contains(t, ids, "marine-research")

	for _, id := range ids {
		p, ok := c.Lookup(id)
		require.True(t, ok, id)
		assert.NotEmpty(t, p.Tone.PowerWords, id)
		assert.NotEmpty(t, p.Sections, id)
		for _, purpose := range []types.ImagePurpose{types.PurposeHero, types.PurposeSupporting, types.PurposeIcon, types.PurposeBackground} {
			assert.NotEmpty(t, p.ImagePrompts[purpose], "%s/%s", id, purpose)
		}
	}
}

func TestLookupAliasesAndUnknown(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	p, ok := c.Lookup("Law Firm")
	assert.True(t, ok)
	assert.Equal(t, "legal", p.ID)

	p, ok = c.Lookup("Real Estate")
	assert.True(t, ok)
	assert.Equal(t, "real-estate", p.ID)

	p, ok = c.Lookup("underwater-basket-weaving")
	assert.False(t, ok)
	assert.Equal(t, GenericID, p.ID)
}

func TestLookupReturnsIsolatedCopies(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	p, _ := c.Lookup("legal")
	p.Tone.PowerWords[0] = "mutated"
	p.ImagePrompts[types.PurposeHero] = "mutated"

	again, _ := c.Lookup("legal")
	assert.NotEqual(t, "mutated", again.Tone.PowerWords[0])
	assert.NotEqual(t, "mutated", again.ImagePrompts[types.PurposeHero])
}

func TestNewValidation(t *testing.T) {
	generic := IndustryProfile{
		ID: GenericID,
		Palette: types.Palette{
			Primary: "#111111", Secondary: "#222222", Accent: "#333333",
			Background: "#FFFFFF", Text: "#000000",
		},
	}

	_, err := New(generic)
	require.NoError(t, err)

	bad := generic
	bad.ID = "bad"
	bad.Palette.Primary = "navy"
	_, err = New(generic, bad)
	assert.Error(t, err)

	same := generic
	same.ID = "same"
	same.Palette.Text = "#ffffff"
	_, err = New(generic, same)
	assert.Error(t, err)

	other := generic
	other.ID = "other"
	_, err = New(other)
	assert.ErrorIs(t, err, ErrNoGenericProfile)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load([]byte("profiles: [this is: not valid"))
	assert.Error(t, err)
}
