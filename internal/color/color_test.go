package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, err := Parse("#1a73e8")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 0x1A, G: 0x73, B: 0xE8}, c)
	assert.Equal(t, "#1A73E8", c.Hex())

	short, err := Parse("#fff")
	require.NoError(t, err)
	assert.Equal(t, "#FFFFFF", short.Hex())

	for _, bad := range []string{"", "1A73E8", "#12345", "#GGGGGG", "blue", "#1234567"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidHex, bad)
	}
}

func TestHSLRoundTrip(t *testing.T) {
	for _, hex := range []string{"#1A73E8", "#FF6F61", "#F9FAFB", "#000000", "#0B3D2E", "#7A5C3E"} {
		c, err := Parse(hex)
		require.NoError(t, err)
		back := c.HSL().RGB()
		assert.InDelta(t, int(c.R), int(back.R), 1, hex)
		assert.InDelta(t, int(c.G), int(back.G), 1, hex)
		assert.InDelta(t, int(c.B), int(back.B), 1, hex)
	}
}

func TestShiftLightness(t *testing.T) {
	darker, err := ShiftLightness("#F9FAFB", -0.2)
	require.NoError(t, err)
	base, _ := Lightness("#F9FAFB")
	got, _ := Lightness(darker)
	assert.InDelta(t, base-0.2, got, 0.01)

	clamped, err := ShiftLightness("#FFFFFF", 0.5)
	require.NoError(t, err)
	assert.Equal(t, "#FFFFFF", clamped)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		hex    string
		family string
		tone   string
	}{
		{"#1A73E8", "blue", "mid"},
		{"#0B2545", "blue", "dark"},
		{"#C0392B", "red", "mid"},
		{"#2E7D32", "green", "dark"},
		{"#00897B", "teal", "dark"},
		{"#F9FAFB", "neutral", "light"},
		{"#6A1B9A", "purple", "mid"},
		{"#F4D03F", "yellow", "mid"},
	}
	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			p, err := Classify(tt.hex)
			require.NoError(t, err)
			assert.Equal(t, tt.family, p.HueFamily)
			assert.Equal(t, tt.tone, p.Tone)
		})
	}
}

func TestReadableOn(t *testing.T) {
	assert.Equal(t, "#111827", ReadableOn("#FFFFFF"))
	assert.Equal(t, "#F9FAFB", ReadableOn("#101010"))
}
