// Package color parses hex colours and classifies them by hue, saturation and lightness.
package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidHex is returned for anything that is not #RGB or #RRGGBB.
var ErrInvalidHex = errors.New("invalid hex colour")

// RGB is an 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// HSL is hue in degrees [0,360), saturation and lightness in [0,1].
type HSL struct {
	H, S, L float64
}

// Parse reads "#RGB" or "#RRGGBB" (case-insensitive, leading '#' required).
func Parse(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Valid reports whether s parses as a hex colour.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Normalize returns s as upper-case #RRGGBB.
func Normalize(s string) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// Hex formats c as upper-case #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// HSL converts c to hue/saturation/lightness.
func (c RGB) HSL() HSL {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l := (maxC + minC) / 2
	if maxC == minC {
		return HSL{H: 0, S: 0, L: l}
	}
	d := maxC - minC
	var s float64
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}
	var h float64
	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return HSL{H: h * 60, S: s, L: l}
}

// RGB converts h back to 8-bit RGB.
func (h HSL) RGB() RGB {
	s := clamp01(h.S)
	l := clamp01(h.L)
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return RGB{R: v, G: v, B: v}
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hk := math.Mod(h.H, 360) / 360
	if hk < 0 {
		hk++
	}
	return RGB{
		R: uint8(math.Round(hueToRGB(p, q, hk+1.0/3) * 255)),
		G: uint8(math.Round(hueToRGB(p, q, hk) * 255)),
		B: uint8(math.Round(hueToRGB(p, q, hk-1.0/3) * 255)),
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Lightness returns the HSL lightness of a hex colour.
func Lightness(hex string) (float64, error) {
	c, err := Parse(hex)
	if err != nil {
		return 0, err
	}
	return c.HSL().L, nil
}

// ShiftLightness moves the lightness of hex by delta (positive lightens), clamped to [0,1].
func ShiftLightness(hex string, delta float64) (string, error) {
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}
	h := c.HSL()
	h.L = clamp01(h.L + delta)
	return h.RGB().Hex(), nil
}

// ReadableOn picks a near-black or near-white text colour for the given background.
func ReadableOn(background string) string {
	l, err := Lightness(background)
	if err != nil || l >= 0.5 {
		return "#111827"
	}
	return "#F9FAFB"
}

// Profile is the coarse classification of a colour.
type Profile struct {
	HueFamily  string `json:"hueFamily"`  // red, orange, yellow, green, teal, blue, purple, pink, neutral
	Saturation string `json:"saturation"` // muted, balanced, vivid
	Tone       string `json:"tone"`       // dark, mid, light
}

// Classify decomposes hex into HSL and buckets it.
func Classify(hex string) (Profile, error) {
	c, err := Parse(hex)
	if err != nil {
		return Profile{}, err
	}
	h := c.HSL()
	p := Profile{HueFamily: hueFamily(h)}
	switch {
	case h.S < 0.3:
		p.Saturation = "muted"
	case h.S < 0.65:
		p.Saturation = "balanced"
	default:
		p.Saturation = "vivid"
	}
	switch {
	case h.L < 0.35:
		p.Tone = "dark"
	case h.L < 0.7:
		p.Tone = "mid"
	default:
		p.Tone = "light"
	}
	return p, nil
}

func hueFamily(h HSL) string {
	if h.S < 0.12 || h.L < 0.06 || h.L > 0.96 {
		return "neutral"
	}
	switch {
	case h.H < 15 || h.H >= 345:
		return "red"
	case h.H < 45:
		return "orange"
	case h.H < 70:
		return "yellow"
	case h.H < 160:
		return "green"
	case h.H < 195:
		return "teal"
	case h.H < 255:
		return "blue"
	case h.H < 290:
		return "purple"
	default:
		return "pink"
	}
}

// Describe renders the profile as a short phrase, e.g. "dark muted blue".
func (p Profile) Describe() string {
	if p.HueFamily == "neutral" {
		return p.Tone + " neutral"
	}
	return p.Tone + " " + p.Saturation + " " + p.HueFamily
}
