// Package catalog holds the Industry Catalog: per-industry default design and content profiles.
//
// A Catalog is built once at process start and never mutated afterwards, so it can be shared
// by any number of concurrent generation requests without locking.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"sitegen_ai_server/internal/color"
	"sitegen_ai_server/internal/types"
)

// GenericID is the profile every unknown industry id resolves to.
const GenericID = "generic"

//go:embed industries.yaml
var embeddedProfiles []byte

// ErrNoGenericProfile is returned when a catalog lacks the "generic" profile.
var ErrNoGenericProfile = errors.New("catalog must contain a generic profile")

// CopyTone is the copywriting vocabulary of an industry.
type CopyTone struct {
	Voice       string   `yaml:"voice"`
	Emotional   string   `yaml:"emotional"`
	Personality []string `yaml:"personality"`
	Goals       []string `yaml:"goals"`
	PowerWords  []string `yaml:"powerWords"`
	AvoidWords  []string `yaml:"avoidWords"`
	Tagline     string   `yaml:"tagline"`
}

// IndustryProfile is one catalog entry.
type IndustryProfile struct {
	ID              string                        `yaml:"id"`
	Name            string                        `yaml:"name"`
	Aliases         []string                      `yaml:"aliases"`
	Subject         string                        `yaml:"subject"`
	Keywords        []string                      `yaml:"keywords"`
	Palette         types.Palette                 `yaml:"palette"`
	Fonts           types.Typography              `yaml:"fonts"`
	Aesthetic       []string                      `yaml:"aesthetic"`
	BorderRadius    string                        `yaml:"borderRadius"`
	ShadowIntensity string                        `yaml:"shadowIntensity"`
	Mood            string                        `yaml:"mood"`
	Tone            CopyTone                      `yaml:"tone"`
	Sections        []types.SectionType           `yaml:"sections"`
	Services        []string                      `yaml:"services"`
	ImagePrompts    map[types.ImagePurpose]string `yaml:"imagePrompts"`
}

func (p IndustryProfile) clone() IndustryProfile {
	c := p
	c.Aliases = append([]string(nil), p.Aliases...)
	c.Keywords = append([]string(nil), p.Keywords...)
	c.Aesthetic = append([]string(nil), p.Aesthetic...)
	c.Tone.Personality = append([]string(nil), p.Tone.Personality...)
	c.Tone.Goals = append([]string(nil), p.Tone.Goals...)
	c.Tone.PowerWords = append([]string(nil), p.Tone.PowerWords...)
	c.Tone.AvoidWords = append([]string(nil), p.Tone.AvoidWords...)
	c.Sections = append([]types.SectionType(nil), p.Sections...)
	c.Services = append([]string(nil), p.Services...)
	c.ImagePrompts = make(map[types.ImagePurpose]string, len(p.ImagePrompts))
	for k, v := range p.ImagePrompts {
		c.ImagePrompts[k] = v
	}
	return c
}

func (p IndustryProfile) validate() error {
	if p.ID == "" {
		return errors.New("profile id is required")
	}
	for name, hex := range map[string]string{
		"primary":    p.Palette.Primary,
		"secondary":  p.Palette.Secondary,
		"accent":     p.Palette.Accent,
		"background": p.Palette.Background,
		"text":       p.Palette.Text,
	} {
		if !color.Valid(hex) {
			return fmt.Errorf("profile %s: %s colour %q is not a hex colour", p.ID, name, hex)
		}
	}
	if strings.EqualFold(p.Palette.Background, p.Palette.Text) {
		return fmt.Errorf("profile %s: background and text colours must differ", p.ID)
	}
	for _, s := range p.Sections {
		if !s.Valid() {
			return fmt.Errorf("profile %s: unknown section type %q", p.ID, s)
		}
	}
	return nil
}

// Catalog is an immutable id → profile table.
type Catalog struct {
	profiles map[string]IndustryProfile
	aliases  map[string]string
}

type catalogFile struct {
	Profiles []IndustryProfile `yaml:"profiles"`
}

// Load parses a YAML catalog document.
func Load(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f.Profiles...)
}

// Default loads the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(embeddedProfiles)
}

// New builds a catalog from explicit profiles. One of them must have id "generic".
func New(profiles ...IndustryProfile) (*Catalog, error) {
	c := &Catalog{
		profiles: make(map[string]IndustryProfile, len(profiles)),
		aliases:  make(map[string]string),
	}
	for _, p := range profiles {
		if err := p.validate(); err != nil {
			return nil, err
		}
		id := Normalize(p.ID)
		if _, dup := c.profiles[id]; dup {
			return nil, fmt.Errorf("duplicate profile id %q", id)
		}
		p.ID = id
		c.profiles[id] = p.clone()
		for _, a := range p.Aliases {
			c.aliases[Normalize(a)] = id
		}
	}
	if _, ok := c.profiles[GenericID]; !ok {
		return nil, ErrNoGenericProfile
	}
	return c, nil
}

// Normalize turns a free-form industry name into a catalog id ("Real Estate" → "real-estate").
func Normalize(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.Join(strings.FieldsFunc(id, func(r rune) bool {
		return r == ' ' || r == '_' || r == '/' || r == '-'
	}), "-")
	return id
}

// Lookup returns the profile for id (or an alias of it). Unknown ids resolve to the generic
// profile with ok=false.
func (c *Catalog) Lookup(id string) (p IndustryProfile, ok bool) {
	id = Normalize(id)
	if canonical, alias := c.aliases[id]; alias {
		id = canonical
	}
	if prof, found := c.profiles[id]; found {
		return prof.clone(), true
	}
	return c.profiles[GenericID].clone(), false
}

// IDs lists the canonical profile ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.profiles))
	for id := range c.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
