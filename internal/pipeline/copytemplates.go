package pipeline

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"sitegen_ai_server/internal/catalog"
	"sitegen_ai_server/internal/types"
)

var defaultServices = []string{"Consultation", "Tailored Solutions", "Ongoing Support"}

// TemplateCopy is the deterministic copy for a section, built from the industry copy tone.
// It never returns empty heading or body.
func TemplateCopy(section types.Section, dc types.DesignContext, profile catalog.IndustryProfile) types.SectionCopy {
	v := newVocabulary(profile)
	name := dc.Project.BusinessName
	subject := profile.Subject
	if subject == "" {
		subject = "local business"
	}
	where := ""
	if dc.Project.Location != "" {
		where = " in " + dc.Project.Location
	}
	traits := cleanList(v.filter(dc.BrandPersonality), 3)
	if len(traits) == 0 {
		traits = cleanList(v.filter(profile.Tone.Personality), 3)
	}

	c := types.SectionCopy{SectionKey: section.Key, Source: types.SourceFallback}
	switch section.Type {
	case types.SectionHero:
		c.Heading = name
		c.Body = sentence(profile.Tone.Tagline, fmt.Sprintf("%s %s%s.", capitalize(v.word(0, "trusted")), subject, where))
		c.CTA = "Get in touch"
	case types.SectionAbout:
		c.Heading = "About " + name
		c.Body = fmt.Sprintf("%s provides %s %s%s. We are %s, and every client relationship starts with listening.",
			name, v.word(1, "dedicated"), subject, where, joinAnd(traits))
	case types.SectionServices:
		c.Heading = "Our Services"
		c.Body = fmt.Sprintf("Explore how %s can help.", name)
		for i, s := range servicesFor(dc.Project, profile) {
			c.Items = append(c.Items, types.CopyItem{
				Title: s,
				Text:  fmt.Sprintf("Delivered by our %s team with attention to every detail.", v.word(i, "dedicated")),
			})
		}
	case types.SectionFeatures:
		c.Heading = "Why Choose " + name
		c.Body = fmt.Sprintf("What makes working with %s different.", name)
		for _, t := range traits {
			c.Items = append(c.Items, types.CopyItem{
				Title: capitalize(t),
				Text:  fmt.Sprintf("Being %s shapes how we approach every project.", strings.ToLower(t)),
			})
		}
	case types.SectionTestimonials:
		c.Heading = "What Our Clients Say"
		c.Body = fmt.Sprintf("Clients choose %s for %s %s.", name, v.word(2, "reliable"), subject)
		c.Items = []types.CopyItem{
			{Title: "A returning client", Text: fmt.Sprintf("%s was %s from the first conversation to the final result.", name, strings.ToLower(firstOr(traits, "professional")))},
			{Title: "A local customer", Text: "Clear communication and genuine care throughout. I would recommend them without hesitation."},
		}
	case types.SectionGallery:
		c.Heading = "Our Work"
		c.Body = fmt.Sprintf("A look at the %s %s behind %s.", v.word(3, "careful"), subject, name)
	case types.SectionTeam:
		c.Heading = "Meet the Team"
		c.Body = fmt.Sprintf("The %s people behind %s bring experience and care to every client.", v.word(0, "dedicated"), name)
	case types.SectionPricing:
		c.Heading = "Plans and Pricing"
		c.Body = fmt.Sprintf("Transparent options for every need. Contact %s for a quote tailored to you.", name)
	case types.SectionFAQ:
		c.Heading = "Frequently Asked Questions"
		c.Body = "Answers to the questions we hear most often."
		c.Items = []types.CopyItem{
			{Title: "How do I get started?", Text: fmt.Sprintf("Reach out through the contact form and the %s team will respond promptly.", name)},
			{Title: "What services do you offer?", Text: joinAnd(servicesFor(dc.Project, profile)) + "."},
		}
		if dc.Project.Location != "" {
			c.Items = append(c.Items, types.CopyItem{Title: "Where are you based?", Text: "We serve clients" + where + " and the surrounding area."})
		}
	case types.SectionStats:
		c.Heading = "Our Commitment"
		c.Body = fmt.Sprintf("%s measures success by the results clients see.", name)
		for _, goal := range cleanList(v.filter(dc.PrimaryGoals), 3) {
			c.Items = append(c.Items, types.CopyItem{Title: capitalize(goal), Text: "A priority in everything we do."})
		}
	case types.SectionCTA:
		c.Heading = "Ready to Get Started?"
		c.Body = fmt.Sprintf("Take the next step with %s today.", name)
		c.CTA = "Contact us"
	case types.SectionContact:
		c.Heading = "Contact " + name
		c.Body = fmt.Sprintf("Get in touch to discuss how we can help%s.", where)
		c.CTA = "Send a message"
	default:
		c.Heading = name
		c.Body = sentence(profile.Tone.Tagline, fmt.Sprintf("%s %s.", capitalize(v.word(0, "trusted")), subject))
	}
	return c
}

// servicesFor returns the requested services, or the profile defaults when none were given.
func servicesFor(p types.ProjectConfig, profile catalog.IndustryProfile) []string {
	if len(p.Services) > 0 {
		return p.Services
	}
	if len(profile.Services) > 0 {
		return profile.Services
	}
	return defaultServices
}

func sentence(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func joinAnd(words []string) string {
	switch len(words) {
	case 0:
		return "committed to quality"
	case 1:
		return words[0]
	default:
		return strings.Join(words[:len(words)-1], ", ") + " and " + words[len(words)-1]
	}
}

func firstOr(list []string, def string) string {
	if len(list) > 0 {
		return list[0]
	}
	return def
}
