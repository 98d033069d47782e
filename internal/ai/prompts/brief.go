// Package prompts builds the system/user messages for every AI-assisted pipeline stage.
//
// Each builder returns (userPrompt, systemPrompt). Every system prompt demands a single JSON
// object so responses can be requested in JSON mode.
package prompts

import (
	"fmt"
	"strings"

	"sitegen_ai_server/internal/types"
)

const jsonOnly = "Respond ONLY with a single JSON object. No markdown, no commentary."

// Brief renders the business description shared by every prompt.
func Brief(p types.ProjectConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Business name: %s\n", p.BusinessName)
	fmt.Fprintf(&b, "Industry: %s\n", p.IndustryID)
	if p.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", p.Location)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}
	if len(p.TargetAudiences) > 0 {
		fmt.Fprintf(&b, "Target audiences: %s\n", strings.Join(p.TargetAudiences, ", "))
	}
	if p.ToneOfVoice != "" {
		fmt.Fprintf(&b, "Requested tone of voice: %s\n", p.ToneOfVoice)
	}
	if len(p.Services) > 0 {
		fmt.Fprintf(&b, "Services: %s\n", strings.Join(p.Services, "; "))
	} else {
		b.WriteString("Services: none listed\n")
	}
	return b.String()
}

// Context renders the design context on top of the brief.
func Context(dc types.DesignContext) string {
	var b strings.Builder
	b.WriteString(Brief(dc.Project))
	fmt.Fprintf(&b, "Emotional tone: %s\n", dc.EmotionalTone)
	fmt.Fprintf(&b, "Brand voice: %s\n", dc.BrandVoice)
	if len(dc.BrandPersonality) > 0 {
		fmt.Fprintf(&b, "Brand personality: %s\n", strings.Join(dc.BrandPersonality, ", "))
	}
	if len(dc.PrimaryGoals) > 0 {
		fmt.Fprintf(&b, "Primary goals: %s\n", strings.Join(dc.PrimaryGoals, ", "))
	}
	return b.String()
}

func sectionTypeList() string {
	return "hero, about, services, features, testimonials, gallery, team, pricing, faq, stats, cta, contact"
}
