package pipeline

import "sitegen_ai_server/internal/types"

// blueprint is a predefined landing page section template.
type blueprint struct {
	ID         string
	Industries []string
	Keywords   []string
	Sections   []types.SectionType
}

const genericBlueprintID = "generic"

var genericBlueprint = blueprint{
	ID: genericBlueprintID,
	Sections: []types.SectionType{
		types.SectionHero, types.SectionServices, types.SectionAbout,
		types.SectionTestimonials, types.SectionContact,
	},
}

// blueprints are scored in order; earlier entries win ties.
var blueprints = []blueprint{
	{
		ID:         "professional-services",
		Industries: []string{"legal"},
		Keywords:   []string{"law", "legal", "attorney", "counsel", "advisory", "accounting", "consulting"},
		Sections: []types.SectionType{
			types.SectionHero, types.SectionAbout, types.SectionServices, types.SectionStats,
			types.SectionTestimonials, types.SectionFAQ, types.SectionContact,
		},
	},
	{
		ID:         "clinic",
		Industries: []string{"healthcare"},
		Keywords:   []string{"health", "clinic", "patient", "medical", "dental", "wellness", "therapy"},
		Sections: []types.SectionType{
			types.SectionHero, types.SectionServices, types.SectionTeam,
			types.SectionTestimonials, types.SectionFAQ, types.SectionContact,
		},
	},
	{
		ID:         "science-org",
		Industries: []string{"marine-research"},
		Keywords:   []string{"research", "science", "ocean", "marine", "conservation", "laboratory"},
		Sections: []types.SectionType{
			types.SectionHero, types.SectionAbout, types.SectionFeatures, types.SectionStats,
			types.SectionGallery, types.SectionTeam, types.SectionContact,
		},
	},
	{
		ID:         "hospitality",
		Industries: []string{"restaurant"},
		Keywords:   []string{"restaurant", "food", "menu", "dining", "cafe", "chef", "bakery"},
		Sections: []types.SectionType{
			types.SectionHero, types.SectionAbout, types.SectionGallery,
			types.SectionTestimonials, types.SectionCTA, types.SectionContact,
		},
	},
	{
		ID:         "studio",
		Industries: []string{"fitness"},
		Keywords:   []string{"fitness", "gym", "training", "coach", "yoga", "classes"},
		Sections: []types.SectionType{
			types.SectionHero, types.SectionServices, types.SectionPricing,
			types.SectionTestimonials, types.SectionCTA, types.SectionContact,
		},
	},
	{
		ID:         "listings",
		Industries: []string{"real-estate"},
		Keywords:   []string{"property", "real estate", "listing", "realtor", "homes", "mortgage"},
		Sections: []types.SectionType{
			types.SectionHero, types.SectionServices, types.SectionGallery, types.SectionStats,
			types.SectionTestimonials, types.SectionContact,
		},
	},
	{
		ID:         "product",
		Industries: []string{"technology"},
		Keywords:   []string{"software", "platform", "saas", "app", "cloud", "data", "automation"},
		Sections: []types.SectionType{
			types.SectionHero, types.SectionFeatures, types.SectionPricing,
			types.SectionTestimonials, types.SectionFAQ, types.SectionCTA, types.SectionContact,
		},
	},
	{
		ID:         "trades",
		Industries: []string{"construction"},
		Keywords:   []string{"construction", "renovation", "contractor", "builder", "remodel", "roofing"},
		Sections: []types.SectionType{
			types.SectionHero, types.SectionServices, types.SectionGallery,
			types.SectionAbout, types.SectionTestimonials, types.SectionContact,
		},
	},
}

// pageSections maps requested page ids onto the section type that covers them on a
// single landing page.
var pageSections = map[string]types.SectionType{
	"about":        types.SectionAbout,
	"about-us":     types.SectionAbout,
	"services":     types.SectionServices,
	"features":     types.SectionFeatures,
	"testimonials": types.SectionTestimonials,
	"reviews":      types.SectionTestimonials,
	"gallery":      types.SectionGallery,
	"portfolio":    types.SectionGallery,
	"team":         types.SectionTeam,
	"pricing":      types.SectionPricing,
	"faq":          types.SectionFAQ,
	"contact":      types.SectionContact,
	"contact-us":   types.SectionContact,
}

var sectionNotes = map[types.SectionType]string{
	types.SectionHero:         "Introduce the business and its promise with a clear call to action",
	types.SectionAbout:        "Tell the story and values behind the business",
	types.SectionServices:     "Summarise the main services offered",
	types.SectionFeatures:     "Highlight what sets the offering apart",
	types.SectionTestimonials: "Show social proof from satisfied clients",
	types.SectionGallery:      "Showcase work, spaces or products visually",
	types.SectionTeam:         "Introduce the people behind the business",
	types.SectionPricing:      "Present plans or price points transparently",
	types.SectionFAQ:          "Answer the questions prospects ask most",
	types.SectionStats:        "Back up claims with key numbers",
	types.SectionCTA:          "Prompt visitors to take the next step",
	types.SectionContact:      "Make it easy to get in touch",
}
