// Package assembler renders a generated website's markup and stylesheet from its layout,
// copy, images and design tokens. Rendering is a pure function of its input.
package assembler

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"sitegen_ai_server/internal/types"
	"sitegen_ai_server/internal/utils"
)

const (
	MarkupFile = "index.html"
	StylesFile = "styles.css"
)

// Input is everything the assembler reads.
type Input struct {
	GenerationID string
	Title        string
	Layout       types.LayoutPlan
	Copy         []types.SectionCopy
	Images       []types.PlannedImage
	Theme        types.GlobalTheme
}

// Site is the assembled output.
type Site struct {
	Markup string
	Styles string
}

type sectionView struct {
	Key     string
	Type    types.SectionType
	Hero    bool
	Contact bool
	Heading string
	Body    []string
	Items   []types.CopyItem
	CTA     string
	CTAHref string
	Image   *types.PlannedImage
}

type pageView struct {
	ID       string
	Title    string
	FontsURL string
	Sections []sectionView
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en"{{if .ID}} data-generation-id="{{.ID}}"{{end}}>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{if .FontsURL}}<link rel="stylesheet" href="{{.FontsURL}}">
{{end}}<link rel="stylesheet" href="styles.css">
</head>
<body>
<main>
{{range .Sections}}<section id="{{.Key}}" class="section section-{{.Type}}">
<div class="container">
{{with .Image}}<img class="section-image image-{{.Purpose}}" src="{{.URL}}" alt="{{.Alt}}" loading="lazy">
{{end}}{{if .Hero}}<h1>{{.Heading}}</h1>{{else}}<h2>{{.Heading}}</h2>{{end}}
{{range .Body}}<p>{{.}}</p>
{{end}}{{if .Items}}<ul class="items">
{{range .Items}}<li class="item">{{if .Title}}<h3>{{.Title}}</h3>{{end}}{{if .Text}}<p>{{.Text}}</p>{{end}}</li>
{{end}}</ul>
{{end}}{{if .Contact}}<form class="contact-form" method="post">
<label>Name <input type="text" name="name" required></label>
<label>Email <input type="email" name="email" required></label>
<label>Message <textarea name="message" rows="4" required></textarea></label>
<button class="button" type="submit">{{if .CTA}}{{.CTA}}{{else}}Send{{end}}</button>
</form>
{{else if .CTA}}<a class="button" href="{{.CTAHref}}">{{.CTA}}</a>
{{end}}</div>
</section>
{{end}}</main>
</body>
</html>
`))

// Assemble renders in plan order. Images without a URL are omitted; sections without copy get
// a generic heading.
func Assemble(in Input) (Site, error) {
	copyByKey := make(map[string]types.SectionCopy, len(in.Copy))
	for _, c := range in.Copy {
		copyByKey[c.SectionKey] = c
	}
	imageByKey := make(map[string]types.PlannedImage, len(in.Images))
	for _, img := range in.Images {
		if img.URL == "" {
			continue
		}
		if _, dup := imageByKey[img.SectionKey]; !dup {
			imageByKey[img.SectionKey] = img
		}
	}

	ctaHref := "#"
	for _, s := range in.Layout.Sections {
		if s.Type == types.SectionContact {
			ctaHref = "#" + s.Key
			break
		}
	}

	view := pageView{
		ID:       in.GenerationID,
		Title:    in.Title,
		FontsURL: fontsURL(in.Theme.Typography),
		Sections: make([]sectionView, 0, len(in.Layout.Sections)),
	}
	for _, s := range in.Layout.Sections {
		sv := sectionView{Key: s.Key, Type: s.Type, CTAHref: ctaHref}
		sv.Hero = s.Type == types.SectionHero
		sv.Contact = s.Type == types.SectionContact
		if c, ok := copyByKey[s.Key]; ok && strings.TrimSpace(c.Heading) != "" {
			sv.Heading = c.Heading
			sv.Body = paragraphs(c.Body)
			sv.Items = c.Items
			sv.CTA = c.CTA
		} else {
			sv.Heading = placeholderHeading(s.Type)
		}
		if img, ok := imageByKey[s.Key]; ok {
			sv.Image = &img
		}
		view.Sections = append(view.Sections, sv)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, view); err != nil {
		return Site{}, fmt.Errorf("render markup: %w", err)
	}
	return Site{Markup: buf.String(), Styles: Stylesheet(in.Theme)}, nil
}

// Files is the exporter hand-off for a finished website.
func Files(w *types.GeneratedWebsite) []types.GeneratedFile {
	return []types.GeneratedFile{
		{Filename: MarkupFile, Type: utils.DetermineFileType(MarkupFile), Content: w.Markup},
		{Filename: StylesFile, Type: utils.DetermineFileType(StylesFile), Content: w.Styles},
	}
}

func paragraphs(body string) []string {
	var out []string
	for _, p := range strings.Split(body, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func placeholderHeading(t types.SectionType) string {
	s := string(t)
	switch t {
	case types.SectionFAQ:
		return "Questions"
	case types.SectionCTA:
		return "Get Started"
	case "":
		return "Welcome"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func fontsURL(t types.Typography) string {
	var families []string
	for _, f := range []string{t.HeadingFont, t.BodyFont} {
		f = cssIdent(f)
		if f == "" || contains(families, f) {
			continue
		}
		families = append(families, f)
	}
	if len(families) == 0 {
		return ""
	}
	q := url.Values{}
	for _, f := range families {
		q.Add("family", f+":wght@400;700")
	}
	q.Set("display", "swap")
	return "https://fonts.googleapis.com/css2?" + q.Encode()
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
