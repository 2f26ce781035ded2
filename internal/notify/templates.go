package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Template names
const (
	TplApplicationReceived = "application_received"
	TplApplicationDecision = "application_decision"
	TplPasswordReset       = "password_reset"
)

const layout = `{{define "layout"}}<!doctype html>
<html><body style="font-family: sans-serif">
<h1>{{template "title" .}}</h1>
{{template "body" .}}
<p>The UGC Marketplace team</p>
</body></html>{{end}}`

var bodies = map[string]string{
	TplApplicationReceived: `{{define "title"}}Application received{{end}}
{{define "body"}}
<p>Hi {{.Name}},</p>
<p>We received your application to <strong>{{.CampaignTitle}}</strong>. The brand will review it and you will hear back once a decision is made.</p>
{{if .ProposedPrice}}<p>Proposed price: {{.ProposedPrice}}</p>{{end}}
{{end}}`,

	TplApplicationDecision: `{{define "title"}}Your application was {{.Decision}}{{end}}
{{define "body"}}
<p>Hi {{.Name}},</p>
<p>Your application to <strong>{{.CampaignTitle}}</strong> was {{.Decision}}.</p>
{{if eq .Status "ACCEPTED"}}<p>The brand will reach out with next steps.</p>{{end}}
{{end}}`,

	TplPasswordReset: `{{define "title"}}Reset your password{{end}}
{{define "body"}}
<p>Hi {{.Name}},</p>
<p>Someone asked to reset the password of your account. Follow the link below to choose a new one.</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>If you did not ask for this, ignore this email.</p>
{{end}}`,
}

var subjects = map[string]string{
	TplApplicationReceived: "We received your application",
	TplApplicationDecision: "Update on your application",
	TplPasswordReset:       "Password reset",
}

// Renderer turns named templates into ready-to-send messages.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout").Parse(layout)
	if err != nil {
		return nil, err
	}
	r := &Renderer{templates: make(map[string]*template.Template, len(bodies))}
	for name, body := range bodies {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.Parse(body)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(name, to string, data any) (Message, error) {
	t, ok := r.templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	html := buf.String()
	text, err := HTMLToText(html)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subjects[name], HTML: html, Text: text}, nil
}

// HTMLToText flattens an HTML email into its plain-text alternative: one
// paragraph per block element, links followed by their target.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style").Remove()
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if label := strings.TrimSpace(s.Text()); label != href {
			s.SetText(label + " (" + href + ")")
		}
	})

	var blocks []string
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.Join(strings.Fields(s.Text()), " "); t != "" {
			blocks = append(blocks, t)
		}
	})
	return strings.Join(blocks, "\n\n"), nil
}
