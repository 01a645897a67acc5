package notify

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*.txt templates/*.html
var templateFS embed.FS

type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

// Renderer holds, per template, a text file defining "subject" and "body"
// and an HTML file rendered as a whole.
type Renderer struct {
	text map[string]*texttemplate.Template
	html map[string]*htmltemplate.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		text: make(map[string]*texttemplate.Template, len(Templates)),
		html: make(map[string]*htmltemplate.Template, len(Templates)),
	}

	for _, name := range Templates {
		t, err := texttemplate.ParseFS(templateFS, "templates/"+name+".txt")
		if err != nil {
			return nil, fmt.Errorf("parsing %s text template: %w", name, err)
		}
		h, err := htmltemplate.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s html template: %w", name, err)
		}
		r.text[name] = t
		r.html[name] = h
	}

	return r, nil
}

func (r *Renderer) Render(msg Message) (Rendered, error) {
	t, ok := r.text[msg.Template]
	if !ok {
		return Rendered{}, fmt.Errorf("unknown template %q", msg.Template)
	}
	h := r.html[msg.Template]

	var subject, text, html bytes.Buffer
	if err := t.ExecuteTemplate(&subject, "subject", msg.Vars); err != nil {
		return Rendered{}, fmt.Errorf("rendering %s subject: %w", msg.Template, err)
	}
	if err := t.ExecuteTemplate(&text, "body", msg.Vars); err != nil {
		return Rendered{}, fmt.Errorf("rendering %s body: %w", msg.Template, err)
	}
	if err := h.Execute(&html, msg.Vars); err != nil {
		return Rendered{}, fmt.Errorf("rendering %s html: %w", msg.Template, err)
	}

	return Rendered{
		Subject: strings.TrimSpace(subject.String()),
		Text:    strings.TrimSpace(text.String()) + "\n",
		HTML:    html.String(),
	}, nil
}
