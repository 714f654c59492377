package notifications

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/pkg/errors"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

type statusTemplate struct {
	subject string
	heading string
	color   string
	tmpl    *template.Template
}

// Renderer turns outbox entries into HTML emails, one template per status.
type Renderer struct {
	templates map[domain.Status]statusTemplate
}

type templateData struct {
	Name       string
	PetName    string
	AdminNotes string
	Heading    string
	Color      string
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	specs := map[domain.Status]struct{ file, subject, heading, color string }{
		domain.StatusApproved: {"approved.html.tmpl", "Your adoption application for %s has been approved", "Application Approved", "#2e7d32"},
		domain.StatusRejected: {"rejected.html.tmpl", "Update on your adoption application for %s", "Application Update", "#c62828"},
		domain.StatusPending:  {"pending.html.tmpl", "Your adoption application for %s is under review", "Application Under Review", "#f9a825"},
	}
	r := &Renderer{templates: make(map[domain.Status]statusTemplate, len(specs))}
	for status, spec := range specs {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html.tmpl", "templates/"+spec.file)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s template", status)
		}
		r.templates[status] = statusTemplate{subject: spec.subject, heading: spec.heading, color: spec.color, tmpl: tmpl}
	}
	return r, nil
}

// Render builds the message for n.
func (r *Renderer) Render(n *domain.Notification) (ports.EmailMessage, error) {
	t, ok := r.templates[n.Status]
	if !ok {
		return ports.EmailMessage{}, errors.Errorf("no template for status %q", n.Status)
	}
	petName := n.PetName
	if petName == "" {
		petName = "your chosen pet"
	}
	name := n.Recipient.Name
	if name == "" {
		name = "adopter"
	}
	var body bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&body, "layout", templateData{
		Name:       name,
		PetName:    petName,
		AdminNotes: n.AdminNotes,
		Heading:    t.heading,
		Color:      t.color,
	}); err != nil {
		return ports.EmailMessage{}, errors.Wrap(err, "render notification")
	}
	return ports.EmailMessage{
		NotificationID: n.ID,
		AdoptionID:     n.AdoptionID,
		To:             n.Recipient.Email,
		ToName:         n.Recipient.Name,
		Subject:        fmt.Sprintf(t.subject, petName),
		HTMLBody:       body.String(),
		PetName:        n.PetName,
		PreviousStatus: n.PreviousStatus,
		Status:         n.Status,
	}, nil
}
