package notifications

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/google/uuid"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Template names understood by the dispatcher.
const (
	TemplateAnnouncement = "announcement"
	TemplateSwapRequest  = "swap_request"
	TemplateSwapResolved = "swap_resolved"
	TemplateOTP          = "otp"
)

type emailDirectory interface {
	GetUserEmails(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

func NewEmailLookupFunc(st emailDirectory) EmailLookupFunc {
	return func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
		return st.GetUserEmails(ctx, ids)
	}
}

// DefaultTemplates parses the embedded email templates. Each .html file must
// define {{define "name:subject"}} and {{define "name:body"}} blocks, where
// name matches the filename without extension.
func DefaultTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(embeddedTemplates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded email templates: %w", err)
	}
	return tmpl, nil
}

// LoadTemplates parses templates from an operator-supplied directory instead
// of the embedded defaults.
func LoadTemplates(dir string) (*template.Template, error) {
	pattern := filepath.Join(dir, "*.html")
	tmpl, err := template.ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates from %s: %w", dir, err)
	}
	return tmpl, nil
}
