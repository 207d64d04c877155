// Package letters renders admission and offer letters and stores the
// resulting artifact in Cloudinary.
package letters

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admisia-go-api/internal/models"
	"github.com/noah-isme/admisia-go-api/internal/service"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Uploader stores a rendered letter and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// Generator renders letters from HTML templates and uploads them. It
// implements the document generation capability of the lifecycle engine.
type Generator struct {
	uploader Uploader
	logger   zerolog.Logger
	now      func() time.Time
}

var _ service.DocumentGenerator = (*Generator)(nil)

// New constructs a Generator backed by Cloudinary storage.
func New(cfg Config, logger zerolog.Logger) (*Generator, error) {
	uploader, err := newCloudinaryUploader(cfg, logger)
	if err != nil {
		return nil, err
	}

	return NewWithUploader(uploader, logger), nil
}

// NewWithUploader constructs a Generator with a custom storage backend.
func NewWithUploader(uploader Uploader, logger zerolog.Logger) *Generator {
	return &Generator{
		uploader: uploader,
		logger:   logger.With().Str("component", "letters").Logger(),
		now:      time.Now,
	}
}

// Generate renders the letter for the given application and uploads it,
// returning the public URL of the stored artifact.
func (g *Generator) Generate(ctx context.Context, kind service.DocumentKind, application models.Application, offer *models.FinancialOffer) (string, error) {
	body, err := g.render(kind, application, offer)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-application-%d.html", strings.ToLower(string(kind)), application.ID)
	url, err := g.uploader.Upload(ctx, name, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", kind, err)
	}

	g.logger.Info().
		Uint("application_id", application.ID).
		Str("kind", string(kind)).
		Msg("letter generated")

	return url, nil
}

type letterData struct {
	Title       string
	FullName    string
	ProgramName string
	IssuedAt    string
	Offer       *models.FinancialOffer
}

func (g *Generator) render(kind service.DocumentKind, application models.Application, offer *models.FinancialOffer) ([]byte, error) {
	tmpl, ok := letterTemplates[kind]
	if !ok {
		return nil, fmt.Errorf("no template registered for document kind %q", kind)
	}

	data := letterData{
		Title:       letterTitles[kind],
		FullName:    application.FullName,
		ProgramName: application.Program.Name,
		IssuedAt:    g.now().UTC().Format("2 January 2006"),
		Offer:       offer,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", kind, err)
	}

	return buf.Bytes(), nil
}

var letterTitles = map[service.DocumentKind]string{
	service.DocumentOfferLetter:     "Offer of Admission",
	service.DocumentAdmissionLetter: "Letter of Enrollment",
}

var letterTemplates = map[service.DocumentKind]*template.Template{
	service.DocumentOfferLetter: template.Must(template.New("offer").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
  <h1>{{.Title}}</h1>
  <p>Dear {{.FullName}},</p>
  <p>We are pleased to offer you admission to <strong>{{.ProgramName}}</strong>.</p>
  {{- if .Offer}}
  <p>Tuition due: {{printf "%.2f" .Offer.TuitionFee}}{{if gt .Offer.DiscountAmount 0.0}} (early payment discount of {{printf "%.2f" .Offer.DiscountAmount}} applied){{end}}.</p>
  <p>Payment deadline: {{.Offer.PaymentDeadline.Format "2 January 2006"}}.</p>
  {{- end}}
  <p>Issued {{.IssuedAt}}.</p>
</body>
</html>
`)),
	service.DocumentAdmissionLetter: template.Must(template.New("admission").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
  <h1>{{.Title}}</h1>
  <p>Dear {{.FullName}},</p>
  <p>Your enrollment in <strong>{{.ProgramName}}</strong> is confirmed. Welcome.</p>
  <p>Issued {{.IssuedAt}}.</p>
</body>
</html>
`)),
}

type cloudinaryUploader struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

func newCloudinaryUploader(cfg Config, logger zerolog.Logger) (*cloudinaryUploader, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &cloudinaryUploader{
		client: cld,
		folder: cfg.Folder,
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

func (u *cloudinaryUploader) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	params := uploader.UploadParams{
		Folder:       strings.Trim(u.folder, "/"),
		PublicID:     buildPublicID(name),
		ResourceType: "auto",
	}

	result, err := u.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload letter: %w", err)
	}

	u.logger.Info().Str("public_id", result.PublicID).Msg("letter uploaded to cloudinary")

	return result.SecureURL, nil
}

func buildPublicID(name string) string {
	base := strings.TrimSuffix(name, ".html")
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, base)

	base = strings.Trim(base, "-")
	if base == "" {
		base = "letter"
	}

	// Stable per letter so regeneration overwrites the prior artifact.
	return base
}
