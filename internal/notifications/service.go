package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/newsloom/newsloom/internal/config"
	"github.com/newsloom/newsloom/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service sends the trending digest over whichever channels are configured:
// SMTP email, a Teams webhook, or both. With neither configured SendDigest is
// a logged no-op.
type Service struct {
	config *config.Config
	client *resty.Client
}

var _ Notifier = (*Service)(nil)

// TeamsMessage is the MessageCard payload for the Teams webhook.
type TeamsMessage struct {
	Type     string         `json:"@type"`
	Context  string         `json:"@context"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Sections []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle string      `json:"activityTitle,omitempty"`
	Facts         []TeamsFact `json:"facts,omitempty"`
	Markdown      bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a notification service.
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendDigest delivers the current trending keywords to every configured
// channel. Channel failures are collected rather than short-circuiting.
func (s *Service) SendDigest(trends models.TrendSet, generatedAt time.Time) error {
	if s.config.TeamsWebhookURL == "" && s.config.DigestEmail == "" {
		logrus.Debug("No digest channels configured, skipping")
		return nil
	}

	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(trends, generatedAt); err != nil {
			logrus.Errorf("Failed to send Teams digest: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Sent trending digest to Teams")
		}
	}

	if s.config.DigestEmail != "" {
		if err := s.sendEmail(trends, generatedAt); err != nil {
			logrus.Errorf("Failed to send email digest: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Sent trending digest via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("digest errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToTeams(trends models.TrendSet, generatedAt time.Time) error {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   "Trending Topics Digest",
		Text:    fmt.Sprintf("%d trending keywords as of %s", len(trends.All), generatedAt.Format("2006-01-02 15:04 UTC")),
	}

	var facts []TeamsFact
	for name, keywords := range trends.BySource {
		if len(keywords) == 0 {
			continue
		}
		facts = append(facts, TeamsFact{
			Name:  name,
			Value: strings.Join(keywords, ", "),
		})
	}
	message.Sections = []TeamsSection{{
		ActivityTitle: "By source",
		Facts:         facts,
		Markdown:      true,
	}}

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to post Teams message: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

var emailTemplate = template.Must(template.New("digest").Parse(`
<h2>Trending Topics Digest</h2>
<p>Generated {{.GeneratedAt}}</p>
<ol>
{{range .Keywords}}	<li>{{.}}</li>
{{end}}</ol>
{{range $name, $list := .BySource}}{{if $list}}
<h3>{{$name}}</h3>
<p>{{range $i, $kw := $list}}{{if $i}}, {{end}}{{$kw}}{{end}}</p>
{{end}}{{end}}
`))

func (s *Service) sendEmail(trends models.TrendSet, generatedAt time.Time) error {
	var body bytes.Buffer
	err := emailTemplate.Execute(&body, map[string]interface{}{
		"GeneratedAt": generatedAt.Format("2006-01-02 15:04 UTC"),
		"Keywords":    trends.All,
		"BySource":    trends.BySource,
	})
	if err != nil {
		return fmt.Errorf("failed to render digest email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.DigestEmail)
	m.SetHeader("Subject", fmt.Sprintf("Trending Digest - %s", generatedAt.Format("Jan 2")))
	m.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}

	return nil
}
