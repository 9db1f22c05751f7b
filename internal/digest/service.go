package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/trendformer/trendformer/internal/config"
	"github.com/trendformer/trendformer/internal/models"
)

const maxDigestTrends = 10

// Service emails a periodic digest of the current top trends for the
// configured niche.
type Service struct {
	cfg *config.Config
}

// NewService creates a new digest service.
func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// IsEnabled reports whether digest delivery is configured.
func (s *Service) IsEnabled() bool {
	return s.cfg.DigestEnabled()
}

var digestTemplate = template.Must(template.New("digest").Parse(`
<html>
<body style="font-family: Arial, sans-serif;">
	<h2>Trendformer Digest: {{.Niche}}</h2>
	<p>{{.Count}} trending topics collected on {{.Date}}.</p>
	<table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
		<tr><th>Topic</th><th>Source</th><th>Score</th></tr>
		{{range .Trends}}
		<tr>
			<td>{{if .URL}}<a href="{{.URL}}">{{.Topic}}</a>{{else}}{{.Topic}}{{end}}</td>
			<td>{{.Source}}</td>
			<td>{{if .Score}}{{.Score}}{{else}}-{{end}}</td>
		</tr>
		{{end}}
	</table>
</body>
</html>
`))

type digestData struct {
	Niche  string
	Count  int
	Date   string
	Trends []models.Trend
}

// SendDigest renders and sends the digest email for the given trends.
func (s *Service) SendDigest(niche string, trends []models.Trend) error {
	if !s.IsEnabled() {
		logrus.Debug("Digest disabled - skipping send")
		return nil
	}
	if len(trends) == 0 {
		logrus.Info("No trends to include in digest, skipping")
		return nil
	}
	if len(trends) > maxDigestTrends {
		trends = trends[:maxDigestTrends]
	}

	var body bytes.Buffer
	err := digestTemplate.Execute(&body, digestData{
		Niche:  niche,
		Count:  len(trends),
		Date:   time.Now().Format("January 2, 2006"),
		Trends: trends,
	})
	if err != nil {
		return fmt.Errorf("failed to render digest: %w", err)
	}

	message := gomail.NewMessage()
	message.SetHeader("From", s.cfg.SMTPUsername)
	message.SetHeader("To", s.cfg.DigestEmail)
	message.SetHeader("Subject", fmt.Sprintf("Trendformer Digest: %s (%s)", niche, time.Now().Format("2006-01-02")))
	message.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUsername, s.cfg.SMTPPassword)
	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}

	logrus.Infof("Sent trend digest to %s", s.cfg.DigestEmail)
	return nil
}
