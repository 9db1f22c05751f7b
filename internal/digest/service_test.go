package digest

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendformer/trendformer/internal/config"
	"github.com/trendformer/trendformer/internal/models"
)

func TestService_IsEnabled(t *testing.T) {
	disabled := NewService(&config.Config{DigestSchedule: "off"})
	assert.False(t, disabled.IsEnabled())

	enabled := NewService(&config.Config{
		DigestSchedule: "daily",
		DigestEmail:    "team@example.com",
	})
	assert.True(t, enabled.IsEnabled())
}

func TestService_SendDigest_DisabledIsNoOp(t *testing.T) {
	service := NewService(&config.Config{DigestSchedule: "off"})

	err := service.SendDigest("AI", []models.Trend{
		{Topic: "x", Source: models.SourceMock, Timestamp: time.Now()},
	})
	assert.NoError(t, err)
}

func TestService_SendDigest_EmptyTrendsIsNoOp(t *testing.T) {
	service := NewService(&config.Config{
		DigestSchedule: "daily",
		DigestEmail:    "team@example.com",
		SMTPHost:       "smtp.example.com",
	})

	assert.NoError(t, service.SendDigest("AI", nil))
}

func TestDigestTemplate_Renders(t *testing.T) {
	score := 99
	var body bytes.Buffer
	err := digestTemplate.Execute(&body, digestData{
		Niche: "Crypto",
		Count: 2,
		Date:  "January 2, 2006",
		Trends: []models.Trend{
			{Topic: "Bitcoin ETF flows", Source: models.SourceHackerNews, Score: &score, URL: "https://example.com"},
			{Topic: "No link trend", Source: models.SourceMock},
		},
	})

	require.NoError(t, err)
	html := body.String()
	assert.Contains(t, html, "Trendformer Digest: Crypto")
	assert.Contains(t, html, "Bitcoin ETF flows")
	assert.Contains(t, html, `href="https://example.com"`)
	assert.Contains(t, html, "No link trend")
}
