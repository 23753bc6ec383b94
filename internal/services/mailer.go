package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"hostify/internal/config"
)

// MailgunMailer sends mail through the Mailgun messages API.
type MailgunMailer struct {
	httpClient *resty.Client
	domain     string
	from       string
	logger     *zap.Logger
}

func NewMailgunMailer(cfg *config.Config, logger *zap.Logger) *MailgunMailer {
	client := resty.New().
		SetBaseURL(cfg.MailgunBaseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetBasicAuth("api", cfg.MailgunKey)

	return &MailgunMailer{
		httpClient: client,
		domain:     cfg.MailgunDomain,
		from:       cfg.MailFrom,
		logger:     logger,
	}
}

func (m *MailgunMailer) Send(ctx context.Context, to, subject, body string) error {
	resp, err := m.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"from":    m.from,
			"to":      to,
			"subject": subject,
			"text":    body,
		}).
		Post(fmt.Sprintf("/%s/messages", m.domain))
	if err != nil {
		return fmt.Errorf("mailgun request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mailgun returned %d: %s", resp.StatusCode(), resp.String())
	}

	m.logger.Info("email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
