// Package mailer sends transactional email through an HTTP mail webhook.
package mailer

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Message is the payload accepted by the mail webhook
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type Client struct {
	httpClient  *resty.Client
	sender      string
	redirectURL string
	logger      *zap.Logger
}

func NewClient(baseURL, sender, redirectURL string, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient:  client,
		sender:      sender,
		redirectURL: redirectURL,
		logger:      logger,
	}
}

// Send posts msg to the webhook
func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = c.sender
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(msg).
		Post("/send")
	if err != nil {
		c.logger.Error("mail webhook call failed", zap.Error(err), zap.String("to", msg.To))
		return fmt.Errorf("failed to send mail: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("mail webhook rejected message",
			zap.Int("status", resp.StatusCode()),
			zap.String("to", msg.To),
		)
		return fmt.Errorf("mail webhook returned status %d", resp.StatusCode())
	}
	return nil
}

// SendPasswordReset mails a reset link carrying token to the given address
func (c *Client) SendPasswordReset(ctx context.Context, to, token string) error {
	link := c.redirectURL + "?token=" + url.QueryEscape(token)
	return c.Send(ctx, Message{
		To:      to,
		Subject: "Reset your password",
		Text:    "Use the link below to choose a new password. It expires soon.\n\n" + link,
	})
}
