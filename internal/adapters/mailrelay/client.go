package mailrelay

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	"github.com/go-resty/resty/v2"
)

const (
	sendPath       = "/v1/messages"
	inlineImageCID = "coupon-qr"
)

// Attachment is an inline or attached file of a relay message.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"` // base64
	Inline      bool   `json:"inline"`
	ContentID   string `json:"cid,omitempty"`
}

// Message is the JSON body accepted by the mail relay.
type Message struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Client posts notifications to an HTTP mail relay.
type Client struct {
	http *resty.Client
	from string
}

var _ portssvc.Notifier = (*Client)(nil)

// NewClient creates a relay client. token, when set, is sent as a bearer token.
func NewClient(baseURL, token, from string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{http: c, from: from}
}

// Notify sends one message. Any non-2xx response is an error.
func (c *Client) Notify(ctx context.Context, n domain.Notification) error {
	msg := Message{
		From:    c.from,
		To:      n.To,
		Subject: n.Subject,
		Text:    n.Body,
	}
	if len(n.InlineImage) > 0 {
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    "coupon.png",
			ContentType: "image/png",
			Content:     base64.StdEncoding.EncodeToString(n.InlineImage),
			Inline:      true,
			ContentID:   inlineImageCID,
		})
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(msg).
		Post(sendPath)
	if err != nil {
		return fmt.Errorf("mail relay request: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		return nil
	default:
		return fmt.Errorf("mail relay status: %d", resp.StatusCode())
	}
}

// LogNotifier only logs notifications. It stands in when no relay is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

var _ portssvc.Notifier = (*LogNotifier)(nil)

func (l *LogNotifier) Notify(_ context.Context, n domain.Notification) error {
	l.Logger.Info("Notification (relay disabled)",
		slog.String("to", n.To),
		slog.String("subject", n.Subject),
		slog.Bool("has_image", len(n.InlineImage) > 0),
	)
	return nil
}
