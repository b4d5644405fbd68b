package channel

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// PostmarkConfig holds the Postmark provider credentials and sender
// identity, loaded from the environment.
type PostmarkConfig struct {
	ServerToken  string `env:"POSTMARK_SERVER_TOKEN,required"`
	AccountToken string `env:"POSTMARK_ACCOUNT_TOKEN,required"`
	FromEmail    string `env:"NOTIFIER_FROM_EMAIL,required"`
	ReplyTo      string `env:"NOTIFIER_REPLY_TO_EMAIL"`
}

type postmarkSender struct {
	client    *postmark.Client
	fromEmail string
	replyTo   string
}

// NewPostmarkSender creates an EmailSender backed by the Postmark API.
func NewPostmarkSender(cfg PostmarkConfig) (EmailSender, error) {
	if cfg.ServerToken == "" || cfg.AccountToken == "" || cfg.FromEmail == "" {
		return nil, ErrInvalidEmailConfig
	}
	return &postmarkSender{
		client:    postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		fromEmail: cfg.FromEmail,
		replyTo:   cfg.ReplyTo,
	}, nil
}

// MustNewPostmarkSender is like NewPostmarkSender but panics on error.
func MustNewPostmarkSender(cfg PostmarkConfig) EmailSender {
	sender, err := NewPostmarkSender(cfg)
	if err != nil {
		panic(err)
	}
	return sender
}

func (s *postmarkSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	email := postmark.Email{
		From:       s.fromEmail,
		ReplyTo:    s.replyTo,
		To:         params.To,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	}

	resp, err := s.client.SendEmail(ctx, email)
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrSendFailed, fmt.Errorf("postmark error %d: %s", resp.ErrorCode, resp.Message))
	}

	return nil
}
