package mailer

import (
	"context"
	"fmt"

	"github.com/princinho/sahomattress/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Transport delivers a single message. Implementations make one attempt and
// do not retry.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPTransport struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

func NewSMTPTransport(cfg config.SMTP, log *zap.Logger) *SMTPTransport {
	return &SMTPTransport{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.Sender(),
		log:    log,
	}
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", t.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if err := t.dialer.DialAndSend(m); err != nil {
		t.log.Error("smtp send failed", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	t.log.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
