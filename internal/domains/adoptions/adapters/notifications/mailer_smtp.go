package notifications

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

// SMTPConfig holds the relay settings for SMTPMailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPMailer sends HTML mail through an SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("mail sender address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTPMailer{cfg: cfg}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg ports.EmailMessage) error {
	message := mail.NewMsg()
	if err := message.From(m.cfg.From); err != nil {
		return errors.Wrap(err, "invalid sender address")
	}
	if err := message.To(msg.To); err != nil {
		return errors.Wrapf(err, "invalid recipient address %q", msg.To)
	}
	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTimeout(m.cfg.Timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return errors.Wrap(err, "create smtp client")
	}
	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return errors.Wrap(err, "smtp send")
	}
	return nil
}

var _ ports.Mailer = (*SMTPMailer)(nil)
