package delivery

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/wneessen/go-mail"

	"github.com/sells-group/trip-claim/internal/config"
)

// Message is one outgoing email.
type Message struct {
	From        string
	To          []string
	Subject     string
	Body        string
	Attachments []string
}

// EmailSender delivers a message.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail through an SMTP relay.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	ssl      bool
}

// NewSMTPSender creates a sender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		ssl:      cfg.SMTPSSL,
	}
}

// Send dials the relay and delivers msg.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.host, s.clientOptions()...)
	if err != nil {
		return eris.Wrap(err, "email: create smtp client")
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return eris.Wrapf(err, "email: send via %s", s.host)
	}
	return nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{mail.WithTLSPolicy(mail.TLSMandatory)}
	if s.port > 0 {
		opts = append(opts, mail.WithPort(s.port))
	}
	if s.ssl {
		opts = append(opts, mail.WithSSL())
	}
	if s.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.username),
			mail.WithPassword(s.password),
		)
	}
	return opts
}

func buildMsg(msg Message) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, eris.New("email: no recipients")
	}

	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, eris.Wrapf(err, "email: sender %q", msg.From)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, eris.Wrap(err, "email: recipients")
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	for _, path := range msg.Attachments {
		m.AttachFile(path)
	}
	return m, nil
}
