package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers multipart/alternative messages over SMTP, upgrading
// to STARTTLS when the server offers it.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	email, err := newMsg(m.cfg.From, msg)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
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
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, email); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// newMsg builds a text body with an HTML alternative. Parts are
// quoted-printable so long rendered lines are folded.
func newMsg(from string, msg Message) (*mail.Msg, error) {
	email := mail.NewMsg(mail.WithEncoding(mail.EncodingQP), mail.WithCharset(mail.CharsetUTF8))
	if err := email.From(from); err != nil {
		return nil, fmt.Errorf("mail from: %w", err)
	}
	if err := email.To(msg.To); err != nil {
		return nil, fmt.Errorf("mail to: %w", err)
	}
	email.Subject(msg.Subject)
	email.SetDate()
	email.SetBodyString(mail.TypeTextPlain, msg.Text)
	email.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	return email, nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("email (not sent)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}
