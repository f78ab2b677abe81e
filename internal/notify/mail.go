package notify

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"

	"github.com/campanha-inteligente/ideas-wall/internal/config"
)

// Message — HTML-письмо.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer отправляет письма.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer — отправка через SMTP relay с PLAIN-аутентификацией (STARTTLS, если сервер умеет).
type SMTPMailer struct {
	addr     string
	user     string
	password string
	from     mail.Address
	now      func() time.Time
}

// NewSMTPMailer создаёт отправителя; адрес отправителя — smtp.user.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		addr:     cfg.Addr(),
		user:     cfg.User,
		password: cfg.Password,
		from:     mail.Address{Name: cfg.SenderName, Address: cfg.User},
		now:      time.Now,
	}
}

// Send отправляет msg. go-smtp не принимает контекст: отмена проверяется до отправки.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	const op = "notify/SMTPMailer/Send"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	body, err := m.build(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	auth := sasl.NewPlainClient("", m.user, m.password)
	if err := smtp.SendMail(m.addr, auth, m.from.Address, msg.To, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// build собирает RFC 5322 сообщение: text/html, UTF-8, quoted-printable.
func (m *SMTPMailer) build(msg Message) ([]byte, error) {
	var buf bytes.Buffer

	host := "localhost"
	if _, domain, ok := strings.Cut(m.from.Address, "@"); ok && domain != "" {
		host = domain
	}

	header := func(k, v string) {
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(v)
		buf.WriteString("\r\n")
	}

	header("From", m.from.String())
	header("To", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		header("Reply-To", msg.ReplyTo)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", m.now().Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), host))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(msg.HTML)); err != nil {
		return nil, err
	}

	if err := qp.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
