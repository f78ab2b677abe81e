// Package notify принимает заявки с формы кампании:
// строка в таблицу Emails и два письма (администратору и подтверждение участнику).
package notify

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/campanha-inteligente/ideas-wall/internal/pkg/log"
	"github.com/campanha-inteligente/ideas-wall/internal/pkg/redact"
	"github.com/campanha-inteligente/ideas-wall/internal/sheets"
	"github.com/campanha-inteligente/ideas-wall/internal/validate"
)

// ErrInvalidArgument — заявка не прошла валидацию; поля в *validate.Error.
var ErrInvalidArgument = errors.New("invalid argument")

const confirmationSubject = "Confirmação de inscrição na campanha"

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Signup — тело POST /signup.
type Signup struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	City    string `json:"city" validate:"required,max=120"`
	Message string `json:"message" validate:"max=4000"`
}

// Recorder — куда пишется заявка (лист Emails).
type Recorder interface {
	AppendSignup(ctx context.Context, s sheets.Signup) error
}

// Notifier обрабатывает заявки. recorder и mailer могут быть nil — шаг пропускается.
type Notifier struct {
	recorder  Recorder
	mailer    Mailer
	adminTo   string
	validator *validate.Validator
}

// New создаёт Notifier; adminTo — адрес администратора кампании.
func New(recorder Recorder, mailer Mailer, adminTo string) *Notifier {
	return &Notifier{
		recorder:  recorder,
		mailer:    mailer,
		adminTo:   adminTo,
		validator: validate.MustNew(),
	}
}

// Submit валидирует заявку, записывает её и отправляет письма.
// Порядок как на сайте: сначала таблица, затем письмо администратору, затем подтверждение.
// Ошибка любого шага прерывает обработку.
func (n *Notifier) Submit(ctx context.Context, s Signup) error {
	const op = "notify/Notifier/Submit"

	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.City = strings.TrimSpace(s.City)
	s.Message = strings.TrimSpace(s.Message)

	lg := log.From(ctx).With("op", op, "email", redact.Email(s.Email))

	if err := n.validator.Struct(s); err != nil {
		lg.Warn("invalid signup", "err", err)
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	if n.recorder != nil {
		if err := n.recorder.AppendSignup(ctx, sheets.Signup{
			Name: s.Name, Email: s.Email, City: s.City, Message: s.Message,
		}); err != nil {
			lg.Error("append signup failed", "err", err)
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if n.mailer == nil {
		lg.Info("signup recorded, mail disabled")
		return nil
	}

	adminHTML, err := render("admin.html", s)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	confirmHTML, err := render("confirmation.html", s)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n.adminTo != "" {
		if err := n.mailer.Send(ctx, Message{
			To:      []string{n.adminTo},
			ReplyTo: s.Email,
			Subject: "Nova inscrição de " + s.Name,
			HTML:    adminHTML,
		}); err != nil {
			lg.Error("admin mail failed", "err", err)
			return fmt.Errorf("%s: admin mail: %w", op, err)
		}
	}

	if err := n.mailer.Send(ctx, Message{
		To:      []string{s.Email},
		Subject: confirmationSubject,
		HTML:    confirmHTML,
	}); err != nil {
		lg.Error("confirmation mail failed", "err", err)
		return fmt.Errorf("%s: confirmation mail: %w", op, err)
	}

	lg.Info("signup processed")

	return nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}

	return buf.String(), nil
}
