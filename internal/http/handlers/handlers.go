package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/campanha-inteligente/ideas-wall/internal/auth"
	apierrors "github.com/campanha-inteligente/ideas-wall/internal/http/errors"
	"github.com/campanha-inteligente/ideas-wall/internal/notify"
	"github.com/campanha-inteligente/ideas-wall/internal/service"
	"github.com/campanha-inteligente/ideas-wall/internal/sheets"
)

// RowWriter — запись строки зеркала идеи (Google Sheets).
type RowWriter interface {
	UpsertIdea(ctx context.Context, row sheets.IdeaRow) error
}

// SignupSubmitter — обработка заявки с формы кампании.
type SignupSubmitter interface {
	Submit(ctx context.Context, s notify.Signup) error
}

// Handlers агрегирует зависимости HTTP-слоя.
// Auth, Rows и Signups могут быть nil: соответствующие маршруты отвечают 503.
type Handlers struct {
	Ideas   *service.Service
	Auth    *auth.Authenticator
	Rows    RowWriter
	Signups SignupSubmitter

	// FrontendURL — куда вернуть браузер после входа (токен во фрагменте).
	// Пусто -> callback отвечает JSON.
	FrontendURL string

	now func() time.Time
}

// New создаёт Handlers.
func New(ideas *service.Service, authn *auth.Authenticator, rows RowWriter, signups SignupSubmitter, frontendURL string) *Handlers {
	return &Handlers{
		Ideas:       ideas,
		Auth:        authn,
		Rows:        rows,
		Signups:     signups,
		FrontendURL: frontendURL,
		now:         time.Now,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("%w: %v", apierrors.ErrBadRequest, err)
	}

	return nil
}
