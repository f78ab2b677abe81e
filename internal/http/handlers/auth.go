package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/campanha-inteligente/ideas-wall/internal/auth"
	apierrors "github.com/campanha-inteligente/ideas-wall/internal/http/errors"
	"github.com/campanha-inteligente/ideas-wall/internal/service"
)

// GoogleLogin — GET /auth/google/login: редирект на страницу входа провайдера.
func (h *Handlers) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.Auth == nil {
		apierrors.WriteError(w, r, apierrors.ErrUnavailable)
		return
	}

	loginURL, err := h.Auth.Begin(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	http.Redirect(w, r, loginURL, http.StatusFound)
}

// GoogleCallback — GET /auth/google/callback?state=&code=.
// С FrontendURL браузер уходит на фронтенд с токеном во фрагменте, иначе ответ JSON.
func (h *Handlers) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.Auth == nil {
		apierrors.WriteError(w, r, apierrors.ErrUnavailable)
		return
	}

	q := r.URL.Query()

	// Пользователь закрыл/отклонил вход.
	if e := q.Get("error"); e != "" {
		apierrors.WriteError(w, r, fmt.Errorf("%w: %s", service.ErrUnauthenticated, e))
		return
	}

	sess, err := h.Auth.Complete(r.Context(), q.Get("state"), q.Get("code"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if h.FrontendURL != "" {
		frag := url.Values{}
		frag.Set("token", sess.Token)
		frag.Set("expires_at", sess.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"))

		http.Redirect(w, r, h.FrontendURL+"#"+frag.Encode(), http.StatusFound)
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      userFrom(sess.Identity),
	})
}

// Me — GET /auth/me: текущий пользователь или 401.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())
	if id == nil {
		apierrors.WriteError(w, r, service.ErrUnauthenticated)
		return
	}

	writeJSON(w, http.StatusOK, userFrom(*id))
}
