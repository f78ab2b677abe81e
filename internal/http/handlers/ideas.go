package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campanha-inteligente/ideas-wall/internal/auth"
	apierrors "github.com/campanha-inteligente/ideas-wall/internal/http/errors"
	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/service"
)

func (h *Handlers) view(r *http.Request) view {
	return view{viewer: auth.IdentityFrom(r.Context()), now: h.now()}
}

// ListIdeas — GET /ideas?page=&page_size=&filter=all|mine|commented.
func (h *Handlers) ListIdeas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := service.ListIdeasInput{
		Filter: models.Filter(q.Get("filter")),
		Viewer: auth.IdentityFrom(r.Context()),
	}

	for name, dst := range map[string]*int{"page": &in.Page, "page_size": &in.PageSize} {
		v := q.Get(name)
		if v == "" {
			continue
		}

		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			apierrors.WriteError(w, r, apierrors.ErrBadRequest)
			return
		}

		*dst = n
	}

	page, err := h.Ideas.ListIdeas(r.Context(), in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.view(r).page(*page))
}

func (h *Handlers) CreateIdea(w http.ResponseWriter, r *http.Request) {
	var in CreateIdeaRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	idea, err := h.Ideas.CreateIdea(r.Context(), auth.IdentityFrom(r.Context()), service.CreateIdeaInput{
		Location: in.City,
		Body:     in.Idea,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.view(r).idea(*idea))
}

func (h *Handlers) GetIdea(w http.ResponseWriter, r *http.Request) {
	idea, err := h.Ideas.IdeaByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.view(r).idea(*idea))
}

func (h *Handlers) RemoveIdea(w http.ResponseWriter, r *http.Request) {
	err := h.Ideas.RemoveIdea(r.Context(), chi.URLParam(r, "id"), auth.IdentityFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike — POST /ideas/{id}/like: лайк, если его не было, иначе снятие.
func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	idea, err := h.Ideas.ToggleLike(r.Context(), chi.URLParam(r, "id"), auth.IdentityFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.view(r).idea(*idea))
}
