package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campanha-inteligente/ideas-wall/internal/auth"
	apierrors "github.com/campanha-inteligente/ideas-wall/internal/http/errors"
	"github.com/campanha-inteligente/ideas-wall/internal/service"
)

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	var in AddCommentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	idea, comment, err := h.Ideas.AddComment(r.Context(), chi.URLParam(r, "id"), service.AddCommentInput{
		Author:     auth.IdentityFrom(r.Context()),
		AuthorName: in.AuthorName,
		Body:       in.Text,
		ParentID:   in.ParentID,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	v := h.view(r)
	writeJSON(w, http.StatusCreated, AddCommentResponse{
		Idea:    v.idea(*idea),
		Comment: v.comment(*comment),
	})
}

// RemoveComment — DELETE /ideas/{id}/comments/{comment_id}: вместе с ответами.
func (h *Handlers) RemoveComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.ParseInt(chi.URLParam(r, "comment_id"), 10, 64)
	if err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	idea, err := h.Ideas.RemoveComment(r.Context(), chi.URLParam(r, "id"), commentID, auth.IdentityFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.view(r).idea(*idea))
}
