package handlers

import (
	"net/http"

	apierrors "github.com/campanha-inteligente/ideas-wall/internal/http/errors"
	"github.com/campanha-inteligente/ideas-wall/internal/notify"
)

// Signup — POST /signup {name,email,city,message}.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	if h.Signups == nil {
		apierrors.WriteError(w, r, apierrors.ErrUnavailable)
		return
	}

	var in notify.Signup
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Signups.Submit(r.Context(), in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
