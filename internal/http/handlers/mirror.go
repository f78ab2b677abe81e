package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apierrors "github.com/campanha-inteligente/ideas-wall/internal/http/errors"
	"github.com/campanha-inteligente/ideas-wall/internal/mirror"
	logctx "github.com/campanha-inteligente/ideas-wall/internal/pkg/log"
	"github.com/campanha-inteligente/ideas-wall/internal/sheets"
)

// MirrorIdea — POST /mirror/ideas: upsert строки идеи в таблице.
// Неизвестные поля допускаются: эндпоинт принимает снимки от разных клиентов.
func (h *Handlers) MirrorIdea(w http.ResponseWriter, r *http.Request) {
	if h.Rows == nil {
		apierrors.WriteError(w, r, apierrors.ErrUnavailable)
		return
	}

	var in mirror.Payload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierrors.WriteError(w, r, fmt.Errorf("%w: %v", apierrors.ErrBadRequest, err))
		return
	}

	in.IdeaID = strings.TrimSpace(in.IdeaID)
	if in.IdeaID == "" {
		apierrors.WriteError(w, r, fmt.Errorf("%w: ideaId is required", apierrors.ErrBadRequest))
		return
	}

	err := h.Rows.UpsertIdea(r.Context(), sheets.IdeaRow{
		IdeaID:   in.IdeaID,
		Author:   in.Author,
		Email:    in.Email,
		City:     in.City,
		Idea:     in.Idea,
		Likes:    in.Likes,
		Comments: in.Tree(),
	})
	if err != nil {
		logctx.From(r.Context()).Error("mirror upsert failed", "idea_id", in.IdeaID, "err", err)
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mirror.Result{Success: true})
}
