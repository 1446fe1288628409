package http

import (
	"net/http"

	"go.uber.org/zap"

	"fipe-web/domain"
	"fipe-web/repository"
)

type HistoryHandler struct {
	repo   repository.HistoryRepository
	render *Renderer
	log    *zap.Logger
}

func NewHistoryHandler(repo repository.HistoryRepository, render *Renderer, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{repo: repo, render: render, log: log}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.List(r.Context())
	if err != nil {
		h.log.Error("listing history", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.render.Render(w, http.StatusOK, "history.html", struct {
		Entries []domain.HistoryEntry
	}{entries})
}
