package handlers

import (
	"net/http"
	"strconv"

	"github.com/olegische/normcore/internal/domain"
)

const (
	defaultJudgmentLimit = 20
	maxJudgmentLimit     = 100
)

type JudgmentHandler struct {
	store domain.JudgmentStore
}

func NewJudgmentHandler(store domain.JudgmentStore) *JudgmentHandler {
	return &JudgmentHandler{store: store}
}

// ListRecent returns the most recent judgment records,
// newest first. The limit query parameter is clamped to a sane range.
func (h *JudgmentHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "judgment audit is not enabled")
		return
	}

	limit := defaultJudgmentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	if limit > maxJudgmentLimit {
		limit = maxJudgmentLimit
	}

	records, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list judgments")
		return
	}
	if records == nil {
		records = []domain.JudgmentRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"judgments": records})
}
