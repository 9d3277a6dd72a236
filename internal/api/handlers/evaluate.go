package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/olegische/normcore/internal/domain"
	"github.com/olegische/normcore/internal/service"
)

// maxRequestBody bounds evaluation payloads (conversations with large tool
// results fit comfortably under this).
const maxRequestBody = 4 << 20

type EvaluateHandler struct {
	evaluator *service.Evaluator
	store     domain.JudgmentStore
	logger    *zap.Logger
}

// NewEvaluateHandler wires the evaluator and an optional judgment audit
// store. A nil store disables persistence.
func NewEvaluateHandler(evaluator *service.Evaluator, store domain.JudgmentStore, logger *zap.Logger) *EvaluateHandler {
	return &EvaluateHandler{evaluator: evaluator, store: store, logger: logger}
}

func (h *EvaluateHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	judgment, err := h.evaluator.EvaluateJSON(payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingInput),
			errors.Is(err, service.ErrInvalidConversation),
			errors.Is(err, service.ErrLastMessageNotAssistant),
			errors.Is(err, service.ErrContentNotText),
			errors.Is(err, service.ErrAgentOutputMismatch),
			errors.Is(err, service.ErrInvalidJSON),
			errors.Is(err, service.ErrInvalidMessage):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "evaluation failed")
		}
		return
	}

	h.persist(r, judgment)
	writeJSON(w, http.StatusOK, judgment)
}

// persist records the judgment for audit. Failures are logged, never
// surfaced: the judgment itself is the product, the audit trail is not.
func (h *EvaluateHandler) persist(r *http.Request, judgment *domain.AdmissibilityJudgment) {
	if h.store == nil {
		return
	}
	payload, err := json.Marshal(judgment)
	if err != nil {
		h.logger.Warn("failed to marshal judgment for audit", zap.Error(err))
		return
	}
	record := &domain.JudgmentRecord{
		Status:          judgment.Status,
		Licensed:        judgment.Licensed,
		CanRetry:        judgment.CanRetry,
		NumStatements:   judgment.NumStatements,
		NumAcceptable:   judgment.NumAcceptable,
		GroundsAccepted: judgment.GroundsAccepted,
		GroundsCited:    judgment.GroundsCited,
		Explanation:     judgment.Explanation,
		Payload:         payload,
	}
	if err := h.store.Create(r.Context(), record); err != nil {
		h.logger.Warn("failed to persist judgment", zap.Error(err))
	}
}
