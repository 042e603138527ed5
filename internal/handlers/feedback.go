package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitFeedbackRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	fb, err := h.feedback.SubmitFeedback(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err, "Feedback")
		return
	}
	h.jsonResponse(w, http.StatusCreated, fb)
}

func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	items, err := h.feedback.ListFeedback(r.Context(), queryBool(r, "all"))
	if err != nil {
		h.serviceError(w, r, err, "Feedback")
		return
	}
	h.jsonResponse(w, http.StatusOK, items)
}

func (h *Handler) ResolveFeedback(w http.ResponseWriter, r *http.Request) {
	if err := h.feedback.ResolveFeedback(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, r, err, "Feedback")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
