package notification

import (
	"net/http"

	"travel-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	res, err := h.svc.List(r.Context(), id.UserID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, res, http.StatusOK)
	return nil
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	if err := h.svc.MarkRead(r.Context(), r.PathValue("notificationId"), id.UserID); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"message": "notification marked as read"}, http.StatusOK)
	return nil
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	n, err := h.svc.MarkAllRead(r.Context(), id.UserID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"message": "all notifications marked as read", "updated": n}, http.StatusOK)
	return nil
}
