package guide

import (
	"net/http"

	"travel-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	body, err := httpx.Decode[CreateRequest](r)
	if err != nil {
		return err
	}
	v, err := h.svc.Create(r.Context(), id.UserID, body)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, v, http.StatusCreated)
	return nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	limit, offset := httpx.Page(r)
	vs, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, vs, http.StatusOK)
	return nil
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) error {
	limit, offset := httpx.Page(r)
	vs, err := h.svc.ListByUser(r.Context(), r.PathValue("userId"), limit, offset)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, vs, http.StatusOK)
	return nil
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	v, err := h.svc.ToggleLike(r.Context(), r.PathValue("guideId"), id.UserID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, v, http.StatusOK)
	return nil
}

func (h *Handler) Dislike(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	v, err := h.svc.ToggleDislike(r.Context(), r.PathValue("guideId"), id.UserID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, v, http.StatusOK)
	return nil
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	guideID := r.PathValue("guideId")
	if err := h.svc.Delete(r.Context(), guideID, id.UserID); err != nil {
		return err
	}
	httpx.WriteJSON(w, DeleteResponse{Message: "Guide deleted successfully", DeletedGuideID: guideID}, http.StatusOK)
	return nil
}
