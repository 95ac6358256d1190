package profile

import (
	"net/http"

	"travel-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	v, err := h.svc.Get(r.Context(), r.PathValue("userId"))
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, v, http.StatusOK)
	return nil
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	body, err := httpx.Decode[UpdateRequest](r)
	if err != nil {
		return err
	}
	res, err := h.svc.Update(r.Context(), id.UserID, body)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, res, http.StatusOK)
	return nil
}

// RefreshStats answers PUT /profiles/stats. Stats are always computed on
// read, so this returns the caller's current profile and ignores the body.
func (h *Handler) RefreshStats(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	v, err := h.svc.Get(r.Context(), id.UserID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, v, http.StatusOK)
	return nil
}
