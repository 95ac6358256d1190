package user

import (
	"net/http"

	"travel-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.Decode[RegisterRequest](r)
	if err != nil {
		return err
	}
	res, err := h.svc.Register(r.Context(), body)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, res, http.StatusCreated)
	return nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.Decode[LoginRequest](r)
	if err != nil {
		return err
	}
	res, err := h.svc.Login(r.Context(), body)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, res, http.StatusOK)
	return nil
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	u, err := h.svc.Get(r.Context(), id.UserID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, u, http.StatusOK)
	return nil
}
